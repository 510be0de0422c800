// Copyright (c) 2026 PureCrypt Contributors
//
// This file is part of go-purecrypt.
//
// go-purecrypt is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@purecrypt.io for commercial licensing options.

package ssh2

import "errors"

var (
	// ErrKexFailed is returned when no algorithm overlap exists in a
	// negotiation category or the key exchange itself fails. Fatal: the
	// connection is closed.
	ErrKexFailed = errors.New("ssh2: key exchange failed")

	// ErrAuthFailed is returned when an authentication method is
	// rejected. Recoverable: other methods may still be attempted on the
	// same connection.
	ErrAuthFailed = errors.New("ssh2: authentication failed")

	// ErrBadState is returned when an operation is invoked outside its
	// legal connection state
	ErrBadState = errors.New("ssh2: operation invalid in current state")

	// ErrMACMismatch is returned when an inbound packet fails MAC
	// verification. Fatal: the transport is compromised or corrupted.
	ErrMACMismatch = errors.New("ssh2: packet MAC mismatch")

	// ErrDisconnected is returned when the peer sent SSH_MSG_DISCONNECT
	ErrDisconnected = errors.New("ssh2: peer disconnected")

	// ErrChannelClosed is returned for operations on a closed channel
	ErrChannelClosed = errors.New("ssh2: channel closed")

	// ErrChannelOpenRejected is returned when the server refuses a
	// channel open request
	ErrChannelOpenRejected = errors.New("ssh2: channel open rejected")

	// ErrRequestDenied is returned when the server replies
	// CHANNEL_FAILURE to a channel request
	ErrRequestDenied = errors.New("ssh2: channel request denied")

	// ErrHostKeyRejected is returned when the host key callback refuses
	// the server key
	ErrHostKeyRejected = errors.New("ssh2: host key rejected")

	// ErrProtocol is returned on a malformed or unexpected message
	ErrProtocol = errors.New("ssh2: protocol error")
)
