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

package sftp

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrProtocol           = errors.New("sftp: protocol error")
	ErrUnsupportedVersion = errors.New("sftp: unsupported protocol version")
	ErrClosed             = errors.New("sftp: file closed")
)

// Status codes from draft-ietf-secsh-filexfer-02 §7.
const (
	statusOK               = 0
	statusEOF              = 1
	statusNoSuchFile       = 2
	statusPermissionDenied = 3
	statusFailure          = 4
	statusBadMessage       = 5
	statusNoConnection     = 6
	statusConnectionLost   = 7
	statusOpUnsupported    = 8
)

// StatusError is a non-OK SSH_FXP_STATUS response. It matches
// fs.ErrNotExist and fs.ErrPermission via errors.Is for the
// corresponding status codes.
type StatusError struct {
	Code    uint32
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("sftp: status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("sftp: status %d", e.Code)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case fs.ErrNotExist:
		return e.Code == statusNoSuchFile
	case fs.ErrPermission:
		return e.Code == statusPermissionDenied
	}
	return false
}
