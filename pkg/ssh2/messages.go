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

import (
	"fmt"

	"github.com/purecrypt/go-purecrypt/internal/sshwire"
)

// RFC 4250 message numbers.
const (
	msgDisconnect     = 1
	msgIgnore         = 2
	msgUnimplemented  = 3
	msgDebug          = 4
	msgServiceRequest = 5
	msgServiceAccept  = 6

	msgKexInit = 20
	msgNewKeys = 21

	// Shared by diffie-hellman-group* (KEXDH_*) and curve25519
	// (KEX_ECDH_*) exchanges.
	msgKexDHInit  = 30
	msgKexDHReply = 31

	msgUserauthRequest = 50
	msgUserauthFailure = 51
	msgUserauthSuccess = 52
	msgUserauthBanner  = 53

	// 60/61 are method-specific: PK_OK for publickey,
	// INFO_REQUEST/INFO_RESPONSE for keyboard-interactive.
	msgUserauthPKOK         = 60
	msgUserauthInfoRequest  = 60
	msgUserauthInfoResponse = 61

	msgGlobalRequest  = 80
	msgRequestSuccess = 81
	msgRequestFailure = 82

	msgChannelOpen         = 90
	msgChannelOpenConfirm  = 91
	msgChannelOpenFailure  = 92
	msgChannelWindowAdjust = 93
	msgChannelData         = 94
	msgChannelExtendedData = 95
	msgChannelEOF          = 96
	msgChannelClose        = 97
	msgChannelRequest      = 98
	msgChannelSuccess      = 99
	msgChannelFailure      = 100
)

// kexInitMsg is SSH_MSG_KEXINIT (RFC 4253 §7.1). Name-lists are
// independent per direction; the negotiated algorithm per category is
// the first client name also present in the server list.
type kexInitMsg struct {
	Cookie                  [16]byte
	KexAlgorithms           []string
	ServerHostKeyAlgorithms []string
	CiphersClientServer     []string
	CiphersServerClient     []string
	MACsClientServer        []string
	MACsServerClient        []string
	CompressionClientServer []string
	CompressionServerClient []string
	LanguagesClientServer   []string
	LanguagesServerClient   []string
	FirstKexPacketFollows   bool
}

func (m *kexInitMsg) marshal() []byte {
	var w sshwire.Writer
	w.WriteUint8(msgKexInit)
	w.Raw(m.Cookie[:])
	w.WriteNameList(m.KexAlgorithms)
	w.WriteNameList(m.ServerHostKeyAlgorithms)
	w.WriteNameList(m.CiphersClientServer)
	w.WriteNameList(m.CiphersServerClient)
	w.WriteNameList(m.MACsClientServer)
	w.WriteNameList(m.MACsServerClient)
	w.WriteNameList(m.CompressionClientServer)
	w.WriteNameList(m.CompressionServerClient)
	w.WriteNameList(m.LanguagesClientServer)
	w.WriteNameList(m.LanguagesServerClient)
	w.WriteBool(m.FirstKexPacketFollows)
	w.WriteUint32(0) // reserved
	return w.Bytes()
}

func parseKexInit(payload []byte) (*kexInitMsg, error) {
	r := sshwire.NewReader(payload)
	if b, err := r.ReadByte(); err != nil || b != msgKexInit {
		return nil, fmt.Errorf("%w: expected KEXINIT", ErrProtocol)
	}
	var m kexInitMsg
	cookie := make([]byte, 16)
	for i := range cookie {
		b, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: short KEXINIT", ErrProtocol)
		}
		cookie[i] = b
	}
	copy(m.Cookie[:], cookie)

	lists := []*[]string{
		&m.KexAlgorithms, &m.ServerHostKeyAlgorithms,
		&m.CiphersClientServer, &m.CiphersServerClient,
		&m.MACsClientServer, &m.MACsServerClient,
		&m.CompressionClientServer, &m.CompressionServerClient,
		&m.LanguagesClientServer, &m.LanguagesServerClient,
	}
	for _, dst := range lists {
		l, err := r.ReadNameList()
		if err != nil {
			return nil, fmt.Errorf("%w: short KEXINIT", ErrProtocol)
		}
		*dst = l
	}
	follows, err := r.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("%w: short KEXINIT", ErrProtocol)
	}
	m.FirstKexPacketFollows = follows
	return &m, nil
}

// disconnectMsg is SSH_MSG_DISCONNECT. It doubles as the error surfaced
// to callers when the peer tears the connection down.
type disconnectMsg struct {
	Reason  uint32
	Message string
}

func (d *disconnectMsg) Error() string {
	return fmt.Sprintf("ssh2: disconnect reason %d: %s", d.Reason, d.Message)
}

func parseDisconnect(payload []byte) *disconnectMsg {
	r := sshwire.NewReader(payload)
	r.ReadByte() // message number, already known
	var d disconnectMsg
	if reason, err := r.ReadUint32(); err == nil {
		d.Reason = reason
	}
	if msg, err := r.ReadString(); err == nil {
		d.Message = string(msg)
	}
	return &d
}
