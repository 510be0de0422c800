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

const (
	defaultWindowSize    = 2 * 1024 * 1024
	defaultMaxPacketSize = 32 * 1024
)

// Channel is one multiplexed stream over the connection. Like the
// client it is single-threaded: Read and Write pump the transport on
// the caller's goroutine, handling window bookkeeping inline.
type Channel struct {
	client *Client

	localID  uint32
	remoteID uint32

	// Flow control per RFC 4254 §5.2.
	localWindow     uint32 // bytes the peer may still send us
	remoteWindow    uint32 // bytes we may still send the peer
	remoteMaxPacket uint32

	readBuf []byte
	eof     bool
	closed  bool
}

// OpenSession opens a "session" channel.
func (c *Client) OpenSession() (*Channel, error) {
	if c.state != StateAuthenticated && c.state != StateChannelOpen {
		return nil, fmt.Errorf("%w: state %s", ErrBadState, c.state)
	}
	c.deadline()

	id := c.nextChannelID
	c.nextChannelID++

	var w sshwire.Writer
	w.WriteUint8(msgChannelOpen)
	w.WriteString([]byte("session"))
	w.WriteUint32(id)
	w.WriteUint32(defaultWindowSize)
	w.WriteUint32(defaultMaxPacketSize)
	if err := c.t.writePacket(w.Bytes()); err != nil {
		return nil, err
	}

	p, err := c.t.readPacket()
	if err != nil {
		return nil, err
	}
	r := sshwire.NewReader(p[1:])
	switch p[0] {
	case msgChannelOpenConfirm:
		if _, err := r.ReadUint32(); err != nil { // recipient (our) id
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		remoteID, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		window, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		maxPacket, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		ch := &Channel{
			client:          c,
			localID:         id,
			remoteID:        remoteID,
			localWindow:     defaultWindowSize,
			remoteWindow:    window,
			remoteMaxPacket: maxPacket,
		}
		c.channels[id] = ch
		c.state = StateChannelOpen
		return ch, nil

	case msgChannelOpenFailure:
		r.ReadUint32() // recipient id
		code, _ := r.ReadUint32()
		desc, _ := r.ReadString()
		return nil, fmt.Errorf("%w: code %d: %s", ErrChannelOpenRejected, code, desc)
	}
	return nil, fmt.Errorf("%w: unexpected reply %d to channel open", ErrProtocol, p[0])
}

// request sends a channel request and, when wantReply, waits for
// SUCCESS/FAILURE.
func (ch *Channel) request(name string, wantReply bool, extra func(*sshwire.Writer)) error {
	if ch.closed {
		return ErrChannelClosed
	}
	ch.client.deadline()
	var w sshwire.Writer
	w.WriteUint8(msgChannelRequest)
	w.WriteUint32(ch.remoteID)
	w.WriteString([]byte(name))
	w.WriteBool(wantReply)
	if extra != nil {
		extra(&w)
	}
	if err := ch.client.t.writePacket(w.Bytes()); err != nil {
		return err
	}
	if !wantReply {
		return nil
	}
	for {
		p, err := ch.client.t.readPacket()
		if err != nil {
			return err
		}
		switch p[0] {
		case msgChannelSuccess:
			return nil
		case msgChannelFailure:
			return fmt.Errorf("%w: %s", ErrRequestDenied, name)
		default:
			if err := ch.handleAsync(p); err != nil {
				return err
			}
		}
	}
}

// Exec starts a command on the remote side.
func (ch *Channel) Exec(command string) error {
	return ch.request("exec", true, func(w *sshwire.Writer) {
		w.WriteString([]byte(command))
	})
}

// Subsystem starts a named subsystem, e.g. "sftp".
func (ch *Channel) Subsystem(name string) error {
	return ch.request("subsystem", true, func(w *sshwire.Writer) {
		w.WriteString([]byte(name))
	})
}

// Shell starts the user's default shell.
func (ch *Channel) Shell() error {
	return ch.request("shell", true, nil)
}

// Write sends data, splitting at the peer's maximum packet size and
// blocking on window adjustments when the remote window runs dry.
func (ch *Channel) Write(data []byte) (int, error) {
	if ch.closed {
		return 0, ErrChannelClosed
	}
	ch.client.deadline()
	written := 0
	for len(data) > 0 {
		for ch.remoteWindow == 0 {
			p, err := ch.client.t.readPacket()
			if err != nil {
				return written, err
			}
			if err := ch.handleAsync(p); err != nil {
				return written, err
			}
			if ch.closed {
				return written, ErrChannelClosed
			}
		}

		n := len(data)
		if uint32(n) > ch.remoteWindow {
			n = int(ch.remoteWindow)
		}
		if mp := int(ch.remoteMaxPacket); mp > 0 && n > mp {
			n = mp
		}

		var w sshwire.Writer
		w.WriteUint8(msgChannelData)
		w.WriteUint32(ch.remoteID)
		w.WriteString(data[:n])
		if err := ch.client.t.writePacket(w.Bytes()); err != nil {
			return written, err
		}
		ch.remoteWindow -= uint32(n)
		data = data[n:]
		written += n
	}
	return written, nil
}

// Read returns buffered channel data, pumping the transport until data
// arrives. At stream end it reports 0, io.EOF semantics via eof flag.
func (ch *Channel) Read(buf []byte) (int, error) {
	for len(ch.readBuf) == 0 {
		if ch.eof || ch.closed {
			return 0, ErrChannelClosed
		}
		ch.client.deadline()
		p, err := ch.client.t.readPacket()
		if err != nil {
			return 0, err
		}
		if err := ch.handleAsync(p); err != nil {
			return 0, err
		}
	}
	n := copy(buf, ch.readBuf)
	ch.readBuf = ch.readBuf[n:]
	ch.consumeWindow(uint32(n))
	return n, nil
}

// consumeWindow tracks inbound flow control, topping the local window
// back up once half is consumed.
func (ch *Channel) consumeWindow(n uint32) {
	if ch.localWindow < n {
		ch.localWindow = 0
	} else {
		ch.localWindow -= n
	}
	if ch.localWindow < defaultWindowSize/2 {
		adjust := defaultWindowSize - ch.localWindow
		var w sshwire.Writer
		w.WriteUint8(msgChannelWindowAdjust)
		w.WriteUint32(ch.remoteID)
		w.WriteUint32(adjust)
		if err := ch.client.t.writePacket(w.Bytes()); err == nil {
			ch.localWindow += adjust
		}
	}
}

// handleAsync processes channel-level messages that can arrive at any
// point: data, window adjustments, EOF and close.
func (ch *Channel) handleAsync(p []byte) error {
	r := sshwire.NewReader(p[1:])
	switch p[0] {
	case msgChannelData:
		if _, err := r.ReadUint32(); err != nil {
			return fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		data, err := r.ReadString()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		ch.readBuf = append(ch.readBuf, data...)
	case msgChannelExtendedData:
		r.ReadUint32() // id
		r.ReadUint32() // data type (stderr)
		data, err := r.ReadString()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		ch.client.cfg.Logger.Debugf("ssh2 session %s: stderr: %s", ch.client.sessionUUID, data)
	case msgChannelWindowAdjust:
		r.ReadUint32() // id
		adjust, err := r.ReadUint32()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		ch.remoteWindow += adjust
	case msgChannelEOF:
		ch.eof = true
	case msgChannelClose:
		ch.closed = true
	case msgChannelRequest:
		// Exit-status and friends; acknowledged implicitly (wantReply
		// is false for the requests servers send here).
	case msgGlobalRequest:
		// Keepalives; refuse like OpenSSH clients do.
		var w sshwire.Writer
		w.WriteUint8(msgRequestFailure)
		return ch.client.t.writePacket(w.Bytes())
	default:
		return fmt.Errorf("%w: unexpected message %d on channel", ErrProtocol, p[0])
	}
	return nil
}

// Close closes the channel.
func (ch *Channel) Close() error {
	if ch.closed {
		return nil
	}
	ch.closed = true
	delete(ch.client.channels, ch.localID)
	var w sshwire.Writer
	w.WriteUint8(msgChannelClose)
	w.WriteUint32(ch.remoteID)
	return ch.client.t.writePacket(w.Bytes())
}
