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

// Package sftp implements an SFTP version 3 client over an SSH2
// subsystem channel. Requests carry monotonically increasing IDs and
// may be pipelined; responses are correlated back to their request by
// ID, never by arrival order. Like the ssh2 client it is
// single-threaded: one goroutine drives one client.
package sftp

import (
	"fmt"
	"io"

	"github.com/purecrypt/go-purecrypt/internal/sshwire"
	"github.com/purecrypt/go-purecrypt/pkg/logging"
)

const (
	protocolVersion = 3

	// maxMessageSize bounds a single inbound SFTP message.
	maxMessageSize = 256 * 1024

	defaultMaxPacket   = 32 * 1024
	defaultMaxInflight = 16
)

// Config controls transfer chunking and pipelining depth. Zero values
// select the defaults.
type Config struct {
	// MaxPacket is the payload size per READ/WRITE request.
	MaxPacket int

	// MaxInflight bounds how many requests are outstanding before
	// responses are collected.
	MaxInflight int

	Logger *logging.Logger
}

func (c *Config) setDefaults() {
	if c.MaxPacket <= 0 {
		c.MaxPacket = defaultMaxPacket
	}
	if c.MaxInflight <= 0 {
		c.MaxInflight = defaultMaxInflight
	}
	if c.Logger == nil {
		c.Logger = logging.NewLogger(false)
	}
}

type rawResponse struct {
	typ  byte
	body []byte
}

// Client speaks SFTP v3 over conn, typically an ssh2 channel with the
// "sftp" subsystem started.
type Client struct {
	cfg  Config
	conn io.ReadWriter

	nextID uint32

	// Responses read while waiting for a different request ID, keyed
	// by their ID until claimed.
	pending map[uint32]rawResponse

	version uint32
}

// NewClient performs the INIT/VERSION exchange and returns a ready
// client.
func NewClient(conn io.ReadWriter, cfg Config) (*Client, error) {
	cfg.setDefaults()
	c := &Client{
		cfg:     cfg,
		conn:    conn,
		pending: make(map[uint32]rawResponse),
	}

	var w sshwire.Writer
	w.WriteUint8(fxpInit)
	w.WriteUint32(protocolVersion)
	if err := c.writeFrame(w.Bytes()); err != nil {
		return nil, err
	}

	typ, body, err := c.readFrame()
	if err != nil {
		return nil, err
	}
	if typ != fxpVersion {
		return nil, fmt.Errorf("%w: expected VERSION, got %d", ErrProtocol, typ)
	}
	r := sshwire.NewReader(body)
	version, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: short VERSION", ErrProtocol)
	}
	if version < protocolVersion {
		return nil, fmt.Errorf("%w: server offered %d", ErrUnsupportedVersion, version)
	}
	c.version = version
	c.cfg.Logger.Debugf("sftp: negotiated version %d", version)
	return c, nil
}

// Version is the protocol version the server advertised.
func (c *Client) Version() uint32 { return c.version }

func (c *Client) writeFrame(payload []byte) error {
	var w sshwire.Writer
	w.WriteUint32(uint32(len(payload)))
	w.Raw(payload)
	_, err := c.conn.Write(w.Bytes())
	return err
}

func (c *Client) readFrame() (byte, []byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(c.conn, lenBuf[:]); err != nil {
		return 0, nil, err
	}
	length := uint32(lenBuf[0])<<24 | uint32(lenBuf[1])<<16 | uint32(lenBuf[2])<<8 | uint32(lenBuf[3])
	if length == 0 || length > maxMessageSize {
		return 0, nil, fmt.Errorf("%w: bad message length %d", ErrProtocol, length)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		return 0, nil, err
	}
	return body[0], body[1:], nil
}

// send writes one request and returns its ID without waiting for the
// response; callers pipeline by sending several before collecting.
func (c *Client) send(typ byte, build func(*sshwire.Writer)) (uint32, error) {
	c.nextID++
	id := c.nextID
	var w sshwire.Writer
	w.WriteUint8(typ)
	w.WriteUint32(id)
	if build != nil {
		build(&w)
	}
	return id, c.writeFrame(w.Bytes())
}

// recv returns the response for the given request ID. Responses for
// other outstanding requests read along the way are stashed and handed
// out when their ID is asked for.
func (c *Client) recv(id uint32) (byte, *sshwire.Reader, error) {
	for {
		if resp, ok := c.pending[id]; ok {
			delete(c.pending, id)
			return resp.typ, sshwire.NewReader(resp.body), nil
		}
		typ, body, err := c.readFrame()
		if err != nil {
			return 0, nil, err
		}
		r := sshwire.NewReader(body)
		respID, err := r.ReadUint32()
		if err != nil {
			return 0, nil, fmt.Errorf("%w: response without request ID", ErrProtocol)
		}
		if respID == id {
			return typ, r, nil
		}
		c.pending[respID] = rawResponse{typ: typ, body: r.Rest()}
	}
}

// parseStatus maps an SSH_FXP_STATUS body to an error: nil for OK,
// io.EOF for EOF, *StatusError otherwise.
func parseStatus(r *sshwire.Reader) error {
	code, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("%w: short STATUS", ErrProtocol)
	}
	switch code {
	case statusOK:
		return nil
	case statusEOF:
		return io.EOF
	}
	msg, _ := r.ReadString()
	return &StatusError{Code: code, Message: string(msg)}
}

// expectStatus collects the response for id and requires it to be an
// OK status.
func (c *Client) expectStatus(id uint32) error {
	typ, r, err := c.recv(id)
	if err != nil {
		return err
	}
	if typ != fxpStatus {
		return fmt.Errorf("%w: expected STATUS, got %d", ErrProtocol, typ)
	}
	return parseStatus(r)
}

func (c *Client) expectAttrs(id uint32) (*FileAttributes, error) {
	typ, r, err := c.recv(id)
	if err != nil {
		return nil, err
	}
	switch typ {
	case fxpAttrs:
		return parseFileAttributes(r)
	case fxpStatus:
		if err := parseStatus(r); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: expected ATTRS, got %d", ErrProtocol, typ)
}

func (c *Client) expectHandle(id uint32) (string, error) {
	typ, r, err := c.recv(id)
	if err != nil {
		return "", err
	}
	switch typ {
	case fxpHandle:
		h, err := r.ReadString()
		if err != nil {
			return "", fmt.Errorf("%w: short HANDLE", ErrProtocol)
		}
		return string(h), nil
	case fxpStatus:
		if err := parseStatus(r); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: expected HANDLE, got %d", ErrProtocol, typ)
}

// DirEntry is one name returned by ReadDir.
type DirEntry struct {
	Name       string
	Attributes *FileAttributes
}

func (c *Client) expectName(id uint32) ([]DirEntry, error) {
	typ, r, err := c.recv(id)
	if err != nil {
		return nil, err
	}
	switch typ {
	case fxpName:
		count, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: short NAME", ErrProtocol)
		}
		// count comes off the wire; cap the pre-allocation and let
		// append grow.
		entries := make([]DirEntry, 0, min(count, 64))
		for i := uint32(0); i < count; i++ {
			name, err := r.ReadString()
			if err != nil {
				return nil, fmt.Errorf("%w: short NAME", ErrProtocol)
			}
			if _, err := r.ReadString(); err != nil { // longname, display only
				return nil, fmt.Errorf("%w: short NAME", ErrProtocol)
			}
			attrs, err := parseFileAttributes(r)
			if err != nil {
				return nil, err
			}
			entries = append(entries, DirEntry{Name: string(name), Attributes: attrs})
		}
		return entries, nil
	case fxpStatus:
		if err := parseStatus(r); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: expected NAME, got %d", ErrProtocol, typ)
}

// Stat follows symlinks.
func (c *Client) Stat(path string) (*FileAttributes, error) {
	id, err := c.send(fxpStat, func(w *sshwire.Writer) {
		w.WriteString([]byte(path))
	})
	if err != nil {
		return nil, err
	}
	return c.expectAttrs(id)
}

// Lstat does not follow symlinks.
func (c *Client) Lstat(path string) (*FileAttributes, error) {
	id, err := c.send(fxpLstat, func(w *sshwire.Writer) {
		w.WriteString([]byte(path))
	})
	if err != nil {
		return nil, err
	}
	return c.expectAttrs(id)
}

// SetStat applies the attribute fields marked present in attrs.
func (c *Client) SetStat(path string, attrs *FileAttributes) error {
	id, err := c.send(fxpSetstat, func(w *sshwire.Writer) {
		w.WriteString([]byte(path))
		attrs.marshal(w)
	})
	if err != nil {
		return err
	}
	return c.expectStatus(id)
}

// Mkdir creates a directory with server-default attributes.
func (c *Client) Mkdir(path string) error {
	id, err := c.send(fxpMkdir, func(w *sshwire.Writer) {
		w.WriteString([]byte(path))
		w.WriteUint32(0) // empty ATTRS
	})
	if err != nil {
		return err
	}
	return c.expectStatus(id)
}

func (c *Client) Rmdir(path string) error {
	id, err := c.send(fxpRmdir, func(w *sshwire.Writer) {
		w.WriteString([]byte(path))
	})
	if err != nil {
		return err
	}
	return c.expectStatus(id)
}

func (c *Client) Remove(path string) error {
	id, err := c.send(fxpRemove, func(w *sshwire.Writer) {
		w.WriteString([]byte(path))
	})
	if err != nil {
		return err
	}
	return c.expectStatus(id)
}

func (c *Client) Rename(oldPath, newPath string) error {
	id, err := c.send(fxpRename, func(w *sshwire.Writer) {
		w.WriteString([]byte(oldPath))
		w.WriteString([]byte(newPath))
	})
	if err != nil {
		return err
	}
	return c.expectStatus(id)
}

// Realpath canonicalizes a path server-side.
func (c *Client) Realpath(path string) (string, error) {
	id, err := c.send(fxpRealpath, func(w *sshwire.Writer) {
		w.WriteString([]byte(path))
	})
	if err != nil {
		return "", err
	}
	entries, err := c.expectName(id)
	if err != nil {
		return "", err
	}
	if len(entries) != 1 {
		return "", fmt.Errorf("%w: REALPATH returned %d names", ErrProtocol, len(entries))
	}
	return entries[0].Name, nil
}

// ReadDir lists a directory, excluding "." and "..".
func (c *Client) ReadDir(path string) ([]DirEntry, error) {
	id, err := c.send(fxpOpendir, func(w *sshwire.Writer) {
		w.WriteString([]byte(path))
	})
	if err != nil {
		return nil, err
	}
	handle, err := c.expectHandle(id)
	if err != nil {
		return nil, err
	}

	var entries []DirEntry
	for {
		id, err := c.send(fxpReaddir, func(w *sshwire.Writer) {
			w.WriteString([]byte(handle))
		})
		if err != nil {
			c.closeHandle(handle)
			return nil, err
		}
		batch, err := c.expectName(id)
		if err == io.EOF {
			break
		}
		if err != nil {
			c.closeHandle(handle)
			return nil, err
		}
		for _, e := range batch {
			if e.Name == "." || e.Name == ".." {
				continue
			}
			entries = append(entries, e)
		}
	}
	return entries, c.closeHandle(handle)
}

func (c *Client) closeHandle(handle string) error {
	id, err := c.send(fxpClose, func(w *sshwire.Writer) {
		w.WriteString([]byte(handle))
	})
	if err != nil {
		return err
	}
	return c.expectStatus(id)
}

// OpenFile opens a remote file with explicit pflags (OpenRead,
// OpenWrite, ...).
func (c *Client) OpenFile(path string, pflags uint32) (*File, error) {
	id, err := c.send(fxpOpen, func(w *sshwire.Writer) {
		w.WriteString([]byte(path))
		w.WriteUint32(pflags)
		w.WriteUint32(0) // empty ATTRS
	})
	if err != nil {
		return nil, err
	}
	handle, err := c.expectHandle(id)
	if err != nil {
		return nil, err
	}
	return &File{client: c, path: path, handle: handle}, nil
}

// Open opens a file for reading.
func (c *Client) Open(path string) (*File, error) {
	return c.OpenFile(path, OpenRead)
}

// Create opens a file for writing, creating and truncating it.
func (c *Client) Create(path string) (*File, error) {
	return c.OpenFile(path, OpenWrite|OpenCreate|OpenTrunc)
}
