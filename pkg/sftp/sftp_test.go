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
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purecrypt/go-purecrypt/internal/sshwire"
)

// fakeConn feeds pre-canned responses to the client and records what
// it writes. Response bytes are queued before the client sends the
// matching request; request IDs are deterministic so this lines up.
type fakeConn struct {
	in  bytes.Buffer
	out bytes.Buffer
}

func (f *fakeConn) Read(p []byte) (int, error)  { return f.in.Read(p) }
func (f *fakeConn) Write(p []byte) (int, error) { return f.out.Write(p) }

func enqueue(conn *fakeConn, typ byte, build func(*sshwire.Writer)) {
	var body sshwire.Writer
	body.WriteUint8(typ)
	if build != nil {
		build(&body)
	}
	var frame sshwire.Writer
	frame.WriteUint32(uint32(len(body.Bytes())))
	frame.Raw(body.Bytes())
	conn.in.Write(frame.Bytes())
}

func enqueueStatus(conn *fakeConn, id, code uint32) {
	enqueue(conn, fxpStatus, func(w *sshwire.Writer) {
		w.WriteUint32(id)
		w.WriteUint32(code)
		w.WriteString(nil) // message
		w.WriteString(nil) // language tag
	})
}

func newTestClient(t *testing.T, cfg Config) (*Client, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	enqueue(conn, fxpVersion, func(w *sshwire.Writer) {
		w.WriteUint32(protocolVersion)
	})
	c, err := NewClient(conn, cfg)
	require.NoError(t, err)
	return c, conn
}

// request is one decoded frame the client wrote.
type request struct {
	typ  byte
	id   uint32
	body []byte
}

func drainRequests(t *testing.T, conn *fakeConn) []request {
	t.Helper()
	var reqs []request
	raw := conn.out.Bytes()
	for len(raw) > 0 {
		require.GreaterOrEqual(t, len(raw), 4)
		length := binary.BigEndian.Uint32(raw)
		require.GreaterOrEqual(t, len(raw), int(4+length))
		body := raw[4 : 4+length]
		r := request{typ: body[0]}
		if r.typ != fxpInit {
			r.id = binary.BigEndian.Uint32(body[1:])
			r.body = body[5:]
		}
		reqs = append(reqs, r)
		raw = raw[4+length:]
	}
	return reqs
}

func TestVersionTooOld(t *testing.T) {
	conn := &fakeConn{}
	enqueue(conn, fxpVersion, func(w *sshwire.Writer) {
		w.WriteUint32(2)
	})
	_, err := NewClient(conn, Config{})
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestOutOfOrderResponseCorrelation(t *testing.T) {
	c, conn := newTestClient(t, Config{})

	// The response for the second request arrives first; each Stat
	// must still receive its own attributes.
	enqueue(conn, fxpAttrs, func(w *sshwire.Writer) {
		w.WriteUint32(2)
		w.WriteUint32(attrFlagSize)
		w.WriteUint64(222)
	})
	enqueue(conn, fxpAttrs, func(w *sshwire.Writer) {
		w.WriteUint32(1)
		w.WriteUint32(attrFlagSize)
		w.WriteUint64(111)
	})

	a, err := c.Stat("a")
	require.NoError(t, err)
	assert.Equal(t, uint64(111), a.Size)

	b, err := c.Stat("b")
	require.NoError(t, err)
	assert.Equal(t, uint64(222), b.Size)

	assert.Empty(t, c.pending, "stash must be drained once claimed")
}

func TestStatusErrorMapsToFSErrors(t *testing.T) {
	c, conn := newTestClient(t, Config{})
	enqueue(conn, fxpStatus, func(w *sshwire.Writer) {
		w.WriteUint32(1)
		w.WriteUint32(statusNoSuchFile)
		w.WriteString([]byte("no such file"))
		w.WriteString(nil)
	})

	_, err := c.Stat("/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, uint32(statusNoSuchFile), se.Code)
}

func TestFileAttributesBitmask(t *testing.T) {
	var w sshwire.Writer
	w.WriteUint32(attrFlagSize | attrFlagUIDGID | attrFlagACModTime | attrFlagExtended)
	w.WriteUint64(4096)
	w.WriteUint32(1000) // uid
	w.WriteUint32(1000) // gid
	w.WriteUint32(1700000000)
	w.WriteUint32(1700000100)
	w.WriteUint32(1)
	w.WriteString([]byte("acl"))
	w.WriteString([]byte("posix"))

	a, err := parseFileAttributes(sshwire.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.True(t, a.HasSize())
	assert.True(t, a.HasUIDGID())
	assert.True(t, a.HasTimes())
	assert.False(t, a.HasPermissions())
	assert.Equal(t, uint64(4096), a.Size)
	assert.Equal(t, uint32(1000), a.UID)
	assert.Equal(t, int64(1700000100), a.ModTime().Unix())
	require.Len(t, a.Extended, 1)
	assert.Equal(t, "acl", a.Extended[0].Type)

	var out sshwire.Writer
	a.marshal(&out)
	assert.Equal(t, w.Bytes(), out.Bytes())
}

func TestAttributeModeDirectory(t *testing.T) {
	a := &FileAttributes{
		Flags:       attrFlagPermissions,
		Permissions: 0x4000 | 0o755,
	}
	assert.True(t, a.IsDir())
	assert.True(t, a.Mode().IsDir())
	assert.Equal(t, fs.FileMode(0o755), a.Mode().Perm())
}

func TestReadDir(t *testing.T) {
	c, conn := newTestClient(t, Config{})

	enqueue(conn, fxpHandle, func(w *sshwire.Writer) { // OPENDIR
		w.WriteUint32(1)
		w.WriteString([]byte("h1"))
	})
	enqueue(conn, fxpName, func(w *sshwire.Writer) { // READDIR
		w.WriteUint32(2)
		w.WriteUint32(3)
		for _, name := range []string{".", "..", "notes.txt"} {
			w.WriteString([]byte(name))
			w.WriteString([]byte(name)) // longname
			w.WriteUint32(0)            // empty ATTRS
		}
	})
	enqueueStatus(conn, 3, statusEOF) // second READDIR
	enqueueStatus(conn, 4, statusOK)  // CLOSE

	entries, err := c.ReadDir("/dir")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.txt", entries[0].Name)
}

func TestRealpath(t *testing.T) {
	c, conn := newTestClient(t, Config{})
	enqueue(conn, fxpName, func(w *sshwire.Writer) {
		w.WriteUint32(1)
		w.WriteUint32(1)
		w.WriteString([]byte("/home/alice/notes.txt"))
		w.WriteString([]byte("/home/alice/notes.txt"))
		w.WriteUint32(0)
	})
	path, err := c.Realpath("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "/home/alice/notes.txt", path)
}

func TestNameCountLieIsProtocolError(t *testing.T) {
	// A NAME frame declaring far more entries than it carries must fail
	// on the first missing entry instead of trusting the count.
	c, conn := newTestClient(t, Config{})
	enqueue(conn, fxpName, func(w *sshwire.Writer) {
		w.WriteUint32(1)
		w.WriteUint32(0xFFFFFFFF)
	})
	_, err := c.Realpath("x")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestWritePipelinesAndCollectsOutOfOrder(t *testing.T) {
	c, conn := newTestClient(t, Config{MaxPacket: 4, MaxInflight: 4})

	enqueue(conn, fxpHandle, func(w *sshwire.Writer) { // OPEN
		w.WriteUint32(1)
		w.WriteString([]byte("h1"))
	})
	// Statuses arrive in reverse order of the three WRITE requests.
	enqueueStatus(conn, 4, statusOK)
	enqueueStatus(conn, 3, statusOK)
	enqueueStatus(conn, 2, statusOK)

	f, err := c.Create("/data.bin")
	require.NoError(t, err)

	n, err := f.Write([]byte("0123456789")) // chunks of 4, 4, 2
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	reqs := drainRequests(t, conn)
	var writes []request
	for _, r := range reqs {
		if r.typ == fxpWrite {
			writes = append(writes, r)
		}
	}
	require.Len(t, writes, 3)

	// All three were on the wire before any status was consumed, and
	// each carries its own offset.
	for i, wr := range writes {
		r := sshwire.NewReader(wr.body)
		handle, err := r.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "h1", string(handle))
		offset, err := r.ReadUint64()
		require.NoError(t, err)
		assert.Equal(t, uint64(i*4), offset)
	}
}

func TestReadShortResponseIsEOF(t *testing.T) {
	c, conn := newTestClient(t, Config{MaxPacket: 4})

	enqueue(conn, fxpHandle, func(w *sshwire.Writer) { // OPEN
		w.WriteUint32(1)
		w.WriteString([]byte("h1"))
	})
	enqueue(conn, fxpData, func(w *sshwire.Writer) { // READ at 0
		w.WriteUint32(2)
		w.WriteString([]byte("abcd"))
	})
	enqueue(conn, fxpData, func(w *sshwire.Writer) { // READ at 4, short
		w.WriteUint32(3)
		w.WriteString([]byte("ef"))
	})

	f, err := c.Open("/short.txt")
	require.NoError(t, err)

	buf := make([]byte, 8)
	n, err := f.Read(buf)
	assert.Equal(t, 6, n)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, []byte("abcdef"), buf[:n])
}

func TestReadStatusEOF(t *testing.T) {
	c, conn := newTestClient(t, Config{MaxPacket: 4, MaxInflight: 1})

	enqueue(conn, fxpHandle, func(w *sshwire.Writer) {
		w.WriteUint32(1)
		w.WriteString([]byte("h1"))
	})
	enqueueStatus(conn, 2, statusEOF)

	f, err := c.Open("/empty")
	require.NoError(t, err)

	n, err := f.Read(make([]byte, 4))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}

func TestClosedFileRejectsIO(t *testing.T) {
	c, conn := newTestClient(t, Config{})
	enqueue(conn, fxpHandle, func(w *sshwire.Writer) {
		w.WriteUint32(1)
		w.WriteString([]byte("h1"))
	})
	enqueueStatus(conn, 2, statusOK) // CLOSE

	f, err := c.Open("/f")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = f.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = f.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, f.Close(), ErrClosed)
}

func TestMkdirRemoveRename(t *testing.T) {
	c, conn := newTestClient(t, Config{})
	enqueueStatus(conn, 1, statusOK)
	enqueueStatus(conn, 2, statusOK)
	enqueueStatus(conn, 3, statusOK)
	enqueueStatus(conn, 4, statusPermissionDenied)

	require.NoError(t, c.Mkdir("/d"))
	require.NoError(t, c.Rename("/a", "/b"))
	require.NoError(t, c.Remove("/b"))
	assert.ErrorIs(t, c.Rmdir("/d"), fs.ErrPermission)
}
