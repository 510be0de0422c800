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
	"fmt"
	"io"

	"github.com/purecrypt/go-purecrypt/internal/sshwire"
	"github.com/purecrypt/go-purecrypt/pkg/metrics"
)

// File is an open remote file. Read and Write advance an internal
// offset; ReadAt and WriteAt are positional. Bulk transfers pipeline up
// to Config.MaxInflight requests at a time.
type File struct {
	client *Client
	path   string
	handle string
	offset int64
	closed bool
}

// Path returns the path the file was opened with.
func (f *File) Path() string { return f.path }

func (f *File) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	return f.client.closeHandle(f.handle)
}

// Stat queries attributes via the open handle.
func (f *File) Stat() (*FileAttributes, error) {
	if f.closed {
		return nil, ErrClosed
	}
	id, err := f.client.send(fxpFstat, func(w *sshwire.Writer) {
		w.WriteString([]byte(f.handle))
	})
	if err != nil {
		return nil, err
	}
	return f.client.expectAttrs(id)
}

// SetStat applies attributes via the open handle.
func (f *File) SetStat(attrs *FileAttributes) error {
	if f.closed {
		return ErrClosed
	}
	id, err := f.client.send(fxpFsetstat, func(w *sshwire.Writer) {
		w.WriteString([]byte(f.handle))
		attrs.marshal(w)
	})
	if err != nil {
		return err
	}
	return f.client.expectStatus(id)
}

// Seek repositions the internal offset. Only io.SeekStart and
// io.SeekCurrent are supported; the remote size is not consulted.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		f.offset = offset
	case io.SeekCurrent:
		f.offset += offset
	default:
		return 0, fmt.Errorf("sftp: unsupported whence %d", whence)
	}
	return f.offset, nil
}

func (f *File) Read(p []byte) (int, error) {
	n, err := f.ReadAt(p, f.offset)
	f.offset += int64(n)
	return n, err
}

func (f *File) Write(p []byte) (int, error) {
	n, err := f.WriteAt(p, f.offset)
	f.offset += int64(n)
	return n, err
}

type inflightRead struct {
	id  uint32
	pos int
	n   int
}

// ReadAt reads len(p) bytes at off, issuing chunked READ requests in
// pipelined batches. A short server response or EOF ends the read;
// responses for requests already in flight are still drained so the
// stream stays in sync.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	total := 0
	defer func() { metrics.RecordSFTPBytes(metrics.DirectionDownload, total) }()
	eof := false
	var firstErr error

	start := 0
	for start < len(p) && firstErr == nil && !eof {
		var batch []inflightRead
		for len(batch) < f.client.cfg.MaxInflight && start < len(p) {
			n := len(p) - start
			if n > f.client.cfg.MaxPacket {
				n = f.client.cfg.MaxPacket
			}
			pos, reqLen := start, n
			id, err := f.client.send(fxpRead, func(w *sshwire.Writer) {
				w.WriteString([]byte(f.handle))
				w.WriteUint64(uint64(off) + uint64(pos))
				w.WriteUint32(uint32(reqLen))
			})
			if err != nil {
				return total, err
			}
			batch = append(batch, inflightRead{id: id, pos: pos, n: reqLen})
			start += n
		}

		for _, req := range batch {
			typ, r, err := f.client.recv(req.id)
			if err != nil {
				return total, err
			}
			if eof || firstErr != nil {
				continue // drain only
			}
			switch typ {
			case fxpData:
				data, err := r.ReadString()
				if err != nil {
					firstErr = fmt.Errorf("%w: short DATA", ErrProtocol)
					continue
				}
				n := copy(p[req.pos:req.pos+req.n], data)
				total = req.pos + n
				if n < req.n {
					eof = true
				}
			case fxpStatus:
				if err := parseStatus(r); err == io.EOF {
					eof = true
				} else if err != nil {
					firstErr = err
				} else {
					firstErr = fmt.Errorf("%w: OK status for READ", ErrProtocol)
				}
			default:
				firstErr = fmt.Errorf("%w: expected DATA, got %d", ErrProtocol, typ)
			}
		}
	}

	if firstErr != nil {
		return total, firstErr
	}
	if eof && total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

// WriteAt writes p at off in chunked, pipelined WRITE requests. All
// statuses in a batch are collected; the first failure aborts.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	total := 0
	defer func() { metrics.RecordSFTPBytes(metrics.DirectionUpload, total) }()
	start := 0
	for start < len(p) {
		type inflightWrite struct {
			id uint32
			n  int
		}
		var batch []inflightWrite
		for len(batch) < f.client.cfg.MaxInflight && start < len(p) {
			n := len(p) - start
			if n > f.client.cfg.MaxPacket {
				n = f.client.cfg.MaxPacket
			}
			chunk := p[start : start+n]
			pos := start
			id, err := f.client.send(fxpWrite, func(w *sshwire.Writer) {
				w.WriteString([]byte(f.handle))
				w.WriteUint64(uint64(off) + uint64(pos))
				w.WriteString(chunk)
			})
			if err != nil {
				return total, err
			}
			batch = append(batch, inflightWrite{id: id, n: n})
			start += n
		}

		var firstErr error
		for _, req := range batch {
			err := f.client.expectStatus(req.id)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			if err == nil && firstErr == nil {
				total += req.n
			}
		}
		if firstErr != nil {
			return total, firstErr
		}
	}
	return total, nil
}
