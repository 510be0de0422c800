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

// Package sshwire implements the SSH wire primitive encodings (RFC 4251
// §5): uint32, string, mpint and name-list. Shared by the key format
// parsers and the ssh2/sftp protocol layers.
package sshwire

import (
	"encoding/binary"
	"errors"
	"math/big"
	"strings"
)

// ErrShortBuffer is returned when a read runs past the end of the input.
var ErrShortBuffer = errors.New("sshwire: short buffer")

// Writer accumulates wire-encoded fields.
type Writer struct {
	buf []byte
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(b byte) {
	w.buf = append(w.buf, b)
}

// WriteBool appends a boolean octet.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteUint32 appends a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteUint64 appends a big-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteString appends a length-prefixed byte string.
func (w *Writer) WriteString(s []byte) {
	w.WriteUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteMPInt appends a multiple-precision integer: minimal big-endian
// two's complement with a leading zero when the top bit is set.
func (w *Writer) WriteMPInt(v *big.Int) {
	if v.Sign() == 0 {
		w.WriteUint32(0)
		return
	}
	b := v.Bytes()
	if b[0]&0x80 != 0 {
		b = append([]byte{0}, b...)
	}
	w.WriteString(b)
}

// WriteNameList appends a comma-separated name-list.
func (w *Writer) WriteNameList(names []string) {
	w.WriteString([]byte(strings.Join(names, ",")))
}

// Raw appends bytes without a length prefix.
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Reader consumes wire-encoded fields.
type Reader struct {
	buf []byte
}

// NewReader wraps data for reading.
func NewReader(data []byte) *Reader { return &Reader{buf: data} }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) }

// ReadByte consumes one byte.
func (r *Reader) ReadByte() (byte, error) {
	if len(r.buf) < 1 {
		return 0, ErrShortBuffer
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b, nil
}

// ReadBool consumes a boolean octet.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

// ReadUint32 consumes a big-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if len(r.buf) < 4 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint32(r.buf)
	r.buf = r.buf[4:]
	return v, nil
}

// ReadUint64 consumes a big-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if len(r.buf) < 8 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint64(r.buf)
	r.buf = r.buf[8:]
	return v, nil
}

// ReadString consumes a length-prefixed byte string.
func (r *Reader) ReadString() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if uint32(len(r.buf)) < n {
		return nil, ErrShortBuffer
	}
	s := r.buf[:n]
	r.buf = r.buf[n:]
	return s, nil
}

// ReadMPInt consumes a multiple-precision integer.
func (r *Reader) ReadMPInt() (*big.Int, error) {
	b, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// ReadNameList consumes a comma-separated name-list.
func (r *Reader) ReadNameList() ([]string, error) {
	s, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, nil
	}
	return strings.Split(string(s), ","), nil
}

// Rest returns all unread bytes without consuming them.
func (r *Reader) Rest() []byte { return r.buf }
