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
	"bufio"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/purecrypt/go-purecrypt/pkg/hashing"
)

// maxPacketSize bounds a single inbound packet (RFC 4253 §6.1 requires
// accepting at least 35000 bytes).
const maxPacketSize = 256 * 1024

// packetCipher encrypts or decrypts one direction of the connection. A
// single instance must only ever be used for one direction.
type packetCipher interface {
	writeCipherPacket(seqNum uint32, w io.Writer, rand io.Reader, payload []byte) error
	readCipherPacket(seqNum uint32, r io.Reader) ([]byte, error)
}

// connectionState is one side (read or write) of the transport; each
// direction has its own keys and its own packet sequence number.
type connectionState struct {
	packetCipher
	seqNum uint32
}

func (s *connectionState) readPacket(r *bufio.Reader) ([]byte, error) {
	payload, err := s.packetCipher.readCipherPacket(s.seqNum, r)
	s.seqNum++
	if err != nil {
		return nil, err
	}
	fresh := make([]byte, len(payload))
	copy(fresh, payload)
	return fresh, nil
}

func (s *connectionState) writePacket(w *bufio.Writer, rand io.Reader, payload []byte) error {
	if err := s.packetCipher.writeCipherPacket(s.seqNum, w, rand, payload); err != nil {
		return err
	}
	s.seqNum++
	return w.Flush()
}

// transport frames, encrypts and MACs SSH binary packets over an
// io.ReadWriteCloser.
type transport struct {
	reader connectionState
	writer connectionState

	bufReader *bufio.Reader
	bufWriter *bufio.Writer
	rand      io.Reader
	io.Closer
}

func newTransport(rwc io.ReadWriteCloser, rand io.Reader) *transport {
	return &transport{
		bufReader: bufio.NewReader(rwc),
		bufWriter: bufio.NewWriter(rwc),
		rand:      rand,
		reader:    connectionState{packetCipher: nonePacketCipher{}},
		writer:    connectionState{packetCipher: nonePacketCipher{}},
		Closer:    rwc,
	}
}

// readPacket returns the next payload, transparently skipping IGNORE
// and DEBUG messages and turning DISCONNECT into an error.
func (t *transport) readPacket() ([]byte, error) {
	for {
		p, err := t.reader.readPacket(t.bufReader)
		if err != nil {
			return nil, err
		}
		if len(p) == 0 {
			return nil, fmt.Errorf("%w: empty packet", ErrProtocol)
		}
		switch p[0] {
		case msgIgnore, msgDebug:
			continue
		case msgDisconnect:
			return nil, parseDisconnect(p)
		}
		return p, nil
	}
}

func (t *transport) writePacket(payload []byte) error {
	return t.writer.writePacket(t.bufWriter, t.rand, payload)
}

// frame computes padding and assembles length||padlen||payload||padding
// per RFC 4253 §6: total length a multiple of max(8, blockSize),
// padding at least 4 bytes.
func frame(payload []byte, blockSize int, rand io.Reader) ([]byte, error) {
	if blockSize < 8 {
		blockSize = 8
	}
	padding := blockSize - (5+len(payload))%blockSize
	if padding < 4 {
		padding += blockSize
	}
	packet := make([]byte, 5+len(payload)+padding)
	binary.BigEndian.PutUint32(packet, uint32(1+len(payload)+padding))
	packet[4] = byte(padding)
	copy(packet[5:], payload)
	if _, err := io.ReadFull(rand, packet[5+len(payload):]); err != nil {
		return nil, err
	}
	return packet, nil
}

func payloadFromFrame(packet []byte) ([]byte, error) {
	if len(packet) < 5 {
		return nil, fmt.Errorf("%w: short packet", ErrProtocol)
	}
	padding := int(packet[4])
	if padding < 4 || 5+padding > len(packet) {
		return nil, fmt.Errorf("%w: bad padding length %d", ErrProtocol, padding)
	}
	return packet[5 : len(packet)-padding], nil
}

// nonePacketCipher is the pre-NEWKEYS transport: plaintext frames, no
// MAC.
type nonePacketCipher struct{}

func (nonePacketCipher) writeCipherPacket(_ uint32, w io.Writer, rand io.Reader, payload []byte) error {
	packet, err := frame(payload, 8, rand)
	if err != nil {
		return err
	}
	_, err = w.Write(packet)
	return err
}

func (nonePacketCipher) readCipherPacket(_ uint32, r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length == 0 || length > maxPacketSize {
		return nil, fmt.Errorf("%w: bad packet length %d", ErrProtocol, length)
	}
	rest := make([]byte, length)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}
	return payloadFromFrame(append(lenBuf[:], rest...))
}

// streamPacketCipher is the post-NEWKEYS transport for one direction:
// a stream cipher (AES-CTR) over the frame plus an HMAC over
// seqnum || plaintext frame.
type streamPacketCipher struct {
	stream    cipher.Stream
	mac       *hashing.Hash
	blockSize int
}

// newStreamPacketCipher builds the cipher for one direction from the
// negotiated names and derived key material.
func newStreamPacketCipher(cipherName, macName string, key, iv, macKey []byte) (packetCipher, error) {
	spec, ok := cipherSpecs[cipherName]
	if !ok {
		return nil, fmt.Errorf("%w: cipher %q", ErrKexFailed, cipherName)
	}
	block, err := aes.NewCipher(key[:spec.keySize])
	if err != nil {
		return nil, err
	}
	macSpec, ok := macSpecs[macName]
	if !ok {
		return nil, fmt.Errorf("%w: mac %q", ErrKexFailed, macName)
	}
	mac := hashing.New(macSpec.hash)
	mac.SetKey(macKey[:macSpec.keySize])
	return &streamPacketCipher{
		stream:    cipher.NewCTR(block, iv[:aes.BlockSize]),
		mac:       mac,
		blockSize: aes.BlockSize,
	}, nil
}

var cipherSpecs = map[string]struct {
	keySize int
	ivSize  int
}{
	"aes128-ctr": {16, 16},
	"aes192-ctr": {24, 16},
	"aes256-ctr": {32, 16},
}

var macSpecs = map[string]struct {
	hash    string
	keySize int
}{
	"hmac-sha2-256": {"sha256", 32},
	"hmac-sha1":     {"sha1", 20},
	"hmac-sha1-96":  {"sha1-96", 20},
}

func (c *streamPacketCipher) computeMAC(seqNum uint32, packet []byte) []byte {
	buf := make([]byte, 4+len(packet))
	binary.BigEndian.PutUint32(buf, seqNum)
	copy(buf[4:], packet)
	return c.mac.Sum(buf)
}

func (c *streamPacketCipher) writeCipherPacket(seqNum uint32, w io.Writer, rand io.Reader, payload []byte) error {
	packet, err := frame(payload, c.blockSize, rand)
	if err != nil {
		return err
	}
	mac := c.computeMAC(seqNum, packet)
	c.stream.XORKeyStream(packet, packet)
	if _, err := w.Write(packet); err != nil {
		return err
	}
	_, err = w.Write(mac)
	return err
}

func (c *streamPacketCipher) readCipherPacket(seqNum uint32, r io.Reader) ([]byte, error) {
	firstBlock := make([]byte, c.blockSize)
	if _, err := io.ReadFull(r, firstBlock); err != nil {
		return nil, err
	}
	c.stream.XORKeyStream(firstBlock, firstBlock)

	length := binary.BigEndian.Uint32(firstBlock)
	if length == 0 || length > maxPacketSize {
		return nil, fmt.Errorf("%w: bad packet length %d", ErrProtocol, length)
	}
	remaining := int(length) + 4 - c.blockSize
	if remaining < 0 || (int(length)+4)%c.blockSize != 0 {
		return nil, fmt.Errorf("%w: packet length %d not block aligned", ErrProtocol, length)
	}
	rest := make([]byte, remaining)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}
	c.stream.XORKeyStream(rest, rest)
	packet := append(firstBlock, rest...)

	wire := make([]byte, c.mac.Len())
	if _, err := io.ReadFull(r, wire); err != nil {
		return nil, err
	}
	if !hashing.Equal(wire, c.computeMAC(seqNum, packet)) {
		return nil, ErrMACMismatch
	}
	return payloadFromFrame(packet)
}
