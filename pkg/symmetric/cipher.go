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

// Package symmetric implements the block and stream cipher engine: AES/
// Rijndael, DES, TripleDES, Blowfish, Twofish, RC2, RC4 and IDEA, framed
// by the ECB, CBC, CFB, CFB8, OFB, CTR, GCM and raw stream modes.
//
// A Cipher is a mutable, non-thread-safe context. Key length clamping,
// PKCS#7 padding and continuous-buffer chaining follow the legacy wrapped
// API byte-for-byte; those rules are interoperability contracts, not
// implementation choices.
package symmetric

import (
	"crypto/cipher"
	"fmt"
)

// Mode is the mode of operation framing a cipher.
type Mode int

const (
	ECB Mode = iota
	CBC
	CFB
	CFB8
	OFB
	CTR
	GCM
	Stream
)

var modeNames = map[Mode]string{
	ECB: "ecb", CBC: "cbc", CFB: "cfb", CFB8: "cfb8",
	OFB: "ofb", CTR: "ctr", GCM: "gcm", Stream: "stream",
}

// String returns the canonical lowercase mode name.
func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// usesIV reports whether the mode consumes an initialization vector.
func (m Mode) usesIV() bool {
	switch m {
	case ECB, Stream:
		return false
	}
	return true
}

// Cipher is a symmetric cipher context. The zero value is not usable;
// construct with New. Instances are not safe for concurrent use.
type Cipher struct {
	alg  Algorithm
	mode Mode
	info algorithmInfo

	key     []byte
	keyBits int // clamped
	iv      []byte

	padding    bool
	continuous bool

	// carried state for continuous-buffer mode, per direction
	encStream cipher.Stream
	decStream cipher.Stream
	encIV     []byte
	decIV     []byte
}

// New constructs a cipher context for the given algorithm and mode with
// padding enabled and continuous buffering disabled. RC4 accepts only the
// Stream mode; block algorithms reject it.
func New(alg Algorithm, mode Mode) (*Cipher, error) {
	info, ok := algorithmTable[alg]
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	if info.stream != (mode == Stream) {
		return nil, ErrUnsupportedMode
	}
	if mode == GCM && alg != AES {
		// GCM is defined over 128-bit blocks only.
		return nil, ErrUnsupportedMode
	}
	return &Cipher{
		alg:     alg,
		mode:    mode,
		info:    info,
		keyBits: info.defaultKeyBits,
		padding: true,
	}, nil
}

// Algorithm returns the cipher family.
func (c *Cipher) Algorithm() Algorithm { return c.alg }

// Mode returns the mode of operation.
func (c *Cipher) Mode() Mode { return c.mode }

// BlockSize returns the block size in bytes (1 for stream ciphers).
func (c *Cipher) BlockSize() int { return c.info.blockSize }

// SetKey installs raw key material. The material is truncated or
// zero-extended to the configured key length when the key schedule runs.
func (c *Cipher) SetKey(key []byte) {
	c.key = append([]byte(nil), key...)
	c.resetState()
}

// SetKeyLength sets the key length in bits, applying the per-algorithm
// clamping table. The clamped value is retrievable via GetKeyLength.
func (c *Cipher) SetKeyLength(bits int) {
	c.keyBits = c.info.clampKeyBits(bits)
	c.resetState()
}

// GetKeyLength returns the clamped key length in bits.
func (c *Cipher) GetKeyLength() int { return c.keyBits }

// SetIV installs the initialization vector. Modes that require an IV
// demand exactly one block; GCM takes the standard 12-byte nonce.
func (c *Cipher) SetIV(iv []byte) error {
	if !c.mode.usesIV() {
		return ErrUnsupportedMode
	}
	want := c.info.blockSize
	if c.mode == GCM {
		want = gcmNonceSize
	}
	if len(iv) != want {
		return ErrInvalidIV
	}
	c.iv = append([]byte(nil), iv...)
	c.resetState()
	return nil
}

// EnablePadding turns PKCS#7 padding on (the default).
func (c *Cipher) EnablePadding() { c.padding = true }

// DisablePadding turns PKCS#7 padding off. Block-mode input must then be
// block-aligned; the caller owns length tracking.
func (c *Cipher) DisablePadding() { c.padding = false }

// PaddingEnabled reports whether PKCS#7 padding is active.
func (c *Cipher) PaddingEnabled() bool { return c.padding }

// EnableContinuousBuffer carries IV/keystream state across successive
// Encrypt/Decrypt calls, so split input encrypts identically to one
// concatenated call. GCM cannot chain state.
func (c *Cipher) EnableContinuousBuffer() error {
	if c.mode == GCM {
		return ErrContinuousUnsupported
	}
	c.continuous = true
	c.resetState()
	return nil
}

// DisableContinuousBuffer restores the default: every call restarts from
// the configured IV.
func (c *Cipher) DisableContinuousBuffer() {
	c.continuous = false
	c.resetState()
}

// ContinuousBuffer reports whether state chaining is active.
func (c *Cipher) ContinuousBuffer() bool { return c.continuous }

// resetState drops any carried continuous-buffer state. Called whenever
// key, key length or IV change.
func (c *Cipher) resetState() {
	c.encStream = nil
	c.decStream = nil
	c.encIV = nil
	c.decIV = nil
}

// effectiveKey resizes the raw key material to the clamped key length.
func (c *Cipher) effectiveKey() []byte {
	bytes := (c.keyBits + 7) / 8
	return padKey(c.key, bytes)
}

// block runs the key schedule for the configured algorithm.
func (c *Cipher) block() (cipher.Block, error) {
	key := c.effectiveKey()
	if c.alg == RC2 {
		return newRC2Block(key, c.keyBits)
	}
	b, err := c.info.newBlock(key)
	if err != nil {
		return nil, fmt.Errorf("symmetric: %s key schedule: %w", c.alg, err)
	}
	return b, nil
}

// checkReady validates key and IV configuration before a crypt operation.
func (c *Cipher) checkReady() error {
	if c.key == nil {
		return ErrNoKey
	}
	if c.mode.usesIV() && c.iv == nil {
		return ErrMissingIV
	}
	return nil
}
