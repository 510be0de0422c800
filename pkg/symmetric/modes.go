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

package symmetric

import (
	"crypto/cipher"
)

const gcmNonceSize = 12

// Encrypt encrypts plaintext under the configured key, IV and mode.
// Block modes (ECB, CBC) apply PKCS#7 padding when enabled; with padding
// disabled the input must be block-aligned. In continuous-buffer mode the
// keystream/IV state carries into the next call.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	if err := c.checkReady(); err != nil {
		return nil, err
	}

	switch c.mode {
	case Stream:
		return c.cryptStream(plaintext, true)
	case GCM:
		return c.encryptGCM(plaintext)
	case ECB, CBC:
		in := plaintext
		if c.padding {
			in = pkcs7Pad(plaintext, c.info.blockSize)
		} else if len(in)%c.info.blockSize != 0 {
			return nil, ErrInputNotAligned
		}
		if c.mode == ECB {
			return c.cryptECB(in, true)
		}
		return c.encryptCBC(in)
	case CFB, CFB8, OFB, CTR:
		return c.cryptStreamMode(plaintext, true)
	}
	return nil, ErrUnsupportedMode
}

// Decrypt reverses Encrypt. Padding is stripped for block modes when
// enabled; a GCM tag mismatch reports ErrTagMismatch.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if err := c.checkReady(); err != nil {
		return nil, err
	}

	switch c.mode {
	case Stream:
		return c.cryptStream(ciphertext, false)
	case GCM:
		return c.decryptGCM(ciphertext)
	case ECB, CBC:
		if len(ciphertext)%c.info.blockSize != 0 {
			return nil, ErrInputNotAligned
		}
		var out []byte
		var err error
		if c.mode == ECB {
			out, err = c.cryptECB(ciphertext, false)
		} else {
			out, err = c.decryptCBC(ciphertext)
		}
		if err != nil {
			return nil, err
		}
		if c.padding {
			return pkcs7Unpad(out, c.info.blockSize)
		}
		return out, nil
	case CFB, CFB8, OFB, CTR:
		return c.cryptStreamMode(ciphertext, false)
	}
	return nil, ErrUnsupportedMode
}

// cryptECB applies the block cipher to each block independently. ECB has
// no chained state, so continuous-buffer mode is a no-op here.
func (c *Cipher) cryptECB(in []byte, encrypt bool) ([]byte, error) {
	b, err := c.block()
	if err != nil {
		return nil, err
	}
	bs := b.BlockSize()
	out := make([]byte, len(in))
	for i := 0; i < len(in); i += bs {
		if encrypt {
			b.Encrypt(out[i:i+bs], in[i:i+bs])
		} else {
			b.Decrypt(out[i:i+bs], in[i:i+bs])
		}
	}
	return out, nil
}

func (c *Cipher) encryptCBC(in []byte) ([]byte, error) {
	b, err := c.block()
	if err != nil {
		return nil, err
	}
	iv := c.iv
	if c.continuous && c.encIV != nil {
		iv = c.encIV
	}
	out := make([]byte, len(in))
	cipher.NewCBCEncrypter(b, iv).CryptBlocks(out, in)
	if c.continuous && len(out) > 0 {
		c.encIV = append([]byte(nil), out[len(out)-c.info.blockSize:]...)
	}
	return out, nil
}

func (c *Cipher) decryptCBC(in []byte) ([]byte, error) {
	b, err := c.block()
	if err != nil {
		return nil, err
	}
	iv := c.iv
	if c.continuous && c.decIV != nil {
		iv = c.decIV
	}
	out := make([]byte, len(in))
	cipher.NewCBCDecrypter(b, iv).CryptBlocks(out, in)
	if c.continuous && len(in) > 0 {
		c.decIV = append([]byte(nil), in[len(in)-c.info.blockSize:]...)
	}
	return out, nil
}

// cryptStreamMode handles CFB, CFB8, OFB and CTR. These are stream-shaped
// modes: no padding, any input length. Continuous-buffer mode keeps the
// per-direction cipher.Stream alive between calls.
func (c *Cipher) cryptStreamMode(in []byte, encrypt bool) ([]byte, error) {
	s, err := c.streamFor(encrypt)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(in))
	s.XORKeyStream(out, in)
	return out, nil
}

func (c *Cipher) streamFor(encrypt bool) (cipher.Stream, error) {
	if c.continuous {
		if encrypt && c.encStream != nil {
			return c.encStream, nil
		}
		if !encrypt && c.decStream != nil {
			return c.decStream, nil
		}
	}
	s, err := c.newModeStream(encrypt)
	if err != nil {
		return nil, err
	}
	if c.continuous {
		if encrypt {
			c.encStream = s
		} else {
			c.decStream = s
		}
	}
	return s, nil
}

func (c *Cipher) newModeStream(encrypt bool) (cipher.Stream, error) {
	b, err := c.block()
	if err != nil {
		return nil, err
	}
	switch c.mode {
	case CFB:
		if encrypt {
			return cipher.NewCFBEncrypter(b, c.iv), nil
		}
		return cipher.NewCFBDecrypter(b, c.iv), nil
	case CFB8:
		return newCFB8(b, c.iv, !encrypt), nil
	case OFB:
		return cipher.NewOFB(b, c.iv), nil
	case CTR:
		return cipher.NewCTR(b, c.iv), nil
	}
	return nil, ErrUnsupportedMode
}

// cryptStream handles raw stream ciphers (RC4). The keystream position
// carries across calls only in continuous-buffer mode.
func (c *Cipher) cryptStream(in []byte, encrypt bool) ([]byte, error) {
	var s cipher.Stream
	if c.continuous {
		if encrypt && c.encStream != nil {
			s = c.encStream
		} else if !encrypt && c.decStream != nil {
			s = c.decStream
		}
	}
	if s == nil {
		var err error
		s, err = c.info.newStream(c.effectiveKey())
		if err != nil {
			return nil, err
		}
		if c.continuous {
			if encrypt {
				c.encStream = s
			} else {
				c.decStream = s
			}
		}
	}
	out := make([]byte, len(in))
	s.XORKeyStream(out, in)
	return out, nil
}

func (c *Cipher) encryptGCM(plaintext []byte) ([]byte, error) {
	aead, err := c.gcm()
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, c.iv, plaintext, nil), nil
}

func (c *Cipher) decryptGCM(ciphertext []byte) ([]byte, error) {
	aead, err := c.gcm()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	out, err := aead.Open(nil, c.iv, ciphertext, nil)
	if err != nil {
		return nil, ErrTagMismatch
	}
	return out, nil
}

func (c *Cipher) gcm() (cipher.AEAD, error) {
	b, err := c.block()
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(b)
}

// cfb8 implements byte-granular cipher feedback, which the standard
// library does not provide.
type cfb8 struct {
	b       cipher.Block
	sr      []byte // shift register
	decrypt bool
}

func newCFB8(b cipher.Block, iv []byte, decrypt bool) *cfb8 {
	return &cfb8{
		b:       b,
		sr:      append([]byte(nil), iv...),
		decrypt: decrypt,
	}
}

func (c *cfb8) XORKeyStream(dst, src []byte) {
	bs := c.b.BlockSize()
	buf := make([]byte, bs)
	for i := range src {
		c.b.Encrypt(buf, c.sr)
		out := src[i] ^ buf[0]
		feedback := out
		if c.decrypt {
			feedback = src[i]
		}
		copy(c.sr, c.sr[1:])
		c.sr[bs-1] = feedback
		dst[i] = out
	}
}
