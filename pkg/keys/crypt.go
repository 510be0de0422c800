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

package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"math/big"

	"github.com/purecrypt/go-purecrypt/pkg/hashing"
)

// chunkSize returns the per-block plaintext capacity for the configured
// padding: k-2hLen-2 for OAEP, k-11 for PKCS#1 v1.5, k for raw.
func (k *PublicKey) chunkSize() (int, error) {
	size := k.key.Size()
	var n int
	switch k.opts.encPad {
	case EncryptionOAEP:
		n = size - 2*hashing.New(k.opts.hash).Len() - 2
	case EncryptionPKCS1v15:
		n = size - 11
	case EncryptionNone:
		n = size
	}
	if n <= 0 {
		return 0, ErrMessageTooLong
	}
	return n, nil
}

// Encrypt encrypts plaintext under the configured padding. Input longer
// than one block is split into independent chunks whose ciphertexts are
// concatenated; each ciphertext block is exactly the modulus size.
func (k *PublicKey) Encrypt(plaintext []byte) ([]byte, error) {
	chunk, err := k.chunkSize()
	if err != nil {
		return nil, err
	}
	var out []byte
	for start := 0; start == 0 || start < len(plaintext); start += chunk {
		end := start + chunk
		if end > len(plaintext) {
			end = len(plaintext)
		}
		block, err := k.encryptBlock(plaintext[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	return out, nil
}

func (k *PublicKey) encryptBlock(block []byte) ([]byte, error) {
	switch k.opts.encPad {
	case EncryptionOAEP:
		if k.opts.mgfHash != k.opts.hash {
			return k.encryptOAEP(block)
		}
		ct, err := rsa.EncryptOAEP(hashing.Factory(k.opts.hash)(), rand.Reader, k.key, block, nil)
		if err != nil {
			return nil, fmt.Errorf("keys: oaep encrypt: %w", err)
		}
		return ct, nil
	case EncryptionPKCS1v15:
		ct, err := rsa.EncryptPKCS1v15(rand.Reader, k.key, block)
		if err != nil {
			return nil, fmt.Errorf("keys: pkcs1v15 encrypt: %w", err)
		}
		return ct, nil
	case EncryptionNone:
		m := new(big.Int).SetBytes(block)
		if m.Cmp(k.key.N) >= 0 {
			return nil, ErrMessageTooLong
		}
		c := new(big.Int).Exp(m, big.NewInt(int64(k.key.E)), k.key.N)
		return leftPad(c.Bytes(), k.key.Size()), nil
	}
	return nil, ErrMessageTooLong
}

// Decrypt splits ciphertext into modulus-size blocks (a short final block
// is left-padded with zero bytes), decrypts each independently, and
// concatenates the plaintexts. Failure on any block aborts the whole
// operation; no partial plaintext is ever returned.
func (k *PrivateKey) Decrypt(ciphertext []byte) ([]byte, error) {
	size := k.key.Size()
	if len(ciphertext) == 0 {
		return nil, ErrDecryptionFailed
	}
	var out []byte
	for start := 0; start < len(ciphertext); start += size {
		end := start + size
		if end > len(ciphertext) {
			end = len(ciphertext)
		}
		block := leftPad(ciphertext[start:end], size)
		pt, err := k.decryptBlock(block)
		if err != nil {
			return nil, ErrDecryptionFailed
		}
		out = append(out, pt...)
	}
	return out, nil
}

func (k *PrivateKey) decryptBlock(block []byte) ([]byte, error) {
	switch k.opts.encPad {
	case EncryptionOAEP:
		_, ch := resolveHash(k.opts.hash)
		_, mgf := resolveHash(k.opts.mgfHash)
		return k.key.Decrypt(nil, block, &rsa.OAEPOptions{Hash: ch, MGFHash: mgf})
	case EncryptionPKCS1v15:
		return rsa.DecryptPKCS1v15(nil, k.key, block)
	case EncryptionNone:
		c := new(big.Int).SetBytes(block)
		if c.Cmp(k.key.N) >= 0 {
			return nil, ErrDecryptionFailed
		}
		m := new(big.Int).Exp(c, k.key.D, k.key.N)
		// Raw mode has no framing; leading zero bytes are not
		// recoverable.
		return m.Bytes(), nil
	}
	return nil, ErrDecryptionFailed
}

// Sign signs message under the configured scheme (PSS by default),
// hashing it with the configured hash first.
func (k *PrivateKey) Sign(message []byte) ([]byte, error) {
	name, ch := resolveHash(k.opts.hash)
	digest := hashing.New(name).Sum(message)
	switch k.opts.sigPad {
	case SignaturePSS:
		opts := &rsa.PSSOptions{Hash: ch, SaltLength: k.opts.saltLength}
		if opts.SaltLength == 0 {
			opts.SaltLength = rsa.PSSSaltLengthEqualsHash
		}
		sig, err := rsa.SignPSS(rand.Reader, k.key, ch, digest, opts)
		if err != nil {
			return nil, fmt.Errorf("keys: pss sign: %w", err)
		}
		return sig, nil
	case SignaturePKCS1v15:
		sig, err := rsa.SignPKCS1v15(rand.Reader, k.key, ch, digest)
		if err != nil {
			return nil, fmt.Errorf("keys: pkcs1v15 sign: %w", err)
		}
		return sig, nil
	}
	return nil, fmt.Errorf("keys: unknown signature padding %d", k.opts.sigPad)
}

// Verify checks a signature over message. A mismatch reports
// ErrVerificationFailed; it is never silently treated as success.
func (k *PublicKey) Verify(message, signature []byte) error {
	name, ch := resolveHash(k.opts.hash)
	digest := hashing.New(name).Sum(message)
	switch k.opts.sigPad {
	case SignaturePSS:
		opts := &rsa.PSSOptions{Hash: ch, SaltLength: k.opts.saltLength}
		if opts.SaltLength == 0 {
			opts.SaltLength = rsa.PSSSaltLengthEqualsHash
		}
		if err := rsa.VerifyPSS(k.key, ch, digest, signature, opts); err != nil {
			return ErrVerificationFailed
		}
		return nil
	case SignaturePKCS1v15:
		if err := rsa.VerifyPKCS1v15(k.key, ch, digest, signature); err != nil {
			return ErrVerificationFailed
		}
		return nil
	}
	return ErrVerificationFailed
}

// encryptOAEP runs EME-OAEP with independent digest and MGF1 hashes.
// The stdlib encrypt entry point assumes the two match, so the mixed
// case is encoded here per RFC 8017 section 7.1.1.
func (k *PublicKey) encryptOAEP(block []byte) ([]byte, error) {
	size := k.key.Size()
	h := hashing.Factory(k.opts.hash)()
	hLen := h.Size()
	if len(block) > size-2*hLen-2 {
		return nil, ErrMessageTooLong
	}
	em := make([]byte, size)
	seed := em[1 : 1+hLen]
	db := em[1+hLen:]
	copy(db, h.Sum(nil)) // lHash of the empty label
	db[len(db)-len(block)-1] = 0x01
	copy(db[len(db)-len(block):], block)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, fmt.Errorf("keys: oaep encrypt: %w", err)
	}
	mgf := hashing.Factory(k.opts.mgfHash)()
	mgf1XOR(db, mgf, seed)
	mgf1XOR(seed, mgf, db)
	m := new(big.Int).SetBytes(em)
	c := new(big.Int).Exp(m, big.NewInt(int64(k.key.E)), k.key.N)
	return leftPad(c.Bytes(), size), nil
}

// mgf1XOR XORs the MGF1 output stream derived from seed into out.
func mgf1XOR(out []byte, h hash.Hash, seed []byte) {
	var counter [4]byte
	var digest []byte
	done := 0
	for done < len(out) {
		h.Reset()
		h.Write(seed)
		h.Write(counter[:])
		digest = h.Sum(digest[:0])
		for i := 0; i < len(digest) && done < len(out); i++ {
			out[done] ^= digest[i]
			done++
		}
		binary.BigEndian.PutUint32(counter[:], binary.BigEndian.Uint32(counter[:])+1)
	}
}

// leftPad zero-pads b on the left to size bytes.
func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
