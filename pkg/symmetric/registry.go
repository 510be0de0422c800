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
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/rc4"
	"fmt"

	"github.com/dgryski/go-idea"
	"github.com/dgryski/go-rc2"
	"golang.org/x/crypto/blowfish"
	"golang.org/x/crypto/twofish"
)

// Algorithm identifies a cipher family.
type Algorithm int

const (
	AES Algorithm = iota
	DES
	TripleDES
	Blowfish
	Twofish
	RC2
	RC4
	IDEA

	// Rijndael is the historical name for AES; both clamp identically.
	Rijndael = AES
)

var algorithmNames = map[Algorithm]string{
	AES:       "aes",
	DES:       "des",
	TripleDES: "3des",
	Blowfish:  "blowfish",
	Twofish:   "twofish",
	RC2:       "rc2",
	RC4:       "rc4",
	IDEA:      "idea",
}

// String returns the canonical lowercase algorithm name.
func (a Algorithm) String() string {
	if n, ok := algorithmNames[a]; ok {
		return n
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// algorithmInfo is the per-family configuration table. Clamping and key
// scheduling rules are data here, not overridden methods.
type algorithmInfo struct {
	blockSize      int // bytes; 1 for stream ciphers
	defaultKeyBits int
	stream         bool
	clampKeyBits   func(bits int) int
	newBlock       func(key []byte) (cipher.Block, error)
	newStream      func(key []byte) (cipher.Stream, error)
}

var algorithmTable = map[Algorithm]algorithmInfo{
	AES: {
		blockSize:      aes.BlockSize,
		defaultKeyBits: 128,
		clampKeyBits: func(bits int) int {
			switch {
			case bits <= 128:
				return 128
			case bits <= 160:
				return 160
			case bits <= 192:
				return 192
			case bits <= 224:
				return 224
			default:
				return 256
			}
		},
		newBlock: newAESBlock,
	},
	DES: {
		blockSize:      des.BlockSize,
		defaultKeyBits: 64,
		clampKeyBits:   func(int) int { return 64 },
		newBlock: func(key []byte) (cipher.Block, error) {
			return des.NewCipher(key)
		},
	},
	TripleDES: {
		blockSize:      des.BlockSize,
		defaultKeyBits: 192,
		clampKeyBits: func(bits int) int {
			switch {
			case bits <= 64:
				return 64
			case bits <= 128:
				return 128
			default:
				return 192
			}
		},
		newBlock: newTripleDESBlock,
	},
	Blowfish: {
		blockSize:      blowfish.BlockSize,
		defaultKeyBits: 128,
		clampKeyBits: func(bits int) int {
			switch {
			case bits < 32:
				return 32
			case bits > 448:
				return 448
			default:
				return bits
			}
		},
		newBlock: func(key []byte) (cipher.Block, error) {
			return blowfish.NewCipher(key)
		},
	},
	Twofish: {
		blockSize:      twofish.BlockSize,
		defaultKeyBits: 256,
		clampKeyBits: func(bits int) int {
			switch {
			case bits <= 128:
				return 128
			case bits <= 192:
				return 192
			default:
				return 256
			}
		},
		newBlock: func(key []byte) (cipher.Block, error) {
			return twofish.NewCipher(key)
		},
	},
	RC2: {
		blockSize:      8,
		defaultKeyBits: 128,
		clampKeyBits: func(bits int) int {
			switch {
			case bits < 8:
				return 8
			case bits > 1024:
				return 1024
			default:
				return bits
			}
		},
		// effective bits ride along in the key schedule; see newRC2Block
		newBlock: nil,
	},
	RC4: {
		blockSize:      1,
		defaultKeyBits: 128,
		stream:         true,
		clampKeyBits: func(bits int) int {
			switch {
			case bits < 8:
				return 8
			case bits > 2048:
				return 2048
			default:
				return bits
			}
		},
		newStream: func(key []byte) (cipher.Stream, error) {
			return rc4.NewCipher(key)
		},
	},
	IDEA: {
		blockSize:      8,
		defaultKeyBits: 128,
		clampKeyBits:   func(int) int { return 128 },
		newBlock: func(key []byte) (cipher.Block, error) {
			return idea.NewCipher(key)
		},
	},
}

// newAESBlock handles the legacy Rijndael 160- and 224-bit key lengths by
// zero-extending the key material to the next size the AES schedule
// accepts. The clamped length reported by GetKeyLength is unchanged.
func newAESBlock(key []byte) (cipher.Block, error) {
	switch len(key) {
	case 20:
		key = padKey(key, 24)
	case 28:
		key = padKey(key, 32)
	}
	return aes.NewCipher(key)
}

// newTripleDESBlock expands 64- and 128-bit keys to the EDE K1,K2,K3 form:
// one key gives K1=K2=K3 (degenerating to single DES), two keys give
// K3=K1.
func newTripleDESBlock(key []byte) (cipher.Block, error) {
	switch len(key) {
	case 8:
		key = append(append(append([]byte(nil), key...), key...), key...)
	case 16:
		key = append(append([]byte(nil), key...), key[:8]...)
	}
	return des.NewTripleDESCipher(key)
}

// newRC2Block keeps the effective key bits independent from the key bytes,
// which is how the RC2 schedule is parameterized.
func newRC2Block(key []byte, effectiveBits int) (cipher.Block, error) {
	return rc2.New(key, effectiveBits)
}

// padKey zero-extends (or truncates) key material to size bytes.
func padKey(key []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, key)
	return out
}
