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
	"golang.org/x/crypto/pbkdf2"

	"github.com/purecrypt/go-purecrypt/pkg/hashing"
)

// DefaultSalt is the salt used by SetPassword when none is supplied. The
// exact bytes are a legacy interoperability constant; keys derived by the
// wrapped API generation depend on them.
const DefaultSalt = "phpseclib/salt"

// DefaultIterations is the iteration count used when none is supplied.
const DefaultIterations = 1000

// KDF selects the password-based key derivation method.
type KDF int

const (
	PBKDF2 KDF = iota
	PBKDF1
)

// PasswordParams tunes SetPassword. Zero-valued fields take the documented
// defaults: PBKDF2, sha1, DefaultSalt, DefaultIterations.
type PasswordParams struct {
	Method     KDF
	Hash       string
	Salt       []byte
	Iterations int
}

// SetPassword derives the cipher key from a password using PBKDF1 or
// PBKDF2 and installs it. The derived key length is the configured
// (clamped) key length.
func (c *Cipher) SetPassword(password string, params *PasswordParams) error {
	if params == nil {
		params = &PasswordParams{}
	}
	hashName := params.Hash
	if hashName == "" {
		hashName = "sha1"
	}
	salt := params.Salt
	if salt == nil {
		salt = []byte(DefaultSalt)
	}
	iterations := params.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	keyLen := (c.keyBits + 7) / 8

	// hashing.New never fails; unknown names already fell back to sha1.
	h := hashing.New(hashName)
	var key []byte
	switch params.Method {
	case PBKDF2:
		key = pbkdf2.Key([]byte(password), salt, iterations, keyLen, hashing.Factory(h.Name()))
	case PBKDF1:
		var err error
		key, err = pbkdf1Key([]byte(password), salt, iterations, keyLen, h)
		if err != nil {
			return err
		}
	default:
		return ErrUnsupportedKDF
	}

	c.SetKey(key)
	return nil
}

// pbkdf1Key implements RFC 2898 §5.1: T_1 = H(P||S), T_i = H(T_{i-1}),
// DK = T_c[:dkLen]. The derived key cannot exceed the hash output size.
func pbkdf1Key(password, salt []byte, iterations, keyLen int, h *hashing.Hash) ([]byte, error) {
	if keyLen > h.Len() {
		return nil, ErrDerivedKeyTooLong
	}
	t := h.Sum(append(append([]byte(nil), password...), salt...))
	for i := 1; i < iterations; i++ {
		t = h.Sum(t)
	}
	return t[:keyLen], nil
}
