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

import "errors"

var (
	// ErrNoKeyLoaded is returned when input matches none of the supported
	// serialization formats. Invalid key material is a recoverable input
	// condition, never a crash.
	ErrNoKeyLoaded = errors.New("keys: no key loaded, unrecognized format")

	// ErrInvalidPassword is returned when an encrypted key does not
	// decrypt with the supplied password
	ErrInvalidPassword = errors.New("keys: invalid password")

	// ErrPasswordRequired is returned when the key is encrypted and no
	// password was supplied
	ErrPasswordRequired = errors.New("keys: password required for encrypted key")

	// ErrNotRSA is returned when parsed key material is not an RSA key
	ErrNotRSA = errors.New("keys: not an RSA key")

	// ErrMessageTooLong is returned when a plaintext chunk cannot fit the
	// modulus under the selected padding
	ErrMessageTooLong = errors.New("keys: message too long for key size")

	// ErrDecryptionFailed is returned when any ciphertext block fails to
	// decrypt; the whole batch is aborted and no partial plaintext is
	// returned
	ErrDecryptionFailed = errors.New("keys: decryption failed")

	// ErrVerificationFailed is returned when a signature does not verify.
	// Fatal for the operation; never treated as success.
	ErrVerificationFailed = errors.New("keys: signature verification failed")

	// ErrGenerationTimeout is returned when key generation exceeds its
	// deadline. The accompanying Partial state resumes where generation
	// stopped.
	ErrGenerationTimeout = errors.New("keys: key generation timed out")

	// ErrInvalidBits is returned for key sizes too small to be useful
	ErrInvalidBits = errors.New("keys: invalid key size")

	// ErrMalformedKey is returned when a recognized container holds
	// inconsistent key material
	ErrMalformedKey = errors.New("keys: malformed key material")
)
