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

import "errors"

var (
	// ErrUnsupportedAlgorithm is returned for an unknown cipher algorithm.
	// Unlike hash lookup there is no safe default cipher, so this is a
	// hard failure.
	ErrUnsupportedAlgorithm = errors.New("symmetric: unsupported cipher algorithm")

	// ErrUnsupportedMode is returned for an unknown or incompatible mode
	// of operation
	ErrUnsupportedMode = errors.New("symmetric: unsupported mode of operation")

	// ErrNoKey is returned when encrypt/decrypt is called before SetKey
	// or SetPassword
	ErrNoKey = errors.New("symmetric: no key configured")

	// ErrInvalidIV is returned when the IV length does not match the
	// cipher block size for a mode that requires an IV
	ErrInvalidIV = errors.New("symmetric: invalid IV length")

	// ErrMissingIV is returned when a mode requires an IV and none was set
	ErrMissingIV = errors.New("symmetric: mode requires an IV")

	// ErrInputNotAligned is returned when padding is disabled and the
	// input is not a multiple of the block size
	ErrInputNotAligned = errors.New("symmetric: input not block-aligned and padding disabled")

	// ErrInvalidPadding is returned when PKCS#7 padding cannot be removed
	// after decryption
	ErrInvalidPadding = errors.New("symmetric: invalid padding")

	// ErrTagMismatch is returned when GCM authentication tag verification
	// fails on decrypt. Never silently swallowed.
	ErrTagMismatch = errors.New("symmetric: authentication tag mismatch")

	// ErrCiphertextTooShort is returned when a GCM ciphertext is shorter
	// than the authentication tag
	ErrCiphertextTooShort = errors.New("symmetric: ciphertext shorter than authentication tag")

	// ErrContinuousUnsupported is returned when continuous-buffer mode is
	// enabled for a mode that cannot carry state across calls (GCM)
	ErrContinuousUnsupported = errors.New("symmetric: continuous buffer not supported for this mode")

	// ErrUnsupportedKDF is returned for an unknown password derivation
	// method
	ErrUnsupportedKDF = errors.New("symmetric: unsupported key derivation method")

	// ErrDerivedKeyTooLong is returned when PBKDF1 is asked for more key
	// material than its hash can produce
	ErrDerivedKeyTooLong = errors.New("symmetric: derived key too long for pbkdf1")
)
