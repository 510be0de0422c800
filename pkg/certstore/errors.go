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

package certstore

import "errors"

var (
	// ErrInvalidEncoding is returned when input is neither PEM nor DER of
	// the expected structure
	ErrInvalidEncoding = errors.New("certstore: invalid certificate encoding")

	// ErrUnsupportedAlgorithm is returned for signature or key algorithms
	// outside the RSA family
	ErrUnsupportedAlgorithm = errors.New("certstore: unsupported algorithm")

	// ErrVerificationFailed is returned when a signature does not verify
	ErrVerificationFailed = errors.New("certstore: signature verification failed")

	// ErrNotSigned is returned when saving a structure that was modified
	// after load and not re-signed; the retained signature no longer
	// covers the content
	ErrNotSigned = errors.New("certstore: modified structure requires re-signing")

	// ErrNoPrivateKey is returned when a signing operation has no RSA
	// private key to sign with
	ErrNoPrivateKey = errors.New("certstore: no private key set")
)
