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

// Package keys implements the RSA key engine: generation with resumable
// timeouts, multi-format load/save (PKCS#1, PKCS#8, OpenSSH, PuTTY, XML,
// raw components), chunked OAEP/PKCS#1 v1.5 encryption, and PSS/PKCS#1
// v1.5 signatures.
//
// Key values are immutable. Parameter setters (WithHash, WithSaltLength,
// ...) derive a new key value sharing the same key material; a key shared
// across concurrent signing operations can never observe a half-applied
// configuration change.
package keys

import (
	"crypto"
	"crypto/rsa"
	"strings"
)

// SignaturePadding selects the signature scheme.
type SignaturePadding int

const (
	// SignaturePSS is the default probabilistic signature scheme.
	SignaturePSS SignaturePadding = iota
	// SignaturePKCS1v15 is the deterministic legacy scheme.
	SignaturePKCS1v15
)

// EncryptionPadding selects the encryption padding scheme.
type EncryptionPadding int

const (
	// EncryptionOAEP is the default randomized padding.
	EncryptionOAEP EncryptionPadding = iota
	// EncryptionPKCS1v15 is the legacy v1.5 padding.
	EncryptionPKCS1v15
	// EncryptionNone is raw textbook RSA. Only for protocols that apply
	// their own padding.
	EncryptionNone
)

// options carries the configurable scheme parameters. Copied wholesale by
// the With* derivations.
type options struct {
	hash       string
	mgfHash    string
	saltLength int // 0 means hash length
	sigPad     SignaturePadding
	encPad     EncryptionPadding
}

func defaultOptions() options {
	return options{hash: "sha256", mgfHash: "sha256"}
}

// cryptoHashes maps supported hash names to stdlib identifiers. Names
// outside this table fall back to SHA-1 rather than failing, matching the
// legacy API contract.
var cryptoHashes = map[string]crypto.Hash{
	"md5":    crypto.MD5,
	"sha1":   crypto.SHA1,
	"sha224": crypto.SHA224,
	"sha256": crypto.SHA256,
	"sha384": crypto.SHA384,
	"sha512": crypto.SHA512,
}

// resolveHash maps a hash name to its crypto.Hash, falling back to SHA-1
// for names RSA cannot use.
func resolveHash(name string) (string, crypto.Hash) {
	n := strings.ToLower(strings.TrimSpace(name))
	if h, ok := cryptoHashes[n]; ok {
		return n, h
	}
	return "sha1", crypto.SHA1
}

// PublicKey is an immutable RSA public key plus scheme configuration.
type PublicKey struct {
	key  *rsa.PublicKey
	opts options
}

// PrivateKey is an immutable RSA private key plus scheme configuration.
type PrivateKey struct {
	key  *rsa.PrivateKey
	opts options
}

// Key is either a *PrivateKey or a *PublicKey, as returned by Load.
type Key interface {
	// Algorithm returns the key algorithm name ("RSA").
	Algorithm() string
	// Bits returns the modulus size in bits.
	Bits() int
}

// Algorithm implements Key.
func (k *PublicKey) Algorithm() string { return "RSA" }

// Algorithm implements Key.
func (k *PrivateKey) Algorithm() string { return "RSA" }

// Bits returns the modulus size in bits.
func (k *PublicKey) Bits() int { return k.key.N.BitLen() }

// Bits returns the modulus size in bits.
func (k *PrivateKey) Bits() int { return k.key.N.BitLen() }

// Public returns the corresponding public key with the same scheme
// configuration.
func (k *PrivateKey) Public() *PublicKey {
	return &PublicKey{key: &k.key.PublicKey, opts: k.opts}
}

// Hash returns the configured hash name.
func (k *PublicKey) Hash() string { return k.opts.hash }

// Hash returns the configured hash name.
func (k *PrivateKey) Hash() string { return k.opts.hash }

// CryptoPrivateKey exposes the underlying stdlib key for interop with
// APIs that take crypto.Signer.
func (k *PrivateKey) CryptoPrivateKey() *rsa.PrivateKey { return k.key }

// CryptoPublicKey exposes the underlying stdlib key.
func (k *PublicKey) CryptoPublicKey() *rsa.PublicKey { return k.key }

// --- derivations (pure: receiver unchanged, new value returned) -------

// WithHash returns a copy configured for the named hash. Unsupported
// names fall back to SHA-1.
func (k *PrivateKey) WithHash(name string) *PrivateKey {
	o := k.opts
	o.hash, _ = resolveHash(name)
	return &PrivateKey{key: k.key, opts: o}
}

// WithHash returns a copy configured for the named hash. Unsupported
// names fall back to SHA-1.
func (k *PublicKey) WithHash(name string) *PublicKey {
	o := k.opts
	o.hash, _ = resolveHash(name)
	return &PublicKey{key: k.key, opts: o}
}

// WithMGFHash returns a copy configured for the named OAEP mask
// generation hash. PSS always uses the scheme hash for MGF1.
func (k *PrivateKey) WithMGFHash(name string) *PrivateKey {
	o := k.opts
	o.mgfHash, _ = resolveHash(name)
	return &PrivateKey{key: k.key, opts: o}
}

// WithMGFHash returns a copy configured for the named OAEP mask
// generation hash. PSS always uses the scheme hash for MGF1.
func (k *PublicKey) WithMGFHash(name string) *PublicKey {
	o := k.opts
	o.mgfHash, _ = resolveHash(name)
	return &PublicKey{key: k.key, opts: o}
}

// WithSaltLength returns a copy configured for the given PSS salt length
// in bytes. Zero selects the hash output length.
func (k *PrivateKey) WithSaltLength(n int) *PrivateKey {
	o := k.opts
	o.saltLength = n
	return &PrivateKey{key: k.key, opts: o}
}

// WithSaltLength returns a copy configured for the given PSS salt length.
func (k *PublicKey) WithSaltLength(n int) *PublicKey {
	o := k.opts
	o.saltLength = n
	return &PublicKey{key: k.key, opts: o}
}

// WithSignaturePadding returns a copy using the given signature scheme.
func (k *PrivateKey) WithSignaturePadding(p SignaturePadding) *PrivateKey {
	o := k.opts
	o.sigPad = p
	return &PrivateKey{key: k.key, opts: o}
}

// WithSignaturePadding returns a copy using the given signature scheme.
func (k *PublicKey) WithSignaturePadding(p SignaturePadding) *PublicKey {
	o := k.opts
	o.sigPad = p
	return &PublicKey{key: k.key, opts: o}
}

// WithEncryptionPadding returns a copy using the given encryption
// padding.
func (k *PrivateKey) WithEncryptionPadding(p EncryptionPadding) *PrivateKey {
	o := k.opts
	o.encPad = p
	return &PrivateKey{key: k.key, opts: o}
}

// WithEncryptionPadding returns a copy using the given encryption
// padding.
func (k *PublicKey) WithEncryptionPadding(p EncryptionPadding) *PublicKey {
	o := k.opts
	o.encPad = p
	return &PublicKey{key: k.key, opts: o}
}

// FromRSAPrivateKey wraps an existing stdlib key with default options.
func FromRSAPrivateKey(key *rsa.PrivateKey) *PrivateKey {
	return &PrivateKey{key: key, opts: defaultOptions()}
}

// FromRSAPublicKey wraps an existing stdlib key with default options.
func FromRSAPublicKey(key *rsa.PublicKey) *PublicKey {
	return &PublicKey{key: key, opts: defaultOptions()}
}
