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

// Package hashing provides the keyed and unkeyed hash engine used by the
// cipher, key and transport layers. Algorithm lookup is by lowercase name;
// an unknown name falls back to SHA-1 rather than failing, preserving the
// legacy contract of the wrapped API generation.
//
// The "-96" variants return only the first 12 bytes of the full digest or
// HMAC, as used by the ssh2 MAC algorithms.
package hashing

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"

	"github.com/htruong/go-md2"
)

// DefaultAlgorithm is the fallback for unrecognized algorithm names.
const DefaultAlgorithm = "sha1"

// truncatedLength is the output size of the "-96" digest variants.
const truncatedLength = 12

type algorithm struct {
	factory func() hash.Hash
	length  int // output length in bytes after truncation
}

var algorithms = map[string]algorithm{
	"md2":        {md2.New, 16},
	"md5":        {md5.New, md5.Size},
	"md5-96":     {md5.New, truncatedLength},
	"sha1":       {sha1.New, sha1.Size},
	"sha1-96":    {sha1.New, truncatedLength},
	"sha224":     {sha256.New224, sha256.Size224},
	"sha256":     {sha256.New, sha256.Size},
	"sha256-96":  {sha256.New, truncatedLength},
	"sha384":     {sha512.New384, sha512.Size384},
	"sha512":     {sha512.New, sha512.Size},
	"sha512-96":  {sha512.New, truncatedLength},
	"sha512/224": {sha512.New512_224, sha512.Size224},
	"sha512/256": {sha512.New512_256, sha512.Size256},
}

// Hash is a mutable hash context. Setting a key switches the instance from
// plain digest to HMAC mode. Instances are not safe for concurrent use;
// allocate one per goroutine.
type Hash struct {
	name string
	alg  algorithm
	key  []byte
}

// New constructs a hash context for the named algorithm. Unknown names
// select DefaultAlgorithm; construction never fails.
func New(name string) *Hash {
	n := strings.ToLower(strings.TrimSpace(name))
	alg, ok := algorithms[n]
	if !ok {
		n = DefaultAlgorithm
		alg = algorithms[n]
	}
	return &Hash{name: n, alg: alg}
}

// Factory returns a constructor for the underlying (untruncated) hash of
// the named algorithm, falling back to SHA-1 like New. Used where an API
// wants a func() hash.Hash, e.g. PBKDF2 and HMAC composition.
func Factory(name string) func() hash.Hash {
	n := strings.ToLower(strings.TrimSpace(name))
	alg, ok := algorithms[n]
	if !ok {
		alg = algorithms[DefaultAlgorithm]
	}
	return alg.factory
}

// Supported reports whether name maps to a concrete algorithm rather than
// the fallback.
func Supported(name string) bool {
	_, ok := algorithms[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Name returns the resolved algorithm name.
func (h *Hash) Name() string { return h.name }

// SetKey switches the context to HMAC mode. A nil key reverts to plain
// digest mode.
func (h *Hash) SetKey(key []byte) {
	if key == nil {
		h.key = nil
		return
	}
	h.key = append([]byte(nil), key...)
}

// IsHMAC reports whether the context is keyed.
func (h *Hash) IsHMAC() bool { return h.key != nil }

// Len returns the output length in bytes, accounting for -96 truncation.
func (h *Hash) Len() int { return h.alg.length }

// BlockSize returns the underlying hash's block size, needed for HMAC key
// preparation by callers that do their own keying.
func (h *Hash) BlockSize() int { return h.alg.factory().BlockSize() }

// Sum computes the digest (or HMAC when keyed) of data, truncated to Len
// bytes for the -96 variants.
func (h *Hash) Sum(data []byte) []byte {
	var hh hash.Hash
	if h.key != nil {
		hh = hmac.New(h.alg.factory, h.key)
	} else {
		hh = h.alg.factory()
	}
	hh.Write(data)
	return hh.Sum(nil)[:h.alg.length]
}

// Equal compares two digests in constant time.
func Equal(a, b []byte) bool { return hmac.Equal(a, b) }
