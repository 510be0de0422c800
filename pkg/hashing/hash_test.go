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

package hashing

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		alg  string
		in   string
		want string
	}{
		{"md5", "abc", "900150983cd24fb0d6963f7d28e17f72"},
		{"sha1", "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"sha256", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"sha384", "abc", "cb00753f45a35e8bb5a03d699ac65007272c32ab0eded1631a8b605a43ff5bed8086072ba1e7cc2358baeca134c825a7"},
		{"sha512", "abc", "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
		{"md5-96", "abc", "900150983cd24fb0d6963f7d"},
		{"sha1-96", "abc", "a9993e364706816aba3e2571"},
	}
	for _, tt := range tests {
		t.Run(tt.alg, func(t *testing.T) {
			got := hex.EncodeToString(New(tt.alg).Sum([]byte(tt.in)))
			require.Equal(t, tt.want, got)
		})
	}
}

// Unknown algorithm names fall back to SHA-1 instead of failing.
func TestUnknownNameFallsBack(t *testing.T) {
	h := New("whirlpool-x")
	require.Equal(t, "sha1", h.Name())
	require.Equal(t, 20, h.Len())

	sum := sha1.Sum([]byte("hello"))
	require.Equal(t, sum[:], h.Sum([]byte("hello")))
}

func TestHMACSHA1Vector(t *testing.T) {
	// Computed independently per RFC 2104 composition.
	mac := hmac.New(sha1.New, []byte("abcdefg"))
	mac.Write([]byte("abcdefg"))
	want := mac.Sum(nil)

	h := New("sha1")
	h.SetKey([]byte("abcdefg"))
	require.True(t, h.IsHMAC())
	require.Equal(t, want, h.Sum([]byte("abcdefg")))
}

func TestHMACTruncated(t *testing.T) {
	h := New("sha256-96")
	h.SetKey([]byte("key"))
	got := h.Sum([]byte("message"))
	require.Len(t, got, 12)

	full := New("sha256")
	full.SetKey([]byte("key"))
	require.Equal(t, full.Sum([]byte("message"))[:12], got)
}

func TestSetKeyNilRevertsToDigest(t *testing.T) {
	h := New("sha256")
	h.SetKey([]byte("key"))
	h.SetKey(nil)
	require.False(t, h.IsHMAC())
	require.Equal(t, New("sha256").Sum([]byte("x")), h.Sum([]byte("x")))
}

func TestMD2(t *testing.T) {
	// RFC 1319 test vector.
	got := hex.EncodeToString(New("md2").Sum([]byte("abc")))
	require.Equal(t, "da853b0d3f88d99b30283a69e6ded6bb", got)
}

func TestLengths(t *testing.T) {
	tests := map[string]int{
		"md2": 16, "md5": 16, "sha1": 20, "sha256": 32,
		"sha384": 48, "sha512": 64, "sha512-96": 12,
	}
	for alg, want := range tests {
		if got := New(alg).Len(); got != want {
			t.Errorf("%s: Len() = %d, want %d", alg, got, want)
		}
	}
}
