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

package bigint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsPrime(t *testing.T) {
	primes := []int64{2, 3, 5, 7, 97, 251, 257, 65537, 999999937}
	for _, p := range primes {
		if !New(p).IsPrime() {
			t.Errorf("%d reported composite", p)
		}
	}
	composites := []int64{0, 1, 4, 9, 255, 65535, 999999938}
	for _, c := range composites {
		if New(c).IsPrime() {
			t.Errorf("%d reported prime", c)
		}
	}
	if New(-7).IsPrime() {
		t.Error("negative value reported prime")
	}
}

func TestRandomPrimeInRange(t *testing.T) {
	p, err := RandomPrime(New(1000), New(2000), 5*time.Second)
	require.NoError(t, err)
	require.True(t, p.IsPrime())
	require.True(t, p.Cmp(New(1000)) >= 0 && p.Cmp(New(2000)) <= 0)
}

// A range with no primes must report ErrNoPrime, a recoverable condition.
func TestRandomPrimeEmptyRange(t *testing.T) {
	// 24..28 contains no primes.
	_, err := RandomPrime(New(24), New(28), time.Second)
	require.ErrorIs(t, err, ErrNoPrime)
}

func TestRandomPrimeInvalidRange(t *testing.T) {
	_, err := RandomPrime(New(100), New(10), time.Second)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestRandomPrimeBits(t *testing.T) {
	p, err := RandomPrimeBits(128, 30*time.Second)
	require.NoError(t, err)
	require.Equal(t, 128, p.BitLen())
	require.True(t, p.IsPrime())
}
