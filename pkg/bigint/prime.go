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
	"math/big"
	"time"
)

// millerRabinRounds is the number of Miller-Rabin rounds applied after
// trial division. math/big additionally runs a Baillie-PSW test, so the
// false-positive probability is negligible for crypto-sized candidates.
const millerRabinRounds = 20

// smallPrimes is the trial-division prefilter applied before the expensive
// probabilistic rounds.
var smallPrimes = []int64{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47,
	53, 59, 61, 67, 71, 73, 79, 83, 89, 97, 101, 103, 107, 109,
	113, 127, 131, 137, 139, 149, 151, 157, 163, 167, 173, 179,
	181, 191, 193, 197, 199, 211, 223, 227, 229, 233, 239, 241,
	251,
}

// IsPrime reports whether x is probably prime. Trial division by small
// primes runs first; survivors get Miller-Rabin rounds.
func (x *Int) IsPrime() bool {
	if x.v.Sign() <= 0 {
		return false
	}
	if x.v.BitLen() <= 8 {
		n := x.v.Int64()
		if n == 2 {
			return true
		}
		if n < 2 || n%2 == 0 {
			return false
		}
		for _, p := range smallPrimes {
			if p*p > n {
				break
			}
			if n%p == 0 {
				return false
			}
		}
		return true
	}
	if x.v.Bit(0) == 0 {
		return false
	}
	rem := new(big.Int)
	for _, p := range smallPrimes {
		rem.Mod(x.v, big.NewInt(p))
		if rem.Sign() == 0 {
			return false
		}
	}
	return x.v.ProbablyPrime(millerRabinRounds)
}

// RandomPrime returns a probable prime drawn uniformly from [min, max]
// inclusive. It fails with ErrNoPrime when the range provably contains no
// prime, and with ErrTimeout when the deadline elapses first. Both are
// recoverable conditions; callers should retry with a wider range or a
// longer timeout. A timeout of zero means no deadline.
func RandomPrime(min, max *Int, timeout time.Duration) (*Int, error) {
	if min.Cmp(max) > 0 {
		return nil, ErrInvalidRange
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	// Narrow ranges are scanned exhaustively so a prime-free interval
	// reports ErrNoPrime instead of spinning until the deadline.
	width := new(big.Int).Sub(max.v, min.v)
	if width.Cmp(big.NewInt(1024)) <= 0 {
		for c := new(big.Int).Set(min.v); c.Cmp(max.v) <= 0; c.Add(c, big.NewInt(1)) {
			if !deadline.IsZero() && time.Now().After(deadline) {
				return nil, ErrTimeout
			}
			cand := &Int{v: new(big.Int).Set(c)}
			if cand.IsPrime() {
				return cand, nil
			}
		}
		return nil, ErrNoPrime
	}

	for {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, ErrTimeout
		}
		cand, err := RandomRange(min, max)
		if err != nil {
			return nil, err
		}
		// Force odd; an even candidate moves to the nearest odd
		// neighbour still inside the range.
		if cand.v.Bit(0) == 0 {
			cand = cand.Add(One())
			if cand.Cmp(max) > 0 {
				cand = cand.Sub(New(2))
			}
			if cand.Cmp(min) < 0 {
				continue
			}
		}
		if cand.IsPrime() {
			return cand, nil
		}
	}
}

// RandomPrimeBits returns a probable prime of exactly bits bits, i.e. with
// the top bit set, honoring the same timeout semantics as RandomPrime.
func RandomPrimeBits(bits int, timeout time.Duration) (*Int, error) {
	if bits < 2 {
		return nil, ErrInvalidRange
	}
	min := &Int{v: new(big.Int).Lsh(big.NewInt(1), uint(bits-1))}
	max := &Int{v: new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))}
	return RandomPrime(min, max, timeout)
}
