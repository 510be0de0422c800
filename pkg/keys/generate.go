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

import (
	"crypto/rsa"
	"fmt"
	"math/big"
	"time"

	"github.com/purecrypt/go-purecrypt/pkg/bigint"
	"github.com/purecrypt/go-purecrypt/pkg/metrics"
)

// publicExponent is the conventional RSA public exponent.
const publicExponent = 65537

// Partial is resumable key-generation state: the primes found before the
// deadline elapsed. Feed it back to Resume to continue instead of
// restarting.
type Partial struct {
	Bits   int
	Primes []*bigint.Int
}

// Generate creates an RSA key pair of the given modulus size. Primes come
// from the bigint engine (trial division + Miller-Rabin). When the
// timeout elapses mid-generation the error is ErrGenerationTimeout and
// the returned Partial carries the primes already found; pass it to
// Resume to continue. A timeout of zero means no deadline.
func Generate(bits int, timeout time.Duration) (*PrivateKey, *Partial, error) {
	if bits < 512 || bits%2 != 0 {
		return nil, nil, ErrInvalidBits
	}
	start := time.Now()
	key, partial, err := resume(&Partial{Bits: bits}, timeout)
	alg := fmt.Sprintf("rsa-%d", bits)
	if err != nil {
		metrics.RecordOperation(metrics.OpGenerate, alg, metrics.StatusError, time.Since(start).Seconds())
		return nil, partial, err
	}
	metrics.RecordOperation(metrics.OpGenerate, alg, metrics.StatusSuccess, time.Since(start).Seconds())
	metrics.RecordKeyGenerated(bits)
	return key, nil, nil
}

// Resume continues key generation from a Partial returned by an earlier
// timed-out call.
func Resume(p *Partial, timeout time.Duration) (*PrivateKey, *Partial, error) {
	if p == nil || p.Bits < 512 {
		return nil, nil, ErrInvalidBits
	}
	cp := &Partial{Bits: p.Bits, Primes: append([]*bigint.Int(nil), p.Primes...)}
	return resume(cp, timeout)
}

func resume(p *Partial, timeout time.Duration) (*PrivateKey, *Partial, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	remaining := func() time.Duration {
		if deadline.IsZero() {
			return 0
		}
		d := time.Until(deadline)
		if d <= 0 {
			return -1
		}
		return d
	}

	e := bigint.New(publicExponent)
	for {
		for len(p.Primes) < 2 {
			d := remaining()
			if d < 0 {
				return nil, p, ErrGenerationTimeout
			}
			prime, err := bigint.RandomPrimeBits(p.Bits/2, d)
			if err != nil {
				if err == bigint.ErrTimeout {
					return nil, p, ErrGenerationTimeout
				}
				return nil, nil, fmt.Errorf("keys: prime generation: %w", err)
			}
			p.Primes = append(p.Primes, prime)
		}

		pp, qq := p.Primes[0], p.Primes[1]
		if pp.Equals(qq) {
			p.Primes = p.Primes[:1]
			continue
		}

		// d = e^-1 mod lcm(p-1, q-1)
		p1 := pp.Sub(bigint.One())
		q1 := qq.Sub(bigint.One())
		lambda := p1.Mul(q1)
		gcd := p1.GCD(q1)
		lambda, _, _ = lambda.DivMod(gcd)

		d, err := e.ModInverse(lambda)
		if err != nil {
			// e shares a factor with lambda; discard q and retry.
			p.Primes = p.Primes[:1]
			continue
		}

		key := &rsa.PrivateKey{
			PublicKey: rsa.PublicKey{
				N: pp.Mul(qq).Big(),
				E: publicExponent,
			},
			D:      d.Big(),
			Primes: []*big.Int{pp.Big(), qq.Big()},
		}
		key.Precompute()
		if err := key.Validate(); err != nil {
			// Should not happen with distinct probable primes; retry
			// from scratch rather than returning a bad key.
			p.Primes = nil
			continue
		}
		return &PrivateKey{key: key, opts: defaultOptions()}, nil, nil
	}
}
