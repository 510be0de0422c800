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
)

// FromComponents assembles a key from raw RSA parameters. With d nil the
// result is a *PublicKey; with d set it is a *PrivateKey, and the prime
// factors, when supplied, are validated against the modulus.
func FromComponents(n, e, d, p, q *big.Int) (Key, error) {
	if n == nil || e == nil {
		return nil, fmt.Errorf("%w: modulus and exponent required", ErrMalformedKey)
	}
	if !e.IsInt64() || e.Int64() <= 1 {
		return nil, fmt.Errorf("%w: bad public exponent", ErrMalformedKey)
	}
	pub := &rsa.PublicKey{N: n, E: int(e.Int64())}

	if d == nil {
		return FromRSAPublicKey(pub), nil
	}

	priv := &rsa.PrivateKey{PublicKey: *pub, D: d}
	if p != nil && q != nil {
		if new(big.Int).Mul(p, q).Cmp(n) != 0 {
			return nil, fmt.Errorf("%w: primes do not match modulus", ErrMalformedKey)
		}
		priv.Primes = []*big.Int{p, q}
		priv.Precompute()
		if err := priv.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
	}
	return FromRSAPrivateKey(priv), nil
}
