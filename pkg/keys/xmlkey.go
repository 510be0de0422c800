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
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"math/big"
)

// loadXML parses the .NET RSAKeyValue XML container. The D element
// decides whether the result is a private or a public key.
func loadXML(data []byte) (Key, error) {
	var kv rsaKeyValue
	if err := xml.Unmarshal(data, &kv); err != nil {
		return nil, ErrNoKeyLoaded
	}
	if kv.Modulus == "" || kv.Exponent == "" {
		return nil, fmt.Errorf("%w: missing modulus or exponent", ErrMalformedKey)
	}

	n, err := xmlInt(kv.Modulus)
	if err != nil {
		return nil, err
	}
	e, err := xmlInt(kv.Exponent)
	if err != nil {
		return nil, err
	}
	if !e.IsInt64() || e.Int64() <= 0 {
		return nil, fmt.Errorf("%w: bad public exponent", ErrMalformedKey)
	}
	pub := &rsa.PublicKey{N: n, E: int(e.Int64())}

	if kv.D == "" {
		return FromRSAPublicKey(pub), nil
	}

	d, err := xmlInt(kv.D)
	if err != nil {
		return nil, err
	}
	priv := &rsa.PrivateKey{PublicKey: *pub, D: d}
	if kv.P != "" && kv.Q != "" {
		p, err := xmlInt(kv.P)
		if err != nil {
			return nil, err
		}
		q, err := xmlInt(kv.Q)
		if err != nil {
			return nil, err
		}
		priv.Primes = []*big.Int{p, q}
		priv.Precompute()
		if err := priv.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
	}
	return FromRSAPrivateKey(priv), nil
}

func xmlInt(s string) (*big.Int, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return new(big.Int).SetBytes(raw), nil
}

// SaveXML serializes the private key in the .NET RSAKeyValue format,
// including the CRT parameters.
func (k *PrivateKey) SaveXML() ([]byte, error) {
	key := k.key
	if len(key.Primes) < 2 {
		return nil, fmt.Errorf("%w: missing prime factors", ErrMalformedKey)
	}
	key.Precompute()
	kv := rsaKeyValue{
		Modulus:  xmlB64(key.N),
		Exponent: xmlB64(big.NewInt(int64(key.PublicKey.E))),
		P:        xmlB64(key.Primes[0]),
		Q:        xmlB64(key.Primes[1]),
		DP:       xmlB64(key.Precomputed.Dp),
		DQ:       xmlB64(key.Precomputed.Dq),
		InverseQ: xmlB64(key.Precomputed.Qinv),
		D:        xmlB64(key.D),
	}
	return xml.MarshalIndent(kv, "", "  ")
}

// SaveXML serializes the public key in the .NET RSAKeyValue format.
func (k *PublicKey) SaveXML() ([]byte, error) {
	kv := rsaKeyValue{
		Modulus:  xmlB64(k.key.N),
		Exponent: xmlB64(big.NewInt(int64(k.key.E))),
	}
	return xml.MarshalIndent(kv, "", "  ")
}

func xmlB64(v *big.Int) string {
	return base64.StdEncoding.EncodeToString(v.Bytes())
}
