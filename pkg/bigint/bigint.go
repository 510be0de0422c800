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

// Package bigint provides arbitrary-precision integer arithmetic for the
// asymmetric crypto engines. Every operation is a pure function: operands
// are never mutated and results are freshly allocated values, so Int values
// may be freely shared across goroutines once constructed.
//
// Division semantics are pinned explicitly because wrapped libraries have
// historically disagreed here:
//
//   - DivMod truncates the quotient toward zero and the remainder takes the
//     sign of the dividend (math/big Quo/Rem, i.e. Go's % operator).
//   - Mod is Euclidean: the result is always in [0, |m|), regardless of the
//     signs of the operands (math/big Mod).
package bigint

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Int is an immutable arbitrary-precision integer.
type Int struct {
	v *big.Int
}

// Zero returns the canonical zero value.
func Zero() *Int { return &Int{v: new(big.Int)} }

// One returns the value one.
func One() *Int { return &Int{v: big.NewInt(1)} }

// New returns an Int holding the given 64-bit value.
func New(x int64) *Int { return &Int{v: big.NewInt(x)} }

// FromBig returns an Int holding a copy of x.
func FromBig(x *big.Int) *Int { return &Int{v: new(big.Int).Set(x)} }

// FromBytes interprets data as an unsigned big-endian integer (base-256
// import).
func FromBytes(data []byte) *Int { return &Int{v: new(big.Int).SetBytes(data)} }

// FromSignedBytes interprets data as a two's-complement big-endian signed
// integer: a leading byte with the high bit set yields a negative value.
func FromSignedBytes(data []byte) *Int {
	if len(data) == 0 {
		return Zero()
	}
	v := new(big.Int).SetBytes(data)
	if data[0]&0x80 != 0 {
		bound := new(big.Int).Lsh(big.NewInt(1), uint(len(data)*8))
		v.Sub(v, bound)
	}
	return &Int{v: v}
}

// FromString parses s in the given base. Supported bases are 2, 10 and 16;
// use FromBytes for base-256 import.
func FromString(s string, base int) (*Int, error) {
	switch base {
	case 2, 10, 16:
	default:
		return nil, ErrInvalidBase
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("bigint: cannot parse %q in base %d", s, base)
	}
	return &Int{v: v}, nil
}

// Big returns a copy of the underlying math/big value.
func (x *Int) Big() *big.Int { return new(big.Int).Set(x.v) }

// Add returns x + y.
func (x *Int) Add(y *Int) *Int { return &Int{v: new(big.Int).Add(x.v, y.v)} }

// Sub returns x - y.
func (x *Int) Sub(y *Int) *Int { return &Int{v: new(big.Int).Sub(x.v, y.v)} }

// Mul returns x * y.
func (x *Int) Mul(y *Int) *Int { return &Int{v: new(big.Int).Mul(x.v, y.v)} }

// DivMod returns the quotient and remainder of x / y with the quotient
// truncated toward zero. The remainder takes the sign of the dividend.
func (x *Int) DivMod(y *Int) (*Int, *Int, error) {
	if y.v.Sign() == 0 {
		return nil, nil, ErrDivideByZero
	}
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(x.v, y.v, r)
	return &Int{v: q}, &Int{v: r}, nil
}

// Mod returns the Euclidean modulus of x by m: the result is always in
// [0, |m|).
func (x *Int) Mod(m *Int) (*Int, error) {
	if m.v.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	return &Int{v: new(big.Int).Mod(x.v, m.v)}, nil
}

// ModExp returns x^e mod m. A negative exponent is resolved through the
// modular inverse of x; if none exists the call fails.
func (x *Int) ModExp(e, m *Int) (*Int, error) {
	if m.v.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	if e.v.Sign() < 0 {
		inv := new(big.Int).ModInverse(x.v, m.v)
		if inv == nil {
			return nil, ErrNegativeExponent
		}
		return &Int{v: inv.Exp(inv, new(big.Int).Neg(e.v), m.v)}, nil
	}
	return &Int{v: new(big.Int).Exp(x.v, e.v, m.v)}, nil
}

// ModInverse returns x^-1 mod m, computed via the extended Euclidean
// algorithm. Fails with ErrNoInverse when gcd(x, m) != 1.
func (x *Int) ModInverse(m *Int) (*Int, error) {
	if m.v.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	inv := new(big.Int).ModInverse(x.v, m.v)
	if inv == nil {
		return nil, ErrNoInverse
	}
	return &Int{v: inv}, nil
}

// GCD returns the greatest common divisor of x and y.
func (x *Int) GCD(y *Int) *Int {
	a := new(big.Int).Abs(x.v)
	b := new(big.Int).Abs(y.v)
	return &Int{v: new(big.Int).GCD(nil, nil, a, b)}
}

// Neg returns -x.
func (x *Int) Neg() *Int { return &Int{v: new(big.Int).Neg(x.v)} }

// Abs returns |x|.
func (x *Int) Abs() *Int { return &Int{v: new(big.Int).Abs(x.v)} }

// Cmp compares x and y and returns -1, 0 or +1.
func (x *Int) Cmp(y *Int) int { return x.v.Cmp(y.v) }

// Sign returns -1, 0 or +1 according to the sign of x.
func (x *Int) Sign() int { return x.v.Sign() }

// Equals reports whether x and y represent the same value.
func (x *Int) Equals(y *Int) bool { return x.v.Cmp(y.v) == 0 }

// BitLen returns the length of x in bits; the bit length of zero is zero.
func (x *Int) BitLen() int { return x.v.BitLen() }

// Bit returns the value of the i'th bit of x.
func (x *Int) Bit(i int) uint { return x.v.Bit(i) }

// Lsh returns x << n.
func (x *Int) Lsh(n uint) *Int { return &Int{v: new(big.Int).Lsh(x.v, n)} }

// Rsh returns x >> n.
func (x *Int) Rsh(n uint) *Int { return &Int{v: new(big.Int).Rsh(x.v, n)} }

// Bytes returns the absolute value of x as an unsigned big-endian byte
// slice (base-256 export). Zero encodes as an empty slice.
func (x *Int) Bytes() []byte { return x.v.Bytes() }

// SignedBytes returns the minimal two's-complement big-endian encoding of x.
// A non-negative value whose top bit would read as a sign bit gains a
// leading zero byte; negative values are sign-extended.
func (x *Int) SignedBytes() []byte {
	switch x.v.Sign() {
	case 0:
		return []byte{0}
	case 1:
		b := x.v.Bytes()
		if b[0]&0x80 != 0 {
			return append([]byte{0}, b...)
		}
		return b
	}
	// Negative: find the minimal width that still reads back negative.
	n := (x.v.BitLen() / 8) + 1
	bound := new(big.Int).Lsh(big.NewInt(1), uint(n*8))
	tc := new(big.Int).Add(bound, x.v)
	b := tc.Bytes()
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	for len(out) > 1 && out[0] == 0xff && out[1]&0x80 != 0 {
		out = out[1:]
	}
	return out
}

// FixedBytes returns the absolute value of x left-padded with zeros to
// size bytes. Values wider than size are truncated to their low-order
// bytes.
func (x *Int) FixedBytes(size int) []byte {
	b := x.v.Bytes()
	if len(b) >= size {
		return b[len(b)-size:]
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

// String returns the base-10 representation of x.
func (x *Int) String() string { return x.v.String() }

// Text returns the representation of x in the given base (2, 10 or 16).
func (x *Int) Text(base int) (string, error) {
	switch base {
	case 2, 10, 16:
		return x.v.Text(base), nil
	}
	return "", ErrInvalidBase
}

// Int64 returns the value of x as an int64. The result is undefined when x
// does not fit.
func (x *Int) Int64() int64 { return x.v.Int64() }

// RandomRange returns a uniformly distributed value in [min, max]
// inclusive, drawn from crypto/rand.
func RandomRange(min, max *Int) (*Int, error) {
	if min.Cmp(max) > 0 {
		return nil, ErrInvalidRange
	}
	width := new(big.Int).Sub(max.v, min.v)
	width.Add(width, big.NewInt(1))
	n, err := rand.Int(rand.Reader, width)
	if err != nil {
		return nil, fmt.Errorf("bigint: random source failed: %w", err)
	}
	return &Int{v: n.Add(n, min.v)}, nil
}

// Random returns a uniformly distributed value with at most bits bits.
func Random(bits int) (*Int, error) {
	max := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	max.Sub(max, big.NewInt(1))
	return RandomRange(Zero(), &Int{v: max})
}
