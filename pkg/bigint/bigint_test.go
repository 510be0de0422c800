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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	a := New(1234567)
	b := New(-7654321)

	if got := a.Add(b).Int64(); got != -6419754 {
		t.Errorf("Add: got %d, want -6419754", got)
	}
	if got := a.Sub(b).Int64(); got != 8888888 {
		t.Errorf("Sub: got %d, want 8888888", got)
	}
	if got := New(1111).Mul(New(2222)).Int64(); got != 2468642 {
		t.Errorf("Mul: got %d, want 2468642", got)
	}
}

// TestOperandsNotMutated verifies the pure-function contract: operations
// never write through their receivers or arguments.
func TestOperandsNotMutated(t *testing.T) {
	a := New(100)
	b := New(7)

	_ = a.Add(b)
	_ = a.Mul(b)
	_, _, _ = a.DivMod(b)
	_, _ = a.Mod(b)
	_, _ = a.ModExp(b, New(13))

	if a.Int64() != 100 || b.Int64() != 7 {
		t.Fatalf("operands mutated: a=%d b=%d", a.Int64(), b.Int64())
	}
}

// TestDivModTruncation pins the documented division convention: quotient
// truncated toward zero, remainder sign follows the dividend.
func TestDivModTruncation(t *testing.T) {
	tests := []struct {
		x, y, q, r int64
	}{
		{7, 3, 2, 1},
		{-7, 3, -2, -1},
		{7, -3, -2, 1},
		{-7, -3, 2, -1},
	}
	for _, tt := range tests {
		q, r, err := New(tt.x).DivMod(New(tt.y))
		require.NoError(t, err)
		require.Equal(t, tt.q, q.Int64(), "quotient of %d/%d", tt.x, tt.y)
		require.Equal(t, tt.r, r.Int64(), "remainder of %d/%d", tt.x, tt.y)
	}
}

// TestModEuclidean pins the documented Mod convention: result always in
// [0, |m|) regardless of operand signs.
func TestModEuclidean(t *testing.T) {
	tests := []struct {
		x, m, want int64
	}{
		{7, 3, 1},
		{-7, 3, 2},
		{7, -3, 1},
		{-7, -3, 2},
	}
	for _, tt := range tests {
		got, err := New(tt.x).Mod(New(tt.m))
		require.NoError(t, err)
		require.Equal(t, tt.want, got.Int64(), "%d mod %d", tt.x, tt.m)
	}
}

func TestDivideByZero(t *testing.T) {
	if _, _, err := New(1).DivMod(Zero()); err != ErrDivideByZero {
		t.Errorf("DivMod by zero: got %v, want ErrDivideByZero", err)
	}
	if _, err := New(1).Mod(Zero()); err != ErrDivideByZero {
		t.Errorf("Mod by zero: got %v, want ErrDivideByZero", err)
	}
}

func TestModExp(t *testing.T) {
	got, err := New(4).ModExp(New(13), New(497))
	require.NoError(t, err)
	require.Equal(t, int64(445), got.Int64())

	// Negative exponent resolves through the inverse.
	inv, err := New(3).ModExp(New(-1), New(7))
	require.NoError(t, err)
	require.Equal(t, int64(5), inv.Int64())
}

func TestModInverse(t *testing.T) {
	inv, err := New(3).ModInverse(New(11))
	require.NoError(t, err)
	require.Equal(t, int64(4), inv.Int64())

	_, err = New(4).ModInverse(New(8))
	require.ErrorIs(t, err, ErrNoInverse)
}

func TestGCD(t *testing.T) {
	if got := New(54).GCD(New(-24)).Int64(); got != 6 {
		t.Errorf("GCD(54,-24): got %d, want 6", got)
	}
}

func TestSignedBytesRoundTrip(t *testing.T) {
	values := []int64{0, 1, 127, 128, 255, 256, -1, -128, -129, -255, -256, 65535, -65536}
	for _, v := range values {
		enc := New(v).SignedBytes()
		got := FromSignedBytes(enc)
		if got.Int64() != v {
			t.Errorf("round trip %d: got %d (bytes %x)", v, got.Int64(), enc)
		}
	}
}

func TestSignedBytesEncoding(t *testing.T) {
	// 128 needs a leading zero so the sign bit reads positive.
	require.Equal(t, []byte{0x00, 0x80}, New(128).SignedBytes())
	require.Equal(t, []byte{0xff}, New(-1).SignedBytes())
	require.Equal(t, []byte{0x80}, New(-128).SignedBytes())
}

func TestFixedBytes(t *testing.T) {
	got := New(0x0102).FixedBytes(4)
	if !bytes.Equal(got, []byte{0, 0, 1, 2}) {
		t.Errorf("FixedBytes: got %x", got)
	}
}

func TestStringConversion(t *testing.T) {
	x, err := FromString("deadbeef", 16)
	require.NoError(t, err)
	require.Equal(t, "3735928559", x.String())

	bin, err := x.Text(2)
	require.NoError(t, err)
	require.Equal(t, "11011110101011011011111011101111", bin)

	_, err = FromString("10", 7)
	require.ErrorIs(t, err, ErrInvalidBase)

	_, err = x.Text(36)
	require.ErrorIs(t, err, ErrInvalidBase)
}

func TestRandomRange(t *testing.T) {
	min, max := New(10), New(20)
	for i := 0; i < 200; i++ {
		n, err := RandomRange(min, max)
		require.NoError(t, err)
		if n.Cmp(min) < 0 || n.Cmp(max) > 0 {
			t.Fatalf("RandomRange out of bounds: %v", n)
		}
	}

	// Inclusive on a degenerate range.
	n, err := RandomRange(New(5), New(5))
	require.NoError(t, err)
	require.Equal(t, int64(5), n.Int64())

	_, err = RandomRange(New(6), New(5))
	require.ErrorIs(t, err, ErrInvalidRange)
}
