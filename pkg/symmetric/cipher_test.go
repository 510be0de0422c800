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

package symmetric

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestKeyLengthClamping walks the documented clamping boundaries for every
// algorithm. These values are interoperability contracts.
func TestKeyLengthClamping(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		mode Mode
		in   int
		want int
	}{
		{Blowfish, CBC, 16, 32},
		{Blowfish, CBC, 32, 32},
		{Blowfish, CBC, 100, 100},
		{Blowfish, CBC, 448, 448},
		{Blowfish, CBC, 500, 448},
		{RC2, CBC, 4, 8},
		{RC2, CBC, 8, 8},
		{RC2, CBC, 129, 129},
		{RC2, CBC, 1024, 1024},
		{RC2, CBC, 2000, 1024},
		{RC4, Stream, 4, 8},
		{RC4, Stream, 2048, 2048},
		{RC4, Stream, 4096, 2048},
		{TripleDES, CBC, 40, 64},
		{TripleDES, CBC, 64, 64},
		{TripleDES, CBC, 100, 128},
		{TripleDES, CBC, 128, 128},
		{TripleDES, CBC, 129, 192},
		{TripleDES, CBC, 256, 192},
		{AES, CBC, 100, 128},
		{AES, CBC, 128, 128},
		{AES, CBC, 150, 160},
		{AES, CBC, 190, 192},
		{AES, CBC, 200, 224},
		{AES, CBC, 225, 256},
		{AES, CBC, 999, 256},
		{Twofish, CBC, 100, 128},
		{Twofish, CBC, 180, 192},
		{Twofish, CBC, 300, 256},
		{DES, CBC, 1, 64},
		{DES, CBC, 56, 64},
		{DES, CBC, 1000, 64},
	}
	for _, tt := range tests {
		c, err := New(tt.alg, tt.mode)
		require.NoError(t, err)
		c.SetKeyLength(tt.in)
		if got := c.GetKeyLength(); got != tt.want {
			t.Errorf("%s SetKeyLength(%d): got %d, want %d", tt.alg, tt.in, got, tt.want)
		}
	}
}

// Fixed scenario: AES-CBC with ASCII key and zero IV must round trip the
// 16-byte block exactly.
func TestAESCBCFixedScenario(t *testing.T) {
	c, err := New(AES, CBC)
	require.NoError(t, err)
	c.SetKey([]byte("0123456789ABCDEF"))
	require.NoError(t, c.SetIV(make([]byte, 16)))

	plaintext := []byte("0123456789ABCDEF")
	ct, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ct[:16])

	got, err := c.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestRoundTripAllAlgorithms(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		mode Mode
		key  []byte
		bits int
	}{
		{AES, CBC, []byte("0123456789abcdef"), 128},
		{AES, ECB, []byte("0123456789abcdef"), 128},
		{AES, CFB, []byte("0123456789abcdef"), 128},
		{AES, CFB8, []byte("0123456789abcdef"), 128},
		{AES, OFB, []byte("0123456789abcdef"), 128},
		{AES, CTR, []byte("0123456789abcdef"), 128},
		{DES, CBC, []byte("8bytekey"), 64},
		{TripleDES, CBC, []byte("0123456789abcdef01234567"), 192},
		{Blowfish, CBC, []byte("blowfishkey00000"), 128},
		{Twofish, CBC, []byte("0123456789abcdef"), 128},
		{RC2, CBC, []byte("rc2keybytes00000"), 128},
		{IDEA, CBC, []byte("0123456789abcdef"), 128},
		{RC4, Stream, []byte("rc4secretkey0000"), 128},
	}
	msg := []byte("the quick brown fox jumps over the lazy dog")
	for _, tt := range tests {
		t.Run(tt.alg.String()+"/"+tt.mode.String(), func(t *testing.T) {
			enc, err := New(tt.alg, tt.mode)
			require.NoError(t, err)
			enc.SetKeyLength(tt.bits)
			enc.SetKey(tt.key)
			if tt.mode.usesIV() {
				require.NoError(t, enc.SetIV(bytes.Repeat([]byte{0x42}, enc.BlockSize())))
			}

			ct, err := enc.Encrypt(msg)
			require.NoError(t, err)

			got, err := enc.Decrypt(ct)
			require.NoError(t, err)
			require.Equal(t, msg, got)
		})
	}
}

// Two continuous-buffer calls must equal one call over the concatenation.
func TestContinuousBufferEquivalence(t *testing.T) {
	for _, mode := range []Mode{CBC, CFB, CFB8, OFB, CTR} {
		t.Run(mode.String(), func(t *testing.T) {
			key := []byte("0123456789abcdef")
			iv := bytes.Repeat([]byte{7}, 16)
			msg := []byte("0123456789abcdef0123456789abcdefXYZ")
			if mode == CBC {
				msg = msg[:32] // block aligned for the split below
			}

			one, err := New(AES, mode)
			require.NoError(t, err)
			one.SetKey(key)
			require.NoError(t, one.SetIV(iv))
			one.DisablePadding()
			want, err := one.Encrypt(msg)
			require.NoError(t, err)

			split, err := New(AES, mode)
			require.NoError(t, err)
			split.SetKey(key)
			require.NoError(t, split.SetIV(iv))
			split.DisablePadding()
			require.NoError(t, split.EnableContinuousBuffer())
			a, err := split.Encrypt(msg[:16])
			require.NoError(t, err)
			b, err := split.Encrypt(msg[16:])
			require.NoError(t, err)
			require.Equal(t, want, append(a, b...))
		})
	}
}

// With continuous buffering disabled each call restarts from the
// configured IV, so two identical calls produce identical output.
func TestNonContinuousResetsIV(t *testing.T) {
	c, err := New(AES, CFB)
	require.NoError(t, err)
	c.SetKey([]byte("0123456789abcdef"))
	require.NoError(t, c.SetIV(make([]byte, 16)))

	first, err := c.Encrypt([]byte("hello world"))
	require.NoError(t, err)
	second, err := c.Encrypt([]byte("hello world"))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPaddingDisabledAlignment(t *testing.T) {
	c, err := New(AES, CBC)
	require.NoError(t, err)
	c.SetKey([]byte("0123456789abcdef"))
	require.NoError(t, c.SetIV(make([]byte, 16)))
	c.DisablePadding()

	_, err = c.Encrypt([]byte("short"))
	require.ErrorIs(t, err, ErrInputNotAligned)

	aligned := bytes.Repeat([]byte{1}, 32)
	ct, err := c.Encrypt(aligned)
	require.NoError(t, err)
	require.Len(t, ct, 32)

	got, err := c.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, aligned, got)
}

func TestGCMRoundTripAndTagMismatch(t *testing.T) {
	c, err := New(AES, GCM)
	require.NoError(t, err)
	c.SetKey([]byte("0123456789abcdef"))
	require.NoError(t, c.SetIV(make([]byte, 12)))

	msg := []byte("authenticated message")
	ct, err := c.Encrypt(msg)
	require.NoError(t, err)

	got, err := c.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, msg, got)

	// Flipping one ciphertext bit must report a tag mismatch, never
	// silent garbage.
	ct[0] ^= 0x01
	_, err = c.Decrypt(ct)
	require.ErrorIs(t, err, ErrTagMismatch)

	_, err = c.Decrypt([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrCiphertextTooShort)

	require.ErrorIs(t, c.EnableContinuousBuffer(), ErrContinuousUnsupported)
}

func TestErrorsBeforeConfiguration(t *testing.T) {
	c, err := New(AES, CBC)
	require.NoError(t, err)

	_, err = c.Encrypt([]byte("x"))
	require.ErrorIs(t, err, ErrNoKey)

	c.SetKey([]byte("0123456789abcdef"))
	_, err = c.Encrypt([]byte("x"))
	require.ErrorIs(t, err, ErrMissingIV)

	require.ErrorIs(t, c.SetIV([]byte{1, 2, 3}), ErrInvalidIV)
}

func TestStreamModeRejectedForBlockCipher(t *testing.T) {
	_, err := New(AES, Stream)
	require.ErrorIs(t, err, ErrUnsupportedMode)

	_, err = New(RC4, CBC)
	require.ErrorIs(t, err, ErrUnsupportedMode)

	_, err = New(DES, GCM)
	require.ErrorIs(t, err, ErrUnsupportedMode)
}
