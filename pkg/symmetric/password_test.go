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
	"crypto/md5"
	"crypto/sha1"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

// SetPassword with defaults must derive via PBKDF2/sha1 with the legacy
// salt and iteration count, byte-for-byte.
func TestSetPasswordDefaults(t *testing.T) {
	c, err := New(AES, CBC)
	require.NoError(t, err)
	require.NoError(t, c.SetPassword("hunter2", nil))
	require.NoError(t, c.SetIV(make([]byte, 16)))

	want := pbkdf2.Key([]byte("hunter2"), []byte(DefaultSalt), DefaultIterations, 16, sha1.New)

	ct, err := c.Encrypt([]byte("check"))
	require.NoError(t, err)

	ref, err := New(AES, CBC)
	require.NoError(t, err)
	ref.SetKey(want)
	require.NoError(t, ref.SetIV(make([]byte, 16)))
	refCT, err := ref.Encrypt([]byte("check"))
	require.NoError(t, err)
	require.Equal(t, refCT, ct)
}

func TestSetPasswordPBKDF1(t *testing.T) {
	c, err := New(DES, CBC)
	require.NoError(t, err)
	require.NoError(t, c.SetPassword("secret", &PasswordParams{
		Method:     PBKDF1,
		Hash:       "md5",
		Salt:       []byte("12345678"),
		Iterations: 3,
	}))

	// RFC 2898 §5.1: T1 = H(P||S), T2 = H(T1), T3 = H(T2), DK = T3[:8].
	t1 := md5.Sum([]byte("secret12345678"))
	t2 := md5.Sum(t1[:])
	t3 := md5.Sum(t2[:])
	require.Equal(t, t3[:8], c.key)
}

func TestSetPasswordPBKDF1TooLong(t *testing.T) {
	c, err := New(AES, CBC)
	require.NoError(t, err)
	c.SetKeyLength(256)
	err = c.SetPassword("secret", &PasswordParams{Method: PBKDF1, Hash: "md5"})
	require.ErrorIs(t, err, ErrDerivedKeyTooLong)
}

func TestSetPasswordRoundTrip(t *testing.T) {
	enc, err := New(AES, CBC)
	require.NoError(t, err)
	require.NoError(t, enc.SetPassword("correct horse", nil))
	require.NoError(t, enc.SetIV(make([]byte, 16)))

	dec, err := New(AES, CBC)
	require.NoError(t, err)
	require.NoError(t, dec.SetPassword("correct horse", nil))
	require.NoError(t, dec.SetIV(make([]byte, 16)))

	ct, err := enc.Encrypt([]byte("battery staple"))
	require.NoError(t, err)
	pt, err := dec.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, []byte("battery staple"), pt)
}
