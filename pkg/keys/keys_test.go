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
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	return FromRSAPrivateKey(key)
}

func TestGenerateInvalidBits(t *testing.T) {
	tests := []struct {
		name string
		bits int
	}{
		{"too small", 256},
		{"odd", 1023},
		{"zero", 0},
		{"negative", -512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Generate(tt.bits, 0)
			assert.ErrorIs(t, err, ErrInvalidBits)
		})
	}
}

func TestGenerate(t *testing.T) {
	key, partial, err := Generate(1024, 0)
	require.NoError(t, err)
	require.Nil(t, partial)
	assert.Equal(t, "RSA", key.Algorithm())
	assert.Equal(t, 1024, key.Bits())
	require.NoError(t, key.CryptoPrivateKey().Validate())
}

func TestGenerateTimeoutAndResume(t *testing.T) {
	key, partial, err := Generate(1024, time.Nanosecond)
	require.ErrorIs(t, err, ErrGenerationTimeout)
	require.Nil(t, key)
	require.NotNil(t, partial)
	assert.Equal(t, 1024, partial.Bits)

	key, partial, err = Resume(partial, 0)
	require.NoError(t, err)
	require.Nil(t, partial)
	assert.Equal(t, 1024, key.Bits())
}

func TestSignVerifyPSS(t *testing.T) {
	key := testKey(t)
	msg := []byte("the quick brown fox")

	sig, err := key.Sign(msg)
	require.NoError(t, err)
	require.NoError(t, key.Public().Verify(msg, sig))

	// Tampered message must fail, never pass silently.
	err = key.Public().Verify([]byte("the quick brown fax"), sig)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	sig[0] ^= 0xff
	err = key.Public().Verify(msg, sig)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestSignVerifyPKCS1v15(t *testing.T) {
	key := testKey(t).WithSignaturePadding(SignaturePKCS1v15).WithHash("sha1")
	msg := []byte("legacy signature scheme")

	sig, err := key.Sign(msg)
	require.NoError(t, err)

	pub := key.Public()
	require.NoError(t, pub.Verify(msg, sig))

	// A PSS-configured verifier must reject a v1.5 signature.
	err = pub.WithSignaturePadding(SignaturePSS).Verify(msg, sig)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestEncryptDecryptChunked(t *testing.T) {
	key := testKey(t)
	pub := key.Public()

	// 1024-bit key, sha256 OAEP: 62-byte chunks. 200 bytes spans four.
	plaintext := bytes.Repeat([]byte("purecrypt!"), 20)
	ct, err := pub.Encrypt(plaintext)
	require.NoError(t, err)
	assert.Equal(t, 4*128, len(ct))

	got, err := key.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncryptDecryptPKCS1v15(t *testing.T) {
	key := testKey(t).WithEncryptionPadding(EncryptionPKCS1v15)
	pub := key.Public()

	plaintext := bytes.Repeat([]byte{0xAB}, 150)
	ct, err := pub.Encrypt(plaintext)
	require.NoError(t, err)
	assert.Equal(t, 2*128, len(ct))

	got, err := key.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncryptDecryptOAEPMixedMGFHash(t *testing.T) {
	key := testKey(t).WithMGFHash("sha1")
	pub := key.Public()

	plaintext := []byte("mask generation matters")
	ct, err := pub.Encrypt(plaintext)
	require.NoError(t, err)

	got, err := key.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)

	// The same ciphertext must not decrypt under a different MGF1 hash.
	_, err = key.WithMGFHash("sha256").Decrypt(ct)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestEncryptEmpty(t *testing.T) {
	key := testKey(t)
	ct, err := key.Public().Encrypt(nil)
	require.NoError(t, err)
	assert.Equal(t, 128, len(ct))

	got, err := key.Decrypt(ct)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecryptGarbage(t *testing.T) {
	key := testKey(t)

	garbage := make([]byte, 128)
	_, err := rand.Read(garbage)
	require.NoError(t, err)
	garbage[0] = 0 // keep the value below the modulus

	_, err = key.Decrypt(garbage)
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, err = key.Decrypt(nil)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptAbortsWholeBatch(t *testing.T) {
	key := testKey(t)
	pub := key.Public()

	ct, err := pub.Encrypt(bytes.Repeat([]byte{1}, 100))
	require.NoError(t, err)
	require.Equal(t, 2*128, len(ct))

	// Corrupt only the second block: no partial plaintext from the first.
	ct[200] ^= 0x01
	_, err = key.Decrypt(ct)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestOAEPTooSmallForHash(t *testing.T) {
	small, err := rsa.GenerateKey(rand.Reader, 512)
	require.NoError(t, err)
	// sha512 OAEP needs 2*64+2 bytes of overhead; a 64-byte modulus
	// cannot carry any payload.
	pub := FromRSAPublicKey(&small.PublicKey).WithHash("sha512")
	_, err = pub.Encrypt([]byte("x"))
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestWithDerivationsAreImmutable(t *testing.T) {
	key := testKey(t)
	derived := key.WithHash("sha512").WithSignaturePadding(SignaturePKCS1v15)

	assert.Equal(t, "sha256", key.Hash())
	assert.Equal(t, "sha512", derived.Hash())
	// Same underlying key material.
	assert.Same(t, key.CryptoPrivateKey(), derived.CryptoPrivateKey())
}

func TestWithHashUnknownFallsBackToSHA1(t *testing.T) {
	key := testKey(t).WithHash("whirlpool-t")
	assert.Equal(t, "sha1", key.Hash())
}

func TestLoadPKCS1RoundTrip(t *testing.T) {
	key := testKey(t)
	pemData := key.SavePKCS1()

	loaded, err := LoadPrivate(pemData, nil)
	require.NoError(t, err)
	assert.Equal(t, key.Bits(), loaded.Bits())
	assert.Equal(t, 0, key.CryptoPrivateKey().D.Cmp(loaded.CryptoPrivateKey().D))
}

func TestLoadPKCS8RoundTrip(t *testing.T) {
	key := testKey(t)

	pemData, err := key.SavePKCS8(nil)
	require.NoError(t, err)
	loaded, err := LoadPrivate(pemData, nil)
	require.NoError(t, err)
	assert.Equal(t, key.Bits(), loaded.Bits())
}

func TestLoadPKCS8Encrypted(t *testing.T) {
	key := testKey(t)
	password := []byte("correct horse")

	pemData, err := key.SavePKCS8(password)
	require.NoError(t, err)

	_, err = Load(pemData, nil)
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = Load(pemData, []byte("battery staple"))
	assert.ErrorIs(t, err, ErrInvalidPassword)

	loaded, err := LoadPrivate(pemData, password)
	require.NoError(t, err)
	assert.Equal(t, key.Bits(), loaded.Bits())
}

func TestLoadRawDER(t *testing.T) {
	key := testKey(t)

	loaded, err := Load(key.CryptoPrivateKey().N.Bytes(), nil)
	assert.ErrorIs(t, err, ErrNoKeyLoaded)
	assert.Nil(t, loaded)

	der := x509.MarshalPKCS1PrivateKey(key.CryptoPrivateKey())
	loaded, err = Load(der, nil)
	require.NoError(t, err)
	assert.Equal(t, key.Bits(), loaded.(*PrivateKey).Bits())
}

func TestLoadOpenSSHRoundTrip(t *testing.T) {
	key := testKey(t)

	pemData, err := key.SaveOpenSSH("test@purecrypt", nil)
	require.NoError(t, err)
	loaded, err := LoadPrivate(pemData, nil)
	require.NoError(t, err)
	assert.Equal(t, key.Bits(), loaded.Bits())
}

func TestLoadOpenSSHEncrypted(t *testing.T) {
	key := testKey(t)
	password := []byte("hunter2")

	pemData, err := key.SaveOpenSSH("", password)
	require.NoError(t, err)

	_, err = Load(pemData, nil)
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = Load(pemData, []byte("wrong"))
	assert.ErrorIs(t, err, ErrInvalidPassword)

	loaded, err := LoadPrivate(pemData, password)
	require.NoError(t, err)
	assert.Equal(t, key.Bits(), loaded.Bits())
}

func TestLoadPuTTYRoundTrip(t *testing.T) {
	key := testKey(t)

	ppk, err := key.SavePuTTY("putty test key", nil)
	require.NoError(t, err)
	loaded, err := LoadPrivate(ppk, nil)
	require.NoError(t, err)
	assert.Equal(t, key.Bits(), loaded.Bits())
	assert.Equal(t, 0, key.CryptoPrivateKey().D.Cmp(loaded.CryptoPrivateKey().D))
}

func TestLoadPuTTYEncrypted(t *testing.T) {
	key := testKey(t)
	password := []byte("ppk secret")

	ppk, err := key.SavePuTTY("enc", password)
	require.NoError(t, err)

	_, err = Load(ppk, nil)
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = Load(ppk, []byte("nope"))
	assert.ErrorIs(t, err, ErrInvalidPassword)

	loaded, err := LoadPrivate(ppk, password)
	require.NoError(t, err)
	assert.Equal(t, key.Bits(), loaded.Bits())
}

func TestLoadPuTTYTruncatedLineCount(t *testing.T) {
	// Declared blob line counts that point past the end of the file must
	// come back as ErrMalformedKey, not read out of bounds.
	tests := []struct {
		name string
		ppk  string
	}{
		{"private count past eof", "PuTTY-User-Key-File-2: ssh-rsa\n" +
			"Encryption: none\n" +
			"Comment: t\n" +
			"Public-Lines: 1\n" +
			"AAAA\n" +
			"Private-Lines: 2\n" +
			"AAAA"},
		{"count on last line", "PuTTY-User-Key-File-2: ssh-rsa\n" +
			"Encryption: none\n" +
			"Private-Lines: 1"},
		{"negative count", "PuTTY-User-Key-File-2: ssh-rsa\n" +
			"Public-Lines: -3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.ppk), nil)
			assert.ErrorIs(t, err, ErrMalformedKey)
		})
	}
}

func TestLoadXMLRoundTrip(t *testing.T) {
	key := testKey(t)

	xmlData, err := key.SaveXML()
	require.NoError(t, err)
	loaded, err := LoadPrivate(xmlData, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, key.CryptoPrivateKey().D.Cmp(loaded.CryptoPrivateKey().D))

	pubXML, err := key.Public().SaveXML()
	require.NoError(t, err)
	pub, err := LoadPublic(pubXML)
	require.NoError(t, err)
	assert.Equal(t, key.Bits(), pub.Bits())
}

func TestLoadAuthorizedKey(t *testing.T) {
	key := testKey(t)

	line, err := key.Public().SaveAuthorizedKey("user@host")
	require.NoError(t, err)
	pub, err := LoadPublic(line)
	require.NoError(t, err)
	assert.Equal(t, key.Bits(), pub.Bits())
}

func TestLoadGarbage(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		[]byte("not a key at all"),
		[]byte("-----BEGIN SOMETHING-----\nAAAA\n-----END SOMETHING-----\n"),
	} {
		_, err := Load(data, nil)
		assert.ErrorIs(t, err, ErrNoKeyLoaded)
	}
}

func TestFromComponents(t *testing.T) {
	key := testKey(t).CryptoPrivateKey()

	pub, err := FromComponents(key.N, big.NewInt(int64(key.E)), nil, nil, nil)
	require.NoError(t, err)
	_, ok := pub.(*PublicKey)
	assert.True(t, ok)

	priv, err := FromComponents(key.N, big.NewInt(int64(key.E)), key.D, key.Primes[0], key.Primes[1])
	require.NoError(t, err)
	_, ok = priv.(*PrivateKey)
	assert.True(t, ok)

	// Primes that do not multiply to N are rejected.
	_, err = FromComponents(key.N, big.NewInt(int64(key.E)), key.D, key.Primes[0], key.Primes[0])
	assert.ErrorIs(t, err, ErrMalformedKey)
}

// Conversion scenario: a key saved as PKCS#1, converted to encrypted
// PKCS#8, reloaded, still signs for the original verifier.
func TestFormatConversionPreservesKey(t *testing.T) {
	key := testKey(t)
	msg := []byte("format conversion scenario")

	sig, err := key.Sign(msg)
	require.NoError(t, err)

	loaded1, err := LoadPrivate(key.SavePKCS1(), nil)
	require.NoError(t, err)

	encrypted, err := loaded1.SavePKCS8([]byte("convert"))
	require.NoError(t, err)
	loaded2, err := LoadPrivate(encrypted, []byte("convert"))
	require.NoError(t, err)

	require.NoError(t, loaded2.Public().Verify(msg, sig))

	sig2, err := loaded2.Sign(msg)
	require.NoError(t, err)
	require.NoError(t, key.Public().Verify(msg, sig2))
}
