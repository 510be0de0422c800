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

package certstore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purecrypt/go-purecrypt/pkg/bigint"
	"github.com/purecrypt/go-purecrypt/pkg/keys"
)

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func makeSelfSigned(t *testing.T, key *rsa.PrivateKey) []byte {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject: pkix.Name{
			CommonName:   "purecrypt test ca",
			Organization: []string{"PureCrypt"},
			Country:      []string{"US"},
		},
		NotBefore:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:              time.Date(2036, 1, 1, 0, 0, 0, 0, time.UTC),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		SubjectKeyId:          []byte{1, 2, 3, 4},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return der
}

func TestLoadCertificateFields(t *testing.T) {
	key := testRSAKey(t)
	der := makeSelfSigned(t, key)

	cert, err := LoadCertificate(der)
	require.NoError(t, err)
	assert.Equal(t, "purecrypt test ca", cert.Subject.CommonName())
	assert.Equal(t, "purecrypt test ca", cert.Issuer.CommonName())
	assert.Equal(t, int64(42), cert.SerialNumber.Int64())
	assert.Equal(t, "sha256", cert.SignatureAlgorithm)
	assert.Equal(t, 2026, cert.NotBefore.Year())
	assert.Equal(t, 2036, cert.NotAfter.Year())
	require.NotNil(t, cert.PublicKey())
	assert.Equal(t, 2048, cert.PublicKey().Bits())
	assert.NotEmpty(t, cert.Extensions)
}

func TestCertificateByteIdenticalRoundTrip(t *testing.T) {
	key := testRSAKey(t)
	der := makeSelfSigned(t, key)

	cert, err := LoadCertificate(der)
	require.NoError(t, err)
	saved, err := cert.SaveCertificate()
	require.NoError(t, err)
	assert.Equal(t, der, saved)
}

func TestCertificateVerifySelfSigned(t *testing.T) {
	key := testRSAKey(t)
	cert, err := LoadCertificate(makeSelfSigned(t, key))
	require.NoError(t, err)

	require.NoError(t, cert.Verify(cert.PublicKey()))

	other := testRSAKey(t)
	err = cert.Verify(keys.FromRSAPublicKey(&other.PublicKey))
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestModifiedCertificateRequiresResign(t *testing.T) {
	key := testRSAKey(t)
	cert, err := LoadCertificate(makeSelfSigned(t, key))
	require.NoError(t, err)

	cert.SetSerialNumber(bigint.New(43))

	_, err = cert.SaveCertificate()
	assert.ErrorIs(t, err, ErrNotSigned)

	require.NoError(t, cert.Sign(nil, keys.FromRSAPrivateKey(key)))
	saved, err := cert.SaveCertificate()
	require.NoError(t, err)

	parsed, err := x509.ParseCertificate(saved)
	require.NoError(t, err)
	assert.Equal(t, int64(43), parsed.SerialNumber.Int64())
	require.NoError(t, parsed.CheckSignature(x509.SHA256WithRSA, parsed.RawTBSCertificate, parsed.Signature))
}

func TestIssueCertificate(t *testing.T) {
	caKey := testRSAKey(t)
	ca, err := LoadCertificate(makeSelfSigned(t, caKey))
	require.NoError(t, err)

	leafKey := testRSAKey(t)
	leaf := NewCertificate()
	var subject Name
	subject.Add(oidCommonName, "leaf.example.com")
	subject.Add(oidOrganization, "PureCrypt")
	leaf.SetSubject(subject)
	leaf.SetSerialNumber(bigint.New(7))
	leaf.SetValidity(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	leaf.SetPublicKey(keys.FromRSAPublicKey(&leafKey.PublicKey))

	require.NoError(t, leaf.Sign(ca, keys.FromRSAPrivateKey(caKey)))
	require.NoError(t, leaf.Verify(ca.PublicKey()))

	saved, err := leaf.SaveCertificate()
	require.NoError(t, err)
	parsed, err := x509.ParseCertificate(saved)
	require.NoError(t, err)
	assert.Equal(t, "leaf.example.com", parsed.Subject.CommonName)
	assert.Equal(t, "purecrypt test ca", parsed.Issuer.CommonName)
	require.NoError(t, parsed.CheckSignature(x509.SHA256WithRSA, parsed.RawTBSCertificate, parsed.Signature))
}

func TestSetPublicKeyIgnoresNonRSA(t *testing.T) {
	cert := NewCertificate()
	cert.SetPublicKey("not a key")
	assert.Nil(t, cert.PublicKey())

	cert.SetPrivateKey(42)
	assert.ErrorIs(t, cert.Sign(nil, nil), ErrNoPrivateKey)
}

func TestCSRRoundTrip(t *testing.T) {
	key := testRSAKey(t)
	der, err := x509.CreateCertificateRequest(rand.Reader, &x509.CertificateRequest{
		Subject: pkix.Name{CommonName: "csr.example.com", Organization: []string{"PureCrypt"}},
	}, key)
	require.NoError(t, err)

	csr, err := LoadCSR(der)
	require.NoError(t, err)
	assert.Equal(t, "csr.example.com", csr.Subject.CommonName())
	require.NoError(t, csr.Verify())

	saved, err := csr.SaveCSR()
	require.NoError(t, err)
	assert.Equal(t, der, saved)
}

func TestCreateCSR(t *testing.T) {
	key := keys.FromRSAPrivateKey(testRSAKey(t))

	csr := NewCSR()
	var subject Name
	subject.Add(oidCommonName, "requested.example.com")
	csr.SetSubject(subject)
	csr.SetPrivateKey(key)

	require.NoError(t, csr.SignCSR())
	require.NoError(t, csr.Verify())

	saved, err := csr.SaveCSR()
	require.NoError(t, err)
	parsed, err := x509.ParseCertificateRequest(saved)
	require.NoError(t, err)
	assert.Equal(t, "requested.example.com", parsed.Subject.CommonName)
	require.NoError(t, parsed.CheckSignature())
}

func TestCRLRoundTrip(t *testing.T) {
	caKey := testRSAKey(t)
	caDER := makeSelfSigned(t, caKey)
	caCert, err := x509.ParseCertificate(caDER)
	require.NoError(t, err)

	revokedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	der, err := x509.CreateRevocationList(rand.Reader, &x509.RevocationList{
		Number:     big.NewInt(5),
		ThisUpdate: revokedAt,
		NextUpdate: revokedAt.AddDate(0, 1, 0),
		RevokedCertificateEntries: []x509.RevocationListEntry{
			{SerialNumber: big.NewInt(42), RevocationTime: revokedAt},
		},
	}, caCert, caKey)
	require.NoError(t, err)

	crl, err := LoadCRL(der)
	require.NoError(t, err)
	assert.Equal(t, "purecrypt test ca", crl.Issuer.CommonName())
	require.Len(t, crl.Revoked, 1)
	assert.Equal(t, int64(42), crl.Revoked[0].SerialNumber.Int64())

	saved, err := crl.SaveCRL()
	require.NoError(t, err)
	assert.Equal(t, der, saved)

	require.NoError(t, crl.Verify(keys.FromRSAPublicKey(&caKey.PublicKey)))
}

func TestCreateCRL(t *testing.T) {
	caKey := testRSAKey(t)
	ca, err := LoadCertificate(makeSelfSigned(t, caKey))
	require.NoError(t, err)

	crl := NewCRL()
	crl.ThisUpdate = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	crl.NextUpdate = crl.ThisUpdate.AddDate(0, 1, 0)
	crl.Revoke(bigint.New(99), crl.ThisUpdate)

	require.NoError(t, crl.SignCRL(ca, keys.FromRSAPrivateKey(caKey)))
	require.NoError(t, crl.Verify(ca.PublicKey()))

	saved, err := crl.SaveCRL()
	require.NoError(t, err)
	parsed, err := x509.ParseRevocationList(saved)
	require.NoError(t, err)
	require.Len(t, parsed.RevokedCertificateEntries, 1)
	assert.Equal(t, int64(99), parsed.RevokedCertificateEntries[0].SerialNumber.Int64())
	require.NoError(t, parsed.CheckSignatureFrom(mustParseCert(t, ca)))
}

func mustParseCert(t *testing.T, c *Certificate) *x509.Certificate {
	t.Helper()
	der, err := c.SaveCertificate()
	require.NoError(t, err)
	parsed, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return parsed
}
