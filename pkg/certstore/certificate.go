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
	"time"

	"github.com/purecrypt/go-purecrypt/pkg/asn1"
	"github.com/purecrypt/go-purecrypt/pkg/bigint"
	"github.com/purecrypt/go-purecrypt/pkg/keys"
)

// Certificate is a parsed X.509 certificate. Loaded certificates retain
// their raw DER; saving without modification reproduces it byte for
// byte. Field setters mark the certificate dirty, after which Save
// refuses until Sign replaces the signature.
type Certificate struct {
	SerialNumber       *bigint.Int
	Issuer             Name
	Subject            Name
	NotBefore          time.Time
	NotAfter           time.Time
	SignatureAlgorithm string // hash name of the *WithRSAEncryption scheme
	Extensions         []Extension

	version   int
	raw       []byte // full DER as loaded or last signed
	rawTBS    []byte
	signature []byte
	dirty     bool

	publicKey  *keys.PublicKey
	privateKey *keys.PrivateKey
}

// NewCertificate returns an empty v3 certificate template for Sign.
func NewCertificate() *Certificate {
	return &Certificate{version: 2, SignatureAlgorithm: "sha256", dirty: true}
}

// LoadCertificate parses a certificate from PEM or DER.
func LoadCertificate(data []byte) (*Certificate, error) {
	der, err := decodePEMOrDER(data, "CERTIFICATE")
	if err != nil {
		return nil, err
	}
	tree, err := asn1.Unmarshal(der, certificateSchema)
	if err != nil {
		return nil, err
	}
	tbs := tree.Get("tbsCertificate")

	cert := &Certificate{
		raw:    append([]byte(nil), der...),
		rawTBS: tbs.Element.Encode(),
	}

	if v := tbs.Get("version"); v != nil {
		n, err := v.Element.Integer()
		if err != nil {
			return nil, err
		}
		cert.version = int(n.Int64())
	}
	serial, err := tbs.Get("serialNumber").Element.Integer()
	if err != nil {
		return nil, err
	}
	cert.SerialNumber = serial

	cert.SignatureAlgorithm, err = parseSignatureAlgorithm(tree.Get("signatureAlgorithm"))
	if err != nil {
		return nil, err
	}
	if cert.Issuer, err = parseName(tbs.Get("issuer")); err != nil {
		return nil, err
	}
	if cert.Subject, err = parseName(tbs.Get("subject")); err != nil {
		return nil, err
	}

	validity := tbs.Get("validity")
	if cert.NotBefore, err = validity.Get("notBefore").Element.Time(); err != nil {
		return nil, err
	}
	if cert.NotAfter, err = validity.Get("notAfter").Element.Time(); err != nil {
		return nil, err
	}

	if cert.publicKey, err = parseSPKI(tbs.Get("subjectPublicKeyInfo")); err != nil {
		return nil, err
	}
	if cert.Extensions, err = parseExtensions(tbs.Get("extensions")); err != nil {
		return nil, err
	}

	sig, err := tree.Get("signatureValue").Element.BitStringValue()
	if err != nil {
		return nil, err
	}
	cert.signature = sig.Bytes
	return cert, nil
}

// SaveCertificate returns the certificate DER. Unmodified loaded
// certificates round-trip byte-identically; a dirty certificate must be
// signed first.
func (c *Certificate) SaveCertificate() ([]byte, error) {
	if c.dirty || c.raw == nil {
		return nil, ErrNotSigned
	}
	return append([]byte(nil), c.raw...), nil
}

// SaveCertificatePEM returns the certificate wrapped in a PEM block.
func (c *Certificate) SaveCertificatePEM() ([]byte, error) {
	der, err := c.SaveCertificate()
	if err != nil {
		return nil, err
	}
	return encodePEM(der, "CERTIFICATE"), nil
}

// PublicKey returns the subject RSA public key, nil for non-RSA
// subjects.
func (c *Certificate) PublicKey() *keys.PublicKey { return c.publicKey }

// SetPublicKey installs the subject public key. Only RSA keys are
// accepted; anything else is silently ignored, preserving the legacy
// call contract.
func (c *Certificate) SetPublicKey(key any) {
	switch k := key.(type) {
	case *keys.PublicKey:
		c.publicKey = k
	case *keys.PrivateKey:
		c.publicKey = k.Public()
	default:
		return
	}
	c.dirty = true
}

// SetPrivateKey installs the signing key used by Sign when no explicit
// issuer key is given. Only RSA keys are accepted; anything else is
// silently ignored.
func (c *Certificate) SetPrivateKey(key any) {
	if k, ok := key.(*keys.PrivateKey); ok {
		c.privateKey = k
	}
}

// SetSerialNumber replaces the serial and marks the certificate dirty.
func (c *Certificate) SetSerialNumber(serial *bigint.Int) {
	c.SerialNumber = serial
	c.dirty = true
}

// SetSubject replaces the subject name and marks the certificate dirty.
func (c *Certificate) SetSubject(name Name) {
	c.Subject = name
	c.dirty = true
}

// SetValidity replaces the validity window and marks the certificate
// dirty.
func (c *Certificate) SetValidity(notBefore, notAfter time.Time) {
	c.NotBefore = notBefore
	c.NotAfter = notAfter
	c.dirty = true
}

// AddExtension appends an extension (value = raw extnValue octets) and
// marks the certificate dirty.
func (c *Certificate) AddExtension(ext Extension) {
	c.Extensions = append(c.Extensions, ext)
	c.dirty = true
}

// buildTBS assembles the to-be-signed structure from the current
// fields.
func (c *Certificate) buildTBS() (*asn1.Element, error) {
	if c.SerialNumber == nil {
		c.SerialNumber = bigint.One()
	}
	members := []*asn1.Element{
		asn1.Explicit(0, asn1.NewInteger(bigint.New(int64(c.version)))),
		asn1.NewInteger(c.SerialNumber),
	}

	sigAlg, err := buildSignatureAlgorithm(c.SignatureAlgorithm)
	if err != nil {
		return nil, err
	}
	members = append(members, sigAlg)

	issuer, err := buildName(c.Issuer)
	if err != nil {
		return nil, err
	}
	members = append(members, issuer)

	members = append(members, asn1.NewSequence(
		newTimeElement(c.NotBefore),
		newTimeElement(c.NotAfter),
	))

	subject, err := buildName(c.Subject)
	if err != nil {
		return nil, err
	}
	members = append(members, subject)

	spki, err := buildSPKI(c.publicKey)
	if err != nil {
		return nil, err
	}
	members = append(members, spki)

	exts, err := buildExtensions(c.Extensions)
	if err != nil {
		return nil, err
	}
	if exts != nil {
		members = append(members, asn1.Explicit(3, exts))
	}
	return asn1.NewSequence(members...), nil
}

// Sign issues the certificate: the tbs structure is rebuilt from the
// current fields, the issuer name is copied from issuer's subject, and
// the signature is computed with issuerKey. A nil issuer self-signs.
func (c *Certificate) Sign(issuer *Certificate, issuerKey *keys.PrivateKey) error {
	if issuerKey == nil {
		issuerKey = c.privateKey
	}
	if issuerKey == nil {
		return ErrNoPrivateKey
	}
	if issuer != nil {
		c.Issuer = issuer.Subject
	} else {
		c.Issuer = c.Subject
	}
	c.version = 2

	tbsEl, err := c.buildTBS()
	if err != nil {
		return err
	}
	tbs := tbsEl.Encode()

	sig, err := signTBS(issuerKey, c.SignatureAlgorithm, tbs)
	if err != nil {
		return err
	}
	sigAlg, err := buildSignatureAlgorithm(c.SignatureAlgorithm)
	if err != nil {
		return err
	}

	cert := asn1.NewSequence(
		tbsEl,
		sigAlg,
		asn1.NewBitString(&asn1.BitString{Bytes: sig}),
	)
	c.raw = cert.Encode()
	c.rawTBS = tbs
	c.signature = sig
	c.dirty = false
	return nil
}

// Verify checks the certificate signature against the issuer public
// key. Pass the certificate's own key to verify a self-signed
// certificate.
func (c *Certificate) Verify(issuerPub *keys.PublicKey) error {
	if c.rawTBS == nil || c.signature == nil {
		return ErrVerificationFailed
	}
	return verifyTBS(issuerPub, c.SignatureAlgorithm, c.rawTBS, c.signature)
}

// newTimeElement picks UTCTime for dates representable there and
// GeneralizedTime from 2050 on, per RFC 5280.
func newTimeElement(t time.Time) *asn1.Element {
	if t.Year() >= 2050 || t.Year() < 1950 {
		return asn1.NewGeneralizedTime(t)
	}
	return asn1.NewUTCTime(t)
}
