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

// RevokedCertificate is one CRL entry.
type RevokedCertificate struct {
	SerialNumber   *bigint.Int
	RevocationDate time.Time
}

// CRL is an X.509 certificate revocation list.
type CRL struct {
	Issuer             Name
	ThisUpdate         time.Time
	NextUpdate         time.Time // zero when absent
	Revoked            []RevokedCertificate
	SignatureAlgorithm string
	Extensions         []Extension

	raw       []byte
	rawTBS    []byte
	signature []byte
	dirty     bool

	privateKey *keys.PrivateKey
}

// NewCRL returns an empty revocation list template for SignCRL.
func NewCRL() *CRL {
	return &CRL{SignatureAlgorithm: "sha256", dirty: true}
}

// LoadCRL parses a revocation list from PEM or DER.
func LoadCRL(data []byte) (*CRL, error) {
	der, err := decodePEMOrDER(data, "X509 CRL")
	if err != nil {
		return nil, err
	}
	tree, err := asn1.Unmarshal(der, crlSchema)
	if err != nil {
		return nil, err
	}
	tbs := tree.Get("tbsCertList")

	crl := &CRL{
		raw:    append([]byte(nil), der...),
		rawTBS: tbs.Element.Encode(),
	}
	if crl.Issuer, err = parseName(tbs.Get("issuer")); err != nil {
		return nil, err
	}
	if crl.ThisUpdate, err = tbs.Get("thisUpdate").Element.Time(); err != nil {
		return nil, err
	}
	if next := tbs.Get("nextUpdate"); next != nil {
		if crl.NextUpdate, err = next.Element.Time(); err != nil {
			return nil, err
		}
	}
	if revoked := tbs.Get("revokedCertificates"); revoked != nil {
		for _, entry := range revoked.Children {
			serial, err := entry.Get("userCertificate").Element.Integer()
			if err != nil {
				return nil, err
			}
			date, err := entry.Get("revocationDate").Element.Time()
			if err != nil {
				return nil, err
			}
			crl.Revoked = append(crl.Revoked, RevokedCertificate{
				SerialNumber:   serial,
				RevocationDate: date,
			})
		}
	}
	if crl.Extensions, err = parseExtensions(tbs.Get("crlExtensions")); err != nil {
		return nil, err
	}
	if crl.SignatureAlgorithm, err = parseSignatureAlgorithm(tree.Get("signatureAlgorithm")); err != nil {
		return nil, err
	}
	sig, err := tree.Get("signatureValue").Element.BitStringValue()
	if err != nil {
		return nil, err
	}
	crl.signature = sig.Bytes
	return crl, nil
}

// SaveCRL returns the list DER; unmodified loaded lists round-trip
// byte-identically.
func (l *CRL) SaveCRL() ([]byte, error) {
	if l.dirty || l.raw == nil {
		return nil, ErrNotSigned
	}
	return append([]byte(nil), l.raw...), nil
}

// SaveCRLPEM returns the list wrapped in a PEM block.
func (l *CRL) SaveCRLPEM() ([]byte, error) {
	der, err := l.SaveCRL()
	if err != nil {
		return nil, err
	}
	return encodePEM(der, "X509 CRL"), nil
}

// SetPrivateKey installs the issuer signing key; non-RSA keys are
// silently ignored.
func (l *CRL) SetPrivateKey(key any) {
	if k, ok := key.(*keys.PrivateKey); ok {
		l.privateKey = k
	}
}

// Revoke appends an entry and marks the list dirty.
func (l *CRL) Revoke(serial *bigint.Int, when time.Time) {
	l.Revoked = append(l.Revoked, RevokedCertificate{SerialNumber: serial, RevocationDate: when})
	l.dirty = true
}

// SignCRL signs the list with the issuer key, taking the issuer name
// from the issuer certificate's subject.
func (l *CRL) SignCRL(issuer *Certificate, issuerKey *keys.PrivateKey) error {
	if issuerKey == nil {
		issuerKey = l.privateKey
	}
	if issuerKey == nil {
		return ErrNoPrivateKey
	}
	if issuer != nil {
		l.Issuer = issuer.Subject
	}
	if l.ThisUpdate.IsZero() {
		l.ThisUpdate = time.Now()
	}

	sigAlg, err := buildSignatureAlgorithm(l.SignatureAlgorithm)
	if err != nil {
		return err
	}
	issuerEl, err := buildName(l.Issuer)
	if err != nil {
		return err
	}

	members := []*asn1.Element{
		asn1.NewInteger(bigint.One()), // v2
		sigAlg,
		issuerEl,
		newTimeElement(l.ThisUpdate),
	}
	if !l.NextUpdate.IsZero() {
		members = append(members, newTimeElement(l.NextUpdate))
	}
	if len(l.Revoked) > 0 {
		var entries []*asn1.Element
		for _, rc := range l.Revoked {
			entries = append(entries, asn1.NewSequence(
				asn1.NewInteger(rc.SerialNumber),
				newTimeElement(rc.RevocationDate),
			))
		}
		members = append(members, asn1.NewSequence(entries...))
	}
	exts, err := buildExtensions(l.Extensions)
	if err != nil {
		return err
	}
	if exts != nil {
		members = append(members, asn1.Explicit(0, exts))
	}

	tbsEl := asn1.NewSequence(members...)
	tbs := tbsEl.Encode()

	sig, err := signTBS(issuerKey, l.SignatureAlgorithm, tbs)
	if err != nil {
		return err
	}
	list := asn1.NewSequence(
		tbsEl,
		sigAlg,
		asn1.NewBitString(&asn1.BitString{Bytes: sig}),
	)
	l.raw = list.Encode()
	l.rawTBS = tbs
	l.signature = sig
	l.dirty = false
	return nil
}

// Verify checks the list signature against the issuer public key.
func (l *CRL) Verify(issuerPub *keys.PublicKey) error {
	if l.rawTBS == nil || l.signature == nil {
		return ErrVerificationFailed
	}
	return verifyTBS(issuerPub, l.SignatureAlgorithm, l.rawTBS, l.signature)
}
