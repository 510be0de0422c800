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
	"github.com/purecrypt/go-purecrypt/pkg/asn1"
	"github.com/purecrypt/go-purecrypt/pkg/bigint"
	"github.com/purecrypt/go-purecrypt/pkg/keys"
)

// CSR is a PKCS#10 certification request.
type CSR struct {
	Subject            Name
	SignatureAlgorithm string

	raw       []byte
	rawCRI    []byte
	signature []byte
	dirty     bool

	publicKey  *keys.PublicKey
	privateKey *keys.PrivateKey
}

// NewCSR returns an empty request template for SignCSR.
func NewCSR() *CSR {
	return &CSR{SignatureAlgorithm: "sha256", dirty: true}
}

// LoadCSR parses a certification request from PEM or DER.
func LoadCSR(data []byte) (*CSR, error) {
	der, err := decodePEMOrDER(data, "CERTIFICATE REQUEST")
	if err != nil {
		return nil, err
	}
	tree, err := asn1.Unmarshal(der, csrSchema)
	if err != nil {
		return nil, err
	}
	cri := tree.Get("certificationRequestInfo")

	csr := &CSR{
		raw:    append([]byte(nil), der...),
		rawCRI: cri.Element.Encode(),
	}
	if csr.Subject, err = parseName(cri.Get("subject")); err != nil {
		return nil, err
	}
	if csr.publicKey, err = parseSPKI(cri.Get("subjectPKInfo")); err != nil {
		return nil, err
	}
	if csr.SignatureAlgorithm, err = parseSignatureAlgorithm(tree.Get("signatureAlgorithm")); err != nil {
		return nil, err
	}
	sig, err := tree.Get("signature").Element.BitStringValue()
	if err != nil {
		return nil, err
	}
	csr.signature = sig.Bytes
	return csr, nil
}

// SaveCSR returns the request DER; unmodified loaded requests
// round-trip byte-identically.
func (r *CSR) SaveCSR() ([]byte, error) {
	if r.dirty || r.raw == nil {
		return nil, ErrNotSigned
	}
	return append([]byte(nil), r.raw...), nil
}

// SaveCSRPEM returns the request wrapped in a PEM block.
func (r *CSR) SaveCSRPEM() ([]byte, error) {
	der, err := r.SaveCSR()
	if err != nil {
		return nil, err
	}
	return encodePEM(der, "CERTIFICATE REQUEST"), nil
}

// PublicKey returns the requested RSA public key, nil for non-RSA.
func (r *CSR) PublicKey() *keys.PublicKey { return r.publicKey }

// SetPublicKey installs the requested public key; non-RSA keys are
// silently ignored.
func (r *CSR) SetPublicKey(key any) {
	switch k := key.(type) {
	case *keys.PublicKey:
		r.publicKey = k
	case *keys.PrivateKey:
		r.publicKey = k.Public()
	default:
		return
	}
	r.dirty = true
}

// SetPrivateKey installs the requester key used by SignCSR; non-RSA
// keys are silently ignored. The public half becomes the requested key.
func (r *CSR) SetPrivateKey(key any) {
	if k, ok := key.(*keys.PrivateKey); ok {
		r.privateKey = k
		r.publicKey = k.Public()
		r.dirty = true
	}
}

// SetSubject replaces the subject and marks the request dirty.
func (r *CSR) SetSubject(name Name) {
	r.Subject = name
	r.dirty = true
}

// SignCSR signs the request with the requester private key.
func (r *CSR) SignCSR() error {
	if r.privateKey == nil {
		return ErrNoPrivateKey
	}
	subject, err := buildName(r.Subject)
	if err != nil {
		return err
	}
	spki, err := buildSPKI(r.publicKey)
	if err != nil {
		return err
	}
	criEl := asn1.NewSequence(
		asn1.NewInteger(bigint.Zero()),
		subject,
		spki,
		asn1.Implicit(0, asn1.NewSet()),
	)
	cri := criEl.Encode()

	sig, err := signTBS(r.privateKey, r.SignatureAlgorithm, cri)
	if err != nil {
		return err
	}
	sigAlg, err := buildSignatureAlgorithm(r.SignatureAlgorithm)
	if err != nil {
		return err
	}
	req := asn1.NewSequence(
		criEl,
		sigAlg,
		asn1.NewBitString(&asn1.BitString{Bytes: sig}),
	)
	r.raw = req.Encode()
	r.rawCRI = cri
	r.signature = sig
	r.dirty = false
	return nil
}

// Verify checks the self-signature against the embedded public key.
func (r *CSR) Verify() error {
	if r.rawCRI == nil || r.signature == nil {
		return ErrVerificationFailed
	}
	return verifyTBS(r.publicKey, r.SignatureAlgorithm, r.rawCRI, r.signature)
}
