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

// Package certstore implements the X.509 engine: certificates, signing
// requests and revocation lists parsed through the ASN.1 schema codec.
//
// Structures loaded from DER retain their raw bytes; saving an
// unmodified structure reproduces the input byte for byte, signature
// included. Any field modification invalidates the retained signature
// and requires re-signing before save. RSA is the only supported key
// family, matching the key engine.
package certstore

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"

	"github.com/purecrypt/go-purecrypt/pkg/asn1"
	"github.com/purecrypt/go-purecrypt/pkg/hashing"
	"github.com/purecrypt/go-purecrypt/pkg/keys"
)

// Extension is one X.509 v3 extension. Value holds the base64 of the
// raw extnValue octets; it stays opaque until a caller decodes it by
// OID.
type Extension struct {
	OID      asn1.OID
	Critical bool
	Value    string
}

// DecodeValue returns the raw extnValue octets.
func (e *Extension) DecodeValue() ([]byte, error) {
	return base64.StdEncoding.DecodeString(e.Value)
}

// decodePEMOrDER strips an optional PEM wrapper of the given type.
func decodePEMOrDER(data []byte, pemType string) ([]byte, error) {
	if block, _ := pem.Decode(data); block != nil {
		if block.Type != pemType {
			return nil, fmt.Errorf("%w: unexpected PEM type %q", ErrInvalidEncoding, block.Type)
		}
		return block.Bytes, nil
	}
	return data, nil
}

func encodePEM(der []byte, pemType string) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: der})
}

// parseSignatureAlgorithm extracts the hash name from a mapped
// AlgorithmIdentifier subtree.
func parseSignatureAlgorithm(t *asn1.Tree) (string, error) {
	if t == nil {
		return "", ErrInvalidEncoding
	}
	algEl := t.Get("algorithm")
	if algEl == nil {
		return "", ErrInvalidEncoding
	}
	oid, err := algEl.Element.OIDValue()
	if err != nil {
		return "", err
	}
	hash, ok := hashForSignatureOID(oid)
	if !ok {
		return "", fmt.Errorf("%w: signature algorithm %s", ErrUnsupportedAlgorithm, oid)
	}
	return hash, nil
}

// buildSignatureAlgorithm encodes an AlgorithmIdentifier for the named
// hash with RSA encryption and NULL parameters.
func buildSignatureAlgorithm(hash string) (*asn1.Element, error) {
	oid, ok := signatureAlgorithms[hash]
	if !ok {
		return nil, fmt.Errorf("%w: hash %q", ErrUnsupportedAlgorithm, hash)
	}
	oidEl, err := asn1.NewOID(oid)
	if err != nil {
		return nil, err
	}
	return asn1.NewSequence(oidEl, asn1.NewNull()), nil
}

// parseSPKI extracts an RSA public key from a mapped
// SubjectPublicKeyInfo subtree. A non-RSA key yields nil without error;
// the containing structure still loads and re-encodes.
func parseSPKI(t *asn1.Tree) (*keys.PublicKey, error) {
	if t == nil {
		return nil, ErrInvalidEncoding
	}
	algTree := t.Get("algorithm")
	bitsTree := t.Get("subjectPublicKey")
	if algTree == nil || bitsTree == nil {
		return nil, ErrInvalidEncoding
	}
	algEl := algTree.Get("algorithm")
	if algEl == nil {
		return nil, ErrInvalidEncoding
	}
	oid, err := algEl.Element.OIDValue()
	if err != nil {
		return nil, err
	}
	if !oid.Equal(oidRSAEncryption) {
		return nil, nil
	}
	bits, err := bitsTree.Element.BitStringValue()
	if err != nil {
		return nil, err
	}
	pub, err := x509.ParsePKCS1PublicKey(bits.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return keys.FromRSAPublicKey(pub), nil
}

// buildSPKI encodes a SubjectPublicKeyInfo for an RSA public key.
func buildSPKI(pub *keys.PublicKey) (*asn1.Element, error) {
	if pub == nil {
		return nil, ErrNoPrivateKey
	}
	oidEl, err := asn1.NewOID(oidRSAEncryption)
	if err != nil {
		return nil, err
	}
	der := x509.MarshalPKCS1PublicKey(pub.CryptoPublicKey())
	return asn1.NewSequence(
		asn1.NewSequence(oidEl, asn1.NewNull()),
		asn1.NewBitString(&asn1.BitString{Bytes: der}),
	), nil
}

// parseExtensions converts a mapped extension list subtree.
func parseExtensions(t *asn1.Tree) ([]Extension, error) {
	if t == nil {
		return nil, nil
	}
	var exts []Extension
	for _, extTree := range t.Children {
		idEl := extTree.Get("extnID")
		valEl := extTree.Get("extnValue")
		if idEl == nil || valEl == nil {
			return nil, ErrInvalidEncoding
		}
		oid, err := idEl.Element.OIDValue()
		if err != nil {
			return nil, err
		}
		critical := false
		if c := extTree.Get("critical"); c != nil {
			critical, err = c.Element.Boolean()
			if err != nil {
				return nil, err
			}
		}
		value, err := valEl.Element.OctetString()
		if err != nil {
			return nil, err
		}
		exts = append(exts, Extension{
			OID:      oid,
			Critical: critical,
			Value:    base64.StdEncoding.EncodeToString(value),
		})
	}
	return exts, nil
}

// buildExtensions encodes an extension list, decoding the base64 values
// back to raw octets. Returns nil for an empty list.
func buildExtensions(exts []Extension) (*asn1.Element, error) {
	if len(exts) == 0 {
		return nil, nil
	}
	var children []*asn1.Element
	for _, ext := range exts {
		oidEl, err := asn1.NewOID(ext.OID)
		if err != nil {
			return nil, err
		}
		value, err := ext.DecodeValue()
		if err != nil {
			return nil, fmt.Errorf("%w: extension %s: %v", ErrInvalidEncoding, ext.OID, err)
		}
		members := []*asn1.Element{oidEl}
		if ext.Critical {
			members = append(members, asn1.NewBoolean(true))
		}
		members = append(members, asn1.NewOctetString(value))
		children = append(children, asn1.NewSequence(members...))
	}
	return asn1.NewSequence(children...), nil
}

func cryptoHashFor(name string) (crypto.Hash, bool) {
	switch name {
	case "md5":
		return crypto.MD5, true
	case "sha1":
		return crypto.SHA1, true
	case "sha224":
		return crypto.SHA224, true
	case "sha256":
		return crypto.SHA256, true
	case "sha384":
		return crypto.SHA384, true
	case "sha512":
		return crypto.SHA512, true
	}
	return 0, false
}

// signTBS produces a PKCS#1 v1.5 signature over the DER of a tbs
// structure using the named hash.
func signTBS(key *keys.PrivateKey, hash string, tbs []byte) ([]byte, error) {
	if key == nil {
		return nil, ErrNoPrivateKey
	}
	digest := hashing.New(hash).Sum(tbs)
	ch, ok := cryptoHashFor(hash)
	if !ok {
		return nil, fmt.Errorf("%w: hash %q", ErrUnsupportedAlgorithm, hash)
	}
	sig, err := rsa.SignPKCS1v15(rand.Reader, key.CryptoPrivateKey(), ch, digest)
	if err != nil {
		return nil, fmt.Errorf("certstore: sign: %w", err)
	}
	return sig, nil
}

// verifyTBS checks a PKCS#1 v1.5 signature over tbs.
func verifyTBS(pub *keys.PublicKey, hash string, tbs, sig []byte) error {
	if pub == nil {
		return ErrVerificationFailed
	}
	digest := hashing.New(hash).Sum(tbs)
	ch, ok := cryptoHashFor(hash)
	if !ok {
		return fmt.Errorf("%w: hash %q", ErrUnsupportedAlgorithm, hash)
	}
	if err := rsa.VerifyPKCS1v15(pub.CryptoPublicKey(), ch, digest, sig); err != nil {
		return ErrVerificationFailed
	}
	return nil
}
