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

import "github.com/purecrypt/go-purecrypt/pkg/asn1"

// Key and signature algorithm identifiers (PKCS#1 arc).
var (
	oidRSAEncryption = asn1.OID{1, 2, 840, 113549, 1, 1, 1}
	oidMD5WithRSA    = asn1.OID{1, 2, 840, 113549, 1, 1, 4}
	oidSHA1WithRSA   = asn1.OID{1, 2, 840, 113549, 1, 1, 5}
	oidSHA256WithRSA = asn1.OID{1, 2, 840, 113549, 1, 1, 11}
	oidSHA384WithRSA = asn1.OID{1, 2, 840, 113549, 1, 1, 12}
	oidSHA512WithRSA = asn1.OID{1, 2, 840, 113549, 1, 1, 13}
	oidSHA224WithRSA = asn1.OID{1, 2, 840, 113549, 1, 1, 14}
)

// Distinguished name attribute types.
var (
	oidCommonName         = asn1.OID{2, 5, 4, 3}
	oidSerialNumberAttr   = asn1.OID{2, 5, 4, 5}
	oidCountry            = asn1.OID{2, 5, 4, 6}
	oidLocality           = asn1.OID{2, 5, 4, 7}
	oidProvince           = asn1.OID{2, 5, 4, 8}
	oidOrganization       = asn1.OID{2, 5, 4, 10}
	oidOrganizationalUnit = asn1.OID{2, 5, 4, 11}
	oidEmailAddress       = asn1.OID{1, 2, 840, 113549, 1, 9, 1}
)

// Common extension identifiers, exported for callers decoding extension
// values by OID.
var (
	OIDSubjectKeyID     = asn1.OID{2, 5, 29, 14}
	OIDKeyUsage         = asn1.OID{2, 5, 29, 15}
	OIDSubjectAltName   = asn1.OID{2, 5, 29, 17}
	OIDBasicConstraints = asn1.OID{2, 5, 29, 19}
	OIDCRLNumber        = asn1.OID{2, 5, 29, 20}
	OIDAuthorityKeyID   = asn1.OID{2, 5, 29, 35}
	OIDExtKeyUsage      = asn1.OID{2, 5, 29, 37}
)

// attrShortNames maps DN attribute OIDs to their RFC 4514 short names.
var attrShortNames = []struct {
	oid  asn1.OID
	name string
}{
	{oidCommonName, "CN"},
	{oidCountry, "C"},
	{oidLocality, "L"},
	{oidProvince, "ST"},
	{oidOrganization, "O"},
	{oidOrganizationalUnit, "OU"},
	{oidSerialNumberAttr, "SERIALNUMBER"},
	{oidEmailAddress, "emailAddress"},
}

// signatureAlgorithms maps hash names to the corresponding
// *WithRSAEncryption signature algorithm OID.
var signatureAlgorithms = map[string]asn1.OID{
	"md5":    oidMD5WithRSA,
	"sha1":   oidSHA1WithRSA,
	"sha224": oidSHA224WithRSA,
	"sha256": oidSHA256WithRSA,
	"sha384": oidSHA384WithRSA,
	"sha512": oidSHA512WithRSA,
}

// hashForSignatureOID resolves a signature algorithm OID to its hash
// name. The bool reports whether the OID is a supported RSA scheme.
func hashForSignatureOID(oid asn1.OID) (string, bool) {
	for name, o := range signatureAlgorithms {
		if o.Equal(oid) {
			return name, true
		}
	}
	return "", false
}
