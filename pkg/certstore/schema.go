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

func algorithmIdentifier(name string) *asn1.Schema {
	return asn1.Seq(name,
		asn1.NewSchema("algorithm", asn1.TypeOID),
		asn1.NewSchema("parameters", asn1.TypeAny).Opt(),
	)
}

func nameSchema(name string) *asn1.Schema {
	return asn1.SeqOf(name,
		asn1.SetOfSchema("rdn",
			asn1.Seq("atv",
				asn1.NewSchema("type", asn1.TypeOID),
				asn1.NewSchema("value", asn1.TypeAny),
			),
		),
	)
}

func extensionsSchema(name string) *asn1.Schema {
	return asn1.SeqOf(name,
		asn1.Seq("extension",
			asn1.NewSchema("extnID", asn1.TypeOID),
			asn1.NewSchema("critical", asn1.TypeBoolean).Opt(),
			asn1.NewSchema("extnValue", asn1.TypeOctetString),
		),
	)
}

func spkiSchema(name string) *asn1.Schema {
	return asn1.Seq(name,
		algorithmIdentifier("algorithm"),
		asn1.NewSchema("subjectPublicKey", asn1.TypeBitString),
	)
}

// certificateSchema is the RFC 5280 Certificate structure.
var certificateSchema = asn1.Seq("certificate",
	asn1.Seq("tbsCertificate",
		asn1.NewSchema("version", asn1.TypeInteger).CtxExplicit(0).Opt(),
		asn1.NewSchema("serialNumber", asn1.TypeInteger),
		algorithmIdentifier("signature"),
		nameSchema("issuer"),
		asn1.Seq("validity",
			asn1.NewSchema("notBefore", asn1.TypeTime),
			asn1.NewSchema("notAfter", asn1.TypeTime),
		),
		nameSchema("subject"),
		spkiSchema("subjectPublicKeyInfo"),
		asn1.NewSchema("issuerUniqueID", asn1.TypeBitString).Ctx(1).Opt(),
		asn1.NewSchema("subjectUniqueID", asn1.TypeBitString).Ctx(2).Opt(),
		extensionsSchema("extensions").CtxExplicit(3).Opt(),
	),
	algorithmIdentifier("signatureAlgorithm"),
	asn1.NewSchema("signatureValue", asn1.TypeBitString),
)

// csrSchema is the PKCS#10 CertificationRequest structure.
var csrSchema = asn1.Seq("certificationRequest",
	asn1.Seq("certificationRequestInfo",
		asn1.NewSchema("version", asn1.TypeInteger),
		nameSchema("subject"),
		spkiSchema("subjectPKInfo"),
		asn1.SetOfSchema("attributes", asn1.NewSchema("attribute", asn1.TypeAny)).Ctx(0).Opt(),
	),
	algorithmIdentifier("signatureAlgorithm"),
	asn1.NewSchema("signature", asn1.TypeBitString),
)

// crlSchema is the RFC 5280 CertificateList structure.
var crlSchema = asn1.Seq("certificateList",
	asn1.Seq("tbsCertList",
		asn1.NewSchema("version", asn1.TypeInteger).Opt(),
		algorithmIdentifier("signature"),
		nameSchema("issuer"),
		asn1.NewSchema("thisUpdate", asn1.TypeTime),
		asn1.NewSchema("nextUpdate", asn1.TypeTime).Opt(),
		asn1.SeqOf("revokedCertificates",
			asn1.Seq("revokedCertificate",
				asn1.NewSchema("userCertificate", asn1.TypeInteger),
				asn1.NewSchema("revocationDate", asn1.TypeTime),
				extensionsSchema("crlEntryExtensions").Opt(),
			),
		).Opt(),
		extensionsSchema("crlExtensions").CtxExplicit(0).Opt(),
	),
	algorithmIdentifier("signatureAlgorithm"),
	asn1.NewSchema("signatureValue", asn1.TypeBitString),
)
