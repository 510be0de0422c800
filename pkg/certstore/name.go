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
	"strings"

	"github.com/purecrypt/go-purecrypt/pkg/asn1"
)

// Attribute is one AttributeTypeAndValue of a distinguished name. The
// original value element is retained so re-encoding an unmodified name
// reproduces the source string type exactly.
type Attribute struct {
	Type  asn1.OID
	Value string

	raw *asn1.Element
}

// RDN is one relative distinguished name, usually a single attribute.
type RDN []Attribute

// Name is an X.501 RDNSequence.
type Name struct {
	RDNs []RDN
}

// Add appends a single-attribute RDN built from a fresh value.
func (n *Name) Add(oid asn1.OID, value string) {
	n.RDNs = append(n.RDNs, RDN{{Type: oid, Value: value}})
}

// CommonName returns the first CN attribute, or "".
func (n *Name) CommonName() string {
	for _, rdn := range n.RDNs {
		for _, a := range rdn {
			if a.Type.Equal(oidCommonName) {
				return a.Value
			}
		}
	}
	return ""
}

// String renders the name in RFC 4514 style, most significant first.
func (n *Name) String() string {
	var parts []string
	for _, rdn := range n.RDNs {
		for _, a := range rdn {
			label := a.Type.String()
			for _, s := range attrShortNames {
				if s.oid.Equal(a.Type) {
					label = s.name
					break
				}
			}
			parts = append(parts, label+"="+a.Value)
		}
	}
	return strings.Join(parts, ", ")
}

// parseName converts a mapped RDNSequence tree into a Name.
func parseName(t *asn1.Tree) (Name, error) {
	var name Name
	if t == nil {
		return name, nil
	}
	for _, rdnTree := range t.Children {
		var rdn RDN
		for _, atv := range rdnTree.Children {
			typeEl := atv.Get("type")
			valueEl := atv.Get("value")
			if typeEl == nil || valueEl == nil {
				return name, ErrInvalidEncoding
			}
			oid, err := typeEl.Element.OIDValue()
			if err != nil {
				return name, err
			}
			// Unprintable value types keep an empty display string but
			// still round-trip through the retained element.
			value, _ := valueEl.Element.StringValue()
			rdn = append(rdn, Attribute{Type: oid, Value: value, raw: valueEl.Element})
		}
		name.RDNs = append(name.RDNs, rdn)
	}
	return name, nil
}

// buildName encodes a Name back to an RDNSequence element. Attributes
// loaded from input reuse their original value element; fresh attributes
// use PrintableString for country codes and UTF8String otherwise.
func buildName(n Name) (*asn1.Element, error) {
	var rdns []*asn1.Element
	for _, rdn := range n.RDNs {
		var atvs []*asn1.Element
		for _, a := range rdn {
			typeEl, err := asn1.NewOID(a.Type)
			if err != nil {
				return nil, err
			}
			valueEl := a.raw
			if valueEl == nil {
				if a.Type.Equal(oidCountry) {
					valueEl = asn1.NewPrintableString(a.Value)
				} else if a.Type.Equal(oidEmailAddress) {
					valueEl = asn1.NewIA5String(a.Value)
				} else {
					valueEl = asn1.NewUTF8String(a.Value)
				}
			}
			atvs = append(atvs, asn1.NewSequence(typeEl, valueEl))
		}
		rdns = append(rdns, asn1.NewSet(atvs...))
	}
	return asn1.NewSequence(rdns...), nil
}
