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

// Package asn1 implements a generic BER/DER codec over explicit element
// trees, plus a schema layer for mapping named structures (SEQUENCE/SET
// members, CHOICE alternatives, implicit and explicit context tags).
//
// Unlike encoding/asn1, decoding produces an Element tree that re-encodes
// byte-identically whenever the original encoding was canonical DER. That
// property is what keeps signatures over decoded-then-saved structures
// valid, and is the package's central invariant.
package asn1

import (
	"fmt"
)

// Class is an ASN.1 tag class.
type Class int

const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// Universal tag numbers.
const (
	TagBoolean         = 1
	TagInteger         = 2
	TagBitString       = 3
	TagOctetString     = 4
	TagNull            = 5
	TagOID             = 6
	TagEnumerated      = 10
	TagUTF8String      = 12
	TagSequence        = 16
	TagSet             = 17
	TagNumericString   = 18
	TagPrintableString = 19
	TagT61String       = 20
	TagIA5String       = 22
	TagUTCTime         = 23
	TagGeneralizedTime = 24
	TagVisibleString   = 26
	TagBMPString       = 30
)

// Element is one BER/DER element. Primitive elements carry Content;
// constructed elements carry Children and derive their content from them
// at encode time.
type Element struct {
	Class       Class
	Tag         int
	Constructed bool
	Content     []byte
	Children    []*Element
}

// DecodeDER parses a single element under strict DER rules: definite,
// minimally-encoded lengths only. Trailing bytes are an error.
func DecodeDER(data []byte) (*Element, error) {
	return decodeTop(data, true)
}

// DecodeBER parses a single element under relaxed BER rules, accepting
// indefinite lengths on constructed elements.
func DecodeBER(data []byte) (*Element, error) {
	return decodeTop(data, false)
}

func decodeTop(data []byte, strict bool) (*Element, error) {
	el, rest, err := decodeElement(data, strict)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrTrailingData
	}
	return el, nil
}

// decodeElement parses one element from the front of data and returns the
// remainder.
func decodeElement(data []byte, strict bool) (*Element, []byte, error) {
	if len(data) == 0 {
		return nil, nil, ErrTruncated
	}

	class, tag, constructed, rest, err := decodeIdentifier(data)
	if err != nil {
		return nil, nil, err
	}

	length, indefinite, rest, err := decodeLength(rest, strict)
	if err != nil {
		return nil, nil, err
	}

	el := &Element{Class: class, Tag: tag, Constructed: constructed}

	if indefinite {
		if !constructed {
			return nil, nil, ErrIndefiniteLength
		}
		for {
			if len(rest) >= 2 && rest[0] == 0 && rest[1] == 0 {
				rest = rest[2:]
				break
			}
			var child *Element
			child, rest, err = decodeElement(rest, strict)
			if err != nil {
				return nil, nil, err
			}
			el.Children = append(el.Children, child)
		}
		return el, rest, nil
	}

	if len(rest) < length {
		return nil, nil, ErrTruncated
	}
	content := rest[:length]
	rest = rest[length:]

	if constructed {
		for len(content) > 0 {
			var child *Element
			child, content, err = decodeElement(content, strict)
			if err != nil {
				return nil, nil, err
			}
			el.Children = append(el.Children, child)
		}
	} else {
		el.Content = append([]byte(nil), content...)
	}
	return el, rest, nil
}

// decodeIdentifier parses the identifier octets: class in the top two
// bits, constructed flag in bit 6, tag number in the low five bits with
// base-128 long form when all five are set.
func decodeIdentifier(data []byte) (Class, int, bool, []byte, error) {
	b := data[0]
	class := Class(b >> 6)
	constructed := b&0x20 != 0
	tag := int(b & 0x1f)
	rest := data[1:]

	if tag == 0x1f {
		tag = 0
		for i := 0; ; i++ {
			if len(rest) == 0 {
				return 0, 0, false, nil, ErrTruncated
			}
			if tag > 1<<24 {
				return 0, 0, false, nil, ErrLengthTooLarge
			}
			c := rest[0]
			rest = rest[1:]
			tag = tag<<7 | int(c&0x7f)
			if c&0x80 == 0 {
				break
			}
		}
	}
	return class, tag, constructed, rest, nil
}

// decodeLength parses the length octets. Short form when the top bit is
// clear; otherwise the low seven bits count the big-endian length octets
// that follow; 0x80 alone flags an indefinite length.
func decodeLength(data []byte, strict bool) (length int, indefinite bool, rest []byte, err error) {
	if len(data) == 0 {
		return 0, false, nil, ErrTruncated
	}
	b := data[0]
	rest = data[1:]

	if b&0x80 == 0 {
		return int(b), false, rest, nil
	}
	n := int(b & 0x7f)
	if n == 0 {
		if strict {
			return 0, false, nil, ErrIndefiniteLength
		}
		return 0, true, rest, nil
	}
	if n > 4 {
		return 0, false, nil, ErrLengthTooLarge
	}
	if len(rest) < n {
		return 0, false, nil, ErrTruncated
	}
	for i := 0; i < n; i++ {
		length = length<<8 | int(rest[i])
	}
	rest = rest[n:]
	if strict {
		// DER demands the minimal length form.
		if length < 0x80 || (n > 1 && length < 1<<((n-1)*8)) {
			return 0, false, nil, ErrNonMinimalLength
		}
	}
	if length < 0 {
		return 0, false, nil, ErrLengthTooLarge
	}
	return length, false, rest, nil
}

// typeName renders an element's identity for error messages.
func (e *Element) typeName() string {
	if e.Class == ClassUniversal {
		switch e.Tag {
		case TagBoolean:
			return "BOOLEAN"
		case TagInteger:
			return "INTEGER"
		case TagBitString:
			return "BIT STRING"
		case TagOctetString:
			return "OCTET STRING"
		case TagNull:
			return "NULL"
		case TagOID:
			return "OBJECT IDENTIFIER"
		case TagSequence:
			return "SEQUENCE"
		case TagSet:
			return "SET"
		case TagUTCTime:
			return "UTCTime"
		case TagGeneralizedTime:
			return "GeneralizedTime"
		}
	}
	return fmt.Sprintf("[class %d tag %d]", e.Class, e.Tag)
}
