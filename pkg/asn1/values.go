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

package asn1

import (
	"fmt"
	"time"

	"github.com/purecrypt/go-purecrypt/pkg/bigint"
)

// BitString is a BIT STRING value: Bytes holds the packed bits, PadBits
// counts unused low-order bits in the final byte.
type BitString struct {
	Bytes   []byte
	PadBits int
}

// --- typed accessors -------------------------------------------------

func (e *Element) expect(tag int) error {
	if e.Class != ClassUniversal || e.Tag != tag || e.Constructed != (tag == TagSequence || tag == TagSet) {
		return fmt.Errorf("%w: have %s", ErrWrongType, e.typeName())
	}
	return nil
}

// Integer decodes INTEGER content as a signed two's-complement value.
func (e *Element) Integer() (*bigint.Int, error) {
	if err := e.expect(TagInteger); err != nil {
		return nil, err
	}
	if len(e.Content) == 0 {
		return nil, ErrTruncated
	}
	return bigint.FromSignedBytes(e.Content), nil
}

// OctetString returns OCTET STRING content.
func (e *Element) OctetString() ([]byte, error) {
	if err := e.expect(TagOctetString); err != nil {
		return nil, err
	}
	return e.Content, nil
}

// Boolean decodes BOOLEAN content. Any non-zero octet reads true.
func (e *Element) Boolean() (bool, error) {
	if err := e.expect(TagBoolean); err != nil {
		return false, err
	}
	if len(e.Content) != 1 {
		return false, ErrInvalidBoolean
	}
	return e.Content[0] != 0, nil
}

// BitStringValue decodes BIT STRING content.
func (e *Element) BitStringValue() (*BitString, error) {
	if err := e.expect(TagBitString); err != nil {
		return nil, err
	}
	if len(e.Content) == 0 {
		return nil, ErrInvalidBitString
	}
	pad := int(e.Content[0])
	if pad > 7 || (len(e.Content) == 1 && pad != 0) {
		return nil, ErrInvalidBitString
	}
	return &BitString{Bytes: e.Content[1:], PadBits: pad}, nil
}

// OIDValue decodes OBJECT IDENTIFIER content.
func (e *Element) OIDValue() (OID, error) {
	if err := e.expect(TagOID); err != nil {
		return nil, err
	}
	return decodeOID(e.Content)
}

// StringValue decodes any of the universal string types as UTF-8 bytes.
func (e *Element) StringValue() (string, error) {
	if e.Class != ClassUniversal {
		return "", fmt.Errorf("%w: have %s", ErrWrongType, e.typeName())
	}
	switch e.Tag {
	case TagUTF8String, TagPrintableString, TagIA5String, TagT61String,
		TagNumericString, TagVisibleString:
		return string(e.Content), nil
	}
	return "", fmt.Errorf("%w: have %s", ErrWrongType, e.typeName())
}

// Time decodes UTCTime or GeneralizedTime content.
func (e *Element) Time() (time.Time, error) {
	if e.Class != ClassUniversal {
		return time.Time{}, fmt.Errorf("%w: have %s", ErrWrongType, e.typeName())
	}
	s := string(e.Content)
	switch e.Tag {
	case TagUTCTime:
		t, err := time.Parse("060102150405Z0700", s)
		if err != nil {
			t, err = time.Parse("0601021504Z0700", s)
		}
		if err != nil {
			return time.Time{}, ErrInvalidTime
		}
		// RFC 5280 pivot: two-digit years 00-49 are 20xx.
		if t.Year() >= 2050 {
			t = t.AddDate(-100, 0, 0)
		}
		return t, nil
	case TagGeneralizedTime:
		t, err := time.Parse("20060102150405Z0700", s)
		if err != nil {
			return time.Time{}, ErrInvalidTime
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: have %s", ErrWrongType, e.typeName())
}

// IsNull reports whether the element is a universal NULL.
func (e *Element) IsNull() bool {
	return e.Class == ClassUniversal && e.Tag == TagNull && !e.Constructed && len(e.Content) == 0
}

// --- builders --------------------------------------------------------

// NewInteger builds an INTEGER element from a signed value.
func NewInteger(v *bigint.Int) *Element {
	return &Element{Class: ClassUniversal, Tag: TagInteger, Content: v.SignedBytes()}
}

// NewIntegerFromBytes builds an INTEGER element from an unsigned
// magnitude, inserting the leading zero DER requires when the top bit is
// set.
func NewIntegerFromBytes(b []byte) *Element {
	return NewInteger(bigint.FromBytes(b))
}

// NewOctetString builds an OCTET STRING element.
func NewOctetString(b []byte) *Element {
	return &Element{Class: ClassUniversal, Tag: TagOctetString, Content: append([]byte(nil), b...)}
}

// NewBoolean builds a BOOLEAN element with the DER canonical 0xff/0x00
// content.
func NewBoolean(v bool) *Element {
	content := []byte{0x00}
	if v {
		content[0] = 0xff
	}
	return &Element{Class: ClassUniversal, Tag: TagBoolean, Content: content}
}

// NewNull builds a NULL element.
func NewNull() *Element {
	return &Element{Class: ClassUniversal, Tag: TagNull}
}

// NewBitString builds a BIT STRING element.
func NewBitString(bs *BitString) *Element {
	content := append([]byte{byte(bs.PadBits)}, bs.Bytes...)
	return &Element{Class: ClassUniversal, Tag: TagBitString, Content: content}
}

// NewOID builds an OBJECT IDENTIFIER element.
func NewOID(oid OID) (*Element, error) {
	content, err := encodeOID(oid)
	if err != nil {
		return nil, err
	}
	return &Element{Class: ClassUniversal, Tag: TagOID, Content: content}, nil
}

// NewSequence builds a SEQUENCE from its members in order.
func NewSequence(children ...*Element) *Element {
	return &Element{Class: ClassUniversal, Tag: TagSequence, Constructed: true, Children: children}
}

// NewSet builds a SET from its members.
func NewSet(children ...*Element) *Element {
	return &Element{Class: ClassUniversal, Tag: TagSet, Constructed: true, Children: children}
}

// NewUTF8String builds a UTF8String element.
func NewUTF8String(s string) *Element {
	return &Element{Class: ClassUniversal, Tag: TagUTF8String, Content: []byte(s)}
}

// NewPrintableString builds a PrintableString element.
func NewPrintableString(s string) *Element {
	return &Element{Class: ClassUniversal, Tag: TagPrintableString, Content: []byte(s)}
}

// NewIA5String builds an IA5String element.
func NewIA5String(s string) *Element {
	return &Element{Class: ClassUniversal, Tag: TagIA5String, Content: []byte(s)}
}

// NewUTCTime builds a UTCTime element in the DER "YYMMDDHHMMSSZ" form.
func NewUTCTime(t time.Time) *Element {
	return &Element{
		Class:   ClassUniversal,
		Tag:     TagUTCTime,
		Content: []byte(t.UTC().Format("060102150405Z")),
	}
}

// NewGeneralizedTime builds a GeneralizedTime element.
func NewGeneralizedTime(t time.Time) *Element {
	return &Element{
		Class:   ClassUniversal,
		Tag:     TagGeneralizedTime,
		Content: []byte(t.UTC().Format("20060102150405Z")),
	}
}

// Implicit re-tags a copy of el with a context-specific tag, preserving
// its content and constructed flag.
func Implicit(tag int, el *Element) *Element {
	return &Element{
		Class:       ClassContextSpecific,
		Tag:         tag,
		Constructed: el.Constructed,
		Content:     el.Content,
		Children:    el.Children,
	}
}

// Explicit wraps el in a constructed context-specific tag.
func Explicit(tag int, el *Element) *Element {
	return &Element{
		Class:       ClassContextSpecific,
		Tag:         tag,
		Constructed: true,
		Children:    []*Element{el},
	}
}
