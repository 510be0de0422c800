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
)

// SchemaType names the expected shape of an element.
type SchemaType int

const (
	TypeAny SchemaType = iota
	TypeBoolean
	TypeInteger
	TypeBitString
	TypeOctetString
	TypeNull
	TypeOID
	TypeString
	TypeTime
	TypeSequence
	TypeSequenceOf
	TypeSet
	TypeSetOf
	TypeChoice
)

// Schema describes the expected structure of DER input. A schema node
// matches one element; Sequence/Set nodes name their members, Choice
// nodes list alternatives, and context-specific tag overrides express
// implicit or explicit tagging.
type Schema struct {
	Name     string
	Type     SchemaType
	Fields   []*Schema // Sequence/Set members, in order
	Of       *Schema   // SequenceOf/SetOf member schema
	Choices  []*Schema // Choice alternatives
	Optional bool
	// Tag, when >= 0, is a context-specific tag number replacing
	// (implicit) or wrapping (explicit) the underlying type's tag.
	Tag      int
	Explicit bool
}

// NewSchema returns a schema node with no context tag override.
func NewSchema(name string, typ SchemaType) *Schema {
	return &Schema{Name: name, Type: typ, Tag: -1}
}

// Seq builds a SEQUENCE schema from its member schemas.
func Seq(name string, fields ...*Schema) *Schema {
	s := NewSchema(name, TypeSequence)
	s.Fields = fields
	return s
}

// SeqOf builds a SEQUENCE OF schema.
func SeqOf(name string, of *Schema) *Schema {
	s := NewSchema(name, TypeSequenceOf)
	s.Of = of
	return s
}

// SetOfSchema builds a SET OF schema.
func SetOfSchema(name string, of *Schema) *Schema {
	s := NewSchema(name, TypeSetOf)
	s.Of = of
	return s
}

// Choice builds a CHOICE schema from its alternatives.
func Choice(name string, alternatives ...*Schema) *Schema {
	s := NewSchema(name, TypeChoice)
	s.Choices = alternatives
	return s
}

// Opt marks the schema optional and returns it.
func (s *Schema) Opt() *Schema {
	s.Optional = true
	return s
}

// Ctx applies an implicit context-specific tag and returns the schema.
func (s *Schema) Ctx(tag int) *Schema {
	s.Tag = tag
	s.Explicit = false
	return s
}

// CtxExplicit applies an explicit context-specific tag and returns the
// schema.
func (s *Schema) CtxExplicit(tag int) *Schema {
	s.Tag = tag
	s.Explicit = true
	return s
}

// Tree is the result of a schema-driven decode: the matched element plus
// named children for constructed types.
type Tree struct {
	Name     string
	Element  *Element
	Children []*Tree
}

// Get returns the first direct child with the given name, or nil.
func (t *Tree) Get(name string) *Tree {
	for _, c := range t.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Unmarshal decodes strict DER input and maps it against the schema.
// Input that does not match reports ErrSchemaMismatch with a field path;
// no partial tree is ever returned.
func Unmarshal(data []byte, schema *Schema) (*Tree, error) {
	el, err := DecodeDER(data)
	if err != nil {
		return nil, err
	}
	return Map(el, schema)
}

// Map matches an already-decoded element against the schema.
func Map(el *Element, schema *Schema) (*Tree, error) {
	return mapElement(el, schema, schema.Name)
}

func mismatch(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrSchemaMismatch, path, fmt.Sprintf(format, args...))
}

func mapElement(el *Element, s *Schema, path string) (*Tree, error) {
	// Explicit context tags wrap the real element one level down.
	if s.Tag >= 0 {
		if el.Class != ClassContextSpecific || el.Tag != s.Tag {
			return nil, mismatch(path, "expected context tag [%d], have %s", s.Tag, el.typeName())
		}
		if s.Explicit {
			if !el.Constructed || len(el.Children) != 1 {
				return nil, mismatch(path, "explicit tag [%d] must wrap exactly one element", s.Tag)
			}
			inner := *s
			inner.Tag = -1
			return mapElement(el.Children[0], &inner, path)
		}
		// Implicit: reinterpret the element as the underlying type.
		el = &Element{
			Class:       ClassUniversal,
			Tag:         universalTagFor(s.Type),
			Constructed: el.Constructed,
			Content:     el.Content,
			Children:    el.Children,
		}
	}

	switch s.Type {
	case TypeAny:
		return &Tree{Name: s.Name, Element: el}, nil

	case TypeChoice:
		for _, alt := range s.Choices {
			if t, err := mapElement(el, alt, path+"."+alt.Name); err == nil {
				return &Tree{Name: s.Name, Element: el, Children: []*Tree{t}}, nil
			}
		}
		return nil, mismatch(path, "no CHOICE alternative matched %s", el.typeName())

	case TypeSequence, TypeSet:
		wantTag := TagSequence
		if s.Type == TypeSet {
			wantTag = TagSet
		}
		if el.Class != ClassUniversal || el.Tag != wantTag || !el.Constructed {
			return nil, mismatch(path, "expected %s, have %s", typeLabel(s.Type), el.typeName())
		}
		tree := &Tree{Name: s.Name, Element: el}
		idx := 0
		for _, field := range s.Fields {
			fieldPath := path + "." + field.Name
			if idx < len(el.Children) {
				child, err := mapElement(el.Children[idx], field, fieldPath)
				if err == nil {
					tree.Children = append(tree.Children, child)
					idx++
					continue
				}
				if !field.Optional {
					return nil, err
				}
				continue // optional field absent; try this element on the next field
			}
			if !field.Optional {
				return nil, mismatch(fieldPath, "missing required field")
			}
		}
		if idx != len(el.Children) {
			return nil, mismatch(path, "unexpected extra element %s", el.Children[idx].typeName())
		}
		return tree, nil

	case TypeSequenceOf, TypeSetOf:
		wantTag := TagSequence
		if s.Type == TypeSetOf {
			wantTag = TagSet
		}
		if el.Class != ClassUniversal || el.Tag != wantTag || !el.Constructed {
			return nil, mismatch(path, "expected %s, have %s", typeLabel(s.Type), el.typeName())
		}
		tree := &Tree{Name: s.Name, Element: el}
		for i, child := range el.Children {
			t, err := mapElement(child, s.Of, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			tree.Children = append(tree.Children, t)
		}
		return tree, nil

	default:
		if err := checkPrimitive(el, s.Type); err != nil {
			return nil, mismatch(path, "%v", err)
		}
		return &Tree{Name: s.Name, Element: el}, nil
	}
}

func checkPrimitive(el *Element, typ SchemaType) error {
	if el.Class != ClassUniversal {
		return fmt.Errorf("expected %s, have %s", typeLabel(typ), el.typeName())
	}
	ok := false
	switch typ {
	case TypeBoolean:
		ok = el.Tag == TagBoolean
	case TypeInteger:
		ok = el.Tag == TagInteger || el.Tag == TagEnumerated
	case TypeBitString:
		ok = el.Tag == TagBitString
	case TypeOctetString:
		ok = el.Tag == TagOctetString
	case TypeNull:
		ok = el.Tag == TagNull
	case TypeOID:
		ok = el.Tag == TagOID
	case TypeString:
		switch el.Tag {
		case TagUTF8String, TagPrintableString, TagIA5String,
			TagT61String, TagNumericString, TagVisibleString, TagBMPString:
			ok = true
		}
	case TypeTime:
		ok = el.Tag == TagUTCTime || el.Tag == TagGeneralizedTime
	}
	if !ok {
		return fmt.Errorf("expected %s, have %s", typeLabel(typ), el.typeName())
	}
	return nil
}

func universalTagFor(typ SchemaType) int {
	switch typ {
	case TypeBoolean:
		return TagBoolean
	case TypeInteger:
		return TagInteger
	case TypeBitString:
		return TagBitString
	case TypeOctetString:
		return TagOctetString
	case TypeNull:
		return TagNull
	case TypeOID:
		return TagOID
	case TypeString:
		return TagUTF8String
	case TypeTime:
		return TagUTCTime
	case TypeSequence, TypeSequenceOf:
		return TagSequence
	case TypeSet, TypeSetOf:
		return TagSet
	}
	return -1
}

func typeLabel(typ SchemaType) string {
	switch typ {
	case TypeBoolean:
		return "BOOLEAN"
	case TypeInteger:
		return "INTEGER"
	case TypeBitString:
		return "BIT STRING"
	case TypeOctetString:
		return "OCTET STRING"
	case TypeNull:
		return "NULL"
	case TypeOID:
		return "OBJECT IDENTIFIER"
	case TypeString:
		return "string"
	case TypeTime:
		return "time"
	case TypeSequence:
		return "SEQUENCE"
	case TypeSequenceOf:
		return "SEQUENCE OF"
	case TypeSet:
		return "SET"
	case TypeSetOf:
		return "SET OF"
	case TypeChoice:
		return "CHOICE"
	}
	return "ANY"
}
