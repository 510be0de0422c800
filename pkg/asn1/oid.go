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
	"strconv"
	"strings"
)

// OID is an object identifier as a sequence of arcs.
type OID []uint64

// String renders the dotted-decimal form.
func (o OID) String() string {
	parts := make([]string, len(o))
	for i, arc := range o {
		parts[i] = strconv.FormatUint(arc, 10)
	}
	return strings.Join(parts, ".")
}

// Equal reports whether two OIDs are identical.
func (o OID) Equal(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseOID parses a dotted-decimal string.
func ParseOID(s string) (OID, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return nil, ErrInvalidOID
	}
	oid := make(OID, len(parts))
	for i, p := range parts {
		arc, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, ErrInvalidOID
		}
		oid[i] = arc
	}
	return oid, nil
}

// decodeOID parses OID content octets. Every subidentifier is a base-128
// varint; the first packs the leading two arcs as 40*arc1+arc2.
func decodeOID(content []byte) (OID, error) {
	if len(content) == 0 {
		return nil, ErrInvalidOID
	}
	var subs []uint64
	var arc uint64
	inArc := false
	for _, b := range content {
		if arc > 1<<56 {
			return nil, ErrInvalidOID
		}
		arc = arc<<7 | uint64(b&0x7f)
		inArc = true
		if b&0x80 == 0 {
			subs = append(subs, arc)
			arc = 0
			inArc = false
		}
	}
	if inArc {
		// varint never terminated
		return nil, ErrInvalidOID
	}

	first := subs[0]
	oid := make(OID, 0, len(subs)+1)
	switch {
	case first < 40:
		oid = append(oid, 0, first)
	case first < 80:
		oid = append(oid, 1, first-40)
	default:
		oid = append(oid, 2, first-80)
	}
	return append(oid, subs[1:]...), nil
}

// encodeOID produces OID content octets.
func encodeOID(oid OID) ([]byte, error) {
	if len(oid) < 2 || oid[0] > 2 || (oid[0] < 2 && oid[1] >= 40) {
		return nil, ErrInvalidOID
	}
	out := encodeBase128(oid[0]*40 + oid[1])
	for _, arc := range oid[2:] {
		out = append(out, encodeBase128(arc)...)
	}
	return out, nil
}

func encodeBase128(v uint64) []byte {
	if v == 0 {
		return []byte{0}
	}
	var stack []byte
	for ; v > 0; v >>= 7 {
		stack = append(stack, byte(v&0x7f))
	}
	out := make([]byte, 0, len(stack))
	for i := len(stack) - 1; i > 0; i-- {
		out = append(out, stack[i]|0x80)
	}
	return append(out, stack[0])
}
