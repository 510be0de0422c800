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

// Encode serializes the element tree as canonical DER: definite, minimal
// lengths throughout. Because DER admits exactly one encoding per value,
// decoding canonical input and re-encoding reproduces the original bytes.
func (e *Element) Encode() []byte {
	content := e.Content
	if e.Constructed {
		content = nil
		for _, child := range e.Children {
			content = append(content, child.Encode()...)
		}
	}
	out := encodeIdentifier(e.Class, e.Tag, e.Constructed)
	out = append(out, encodeLength(len(content))...)
	return append(out, content...)
}

func encodeIdentifier(class Class, tag int, constructed bool) []byte {
	b := byte(class) << 6
	if constructed {
		b |= 0x20
	}
	if tag < 0x1f {
		return []byte{b | byte(tag)}
	}
	out := []byte{b | 0x1f}
	// Base-128, big-endian, continuation bit on all but the last octet.
	var stack []byte
	for t := tag; t > 0; t >>= 7 {
		stack = append(stack, byte(t&0x7f))
	}
	for i := len(stack) - 1; i > 0; i-- {
		out = append(out, stack[i]|0x80)
	}
	return append(out, stack[0])
}

func encodeLength(n int) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var stack []byte
	for v := n; v > 0; v >>= 8 {
		stack = append(stack, byte(v))
	}
	out := []byte{0x80 | byte(len(stack))}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, stack[i])
	}
	return out
}
