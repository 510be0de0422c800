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

import "errors"

var (
	// ErrTruncated is returned when the input ends inside a tag, length
	// or content field
	ErrTruncated = errors.New("asn1: truncated encoding")

	// ErrIndefiniteLength is returned when an indefinite length is seen
	// under strict DER rules
	ErrIndefiniteLength = errors.New("asn1: indefinite length not permitted in DER")

	// ErrNonMinimalLength is returned for a long-form length that DER
	// requires in short form, or with leading zero octets
	ErrNonMinimalLength = errors.New("asn1: non-minimal length encoding")

	// ErrLengthTooLarge is returned for length fields wider than the
	// platform can address
	ErrLengthTooLarge = errors.New("asn1: length too large")

	// ErrTrailingData is returned when bytes remain after a complete
	// top-level element
	ErrTrailingData = errors.New("asn1: trailing data after element")

	// ErrInvalidOID is returned for malformed object identifier content
	ErrInvalidOID = errors.New("asn1: invalid object identifier")

	// ErrInvalidBoolean is returned for BOOLEAN content that is not
	// exactly one octet
	ErrInvalidBoolean = errors.New("asn1: invalid boolean")

	// ErrInvalidBitString is returned for BIT STRING content with an
	// impossible pad count
	ErrInvalidBitString = errors.New("asn1: invalid bit string")

	// ErrInvalidTime is returned for unparseable UTCTime or
	// GeneralizedTime content
	ErrInvalidTime = errors.New("asn1: invalid time")

	// ErrWrongType is returned when a typed accessor is called on an
	// element of a different universal type
	ErrWrongType = errors.New("asn1: element has wrong type")

	// ErrSchemaMismatch is returned when input does not match the
	// caller-supplied schema. Decoding never returns a partial tree.
	ErrSchemaMismatch = errors.New("asn1: input does not match schema")
)
