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
	"bytes"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/purecrypt/go-purecrypt/pkg/bigint"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// encode(decode(der)) must be byte-identical for canonical DER input.
// This is the invariant that keeps signatures over re-encoded structures
// valid.
func TestCanonicalRoundTrip(t *testing.T) {
	vectors := []string{
		"020100",                         // INTEGER 0
		"02020080",                       // INTEGER 128
		"0203ff7f01",                     // negative INTEGER
		"0500",                           // NULL
		"0101ff",                         // BOOLEAN true
		"06092a864886f70d010101",         // OID rsaEncryption
		"0404deadbeef",                   // OCTET STRING
		"030100",                         // empty BIT STRING
		"3009020101020102020103",         // SEQUENCE of three INTEGERs
		"310c020101300702010202010303",   // SET with nested SEQUENCE
		"a003020105",                     // [0] EXPLICIT INTEGER 5
		"170d3236303833303132303030305a", // UTCTime
	}
	for _, v := range vectors {
		der := mustHex(t, v)
		el, err := DecodeDER(der)
		require.NoError(t, err, v)
		require.Equal(t, der, el.Encode(), "round trip of %s", v)
	}
}

// decode(encode(v)) == v for values built by our own constructors.
func TestStructuralRoundTrip(t *testing.T) {
	oid, err := NewOID(OID{1, 2, 840, 113549, 1, 1, 11})
	require.NoError(t, err)

	original := NewSequence(
		NewInteger(bigint.New(-129)),
		NewBoolean(true),
		NewOctetString([]byte("payload")),
		oid,
		NewNull(),
		Explicit(0, NewInteger(bigint.New(3))),
		Implicit(1, NewOctetString([]byte("imp"))),
		NewSet(NewPrintableString("US")),
		NewUTCTime(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)),
	)

	decoded, err := DecodeDER(original.Encode())
	require.NoError(t, err)
	require.Equal(t, original.Encode(), decoded.Encode())

	n, err := decoded.Children[0].Integer()
	require.NoError(t, err)
	require.Equal(t, int64(-129), n.Int64())

	b, err := decoded.Children[1].Boolean()
	require.NoError(t, err)
	require.True(t, b)

	os, err := decoded.Children[2].OctetString()
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), os)

	gotOID, err := decoded.Children[3].OIDValue()
	require.NoError(t, err)
	require.True(t, gotOID.Equal(OID{1, 2, 840, 113549, 1, 1, 11}))

	require.True(t, decoded.Children[4].IsNull())
}

func TestLongFormLength(t *testing.T) {
	// OCTET STRING of 200 bytes forces a long-form length (0x81 0xc8).
	content := bytes.Repeat([]byte{0xab}, 200)
	der := NewOctetString(content).Encode()
	require.Equal(t, byte(0x81), der[1])
	require.Equal(t, byte(0xc8), der[2])

	el, err := DecodeDER(der)
	require.NoError(t, err)
	got, err := el.OctetString()
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestHighTagNumber(t *testing.T) {
	el := &Element{Class: ClassContextSpecific, Tag: 1000, Content: []byte{1}}
	der := el.Encode()
	decoded, err := DecodeDER(der)
	require.NoError(t, err)
	require.Equal(t, 1000, decoded.Tag)
	require.Equal(t, ClassContextSpecific, decoded.Class)
	require.Equal(t, der, decoded.Encode())
}

// Indefinite lengths are BER-only; strict DER decode must reject them.
func TestIndefiniteLength(t *testing.T) {
	// SEQUENCE, indefinite form: 30 80 02 01 05 00 00
	ber := mustHex(t, "308002010500000000")
	_, err := DecodeDER(ber[:7])
	require.ErrorIs(t, err, ErrIndefiniteLength)

	el, err := DecodeBER(mustHex(t, "30800201050000"))
	require.NoError(t, err)
	require.Len(t, el.Children, 1)
	// Re-encode normalizes to definite DER.
	require.Equal(t, mustHex(t, "3003020105"), el.Encode())
}

func TestRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"truncated content", "0203ff", ErrTruncated},
		{"truncated length", "0281", ErrTruncated},
		{"trailing data", "020100ff", ErrTrailingData},
		{"non-minimal length", "028100", ErrNonMinimalLength},
		{"empty", "", ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDER(mustHex(t, tt.in))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOIDCodec(t *testing.T) {
	tests := []struct {
		oid OID
		hex string
	}{
		{OID{1, 2, 840, 113549, 1, 1, 1}, "2a864886f70d010101"},
		{OID{2, 5, 4, 3}, "550403"},
		{OID{0, 9, 2342}, "099226"},
		{OID{2, 100, 3}, "813403"}, // first octet >= 80
	}
	for _, tt := range tests {
		content, err := encodeOID(tt.oid)
		require.NoError(t, err)
		require.Equal(t, tt.hex, hex.EncodeToString(content), tt.oid.String())

		back, err := decodeOID(content)
		require.NoError(t, err)
		require.True(t, back.Equal(tt.oid), "decode %s", tt.oid)
	}
}

func TestParseOID(t *testing.T) {
	oid, err := ParseOID("1.2.840.113549.1.1.11")
	require.NoError(t, err)
	require.Equal(t, "1.2.840.113549.1.1.11", oid.String())

	_, err = ParseOID("not-an-oid")
	require.ErrorIs(t, err, ErrInvalidOID)
}

func TestBitString(t *testing.T) {
	bs := &BitString{Bytes: []byte{0x6e, 0x5d, 0xc0}, PadBits: 6}
	el := NewBitString(bs)
	decoded, err := DecodeDER(el.Encode())
	require.NoError(t, err)
	got, err := decoded.BitStringValue()
	require.NoError(t, err)
	require.Equal(t, bs.Bytes, got.Bytes)
	require.Equal(t, 6, got.PadBits)

	bad := &Element{Class: ClassUniversal, Tag: TagBitString, Content: []byte{0x08, 0x00}}
	_, err = bad.BitStringValue()
	require.ErrorIs(t, err, ErrInvalidBitString)
}

func TestTimeDecoding(t *testing.T) {
	utc := NewUTCTime(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	got, err := utc.Time()
	require.NoError(t, err)
	require.Equal(t, 2026, got.Year())

	// Pre-2050 pivot: "490101000000Z" is 2049, "500101000000Z" is 1950.
	el := &Element{Class: ClassUniversal, Tag: TagUTCTime, Content: []byte("500101000000Z")}
	got, err = el.Time()
	require.NoError(t, err)
	require.Equal(t, 1950, got.Year())

	gen := NewGeneralizedTime(time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC))
	got, err = gen.Time()
	require.NoError(t, err)
	require.Equal(t, 1999, got.Year())
}

func TestWrongTypeAccessors(t *testing.T) {
	el := NewOctetString([]byte("x"))
	_, err := el.Integer()
	require.ErrorIs(t, err, ErrWrongType)
	_, err = el.OIDValue()
	require.ErrorIs(t, err, ErrWrongType)
}
