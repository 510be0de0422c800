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

package ssh2

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purecrypt/go-purecrypt/internal/sshwire"
)

func TestNegotiateFirstClientPreferenceWins(t *testing.T) {
	client := &kexInitMsg{
		KexAlgorithms:           []string{"curve25519-sha256", "diffie-hellman-group14-sha256"},
		ServerHostKeyAlgorithms: []string{"rsa-sha2-256", "ssh-rsa"},
		CiphersClientServer:     []string{"aes128-ctr", "aes256-ctr"},
		CiphersServerClient:     []string{"aes128-ctr", "aes256-ctr"},
		MACsClientServer:        []string{"hmac-sha2-256", "hmac-sha1"},
		MACsServerClient:        []string{"hmac-sha2-256", "hmac-sha1"},
		CompressionClientServer: []string{"none"},
		CompressionServerClient: []string{"none"},
	}
	server := &kexInitMsg{
		// Server prefers group14 but the client's first choice present
		// in the server list wins.
		KexAlgorithms:           []string{"diffie-hellman-group14-sha256", "curve25519-sha256"},
		ServerHostKeyAlgorithms: []string{"ssh-rsa", "rsa-sha2-256"},
		CiphersClientServer:     []string{"aes256-ctr", "aes128-ctr"},
		CiphersServerClient:     []string{"aes256-ctr"},
		MACsClientServer:        []string{"hmac-sha1", "hmac-sha2-256"},
		MACsServerClient:        []string{"hmac-sha1"},
		CompressionClientServer: []string{"none"},
		CompressionServerClient: []string{"none"},
	}

	algs, err := negotiate(client, server)
	require.NoError(t, err)
	assert.Equal(t, "curve25519-sha256", algs.kex)
	assert.Equal(t, "rsa-sha2-256", algs.hostKey)
	assert.Equal(t, "aes128-ctr", algs.cipherCS)
	assert.Equal(t, "aes256-ctr", algs.cipherSC)
	assert.Equal(t, "hmac-sha2-256", algs.macCS)
	assert.Equal(t, "hmac-sha1", algs.macSC)
}

func TestNegotiateSingleOverlap(t *testing.T) {
	client := &kexInitMsg{
		KexAlgorithms:           []string{"curve25519-sha256", "diffie-hellman-group14-sha1"},
		ServerHostKeyAlgorithms: []string{"ssh-rsa"},
		CiphersClientServer:     []string{"aes128-ctr"},
		CiphersServerClient:     []string{"aes128-ctr"},
		MACsClientServer:        []string{"hmac-sha1"},
		MACsServerClient:        []string{"hmac-sha1"},
		CompressionClientServer: []string{"none"},
		CompressionServerClient: []string{"none"},
	}
	server := *client
	server.KexAlgorithms = []string{"diffie-hellman-group14-sha1"}

	algs, err := negotiate(client, &server)
	require.NoError(t, err)
	assert.Equal(t, "diffie-hellman-group14-sha1", algs.kex)
}

func TestNegotiateNoOverlapIsFatal(t *testing.T) {
	client := &kexInitMsg{
		KexAlgorithms:           []string{"curve25519-sha256"},
		ServerHostKeyAlgorithms: []string{"ssh-rsa"},
		CiphersClientServer:     []string{"aes128-ctr"},
		CiphersServerClient:     []string{"aes128-ctr"},
		MACsClientServer:        []string{"hmac-sha1"},
		MACsServerClient:        []string{"hmac-sha1"},
		CompressionClientServer: []string{"none"},
		CompressionServerClient: []string{"none"},
	}
	server := *client
	server.KexAlgorithms = []string{"diffie-hellman-group1-sha1"}

	_, err := negotiate(client, &server)
	assert.ErrorIs(t, err, ErrKexFailed)
}

func TestKexInitRoundTrip(t *testing.T) {
	m := &kexInitMsg{
		KexAlgorithms:           supportedKexAlgos,
		ServerHostKeyAlgorithms: supportedHostKeyAlgos,
		CiphersClientServer:     supportedCiphers,
		CiphersServerClient:     supportedCiphers,
		MACsClientServer:        supportedMACs,
		MACsServerClient:        supportedMACs,
		CompressionClientServer: supportedCompression,
		CompressionServerClient: supportedCompression,
	}
	copy(m.Cookie[:], bytes.Repeat([]byte{0xA5}, 16))

	parsed, err := parseKexInit(m.marshal())
	require.NoError(t, err)
	assert.Equal(t, m.Cookie, parsed.Cookie)
	assert.Equal(t, m.KexAlgorithms, parsed.KexAlgorithms)
	assert.Equal(t, m.MACsServerClient, parsed.MACsServerClient)
	assert.False(t, parsed.FirstKexPacketFollows)
}

func TestFramePadding(t *testing.T) {
	for _, payloadLen := range []int{0, 1, 7, 8, 15, 16, 255, 1000} {
		for _, block := range []int{8, 16} {
			payload := bytes.Repeat([]byte{0x42}, payloadLen)
			packet, err := frame(payload, block, rand.Reader)
			require.NoError(t, err)

			assert.Zero(t, len(packet)%block, "total length must be a block multiple")
			padding := int(packet[4])
			assert.GreaterOrEqual(t, padding, 4)

			got, err := payloadFromFrame(packet)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		}
	}
}

func TestStreamCipherRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, 32)
	iv := bytes.Repeat([]byte{0x02}, 16)
	macKey := bytes.Repeat([]byte{0x03}, 32)

	enc, err := newStreamPacketCipher("aes256-ctr", "hmac-sha2-256", key, iv, macKey)
	require.NoError(t, err)
	dec, err := newStreamPacketCipher("aes256-ctr", "hmac-sha2-256", key, iv, macKey)
	require.NoError(t, err)

	var wire bytes.Buffer
	payloads := [][]byte{
		[]byte{msgIgnore},
		bytes.Repeat([]byte{0x7f}, 300),
		[]byte("third packet"),
	}
	for seq, p := range payloads {
		require.NoError(t, enc.writeCipherPacket(uint32(seq), &wire, rand.Reader, p))
	}
	r := bufio.NewReader(&wire)
	for seq, p := range payloads {
		got, err := dec.readCipherPacket(uint32(seq), r)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestStreamCipherMACMismatch(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, 16)
	iv := bytes.Repeat([]byte{0x02}, 16)
	macKey := bytes.Repeat([]byte{0x03}, 20)

	enc, err := newStreamPacketCipher("aes128-ctr", "hmac-sha1", key, iv, macKey)
	require.NoError(t, err)
	dec, err := newStreamPacketCipher("aes128-ctr", "hmac-sha1", key, iv, macKey)
	require.NoError(t, err)

	var wire bytes.Buffer
	require.NoError(t, enc.writeCipherPacket(0, &wire, rand.Reader, []byte("payload")))
	raw := wire.Bytes()
	raw[len(raw)-1] ^= 0xff // corrupt the MAC

	_, err = dec.readCipherPacket(0, bufio.NewReader(bytes.NewReader(raw)))
	assert.ErrorIs(t, err, ErrMACMismatch)
}

func TestDeriveKeyExtension(t *testing.T) {
	k := big.NewInt(0xCAFEBABE)
	h := bytes.Repeat([]byte{0x11}, 32)
	sid := bytes.Repeat([]byte{0x22}, 32)

	short := deriveKey("sha256", k, h, sid, 'C', 16)
	long := deriveKey("sha256", k, h, sid, 'C', 48)

	// Longer requests extend, never re-derive, the shorter prefix.
	assert.Equal(t, short, long[:16])
	assert.Len(t, long, 48)

	// Different tags must diverge.
	other := deriveKey("sha256", k, h, sid, 'D', 16)
	assert.NotEqual(t, short, other)
}

func TestParseRSAHostKeyBlob(t *testing.T) {
	blob := marshalRSABlob(t, big.NewInt(65537), big.NewInt(0).SetBytes(bytes.Repeat([]byte{0xEE}, 128)))
	pub, err := parseRSAHostKeyBlob(blob)
	require.NoError(t, err)
	assert.Equal(t, 65537, pub.E)
	assert.Equal(t, 1024, pub.N.BitLen())

	_, err = parseRSAHostKeyBlob([]byte("garbage"))
	assert.ErrorIs(t, err, ErrKexFailed)
}

func marshalRSABlob(t *testing.T, e, n *big.Int) []byte {
	t.Helper()
	var w sshwire.Writer
	w.WriteString([]byte("ssh-rsa"))
	w.WriteMPInt(e)
	w.WriteMPInt(n)
	return w.Bytes()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "kex-complete", StateKexComplete.String())
	assert.Equal(t, "closed", StateClosed.String())
}
