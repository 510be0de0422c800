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
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/curve25519"

	"github.com/purecrypt/go-purecrypt/internal/sshwire"
	"github.com/purecrypt/go-purecrypt/pkg/hashing"
)

// Supported algorithm name-lists, in client preference order.
var (
	supportedKexAlgos = []string{
		"curve25519-sha256", "curve25519-sha256@libssh.org",
		"diffie-hellman-group14-sha256", "diffie-hellman-group14-sha1",
	}
	supportedHostKeyAlgos = []string{"rsa-sha2-256", "rsa-sha2-512", "ssh-rsa"}
	supportedCiphers      = []string{"aes128-ctr", "aes256-ctr", "aes192-ctr"}
	supportedMACs         = []string{"hmac-sha2-256", "hmac-sha1", "hmac-sha1-96"}
	supportedCompression  = []string{"none"}
)

// algorithms is the outcome of a KEXINIT negotiation.
type algorithms struct {
	kex           string
	hostKey       string
	cipherCS      string
	cipherSC      string
	macCS         string
	macSC         string
	compressionCS string
	compressionSC string
}

// findCommon returns the first client algorithm present in the server
// list; the empty string means no overlap.
func findCommon(client, server []string) string {
	for _, c := range client {
		for _, s := range server {
			if c == s {
				return c
			}
		}
	}
	return ""
}

// negotiate resolves every category of two KEXINIT messages. Any empty
// intersection is fatal.
func negotiate(client, server *kexInitMsg) (*algorithms, error) {
	a := &algorithms{
		kex:           findCommon(client.KexAlgorithms, server.KexAlgorithms),
		hostKey:       findCommon(client.ServerHostKeyAlgorithms, server.ServerHostKeyAlgorithms),
		cipherCS:      findCommon(client.CiphersClientServer, server.CiphersClientServer),
		cipherSC:      findCommon(client.CiphersServerClient, server.CiphersServerClient),
		macCS:         findCommon(client.MACsClientServer, server.MACsClientServer),
		macSC:         findCommon(client.MACsServerClient, server.MACsServerClient),
		compressionCS: findCommon(client.CompressionClientServer, server.CompressionClientServer),
		compressionSC: findCommon(client.CompressionServerClient, server.CompressionServerClient),
	}
	for name, v := range map[string]string{
		"kex": a.kex, "host key": a.hostKey,
		"cipher client-to-server": a.cipherCS, "cipher server-to-client": a.cipherSC,
		"mac client-to-server": a.macCS, "mac server-to-client": a.macSC,
		"compression client-to-server": a.compressionCS, "compression server-to-client": a.compressionSC,
	} {
		if v == "" {
			return nil, fmt.Errorf("%w: no common %s algorithm", ErrKexFailed, name)
		}
	}
	return a, nil
}

// kexResult carries the shared secret and exchange hash out of a key
// exchange.
type kexResult struct {
	k        *big.Int
	h        []byte
	hashName string
}

func kexHashName(kexAlgo string) string {
	if kexAlgo == "diffie-hellman-group14-sha1" {
		return "sha1"
	}
	return "sha256"
}

// group14Prime is the 2048-bit MODP group (RFC 3526 §3).
var group14Prime, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74"+
		"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437"+
		"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED"+
		"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05"+
		"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB"+
		"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B"+
		"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718"+
		"3995497CEA956AE515D2261898FA051015728E5A8AACAA68FFFFFFFFFFFFFFFF", 16)

// exchange runs the negotiated key exchange over the transport. ownKex
// and peerKex are the raw KEXINIT payloads, needed for the exchange
// hash.
func (c *Client) exchange(algs *algorithms, ownKex, peerKex []byte) (*kexResult, *rsa.PublicKey, error) {
	switch algs.kex {
	case "curve25519-sha256", "curve25519-sha256@libssh.org":
		return c.kexCurve25519(algs, ownKex, peerKex)
	case "diffie-hellman-group14-sha256", "diffie-hellman-group14-sha1":
		return c.kexGroup14(algs, ownKex, peerKex)
	}
	return nil, nil, fmt.Errorf("%w: kex %q", ErrKexFailed, algs.kex)
}

func (c *Client) kexCurve25519(algs *algorithms, ownKex, peerKex []byte) (*kexResult, *rsa.PublicKey, error) {
	var priv [32]byte
	if _, err := io.ReadFull(rand.Reader, priv[:]); err != nil {
		return nil, nil, err
	}
	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}

	var init sshwire.Writer
	init.WriteUint8(msgKexDHInit)
	init.WriteString(pub)
	if err := c.t.writePacket(init.Bytes()); err != nil {
		return nil, nil, err
	}

	reply, err := c.t.readPacket()
	if err != nil {
		return nil, nil, err
	}
	if reply[0] != msgKexDHReply {
		return nil, nil, fmt.Errorf("%w: expected KEX_ECDH_REPLY, got %d", ErrKexFailed, reply[0])
	}
	r := sshwire.NewReader(reply[1:])
	hostKeyBlob, err := r.ReadString()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}
	serverPub, err := r.ReadString()
	if err != nil || len(serverPub) != 32 {
		return nil, nil, fmt.Errorf("%w: bad server ephemeral key", ErrKexFailed)
	}
	sig, err := r.ReadString()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}

	secret, err := curve25519.X25519(priv[:], serverPub)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}
	k := new(big.Int).SetBytes(secret)

	hashName := kexHashName(algs.kex)
	var hw sshwire.Writer
	hw.WriteString(c.clientVersion)
	hw.WriteString(c.serverVersion)
	hw.WriteString(ownKex)
	hw.WriteString(peerKex)
	hw.WriteString(hostKeyBlob)
	hw.WriteString(pub)
	hw.WriteString(serverPub)
	hw.WriteMPInt(k)
	h := hashing.New(hashName).Sum(hw.Bytes())

	hostKey, err := c.verifyHostKeySignature(hostKeyBlob, h, sig)
	if err != nil {
		return nil, nil, err
	}
	return &kexResult{k: k, h: h, hashName: hashName}, hostKey, nil
}

func (c *Client) kexGroup14(algs *algorithms, ownKex, peerKex []byte) (*kexResult, *rsa.PublicKey, error) {
	g := big.NewInt(2)
	x, err := rand.Int(rand.Reader, new(big.Int).Sub(group14Prime, big.NewInt(2)))
	if err != nil {
		return nil, nil, err
	}
	x.Add(x, big.NewInt(1))
	e := new(big.Int).Exp(g, x, group14Prime)

	var init sshwire.Writer
	init.WriteUint8(msgKexDHInit)
	init.WriteMPInt(e)
	if err := c.t.writePacket(init.Bytes()); err != nil {
		return nil, nil, err
	}

	reply, err := c.t.readPacket()
	if err != nil {
		return nil, nil, err
	}
	if reply[0] != msgKexDHReply {
		return nil, nil, fmt.Errorf("%w: expected KEXDH_REPLY, got %d", ErrKexFailed, reply[0])
	}
	r := sshwire.NewReader(reply[1:])
	hostKeyBlob, err := r.ReadString()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}
	f, err := r.ReadMPInt()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}
	sig, err := r.ReadString()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}
	if f.Sign() <= 0 || f.Cmp(group14Prime) >= 0 {
		return nil, nil, fmt.Errorf("%w: server DH value out of range", ErrKexFailed)
	}
	k := new(big.Int).Exp(f, x, group14Prime)

	hashName := kexHashName(algs.kex)
	var hw sshwire.Writer
	hw.WriteString(c.clientVersion)
	hw.WriteString(c.serverVersion)
	hw.WriteString(ownKex)
	hw.WriteString(peerKex)
	hw.WriteString(hostKeyBlob)
	hw.WriteMPInt(e)
	hw.WriteMPInt(f)
	hw.WriteMPInt(k)
	h := hashing.New(hashName).Sum(hw.Bytes())

	hostKey, err := c.verifyHostKeySignature(hostKeyBlob, h, sig)
	if err != nil {
		return nil, nil, err
	}
	return &kexResult{k: k, h: h, hashName: hashName}, hostKey, nil
}

// parseRSAHostKeyBlob decodes an ssh-rsa public key wire blob.
func parseRSAHostKeyBlob(blob []byte) (*rsa.PublicKey, error) {
	r := sshwire.NewReader(blob)
	format, err := r.ReadString()
	if err != nil || string(format) != "ssh-rsa" {
		return nil, fmt.Errorf("%w: unsupported host key format", ErrKexFailed)
	}
	e, err := r.ReadMPInt()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}
	n, err := r.ReadMPInt()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}
	if !e.IsInt64() || e.Int64() <= 0 {
		return nil, fmt.Errorf("%w: bad host key exponent", ErrKexFailed)
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

// verifyHostKeySignature checks the server signature over the exchange
// hash and runs the host key callback. Signature failure is fatal. The
// hash follows the signature format name on the wire; the signature
// itself proves which scheme the server really used.
func (c *Client) verifyHostKeySignature(blob, h, sigBlob []byte) (*rsa.PublicKey, error) {
	hostKey, err := parseRSAHostKeyBlob(blob)
	if err != nil {
		return nil, err
	}

	r := sshwire.NewReader(sigBlob)
	sigFormat, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}
	sig, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKexFailed, err)
	}

	var hashName string
	var ch crypto.Hash
	switch string(sigFormat) {
	case "rsa-sha2-256":
		hashName, ch = "sha256", crypto.SHA256
	case "rsa-sha2-512":
		hashName, ch = "sha512", crypto.SHA512
	case "ssh-rsa":
		hashName, ch = "sha1", crypto.SHA1
	default:
		return nil, fmt.Errorf("%w: signature format %q", ErrKexFailed, sigFormat)
	}

	digest := hashing.New(hashName).Sum(h)
	if err := rsa.VerifyPKCS1v15(hostKey, ch, digest, sig); err != nil {
		return nil, fmt.Errorf("%w: host key signature invalid", ErrKexFailed)
	}

	if c.cfg.HostKeyCallback != nil {
		if err := c.cfg.HostKeyCallback(c.addr, hostKey); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHostKeyRejected, err)
		}
	}
	return hostKey, nil
}

// deriveKey expands the shared secret into key material per RFC 4253
// §7.2: K1 = HASH(K || H || tag || session_id),
// Kn = HASH(K || H || K1 || ... || Kn-1).
func deriveKey(hashName string, k *big.Int, h, sessionID []byte, tag byte, length int) []byte {
	var kw sshwire.Writer
	kw.WriteMPInt(k)
	kBytes := kw.Bytes()

	hh := hashing.New(hashName)
	var out []byte
	var block []byte
	for len(out) < length {
		buf := make([]byte, 0, len(kBytes)+len(h)+1+len(sessionID)+len(out))
		buf = append(buf, kBytes...)
		buf = append(buf, h...)
		if block == nil {
			buf = append(buf, tag)
			buf = append(buf, sessionID...)
		} else {
			buf = append(buf, out...)
		}
		block = hh.Sum(buf)
		out = append(out, block...)
	}
	return out[:length]
}
