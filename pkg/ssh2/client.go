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

// Package ssh2 implements a single-threaded SSH2 client: transport
// framing, algorithm negotiation, key exchange, user authentication and
// channels. All I/O happens on the caller's goroutine; per-operation
// timeouts map to connection deadlines.
package ssh2

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"
	"math/big"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/purecrypt/go-purecrypt/internal/sshwire"
	"github.com/purecrypt/go-purecrypt/pkg/keys"
	"github.com/purecrypt/go-purecrypt/pkg/logging"
	"github.com/purecrypt/go-purecrypt/pkg/metrics"
)

// State is the connection lifecycle position. Transitions only move
// forward except Closed, reachable from anywhere.
type State int

const (
	StateDisconnected State = iota
	StateIdentExchanged
	StateKexInProgress
	StateKexComplete
	StateAuthenticating
	StateAuthenticated
	StateChannelOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateIdentExchanged:
		return "ident-exchanged"
	case StateKexInProgress:
		return "kex-in-progress"
	case StateKexComplete:
		return "kex-complete"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateChannelOpen:
		return "channel-open"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

const clientVersionString = "SSH-2.0-purecrypt"

// Config controls a client connection. Zero values select the built-in
// preference lists and no timeout.
type Config struct {
	User string

	// Timeout applies per protocol operation as a connection deadline.
	Timeout time.Duration

	// Algorithm preference overrides; empty means the full supported
	// list in default preference order.
	KexAlgorithms     []string
	HostKeyAlgorithms []string
	Ciphers           []string
	MACs              []string

	// HostKeyCallback accepts or rejects the server host key. Nil
	// accepts any key.
	HostKeyCallback func(addr string, key *rsa.PublicKey) error

	Logger *logging.Logger
}

func (c *Config) setDefaults() {
	if len(c.KexAlgorithms) == 0 {
		c.KexAlgorithms = supportedKexAlgos
	}
	if len(c.HostKeyAlgorithms) == 0 {
		c.HostKeyAlgorithms = supportedHostKeyAlgos
	}
	if len(c.Ciphers) == 0 {
		c.Ciphers = supportedCiphers
	}
	if len(c.MACs) == 0 {
		c.MACs = supportedMACs
	}
	if c.Logger == nil {
		c.Logger = logging.DefaultLogger()
	}
}

// Client is a single-threaded SSH2 client connection.
type Client struct {
	cfg  Config
	conn net.Conn
	addr string
	t    *transport

	state         State
	sessionUUID   string
	clientVersion []byte
	serverVersion []byte
	sessionID     []byte

	nextChannelID uint32
	channels      map[uint32]*Channel
}

// Dial connects to addr, runs the identification exchange and key
// exchange, and returns a client in StateKexComplete ready for
// authentication.
func Dial(addr string, cfg Config) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	c, err := NewClient(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// NewClient runs the SSH2 handshake over an established connection.
func NewClient(conn net.Conn, addr string, cfg Config) (*Client, error) {
	cfg.setDefaults()
	c := &Client{
		cfg:         cfg,
		conn:        conn,
		addr:        addr,
		state:       StateDisconnected,
		sessionUUID: uuid.New().String(),
		channels:    make(map[uint32]*Channel),
	}
	if err := c.handshake(); err != nil {
		c.state = StateClosed
		return nil, err
	}
	return c, nil
}

// State returns the current lifecycle state.
func (c *Client) State() State { return c.state }

// SessionID returns the session identifier (the first exchange hash).
func (c *Client) SessionID() []byte { return append([]byte(nil), c.sessionID...) }

// Close tears down the connection from any state.
func (c *Client) Close() error {
	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosed
	metrics.DecrementConnections()
	var w sshwire.Writer
	w.WriteUint8(msgDisconnect)
	w.WriteUint32(11) // SSH_DISCONNECT_BY_APPLICATION
	w.WriteString([]byte("closed by client"))
	w.WriteString(nil)
	if c.t != nil {
		c.t.writePacket(w.Bytes())
	}
	return c.conn.Close()
}

// deadline arms the per-operation timeout. A zero timeout clears any
// previous deadline.
func (c *Client) deadline() {
	if c.cfg.Timeout > 0 {
		c.conn.SetDeadline(time.Now().Add(c.cfg.Timeout))
	} else {
		c.conn.SetDeadline(time.Time{})
	}
}

func (c *Client) handshake() error {
	start := time.Now()
	c.deadline()
	if err := c.exchangeVersions(); err != nil {
		return err
	}
	c.state = StateIdentExchanged
	c.cfg.Logger.Debugf("ssh2 session %s: ident exchanged, server %q",
		c.sessionUUID, c.serverVersion)

	c.t = newTransport(c.conn, rand.Reader)
	if err := c.keyExchange(); err != nil {
		return err
	}
	c.state = StateKexComplete
	c.cfg.Logger.Debugf("ssh2 session %s: key exchange complete", c.sessionUUID)
	metrics.RecordHandshake(time.Since(start).Seconds())
	metrics.IncrementConnections()
	return nil
}

// exchangeVersions sends our identification line and reads the
// server's (RFC 4253 §4.2). Pre-banner lines without the SSH- prefix
// are skipped.
func (c *Client) exchangeVersions() error {
	c.clientVersion = []byte(clientVersionString)
	if _, err := c.conn.Write(append(c.clientVersion, '\r', '\n')); err != nil {
		return err
	}

	const maxLines = 64
	for i := 0; i < maxLines; i++ {
		line, err := readIdentLine(c.conn)
		if err != nil {
			return err
		}
		if bytes.HasPrefix(line, []byte("SSH-")) {
			if !bytes.HasPrefix(line, []byte("SSH-2.0-")) && !bytes.HasPrefix(line, []byte("SSH-1.99-")) {
				return fmt.Errorf("%w: incompatible version %q", ErrProtocol, line)
			}
			c.serverVersion = line
			return nil
		}
	}
	return fmt.Errorf("%w: no version line from server", ErrProtocol)
}

// readIdentLine reads one CRLF- or LF-terminated line, capped at the
// RFC 4253 §4.2 limit.
func readIdentLine(r io.Reader) ([]byte, error) {
	const maxLen = 255
	var line []byte
	var buf [1]byte
	for len(line) < maxLen {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		if buf[0] == '\n' {
			return bytes.TrimSuffix(line, []byte("\r")), nil
		}
		line = append(line, buf[0])
	}
	return nil, fmt.Errorf("%w: identification line too long", ErrProtocol)
}

func (c *Client) buildKexInit() *kexInitMsg {
	m := &kexInitMsg{
		KexAlgorithms:           c.cfg.KexAlgorithms,
		ServerHostKeyAlgorithms: c.cfg.HostKeyAlgorithms,
		CiphersClientServer:     c.cfg.Ciphers,
		CiphersServerClient:     c.cfg.Ciphers,
		MACsClientServer:        c.cfg.MACs,
		MACsServerClient:        c.cfg.MACs,
		CompressionClientServer: supportedCompression,
		CompressionServerClient: supportedCompression,
	}
	io.ReadFull(rand.Reader, m.Cookie[:])
	return m
}

func (c *Client) keyExchange() error {
	c.state = StateKexInProgress
	c.deadline()

	ownInit := c.buildKexInit()
	ownPayload := ownInit.marshal()
	if err := c.t.writePacket(ownPayload); err != nil {
		return err
	}

	peerPayload, err := c.t.readPacket()
	if err != nil {
		return err
	}
	peerInit, err := parseKexInit(peerPayload)
	if err != nil {
		return err
	}

	algs, err := negotiate(ownInit, peerInit)
	if err != nil {
		return err
	}
	c.cfg.Logger.Debugf("ssh2 session %s: negotiated kex=%s cipher=%s/%s mac=%s/%s",
		c.sessionUUID, algs.kex, algs.cipherCS, algs.cipherSC, algs.macCS, algs.macSC)

	result, _, err := c.exchange(algs, ownPayload, peerPayload)
	if err != nil {
		return err
	}
	if c.sessionID == nil {
		c.sessionID = result.h
	}

	if err := c.t.writePacket([]byte{msgNewKeys}); err != nil {
		return err
	}
	p, err := c.t.readPacket()
	if err != nil {
		return err
	}
	if p[0] != msgNewKeys {
		return fmt.Errorf("%w: expected NEWKEYS, got %d", ErrKexFailed, p[0])
	}

	return c.installKeys(algs, result)
}

// installKeys derives the directional key material and swaps both
// packet ciphers in (RFC 4253 §7.2: IVs A/B, keys C/D, MACs E/F).
func (c *Client) installKeys(algs *algorithms, res *kexResult) error {
	derive := func(tag byte, n int) []byte {
		return deriveKey(res.hashName, res.k, res.h, c.sessionID, tag, n)
	}
	csSpec := cipherSpecs[algs.cipherCS]
	scSpec := cipherSpecs[algs.cipherSC]
	csMAC := macSpecs[algs.macCS]
	scMAC := macSpecs[algs.macSC]

	writeCipher, err := newStreamPacketCipher(algs.cipherCS, algs.macCS,
		derive('C', csSpec.keySize), derive('A', csSpec.ivSize), derive('E', csMAC.keySize))
	if err != nil {
		return err
	}
	readCipher, err := newStreamPacketCipher(algs.cipherSC, algs.macSC,
		derive('D', scSpec.keySize), derive('B', scSpec.ivSize), derive('F', scMAC.keySize))
	if err != nil {
		return err
	}
	c.t.writer.packetCipher = writeCipher
	c.t.reader.packetCipher = readCipher
	return nil
}

// --- authentication ---------------------------------------------------

// requestUserauthService asks for the ssh-userauth service once and
// moves to StateAuthenticating.
func (c *Client) requestUserauthService() error {
	switch c.state {
	case StateKexComplete:
	case StateAuthenticating:
		return nil
	default:
		return fmt.Errorf("%w: state %s", ErrBadState, c.state)
	}
	var w sshwire.Writer
	w.WriteUint8(msgServiceRequest)
	w.WriteString([]byte("ssh-userauth"))
	if err := c.t.writePacket(w.Bytes()); err != nil {
		return err
	}
	p, err := c.t.readPacket()
	if err != nil {
		return err
	}
	if p[0] != msgServiceAccept {
		return fmt.Errorf("%w: service request refused (%d)", ErrProtocol, p[0])
	}
	c.state = StateAuthenticating
	return nil
}

// readAuthResult consumes messages until the auth attempt resolves.
// Banners are logged and skipped. On failure the server's remaining
// method list is wrapped into the error.
func (c *Client) readAuthResult(method string) error {
	for {
		p, err := c.t.readPacket()
		if err != nil {
			return err
		}
		switch p[0] {
		case msgUserauthBanner:
			r := sshwire.NewReader(p[1:])
			if banner, err := r.ReadString(); err == nil {
				c.cfg.Logger.Infof("ssh2 session %s: banner: %s", c.sessionUUID, banner)
			}
		case msgUserauthSuccess:
			c.state = StateAuthenticated
			c.cfg.Logger.Debugf("ssh2 session %s: authenticated via %s", c.sessionUUID, method)
			return nil
		case msgUserauthFailure:
			r := sshwire.NewReader(p[1:])
			remaining, _ := r.ReadNameList()
			return fmt.Errorf("%w: %s rejected, methods remaining: %v", ErrAuthFailed, method, remaining)
		default:
			return fmt.Errorf("%w: unexpected auth reply %d", ErrProtocol, p[0])
		}
	}
}

// AuthPassword attempts password authentication. A rejection is
// recoverable; other methods may be tried on the same connection.
func (c *Client) AuthPassword(password string) error {
	if err := c.requestUserauthService(); err != nil {
		return err
	}
	c.deadline()
	var w sshwire.Writer
	w.WriteUint8(msgUserauthRequest)
	w.WriteString([]byte(c.cfg.User))
	w.WriteString([]byte("ssh-connection"))
	w.WriteString([]byte("password"))
	w.WriteBool(false)
	w.WriteString([]byte(password))
	if err := c.t.writePacket(w.Bytes()); err != nil {
		return err
	}
	return c.readAuthResult("password")
}

// AuthPublicKey attempts publickey authentication with an RSA key,
// signing over the session identifier per RFC 4252 §7.
func (c *Client) AuthPublicKey(key *keys.PrivateKey) error {
	if err := c.requestUserauthService(); err != nil {
		return err
	}
	c.deadline()

	const sigAlgo = "rsa-sha2-256"
	pub := key.CryptoPrivateKey().PublicKey
	var blob sshwire.Writer
	blob.WriteString([]byte("ssh-rsa"))
	blob.WriteMPInt(big.NewInt(int64(pub.E)))
	blob.WriteMPInt(pub.N)

	// The signed data: session_id as string, then the auth request up
	// to and including the key blob.
	var req sshwire.Writer
	req.WriteUint8(msgUserauthRequest)
	req.WriteString([]byte(c.cfg.User))
	req.WriteString([]byte("ssh-connection"))
	req.WriteString([]byte("publickey"))
	req.WriteBool(true)
	req.WriteString([]byte(sigAlgo))
	req.WriteString(blob.Bytes())

	var signed sshwire.Writer
	signed.WriteString(c.sessionID)
	signed.Raw(req.Bytes())

	sig, err := key.WithHash("sha256").
		WithSignaturePadding(keys.SignaturePKCS1v15).
		Sign(signed.Bytes())
	if err != nil {
		return err
	}

	var sigBlob sshwire.Writer
	sigBlob.WriteString([]byte(sigAlgo))
	sigBlob.WriteString(sig)
	req.WriteString(sigBlob.Bytes())

	if err := c.t.writePacket(req.Bytes()); err != nil {
		return err
	}
	return c.readAuthResult("publickey")
}

// Prompt is one keyboard-interactive question.
type Prompt struct {
	Text string
	Echo bool
}

// ChallengeHandler answers one keyboard-interactive info request.
type ChallengeHandler func(name, instruction string, prompts []Prompt) ([]string, error)

// AuthKeyboardInteractive attempts keyboard-interactive
// authentication, delegating prompts to the handler.
func (c *Client) AuthKeyboardInteractive(handler ChallengeHandler) error {
	if err := c.requestUserauthService(); err != nil {
		return err
	}
	c.deadline()
	var w sshwire.Writer
	w.WriteUint8(msgUserauthRequest)
	w.WriteString([]byte(c.cfg.User))
	w.WriteString([]byte("ssh-connection"))
	w.WriteString([]byte("keyboard-interactive"))
	w.WriteString(nil) // language
	w.WriteString(nil) // submethods
	if err := c.t.writePacket(w.Bytes()); err != nil {
		return err
	}

	for {
		p, err := c.t.readPacket()
		if err != nil {
			return err
		}
		switch p[0] {
		case msgUserauthInfoRequest:
			answers, err := c.answerInfoRequest(p[1:], handler)
			if err != nil {
				return err
			}
			if err := c.t.writePacket(answers); err != nil {
				return err
			}
		case msgUserauthBanner:
			continue
		case msgUserauthSuccess:
			c.state = StateAuthenticated
			return nil
		case msgUserauthFailure:
			r := sshwire.NewReader(p[1:])
			remaining, _ := r.ReadNameList()
			return fmt.Errorf("%w: keyboard-interactive rejected, methods remaining: %v",
				ErrAuthFailed, remaining)
		default:
			return fmt.Errorf("%w: unexpected auth reply %d", ErrProtocol, p[0])
		}
	}
}

func (c *Client) answerInfoRequest(payload []byte, handler ChallengeHandler) ([]byte, error) {
	r := sshwire.NewReader(payload)
	name, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	instruction, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if _, err := r.ReadString(); err != nil { // language
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	n, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	// n comes off the wire; cap the pre-allocation and let append grow.
	prompts := make([]Prompt, 0, min(n, 64))
	for i := uint32(0); i < n; i++ {
		text, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		echo, err := r.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		prompts = append(prompts, Prompt{Text: string(text), Echo: echo})
	}

	answers, err := handler(string(name), string(instruction), prompts)
	if err != nil {
		return nil, err
	}
	if len(answers) != len(prompts) {
		return nil, fmt.Errorf("%w: %d answers for %d prompts", ErrAuthFailed, len(answers), len(prompts))
	}
	var w sshwire.Writer
	w.WriteUint8(msgUserauthInfoResponse)
	w.WriteUint32(uint32(len(answers)))
	for _, a := range answers {
		w.WriteString([]byte(a))
	}
	return w.Bytes(), nil
}
