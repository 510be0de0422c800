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

package keys

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/youmark/pkcs8"
	"golang.org/x/crypto/ssh"
)

// Load parses key material in any supported serialization, detecting the
// format from the data itself: PEM (PKCS#1, PKCS#8, PKIX, OpenSSH),
// raw DER, PuTTY PPK, XML and authorized_keys lines. password may be nil
// for unencrypted input. When nothing matches the error is ErrNoKeyLoaded.
func Load(data, password []byte) (Key, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrNoKeyLoaded
	}

	if block, _ := pem.Decode(trimmed); block != nil {
		return loadPEM(trimmed, block, password)
	}

	switch {
	case bytes.HasPrefix(trimmed, []byte(puttyMagicV2)):
		return loadPuTTY(trimmed, password)
	case trimmed[0] == '<':
		return loadXML(trimmed)
	case bytes.HasPrefix(trimmed, []byte("ssh-rsa ")):
		return loadAuthorizedKey(trimmed)
	}

	return loadDER(trimmed, password)
}

// LoadPrivate is Load restricted to private keys.
func LoadPrivate(data, password []byte) (*PrivateKey, error) {
	k, err := Load(data, password)
	if err != nil {
		return nil, err
	}
	priv, ok := k.(*PrivateKey)
	if !ok {
		return nil, ErrNoKeyLoaded
	}
	return priv, nil
}

// LoadPublic is Load restricted to public keys; a private key input
// yields its public half.
func LoadPublic(data []byte) (*PublicKey, error) {
	k, err := Load(data, nil)
	if err != nil {
		return nil, err
	}
	switch key := k.(type) {
	case *PublicKey:
		return key, nil
	case *PrivateKey:
		return key.Public(), nil
	}
	return nil, ErrNoKeyLoaded
}

func loadPEM(full []byte, block *pem.Block, password []byte) (Key, error) {
	switch block.Type {
	case "RSA PRIVATE KEY":
		//lint:ignore SA1019 legacy PEM encryption is a supported input format
		if x509.IsEncryptedPEMBlock(block) {
			if len(password) == 0 {
				return nil, ErrPasswordRequired
			}
			der, err := x509.DecryptPEMBlock(block, password)
			if err != nil {
				return nil, ErrInvalidPassword
			}
			return parsePKCS1Private(der)
		}
		return parsePKCS1Private(block.Bytes)

	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		return wrapPrivate(key)

	case "ENCRYPTED PRIVATE KEY":
		if len(password) == 0 {
			return nil, ErrPasswordRequired
		}
		key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, password)
		if err != nil {
			// The PKCS8 package does not always say "incorrect password";
			// a garbled inner structure means the decryption produced
			// garbage, which is the same condition.
			if strings.Contains(err.Error(), "incorrect password") ||
				strings.Contains(err.Error(), "tags don't match") {
				return nil, ErrInvalidPassword
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		return wrapPrivate(key)

	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		return wrapPublic(key)

	case "RSA PUBLIC KEY":
		pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		return FromRSAPublicKey(pub), nil

	case "OPENSSH PRIVATE KEY":
		// The OpenSSH parser wants the full PEM text, not block bytes.
		return loadOpenSSH(full, password)
	}

	return nil, ErrNoKeyLoaded
}

// loadDER tries the raw DER container formats in order of likelihood.
func loadDER(data, password []byte) (Key, error) {
	if priv, err := x509.ParsePKCS1PrivateKey(data); err == nil {
		return FromRSAPrivateKey(priv), nil
	}
	if key, err := x509.ParsePKCS8PrivateKey(data); err == nil {
		return wrapPrivate(key)
	}
	if len(password) > 0 {
		if key, err := pkcs8.ParsePKCS8PrivateKey(data, password); err == nil {
			return wrapPrivate(key)
		}
	}
	if key, err := x509.ParsePKIXPublicKey(data); err == nil {
		return wrapPublic(key)
	}
	if pub, err := x509.ParsePKCS1PublicKey(data); err == nil {
		return FromRSAPublicKey(pub), nil
	}
	return nil, ErrNoKeyLoaded
}

func loadAuthorizedKey(data []byte) (Key, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	cryptoPub, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return wrapPublic(cryptoPub.CryptoPublicKey())
}

func parsePKCS1Private(der []byte) (Key, error) {
	priv, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return FromRSAPrivateKey(priv), nil
}

func wrapPrivate(key any) (Key, error) {
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return FromRSAPrivateKey(priv), nil
}

func wrapPublic(key any) (Key, error) {
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return FromRSAPublicKey(pub), nil
}

// --- save -------------------------------------------------------------

// SavePKCS1 serializes the private key as PEM "RSA PRIVATE KEY".
func (k *PrivateKey) SavePKCS1() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(k.key),
	})
}

// SavePKCS8 serializes the private key as PEM PKCS#8. A non-empty
// password produces an "ENCRYPTED PRIVATE KEY" block using PBES2 with
// the package defaults.
func (k *PrivateKey) SavePKCS8(password []byte) ([]byte, error) {
	if len(password) == 0 {
		der, err := x509.MarshalPKCS8PrivateKey(k.key)
		if err != nil {
			return nil, fmt.Errorf("keys: pkcs8 marshal: %w", err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
	}
	der, err := pkcs8.MarshalPrivateKey(k.key, password, nil)
	if err != nil {
		return nil, fmt.Errorf("keys: pkcs8 marshal: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "ENCRYPTED PRIVATE KEY", Bytes: der}), nil
}

// SavePKIX serializes the public key as PEM "PUBLIC KEY".
func (k *PublicKey) SavePKIX() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(k.key)
	if err != nil {
		return nil, fmt.Errorf("keys: pkix marshal: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// SavePKCS1 serializes the public key as PEM "RSA PUBLIC KEY".
func (k *PublicKey) SavePKCS1() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(k.key),
	})
}

// SaveAuthorizedKey serializes the public key as a single
// authorized_keys line ("ssh-rsa AAAA... comment").
func (k *PublicKey) SaveAuthorizedKey(comment string) ([]byte, error) {
	pub, err := ssh.NewPublicKey(k.key)
	if err != nil {
		return nil, fmt.Errorf("keys: ssh public key: %w", err)
	}
	line := ssh.MarshalAuthorizedKey(pub)
	line = bytes.TrimRight(line, "\n")
	if comment != "" {
		line = append(line, ' ')
		line = append(line, comment...)
	}
	line = append(line, '\n')
	return line, nil
}

// rsaKeyValue is the .NET XML private key container.
type rsaKeyValue struct {
	XMLName  xml.Name `xml:"RSAKeyValue"`
	Modulus  string   `xml:"Modulus"`
	Exponent string   `xml:"Exponent"`
	P        string   `xml:"P,omitempty"`
	Q        string   `xml:"Q,omitempty"`
	DP       string   `xml:"DP,omitempty"`
	DQ       string   `xml:"DQ,omitempty"`
	InverseQ string   `xml:"InverseQ,omitempty"`
	D        string   `xml:"D,omitempty"`
}
