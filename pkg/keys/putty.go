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
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/purecrypt/go-purecrypt/internal/sshwire"
)

// puttyMagicV2 is the first header of a PPK version 2 file.
const puttyMagicV2 = "PuTTY-User-Key-File-2"

const puttyMACSalt = "putty-private-key-file-mac-key"

// loadPuTTY parses a PPK v2 file. The Private-MAC is always verified;
// on an encrypted key a MAC mismatch means the password was wrong.
func loadPuTTY(data, password []byte) (Key, error) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	fields := map[string]string{}
	blobs := map[string][]byte{}
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		if name == "Public-Lines" || name == "Private-Lines" {
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || i+1+n > len(lines) {
				return nil, fmt.Errorf("%w: bad %s count", ErrMalformedKey, name)
			}
			blob, err := base64.StdEncoding.DecodeString(strings.Join(lines[i+1:i+1+n], ""))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
			}
			blobs[name] = blob
			i += n
			continue
		}
		fields[name] = value
	}

	if fields[puttyMagicV2] != "ssh-rsa" {
		return nil, ErrNotRSA
	}
	encryption := fields["Encryption"]
	comment := fields["Comment"]
	pubBlob := blobs["Public-Lines"]
	privBlob := blobs["Private-Lines"]
	if pubBlob == nil || privBlob == nil {
		return nil, fmt.Errorf("%w: missing key blobs", ErrMalformedKey)
	}

	switch encryption {
	case "none":
	case "aes256-cbc":
		if len(password) == 0 {
			return nil, ErrPasswordRequired
		}
		if len(privBlob)%aes.BlockSize != 0 {
			return nil, fmt.Errorf("%w: bad private blob length", ErrMalformedKey)
		}
		block, err := aes.NewCipher(puttyCipherKey(password))
		if err != nil {
			return nil, err
		}
		iv := make([]byte, aes.BlockSize)
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(privBlob, privBlob)
	default:
		return nil, fmt.Errorf("%w: unknown encryption %q", ErrMalformedKey, encryption)
	}

	mac := puttyMAC(password, "ssh-rsa", encryption, comment, pubBlob, privBlob)
	if fields["Private-MAC"] != hex.EncodeToString(mac) {
		if encryption != "none" {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("%w: MAC mismatch", ErrMalformedKey)
	}

	pr := sshwire.NewReader(pubBlob)
	alg, err := pr.ReadString()
	if err != nil || string(alg) != "ssh-rsa" {
		return nil, fmt.Errorf("%w: bad public blob", ErrMalformedKey)
	}
	e, err := pr.ReadMPInt()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	n, err := pr.ReadMPInt()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}

	// Private blob: mpint d, p, q, iqmp. Trailing cipher padding after
	// iqmp is ignored.
	vr := sshwire.NewReader(privBlob)
	var d, p, q *big.Int
	for _, dst := range []**big.Int{&d, &p, &q} {
		v, err := vr.ReadMPInt()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		*dst = v
	}
	if _, err := vr.ReadMPInt(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}

	if !e.IsInt64() {
		return nil, fmt.Errorf("%w: bad public exponent", ErrMalformedKey)
	}
	priv := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	priv.Precompute()
	if err := priv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return FromRSAPrivateKey(priv), nil
}

// SavePuTTY serializes the private key as a PPK v2 file. A non-empty
// password encrypts the private blob with aes256-cbc.
func (k *PrivateKey) SavePuTTY(comment string, password []byte) ([]byte, error) {
	key := k.key
	if len(key.Primes) < 2 {
		return nil, fmt.Errorf("%w: missing prime factors", ErrMalformedKey)
	}
	key.Precompute()

	var pub sshwire.Writer
	pub.WriteString([]byte("ssh-rsa"))
	pub.WriteMPInt(big.NewInt(int64(key.PublicKey.E)))
	pub.WriteMPInt(key.N)

	var priv sshwire.Writer
	priv.WriteMPInt(key.D)
	priv.WriteMPInt(key.Primes[0])
	priv.WriteMPInt(key.Primes[1])
	priv.WriteMPInt(key.Precomputed.Qinv)
	privBlob := priv.Bytes()

	encryption := "none"
	if len(password) > 0 {
		encryption = "aes256-cbc"
		// Pad to the cipher block size before computing the MAC; the MAC
		// covers the padded plaintext.
		if pad := aes.BlockSize - len(privBlob)%aes.BlockSize; pad != aes.BlockSize {
			padding := sha1.Sum(privBlob)
			privBlob = append(privBlob, padding[:pad]...)
		}
	}

	mac := puttyMAC(password, "ssh-rsa", encryption, comment, pub.Bytes(), privBlob)

	if len(password) > 0 {
		block, err := aes.NewCipher(puttyCipherKey(password))
		if err != nil {
			return nil, err
		}
		iv := make([]byte, aes.BlockSize)
		enc := make([]byte, len(privBlob))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(enc, privBlob)
		privBlob = enc
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: ssh-rsa\n", puttyMagicV2)
	fmt.Fprintf(&b, "Encryption: %s\n", encryption)
	fmt.Fprintf(&b, "Comment: %s\n", comment)
	writePuTTYBlob(&b, "Public-Lines", pub.Bytes())
	writePuTTYBlob(&b, "Private-Lines", privBlob)
	fmt.Fprintf(&b, "Private-MAC: %s\n", hex.EncodeToString(mac))
	return []byte(b.String()), nil
}

func writePuTTYBlob(b *strings.Builder, name string, blob []byte) {
	enc := base64.StdEncoding.EncodeToString(blob)
	const width = 64
	n := (len(enc) + width - 1) / width
	fmt.Fprintf(b, "%s: %d\n", name, n)
	for len(enc) > 0 {
		end := width
		if end > len(enc) {
			end = len(enc)
		}
		b.WriteString(enc[:end])
		b.WriteByte('\n')
		enc = enc[end:]
	}
}

// puttyCipherKey derives the aes256-cbc key: the first 32 bytes of
// SHA1(\x00\x00\x00\x00 || pass) || SHA1(\x00\x00\x00\x01 || pass).
func puttyCipherKey(password []byte) []byte {
	var key []byte
	for i := 0; i < 2; i++ {
		h := sha1.New()
		h.Write([]byte{0, 0, 0, byte(i)})
		h.Write(password)
		key = h.Sum(key)
	}
	return key[:32]
}

// puttyMAC computes the Private-MAC: HMAC-SHA1 keyed with
// SHA1("putty-private-key-file-mac-key" || passphrase) over the
// ssh-string encodings of the header fields and both blobs.
func puttyMAC(password []byte, alg, encryption, comment string, pubBlob, privBlob []byte) []byte {
	kh := sha1.New()
	kh.Write([]byte(puttyMACSalt))
	kh.Write(password)

	var w sshwire.Writer
	w.WriteString([]byte(alg))
	w.WriteString([]byte(encryption))
	w.WriteString([]byte(comment))
	w.WriteString(pubBlob)
	w.WriteString(privBlob)

	m := hmac.New(sha1.New, kh.Sum(nil))
	m.Write(w.Bytes())
	return m.Sum(nil)
}
