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
	"crypto/rsa"
	"encoding/pem"
	"errors"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// loadOpenSSH parses the "openssh-key-v1" container.
func loadOpenSSH(pemData, password []byte) (Key, error) {
	var key any
	var err error
	if len(password) > 0 {
		key, err = ssh.ParseRawPrivateKeyWithPassphrase(pemData, password)
	} else {
		key, err = ssh.ParseRawPrivateKey(pemData)
	}
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, ErrPasswordRequired
		}
		if len(password) > 0 {
			// x/crypto reports a decryption failure as a generic parse
			// error; with a passphrase supplied that means it was wrong.
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return FromRSAPrivateKey(priv), nil
}

// SaveOpenSSH serializes the private key in the OpenSSH v1 format. A
// non-empty password encrypts the key with the format's default cipher.
func (k *PrivateKey) SaveOpenSSH(comment string, password []byte) ([]byte, error) {
	var block *pem.Block
	var err error
	if len(password) > 0 {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(k.key, comment, password)
	} else {
		block, err = ssh.MarshalPrivateKey(k.key, comment)
	}
	if err != nil {
		return nil, fmt.Errorf("keys: openssh marshal: %w", err)
	}
	return pem.EncodeToMemory(block), nil
}
