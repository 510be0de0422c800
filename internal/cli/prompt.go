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

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/purecrypt/go-purecrypt/pkg/keys"
)

// promptPassphrase reads a passphrase from the terminal without echo.
// When confirm is true it prompts twice and requires a match.
func promptPassphrase(prompt string, confirm bool) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("cli: refusing to prompt for passphrase without a terminal")
	}
	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	if confirm {
		fmt.Fprint(os.Stderr, "Confirm passphrase: ")
		again, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(pass, again) {
			return nil, errors.New("cli: passphrases do not match")
		}
	}
	return pass, nil
}

// loadPrivateKey loads a private key from path, prompting for a
// passphrase when the key turns out to be encrypted and none was
// supplied on the command line.
func loadPrivateKey(path, passphrase string) (*keys.PrivateKey, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	var pass []byte
	if passphrase != "" {
		pass = []byte(passphrase)
	}
	key, err := keys.LoadPrivate(data, pass)
	if errors.Is(err, keys.ErrPasswordRequired) && pass == nil {
		pass, err = promptPassphrase("Key passphrase", false)
		if err != nil {
			return nil, err
		}
		key, err = keys.LoadPrivate(data, pass)
	}
	if err != nil {
		return nil, err
	}
	return applyEngine(key), nil
}

// loadPublicKey loads a public key, accepting a private key file and
// using its public half.
func loadPublicKey(path string) (*keys.PublicKey, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	key, err := keys.Load(data, nil)
	if err != nil {
		return nil, err
	}
	switch k := key.(type) {
	case *keys.PublicKey:
		return applyEnginePub(k), nil
	case *keys.PrivateKey:
		return applyEnginePub(k.Public()), nil
	}
	return nil, keys.ErrNotRSA
}

// applyEngine applies the configured algorithm preferences to a key.
func applyEngine(k *keys.PrivateKey) *keys.PrivateKey {
	k = k.WithHash(cfg.Engine.Hash)
	if cfg.Engine.SignaturePadding == "pkcs1v15" {
		k = k.WithSignaturePadding(keys.SignaturePKCS1v15)
	}
	switch cfg.Engine.EncryptionPadding {
	case "pkcs1v15":
		k = k.WithEncryptionPadding(keys.EncryptionPKCS1v15)
	case "raw":
		k = k.WithEncryptionPadding(keys.EncryptionNone)
	}
	return k
}

func applyEnginePub(k *keys.PublicKey) *keys.PublicKey {
	k = k.WithHash(cfg.Engine.Hash)
	if cfg.Engine.SignaturePadding == "pkcs1v15" {
		k = k.WithSignaturePadding(keys.SignaturePKCS1v15)
	}
	switch cfg.Engine.EncryptionPadding {
	case "pkcs1v15":
		k = k.WithEncryptionPadding(keys.EncryptionPKCS1v15)
	case "raw":
		k = k.WithEncryptionPadding(keys.EncryptionNone)
	}
	return k
}
