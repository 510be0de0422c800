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
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/purecrypt/go-purecrypt/pkg/keys"
)

var (
	keygenBits       int
	keygenFormat     string
	keygenOut        string
	keygenPubOut     string
	keygenComment    string
	keygenPassphrase bool
	keygenTimeout    time.Duration
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an RSA key pair",
	Long: `Generate an RSA key pair and write the private key in the chosen
format (pkcs1, pkcs8, openssh, putty, xml). The public key is written
alongside as an authorized_keys line when --pub is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bits := keygenBits
		if bits == 0 {
			bits = cfg.Engine.KeyBits
		}

		var pass []byte
		if keygenPassphrase {
			p, err := promptPassphrase("Key passphrase", true)
			if err != nil {
				return err
			}
			pass = p
		}

		logger.Infof("generating %d-bit RSA key", bits)
		key, partial, err := keys.Generate(bits, keygenTimeout)
		for errors.Is(err, keys.ErrGenerationTimeout) {
			logger.Warnf("generation deadline hit with %d prime(s) found, resuming", len(partial.Primes))
			key, partial, err = keys.Resume(partial, keygenTimeout)
		}
		if err != nil {
			return err
		}

		var out []byte
		switch keygenFormat {
		case "pkcs1":
			out = key.SavePKCS1()
		case "pkcs8":
			out, err = key.SavePKCS8(pass)
		case "openssh":
			out, err = key.SaveOpenSSH(keygenComment, pass)
		case "putty":
			out, err = key.SavePuTTY(keygenComment, pass)
		case "xml":
			out, err = key.SaveXML()
		default:
			return fmt.Errorf("cli: unknown key format %q", keygenFormat)
		}
		if err != nil {
			return err
		}
		if keygenFormat == "pkcs1" && pass != nil {
			logger.Warnf("pkcs1 output does not support encryption; passphrase ignored")
		}
		if err := writeOutput(keygenOut, out); err != nil {
			return err
		}

		if keygenPubOut != "" {
			line, err := key.Public().SaveAuthorizedKey(keygenComment)
			if err != nil {
				return err
			}
			if err := writeOutput(keygenPubOut, line); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	keygenCmd.Flags().IntVarP(&keygenBits, "bits", "b", 0, "modulus size in bits (default from config)")
	keygenCmd.Flags().StringVarP(&keygenFormat, "format", "f", "pkcs8", "private key format (pkcs1, pkcs8, openssh, putty, xml)")
	keygenCmd.Flags().StringVarP(&keygenOut, "out", "o", "", "private key output file (default stdout)")
	keygenCmd.Flags().StringVar(&keygenPubOut, "pub", "", "also write the public key as an authorized_keys line")
	keygenCmd.Flags().StringVarP(&keygenComment, "comment", "C", "", "key comment (openssh, putty, authorized_keys)")
	keygenCmd.Flags().BoolVarP(&keygenPassphrase, "passphrase", "p", false, "encrypt the private key with a prompted passphrase")
	keygenCmd.Flags().DurationVar(&keygenTimeout, "timeout", 0, "prime generation deadline per attempt (0 = none)")
}
