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
	"github.com/spf13/cobra"
)

var (
	encryptKey string
	encryptIn  string
	encryptOut string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a file with an RSA public key",
	Long: `Encrypt the input with an RSA public key. Input larger than one
modulus block is split into chunks sized for the configured padding
(default OAEP), so arbitrary lengths are accepted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadPublicKey(encryptKey)
		if err != nil {
			return err
		}
		plaintext, err := readInput(encryptIn)
		if err != nil {
			return err
		}
		ciphertext, err := key.Encrypt(plaintext)
		if err != nil {
			return err
		}
		return writeOutput(encryptOut, ciphertext)
	},
}

var (
	decryptKey        string
	decryptIn         string
	decryptOut        string
	decryptPassphrase string
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt a file with an RSA private key",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadPrivateKey(decryptKey, decryptPassphrase)
		if err != nil {
			return err
		}
		ciphertext, err := readInput(decryptIn)
		if err != nil {
			return err
		}
		plaintext, err := key.Decrypt(ciphertext)
		if err != nil {
			return err
		}
		return writeOutput(decryptOut, plaintext)
	},
}

func init() {
	encryptCmd.Flags().StringVarP(&encryptKey, "key", "k", "", "public key file")
	encryptCmd.Flags().StringVarP(&encryptIn, "in", "i", "", "input file (default stdin)")
	encryptCmd.Flags().StringVarP(&encryptOut, "out", "o", "", "output file (default stdout)")
	encryptCmd.MarkFlagRequired("key")

	decryptCmd.Flags().StringVarP(&decryptKey, "key", "k", "", "private key file")
	decryptCmd.Flags().StringVarP(&decryptIn, "in", "i", "", "input file (default stdin)")
	decryptCmd.Flags().StringVarP(&decryptOut, "out", "o", "", "output file (default stdout)")
	decryptCmd.Flags().StringVar(&decryptPassphrase, "passphrase", "", "private key passphrase (prompted if needed)")
	decryptCmd.MarkFlagRequired("key")
}
