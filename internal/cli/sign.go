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
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	signKey        string
	signIn         string
	signOut        string
	signPassphrase string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a file with an RSA private key",
	Long: `Sign the input with an RSA private key. The digest and padding
scheme come from the engine configuration (default SHA-256 with PSS).
The signature is written base64-encoded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadPrivateKey(signKey, signPassphrase)
		if err != nil {
			return err
		}
		message, err := readInput(signIn)
		if err != nil {
			return err
		}
		sig, err := key.Sign(message)
		if err != nil {
			return err
		}
		encoded := base64.StdEncoding.EncodeToString(sig) + "\n"
		return writeOutput(signOut, []byte(encoded))
	},
}

var (
	verifyKey string
	verifyIn  string
	verifySig string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a signature with an RSA public key",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadPublicKey(verifyKey)
		if err != nil {
			return err
		}
		message, err := readInput(verifyIn)
		if err != nil {
			return err
		}
		sigData, err := readInput(verifySig)
		if err != nil {
			return err
		}
		sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(sigData)))
		if err != nil {
			return fmt.Errorf("cli: signature is not valid base64: %w", err)
		}
		if err := key.Verify(message, sig); err != nil {
			return err
		}
		fmt.Println("signature OK")
		return nil
	},
}

func init() {
	signCmd.Flags().StringVarP(&signKey, "key", "k", "", "private key file")
	signCmd.Flags().StringVarP(&signIn, "in", "i", "", "input file (default stdin)")
	signCmd.Flags().StringVarP(&signOut, "out", "o", "", "signature output file (default stdout)")
	signCmd.Flags().StringVar(&signPassphrase, "passphrase", "", "private key passphrase (prompted if needed)")
	signCmd.MarkFlagRequired("key")

	verifyCmd.Flags().StringVarP(&verifyKey, "key", "k", "", "public key file")
	verifyCmd.Flags().StringVarP(&verifyIn, "in", "i", "", "input file (default stdin)")
	verifyCmd.Flags().StringVarP(&verifySig, "sig", "s", "", "signature file")
	verifyCmd.MarkFlagRequired("key")
	verifyCmd.MarkFlagRequired("sig")
}
