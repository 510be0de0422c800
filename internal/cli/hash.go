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
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/purecrypt/go-purecrypt/pkg/hashing"
)

var (
	hashAlgorithm string
	hashKey       string
	hashIn        string
)

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Hash or HMAC a file",
	Long: `Compute a digest of the input. With --key the digest becomes an
HMAC keyed with the given value. Unknown algorithm names fall back to
SHA-1, matching the library behavior.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(hashIn)
		if err != nil {
			return err
		}
		alg := hashAlgorithm
		if alg == "" {
			alg = cfg.Engine.Hash
		}
		if !hashing.Supported(alg) {
			logger.Warnf("unknown hash %q, falling back to %s", alg, hashing.DefaultAlgorithm)
		}
		h := hashing.New(alg)
		if hashKey != "" {
			h.SetKey([]byte(hashKey))
		}
		fmt.Printf("%s\n", hex.EncodeToString(h.Sum(data)))
		return nil
	},
}

func init() {
	hashCmd.Flags().StringVarP(&hashAlgorithm, "algorithm", "a", "", "hash algorithm (default from config)")
	hashCmd.Flags().StringVarP(&hashKey, "key", "k", "", "HMAC key (plain hash when empty)")
	hashCmd.Flags().StringVarP(&hashIn, "in", "i", "", "input file (default stdin)")
}
