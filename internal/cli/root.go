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

// Package cli implements the purecrypt command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/purecrypt/go-purecrypt/internal/config"
	"github.com/purecrypt/go-purecrypt/pkg/logging"
	"github.com/purecrypt/go-purecrypt/pkg/metrics"
)

var (
	cfgFile string
	debug   bool

	cfg    *config.Config
	logger *logging.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "purecrypt",
	Short: "purecrypt CLI - Pure cryptographic toolkit",
	Long: `purecrypt provides a command-line interface to the go-purecrypt
toolkit: RSA key generation and format conversion, signing and
verification, hashing and HMAC, RSA encryption, X.509 certificates,
and SFTP file transfer over the built-in SSH2 client.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initConfig() },
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.purecrypt.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(certCmd)
	rootCmd.AddCommand(sftpCmd)
}

// initConfig locates the config file via viper and loads it with the
// config package; absent a file, defaults apply.
func initConfig() error {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".purecrypt")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err == nil {
		loaded, err := config.Load(v.ConfigFileUsed())
		if err != nil {
			return err
		}
		cfg = loaded
	} else if cfgFile != "" {
		// An explicitly named file must exist and parse.
		return err
	} else {
		cfg = config.DefaultConfig()
	}

	if debug {
		cfg.Logging.Debug = true
	}
	logger = logging.NewLogger(cfg.Logging.Debug)
	if !cfg.Metrics.Enabled {
		metrics.Disable()
	}
	return nil
}

// readInput reads a file, or stdin when path is "-" or empty.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	// #nosec G304 - input path is provided by the user
	return os.ReadFile(path)
}

// writeOutput writes to a file, or stdout when path is "-" or empty.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
