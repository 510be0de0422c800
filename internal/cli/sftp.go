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
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/purecrypt/go-purecrypt/pkg/sftp"
	"github.com/purecrypt/go-purecrypt/pkg/ssh2"
)

var (
	sftpHost       string
	sftpUser       string
	sftpKeyFile    string
	sftpPassphrase string
)

var sftpCmd = &cobra.Command{
	Use:   "sftp",
	Short: "Transfer files over SFTP",
	Long: `Transfer files using the built-in SSH2 and SFTP clients.
Authentication uses --identity when given, otherwise a prompted
password.`,
}

// sftpConnect dials, authenticates, and starts the sftp subsystem.
func sftpConnect() (*ssh2.Client, *sftp.Client, error) {
	user := sftpUser
	if user == "" {
		user = cfg.SSH.User
	}
	if user == "" {
		return nil, nil, fmt.Errorf("cli: no user given (--user or ssh.user in config)")
	}

	conn, err := ssh2.Dial(sftpHost, ssh2.Config{
		User:          user,
		Timeout:       time.Duration(cfg.SSH.TimeoutSeconds) * time.Second,
		KexAlgorithms: cfg.SSH.KexAlgorithms,
		Ciphers:       cfg.SSH.Ciphers,
		MACs:          cfg.SSH.MACs,
		Logger:        logger,
	})
	if err != nil {
		return nil, nil, err
	}

	if sftpKeyFile != "" {
		key, err := loadPrivateKey(sftpKeyFile, sftpPassphrase)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		err = conn.AuthPublicKey(key)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
	} else {
		password, err := promptPassphrase(fmt.Sprintf("%s@%s password", user, sftpHost), false)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		if err := conn.AuthPassword(string(password)); err != nil {
			conn.Close()
			return nil, nil, err
		}
	}

	ch, err := conn.OpenSession()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if err := ch.Subsystem("sftp"); err != nil {
		conn.Close()
		return nil, nil, err
	}

	client, err := sftp.NewClient(ch, sftp.Config{
		MaxPacket:   cfg.SFTP.MaxPacket,
		MaxInflight: cfg.SFTP.MaxInflight,
		Logger:      logger,
	})
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, client, nil
}

var sftpGetCmd = &cobra.Command{
	Use:   "get <remote> [local]",
	Short: "Download a remote file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, client, err := sftpConnect()
		if err != nil {
			return err
		}
		defer conn.Close()

		remote := args[0]
		local := remote
		if len(args) == 2 {
			local = args[1]
		}

		attrs, err := client.Stat(remote)
		if err != nil {
			return err
		}
		if !attrs.HasSize() {
			return fmt.Errorf("cli: server did not report a size for %s", remote)
		}

		f, err := client.Open(remote)
		if err != nil {
			return err
		}
		defer f.Close()

		buf := make([]byte, int(attrs.Size))
		n, err := f.ReadAt(buf, 0)
		if err != nil && n < len(buf) {
			return err
		}
		if err := os.WriteFile(local, buf[:n], 0o600); err != nil {
			return err
		}
		logger.Infof("downloaded %s (%d bytes)", remote, n)
		return nil
	},
}

var sftpPutCmd = &cobra.Command{
	Use:   "put <local> [remote]",
	Short: "Upload a local file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		local := args[0]
		remote := local
		if len(args) == 2 {
			remote = args[1]
		}
		data, err := os.ReadFile(local)
		if err != nil {
			return err
		}

		conn, client, err := sftpConnect()
		if err != nil {
			return err
		}
		defer conn.Close()

		f, err := client.Create(remote)
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := f.Write(data)
		if err != nil {
			return err
		}
		logger.Infof("uploaded %s (%d bytes)", remote, n)
		return nil
	},
}

var sftpLsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a remote directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}

		conn, client, err := sftpConnect()
		if err != nil {
			return err
		}
		defer conn.Close()

		entries, err := client.ReadDir(path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			size := int64(-1)
			if e.Attributes.HasSize() {
				size = int64(e.Attributes.Size)
			}
			fmt.Printf("%-10s %12d  %s\n", e.Attributes.Mode(), size, e.Name)
		}
		return nil
	},
}

func init() {
	sftpCmd.PersistentFlags().StringVarP(&sftpHost, "host", "H", "", "server address (host:port)")
	sftpCmd.PersistentFlags().StringVarP(&sftpUser, "user", "u", "", "login user (default from config)")
	sftpCmd.PersistentFlags().StringVarP(&sftpKeyFile, "identity", "I", "", "private key for public key auth")
	sftpCmd.PersistentFlags().StringVar(&sftpPassphrase, "passphrase", "", "identity passphrase (prompted if needed)")
	sftpCmd.MarkPersistentFlagRequired("host")

	sftpCmd.AddCommand(sftpGetCmd)
	sftpCmd.AddCommand(sftpPutCmd)
	sftpCmd.AddCommand(sftpLsCmd)
}
