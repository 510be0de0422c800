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
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/purecrypt/go-purecrypt/pkg/asn1"
	"github.com/purecrypt/go-purecrypt/pkg/bigint"
	"github.com/purecrypt/go-purecrypt/pkg/certstore"
)

var certCmd = &cobra.Command{
	Use:   "cert",
	Short: "Create and inspect X.509 certificates",
}

var (
	certCreateKey        string
	certCreateCN         string
	certCreateOrg        string
	certCreateDays       int
	certCreateOut        string
	certCreatePassphrase string
)

var certCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a self-signed certificate",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadPrivateKey(certCreateKey, certCreatePassphrase)
		if err != nil {
			return err
		}

		serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 64))
		if err != nil {
			return err
		}

		var subject certstore.Name
		subject.Add(asn1.OID{2, 5, 4, 3}, certCreateCN)
		if certCreateOrg != "" {
			subject.Add(asn1.OID{2, 5, 4, 10}, certCreateOrg)
		}

		now := time.Now()
		cert := certstore.NewCertificate()
		cert.SetSerialNumber(bigint.FromBig(serial))
		cert.SetSubject(subject)
		cert.SetValidity(now, now.AddDate(0, 0, certCreateDays))
		cert.SetPublicKey(key.Public())
		cert.SetPrivateKey(key)
		cert.SignatureAlgorithm = cfg.Engine.Hash

		if err := cert.Sign(nil, key); err != nil {
			return err
		}
		out, err := cert.SaveCertificatePEM()
		if err != nil {
			return err
		}
		return writeOutput(certCreateOut, out)
	},
}

var certShowIn string

var certShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print certificate fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(certShowIn)
		if err != nil {
			return err
		}
		cert, err := certstore.LoadCertificate(data)
		if err != nil {
			return err
		}
		fmt.Printf("Subject:    %s\n", cert.Subject.String())
		fmt.Printf("Issuer:     %s\n", cert.Issuer.String())
		fmt.Printf("Serial:     %s\n", cert.SerialNumber.String())
		fmt.Printf("Not before: %s\n", cert.NotBefore.Format(time.RFC3339))
		fmt.Printf("Not after:  %s\n", cert.NotAfter.Format(time.RFC3339))
		fmt.Printf("Signature:  %s-with-rsa\n", cert.SignatureAlgorithm)
		if pub := cert.PublicKey(); pub != nil {
			fmt.Printf("Public key: RSA %d bits\n", pub.Bits())
		}
		for _, ext := range cert.Extensions {
			critical := ""
			if ext.Critical {
				critical = " (critical)"
			}
			fmt.Printf("Extension:  %s%s\n", ext.OID.String(), critical)
		}
		return nil
	},
}

var (
	certVerifyIn     string
	certVerifyIssuer string
)

var certVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a certificate signature",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(certVerifyIn)
		if err != nil {
			return err
		}
		cert, err := certstore.LoadCertificate(data)
		if err != nil {
			return err
		}

		issuer := cert
		if certVerifyIssuer != "" {
			issuerData, err := readInput(certVerifyIssuer)
			if err != nil {
				return err
			}
			issuer, err = certstore.LoadCertificate(issuerData)
			if err != nil {
				return err
			}
		}
		if issuer.PublicKey() == nil {
			return fmt.Errorf("cli: issuer certificate has no RSA public key")
		}
		if err := cert.Verify(issuer.PublicKey()); err != nil {
			return err
		}
		fmt.Println("certificate OK")
		return nil
	},
}

func init() {
	certCreateCmd.Flags().StringVarP(&certCreateKey, "key", "k", "", "private key file")
	certCreateCmd.Flags().StringVar(&certCreateCN, "cn", "", "subject common name")
	certCreateCmd.Flags().StringVar(&certCreateOrg, "org", "", "subject organization")
	certCreateCmd.Flags().IntVar(&certCreateDays, "days", 365, "validity period in days")
	certCreateCmd.Flags().StringVarP(&certCreateOut, "out", "o", "", "output file (default stdout)")
	certCreateCmd.Flags().StringVar(&certCreatePassphrase, "passphrase", "", "private key passphrase (prompted if needed)")
	certCreateCmd.MarkFlagRequired("key")
	certCreateCmd.MarkFlagRequired("cn")

	certShowCmd.Flags().StringVarP(&certShowIn, "in", "i", "", "certificate file (default stdin)")

	certVerifyCmd.Flags().StringVarP(&certVerifyIn, "in", "i", "", "certificate file (default stdin)")
	certVerifyCmd.Flags().StringVar(&certVerifyIssuer, "issuer", "", "issuer certificate (default: self-signed check)")

	certCmd.AddCommand(certCreateCmd)
	certCmd.AddCommand(certShowCmd)
	certCmd.AddCommand(certVerifyCmd)
}
