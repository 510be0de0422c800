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

// Package config loads and validates the purecrypt configuration from
// YAML, with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the complete purecrypt configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`
	SSH     SSHConfig     `yaml:"ssh"`
	SFTP    SFTPConfig    `yaml:"sftp"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// EngineConfig holds the preferred algorithms for key operations.
// Preferences are configuration-scoped: two configs with different
// preferences never affect each other.
type EngineConfig struct {
	// Hash is the default digest for signatures and OAEP
	// (md2, md5, sha1, sha224, sha256, sha384, sha512)
	Hash string `yaml:"hash"`

	// SignaturePadding selects pss or pkcs1v15
	SignaturePadding string `yaml:"signature_padding"`

	// EncryptionPadding selects oaep, pkcs1v15 or raw
	EncryptionPadding string `yaml:"encryption_padding"`

	// KeyBits is the default RSA modulus size for key generation
	KeyBits int `yaml:"key_bits"`
}

// SSHConfig controls the SSH2 client defaults
type SSHConfig struct {
	User string `yaml:"user"`

	// TimeoutSeconds is the per-operation network deadline; zero
	// disables it
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Preference lists; empty selects the built-in defaults
	KexAlgorithms []string `yaml:"kex_algorithms,omitempty"`
	Ciphers       []string `yaml:"ciphers,omitempty"`
	MACs          []string `yaml:"macs,omitempty"`
}

// SFTPConfig controls SFTP transfer behavior
type SFTPConfig struct {
	// MaxPacket is the payload size per READ/WRITE request
	MaxPacket int `yaml:"max_packet"`

	// MaxInflight bounds pipelined requests per batch
	MaxInflight int `yaml:"max_inflight"`
}

// MetricsConfig controls Prometheus metrics collection
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

var validHashes = map[string]bool{
	"md2": true, "md5": true, "sha1": true, "sha224": true,
	"sha256": true, "sha384": true, "sha512": true,
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Debug: false},
		Engine: EngineConfig{
			Hash:              "sha256",
			SignaturePadding:  "pss",
			EncryptionPadding: "oaep",
			KeyBits:           2048,
		},
		SSH: SSHConfig{
			TimeoutSeconds: 30,
		},
		SFTP: SFTPConfig{
			MaxPacket:   32 * 1024,
			MaxInflight: 16,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads configuration from a YAML file, applies environment
// variable overrides, and validates the result. Fields absent from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// #nosec G304 - Config file path is provided by admin/user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	if debug := os.Getenv("PURECRYPT_DEBUG"); debug != "" {
		cfg.Logging.Debug = debug == "1" || debug == "true"
	}
	if user := os.Getenv("PURECRYPT_SSH_USER"); user != "" {
		cfg.SSH.User = user
	}
	if timeout := os.Getenv("PURECRYPT_SSH_TIMEOUT"); timeout != "" {
		secs, err := strconv.Atoi(timeout)
		if err != nil || secs < 0 {
			fmt.Fprintf(os.Stderr,
				"Warning: invalid PURECRYPT_SSH_TIMEOUT value %q, using default %d\n",
				timeout, cfg.SSH.TimeoutSeconds)
		} else {
			cfg.SSH.TimeoutSeconds = secs
		}
	}
	if hash := os.Getenv("PURECRYPT_HASH"); hash != "" {
		cfg.Engine.Hash = hash
	}
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	if !validHashes[c.Engine.Hash] {
		return fmt.Errorf("config: unknown hash %q", c.Engine.Hash)
	}
	switch c.Engine.SignaturePadding {
	case "pss", "pkcs1v15":
	default:
		return fmt.Errorf("config: unknown signature padding %q", c.Engine.SignaturePadding)
	}
	switch c.Engine.EncryptionPadding {
	case "oaep", "pkcs1v15", "raw":
	default:
		return fmt.Errorf("config: unknown encryption padding %q", c.Engine.EncryptionPadding)
	}
	if c.Engine.KeyBits < 512 || c.Engine.KeyBits%2 != 0 {
		return fmt.Errorf("config: invalid key size %d", c.Engine.KeyBits)
	}
	if c.SSH.TimeoutSeconds < 0 {
		return fmt.Errorf("config: negative ssh timeout")
	}
	if c.SFTP.MaxPacket <= 0 || c.SFTP.MaxInflight <= 0 {
		return fmt.Errorf("config: sftp max_packet and max_inflight must be positive")
	}
	return nil
}
