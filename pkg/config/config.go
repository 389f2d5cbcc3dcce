/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package config loads agent configuration from YAML and VCX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const cmdRoot = "VCX"

var logger = log.New("aries-vcx/config")

// StorageMemory is the in-memory wallet storage type.
const StorageMemory = "memory"

// Config is the agent configuration.
type Config struct {
	Wallet    WalletConfig    `yaml:"wallet" envconfig:"WALLET"`
	Transport TransportConfig `yaml:"transport" envconfig:"TRANSPORT"`
	Ledger    LedgerConfig    `yaml:"ledger" envconfig:"LEDGER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Agent     AgentConfig     `yaml:"agent" envconfig:"AGENT"`
}

// WalletConfig selects the wallet storage.
type WalletConfig struct {
	StorageType string `yaml:"storage_type" envconfig:"STORAGE_TYPE"`
	Name        string `yaml:"name" envconfig:"NAME"`
}

// TransportConfig configures outbound delivery and the inbound listener.
type TransportConfig struct {
	Timeout       time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	MaxRetries    uint64        `yaml:"max_retries" envconfig:"MAX_RETRIES"`
	RetryInterval time.Duration `yaml:"retry_interval" envconfig:"RETRY_INTERVAL"`
	// InboundAddr is the listen address of the HTTP inbound transport. Empty disables it.
	InboundAddr string `yaml:"inbound_addr" envconfig:"INBOUND_ADDR"`
}

// LedgerConfig sizes the ledger read cache.
type LedgerConfig struct {
	CacheSize int           `yaml:"cache_size" envconfig:"CACHE_SIZE"`
	CacheTTL  time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL"`
}

// LoggingConfig configures the log backend.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" envconfig:"FORMAT"` // json, console
}

// AgentConfig holds what the agent advertises in invitations and DID docs.
type AgentConfig struct {
	Label           string   `yaml:"label" envconfig:"LABEL"`
	ServiceEndpoint string   `yaml:"service_endpoint" envconfig:"SERVICE_ENDPOINT"`
	RoutingKeys     []string `yaml:"routing_keys" envconfig:"ROUTING_KEYS"`
}

type options struct {
	envPrefix string
}

// Option configures the loader.
type Option func(opts *options)

// WithEnvPrefix defines the prefix for environment variable overrides.
func WithEnvPrefix(prefix string) Option {
	return func(opts *options) {
		opts.envPrefix = prefix
	}
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Wallet: WalletConfig{StorageType: StorageMemory, Name: "default"},
		Transport: TransportConfig{
			Timeout:       10 * time.Second,
			MaxRetries:    3,
			RetryInterval: time.Second,
		},
		Ledger:  LedgerConfig{CacheSize: 1000, CacheTTL: 5 * time.Minute},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Agent:   AgentConfig{Label: "aries-vcx"},
	}
}

// FromReader loads YAML configuration from in over the defaults, then applies environment overrides.
func FromReader(in io.Reader, opts ...Option) (*Config, error) {
	cfg := Default()

	if err := yaml.NewDecoder(in).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return finish(cfg, opts...)
}

// FromFile reads the named YAML config file. A missing file leaves the defaults in place.
func FromFile(name string, opts ...Option) (*Config, error) {
	if name == "" {
		return finish(Default(), opts...)
	}

	f, err := os.Open(name) //nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return finish(Default(), opts...)
		}

		return nil, fmt.Errorf("loading config file failed: %w", err)
	}

	defer func() {
		if errClose := f.Close(); errClose != nil {
			logger.Warnf("failed to close config file %s: %s", name, errClose)
		}
	}()

	return FromReader(f, opts...)
}

func finish(cfg *Config, opts ...Option) (*Config, error) {
	o := options{envPrefix: cmdRoot}

	for _, option := range opts {
		option(&o)
	}

	if err := envconfig.Process(o.envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Wallet.StorageType != StorageMemory {
		return fmt.Errorf("invalid wallet storage type: %s (must be %s)", c.Wallet.StorageType, StorageMemory)
	}

	if c.Wallet.Name == "" {
		return errors.New("wallet name is required")
	}

	if c.Transport.Timeout < 0 || c.Transport.RetryInterval < 0 {
		return errors.New("transport durations must not be negative")
	}

	if c.Ledger.CacheSize <= 0 {
		return fmt.Errorf("invalid ledger cache size: %d", c.Ledger.CacheSize)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logging.Format)
	}

	return nil
}
