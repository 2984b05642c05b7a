// Package config loads the validator's runtime configuration. Per spec,
// the only configuration surface is environment variables: there is no
// config file, no flags, and no on-disk persistence — key management and
// peer addresses are supplied externally by whatever launches the node.
package config

import (
	"fmt"
	"os"
	"strings"
)

// DefaultListenAddr is used when VALIDATOR_LISTEN_ADDR is unset.
const DefaultListenAddr = ":7000"

// Config holds everything the launcher needs to construct a node.
type Config struct {
	// PrivateKeyHex is the validator's secp256k1 signing key, hex-encoded.
	PrivateKeyHex string `conf:"VALIDATOR_PRIVATE_KEY"`

	// ListenAddr is the local WebSocket listen address.
	ListenAddr string `conf:"VALIDATOR_LISTEN_ADDR"`

	// Peers is the fixed seed list of peer WebSocket URLs to dial.
	Peers []string `conf:"VALIDATOR_PEERS"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `conf:"LOG_LEVEL"`

	// LogJSON selects JSON log output over the colored console writer.
	LogJSON bool `conf:"LOG_FORMAT"`
}

// Load reads and validates configuration from the environment. It fails
// fast: a missing private key is a startup error, not a runtime one.
func Load() (*Config, error) {
	cfg := &Config{
		PrivateKeyHex: os.Getenv("VALIDATOR_PRIVATE_KEY"),
		ListenAddr:    os.Getenv("VALIDATOR_LISTEN_ADDR"),
		Peers:         splitPeers(os.Getenv("VALIDATOR_PEERS")),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogJSON:       strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PrivateKeyHex == "" {
		return fmt.Errorf("config: VALIDATOR_PRIVATE_KEY is required")
	}
	return nil
}

func splitPeers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	peers := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			peers = append(peers, p)
		}
	}
	return peers
}
