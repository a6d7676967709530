// Package config loads and validates the node's YAML configuration,
// following the same Load/Validate shape the teacher's node config
// uses, trimmed to the fields this consensus core actually consumes.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level node configuration.
type Config struct {
	DataDir      string `yaml:"data_dir"`
	ChainFile    string `yaml:"chain_file"`
	LogLevel     string `yaml:"log_level"`

	VDF       VDFConfig       `yaml:"vdf"`
	Mempool   MempoolConfig   `yaml:"mempool"`
	Network   NetworkConfig   `yaml:"network"`
}

// VDFConfig configures the RSA-group VDF parameters.
type VDFConfig struct {
	ModulusBits int  `yaml:"modulus_bits"`
	Production  bool `yaml:"production"`
}

// MempoolConfig configures the fee-priority transaction pool.
type MempoolConfig struct {
	MaxSize int `yaml:"max_size"`
}

// NetworkConfig is carried but inert: live networking is explicitly
// out of scope for the consensus core (spec 1), but a real deployment
// still needs somewhere to record these fields for the eventual P2P
// layer, the way the teacher's config does for its own out-of-core
// surfaces.
type NetworkConfig struct {
	ListenAddr     string   `yaml:"listen_addr"`
	BootstrapNodes []string `yaml:"bootstrap_nodes"`
	Timeout        string   `yaml:"timeout,omitempty"`
}

// Default returns a configuration usable for local development: a
// 2048-bit production VDF, a modest mempool, and no bootstrap peers.
func Default() *Config {
	return &Config{
		DataDir:   "./data",
		ChainFile: "./data/chain.dat",
		LogLevel:  "info",
		VDF: VDFConfig{
			ModulusBits: 2048,
			Production:  true,
		},
		Mempool: MempoolConfig{MaxSize: 5000},
		Network: NetworkConfig{ListenAddr: "0.0.0.0:30300"},
	}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.ChainFile == "" {
		return fmt.Errorf("chain_file is required")
	}
	if c.VDF.Production && c.VDF.ModulusBits < 2048 {
		return fmt.Errorf("vdf.modulus_bits must be at least 2048 in production, got %d", c.VDF.ModulusBits)
	}
	if c.Mempool.MaxSize <= 0 {
		return fmt.Errorf("mempool.max_size must be positive")
	}
	return nil
}

// GetTimeout converts the network timeout string to a time.Duration,
// defaulting to 30 seconds on an empty or unparsable value.
func (n *NetworkConfig) GetTimeout() time.Duration {
	if n.Timeout == "" {
		return 30 * time.Second
	}
	if d, err := time.ParseDuration(n.Timeout); err == nil {
		return d
	}
	return 30 * time.Second
}
