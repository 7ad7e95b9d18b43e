// Package config holds the yaml-backed application configuration: logging,
// the remote transaction source and the network whose addresses are
// rendered in reports.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top level structure.
type Config struct {
	Logger  Logger  `yaml:"Logger"`
	Fetcher Fetcher `yaml:"Fetcher"`
	// Network selects the coin parameters used for address rendering,
	// by name from the built-in table. Empty means Bitcoin.
	Network string `yaml:"Network"`
}

// Fetcher configures the remote raw-transaction source.
type Fetcher struct {
	// Endpoint is the blockchair-style API base URL.
	Endpoint string `yaml:"Endpoint"`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `yaml:"TimeoutSeconds"`
	// CachePath, when set, points at a leveldb directory caching fetched
	// transactions.
	CachePath string `yaml:"CachePath"`
}

// Load reads and validates a configuration file.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config '%s': %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate returns an error if the configuration is not usable.
func (c Config) Validate() error {
	return c.Logger.Validate()
}
