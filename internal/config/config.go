// Package config loads the optional YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when no config file or flag overrides are present.
const (
	DefaultDatabase   = "database.db"
	DefaultSecretFile = "password.txt"
)

// Config holds file locations for the console.
type Config struct {
	// Database is the path to the record file.
	Database string `yaml:"database"`
	// SecretFile is the path to the reference secret.
	SecretFile string `yaml:"secret_file"`
	// Journal is the path to the audit journal database. Empty disables
	// journaling.
	Journal string `yaml:"journal"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:   DefaultDatabase,
		SecretFile: DefaultSecretFile,
	}
}

// Load reads the config file at path, filling unset fields with
// defaults. A missing file is not an error (the defaults apply); an
// unreadable or malformed file is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.SecretFile == "" {
		cfg.SecretFile = DefaultSecretFile
	}
	return cfg, nil
}
