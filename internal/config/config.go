// Package config loads the tally application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application settings read from the YAML config file.
// Command-line flags override anything set here.
type Config struct {
	// DataFile is the store file path.
	DataFile string `yaml:"data_file"`
	// AutoBackup enables a backup of the existing file before each save.
	AutoBackup bool `yaml:"auto_backup"`
	// BackupRetention is how many backups `tally backup prune` keeps.
	BackupRetention int `yaml:"backup_retention"`
	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration: a per-user store under
// ~/.tally with backups enabled.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataFile:        filepath.Join(home, ".tally", "tally.json"),
		AutoBackup:      true,
		BackupRetention: 10,
		LogLevel:        "warn",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".tally", "config.yaml")
}

// Load reads the config file at path, layering it over the defaults. A
// missing file yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.BackupRetention <= 0 {
		cfg.BackupRetention = Default().BackupRetention
	}
	return cfg, nil
}
