// Package config handles configuration loading and validation for tend.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/tend/internal/core/treatment"
)

// Storage backend names.
const (
	BackendJSONFile = "jsonfile"
	BackendSQLite   = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Storage    StorageConfig     `yaml:"storage"`
	Treatments treatment.Catalog `yaml:"treatments"`
	DataDir    string            `yaml:"-"` // set by caller, not from config file
}

// StorageConfig selects and tunes the persistence backend.
type StorageConfig struct {
	// Backend is "jsonfile" (device-local files) or "sqlite" (shared
	// database file).
	Backend string `yaml:"backend"`
}

// defaultCatalog is the built-in treatment schedule used when the config file
// does not declare its own.
var defaultCatalog = treatment.Catalog{
	{Label: "Neem Oil", Day: "Saturday", IntervalDays: 7},
	{Label: "Fertilizer", Day: "Sunday", IntervalDays: 14},
	{Label: "Fungicide Spray", Day: "Saturday", IntervalDays: 21},
	{Label: "Deep Watering", Day: "Wednesday", IntervalDays: 3},
	{Label: "Compost Top-up", Day: "Sunday", IntervalDays: 30},
	{Label: "Pruning", Day: "Sunday"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendJSONFile,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided
// dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Fall back to the built-in schedule when the file declares no treatments
	if len(cfg.Treatments) == 0 {
		cfg.Treatments = defaultCatalog
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSONFile, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendJSONFile, BackendSQLite, c.Storage.Backend)
	}

	if err := c.Treatments.Validate(); err != nil {
		return fmt.Errorf("treatments: %w", err)
	}

	return nil
}
