// Package config provides configuration loading and validation for the service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the service configuration. Values can be loaded from a
// JSON file and overridden by environment variables; missing values use
// defaults.
type Config struct {
	// HTTP
	ListenAddr string `json:"listen_addr,omitempty"` // Address the HTTP server binds to

	// Storage
	DatabaseURL   string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	MigrationsDir string `json:"migrations_dir,omitempty"` // Directory holding .sql migration files

	// Upstream services
	PoolServiceURL string `json:"pool_service_url,omitempty"` // Candidate pool service base URL
	RatesURL       string `json:"rates_url,omitempty"`        // Exchange rate feed URL
	GeoServiceURL  string `json:"geo_service_url,omitempty"`  // IP geolocation service base URL

	// Logging
	LogJSON  bool `json:"log_json,omitempty"`  // Emit JSON log lines instead of console output
	LogDebug bool `json:"log_debug,omitempty"` // Enable debug-level logging
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. It is the common path
// for deployed environments; LoadConfig plus ApplyEnv covers file-based local
// setups.
func FromEnv() *Config {
	cfg := &Config{}
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides config values with environment variables when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		c.MigrationsDir = v
	}
	if v := os.Getenv("POOL_SERVICE_URL"); v != "" {
		c.PoolServiceURL = v
	}
	if v := os.Getenv("RATES_URL"); v != "" {
		c.RatesURL = v
	}
	if v := os.Getenv("GEO_SERVICE_URL"); v != "" {
		c.GeoServiceURL = v
	}
	if v := os.Getenv("LOG_JSON"); v == "true" || v == "1" {
		c.LogJSON = true
	}
	if v := os.Getenv("LOG_DEBUG"); v == "true" || v == "1" {
		c.LogDebug = true
	}
}

// Validate checks that the configuration has valid values for serving.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if c.PoolServiceURL == "" {
		return fmt.Errorf("config error: 'pool_service_url' is required")
	}
	if c.MigrationsDir != "" {
		if _, err := os.Stat(c.MigrationsDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: migrations directory not found: %s", c.MigrationsDir)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from
// defaults. File values act as defaults for anything the environment did not
// set.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.MigrationsDir == "" {
		result.MigrationsDir = defaults.MigrationsDir
	}
	if result.PoolServiceURL == "" {
		result.PoolServiceURL = defaults.PoolServiceURL
	}
	if result.RatesURL == "" {
		result.RatesURL = defaults.RatesURL
	}
	if result.GeoServiceURL == "" {
		result.GeoServiceURL = defaults.GeoServiceURL
	}

	if result.ListenAddr == "" {
		result.ListenAddr = ":8080"
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge.

	return result
}
