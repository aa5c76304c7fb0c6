// Package config loads and persists application configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// HTTP server configuration
	Server ServerConfig `toml:"server"`

	// Map catalog configuration
	Catalog CatalogConfig `toml:"catalog"`

	// Player activity download configuration
	Activity ActivityConfig `toml:"activity"`

	// External playtime tracker configuration
	Tracker TrackerConfig `toml:"tracker"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port        int    `toml:"port"`         // Listen port
	SnapshotTTL string `toml:"snapshot_ttl"` // Derivation cache TTL (e.g., "1h")
}

// CatalogConfig contains map catalog download settings.
type CatalogConfig struct {
	URL string `toml:"url"` // Map catalog endpoint
	TTL string `toml:"ttl"` // Catalog cache TTL (e.g., "6h")
}

// ActivityConfig contains player activity download settings.
type ActivityConfig struct {
	BaseURL string `toml:"base_url"` // Per-player payload endpoint
	Version int64  `toml:"version"`  // Cache-busting stamp for payload URLs
}

// TrackerConfig contains external playtime tracker settings.
type TrackerConfig struct {
	Enabled bool   `toml:"enabled"` // Enable the tracker lookup
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"` // Request timeout (e.g., "5s")
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode     bool `toml:"debug_mode"`     // Enable debug logging
	EnableMetrics bool `toml:"enable_metrics"` // Collect engine timing metrics
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			SnapshotTTL: "1h",
		},
		Catalog: CatalogConfig{
			URL: "https://ddnet.org/releases/maps.json",
			TTL: "6h",
		},
		Activity: ActivityConfig{
			BaseURL: "https://ddnet.org/players",
			Version: 0,
		},
		Tracker: TrackerConfig{
			Enabled: true,
			BaseURL: "https://ddstats.tw/player/json",
			Timeout: "5s",
		},
		App: AppConfig{
			DebugMode:     false,
			EnableMetrics: true,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".rewind")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if _, err := time.ParseDuration(c.Server.SnapshotTTL); err != nil {
		return fmt.Errorf("invalid snapshot TTL %q: %w", c.Server.SnapshotTTL, err)
	}

	if _, err := time.ParseDuration(c.Catalog.TTL); err != nil {
		return fmt.Errorf("invalid catalog TTL %q: %w", c.Catalog.TTL, err)
	}

	if _, err := url.ParseRequestURI(c.Catalog.URL); err != nil {
		return fmt.Errorf("invalid catalog URL %q: %w", c.Catalog.URL, err)
	}

	if _, err := url.ParseRequestURI(c.Activity.BaseURL); err != nil {
		return fmt.Errorf("invalid activity base URL %q: %w", c.Activity.BaseURL, err)
	}

	if c.Tracker.Enabled {
		if _, err := url.ParseRequestURI(c.Tracker.BaseURL); err != nil {
			return fmt.Errorf("invalid tracker base URL %q: %w", c.Tracker.BaseURL, err)
		}
		if _, err := time.ParseDuration(c.Tracker.Timeout); err != nil {
			return fmt.Errorf("invalid tracker timeout %q: %w", c.Tracker.Timeout, err)
		}
	}

	return nil
}

// GetSnapshotTTL returns the derivation cache TTL as a duration.
func (c *Config) GetSnapshotTTL() (time.Duration, error) {
	return time.ParseDuration(c.Server.SnapshotTTL)
}

// GetCatalogTTL returns the catalog cache TTL as a duration.
func (c *Config) GetCatalogTTL() (time.Duration, error) {
	return time.ParseDuration(c.Catalog.TTL)
}

// GetTrackerTimeout returns the tracker request timeout as a duration.
func (c *Config) GetTrackerTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Tracker.Timeout)
}
