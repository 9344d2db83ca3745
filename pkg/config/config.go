// Package config loads the snapwidget configuration from a yaml file,
// falling back to defaults when no file exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// StoreConfig selects and locates the durable shared store.
type StoreConfig struct {
	// Backend is "localfs" or "sqlite".
	Backend string `yaml:"backend"`
	// Path is the directory (localfs) or database file (sqlite).
	// Empty means the conventional location under the user cache dir.
	Path string `yaml:"path,omitempty"`
}

// Config is the snapwidget configuration.
type Config struct {
	CacheID                string      `yaml:"cacheId"`
	Capacity               int         `yaml:"capacity"`
	TTLSeconds             int         `yaml:"ttlSeconds"`
	CooldownSeconds        int         `yaml:"cooldownSeconds"`
	FetchTimeoutSeconds    int         `yaml:"fetchTimeoutSeconds"`
	TelemetryMaxAgeSeconds int         `yaml:"telemetryMaxAgeSeconds"`
	CriticalLevel          float64     `yaml:"criticalLevel"`
	Store                  StoreConfig `yaml:"store"`
	NotesDB                string      `yaml:"notesDb"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		CacheID:                "snapwidget",
		Capacity:               64,
		TTLSeconds:             300,
		CooldownSeconds:        300,
		FetchTimeoutSeconds:    10,
		TelemetryMaxAgeSeconds: 1800,
		CriticalLevel:          0.20,
		Store:                  StoreConfig{Backend: "localfs"},
		NotesDB:                "notes.db",
	}
}

// TTL returns the cache TTL as a duration.
func (c Config) TTL() time.Duration { return time.Duration(c.TTLSeconds) * time.Second }

// Cooldown returns the reporter cooldown as a duration.
func (c Config) Cooldown() time.Duration { return time.Duration(c.CooldownSeconds) * time.Second }

// FetchTimeout returns the per-fetch budget as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// TelemetryMaxAge returns the telemetry trust window as a duration.
func (c Config) TelemetryMaxAge() time.Duration {
	return time.Duration(c.TelemetryMaxAgeSeconds) * time.Second
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	if c.CacheID == "" {
		return errors.New("cacheId cannot be empty")
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.TTLSeconds <= 0 {
		return fmt.Errorf("ttlSeconds must be positive, got %d", c.TTLSeconds)
	}
	if c.CriticalLevel < 0 || c.CriticalLevel > 1 {
		return fmt.Errorf("criticalLevel must be in [0, 1], got %g", c.CriticalLevel)
	}
	switch c.Store.Backend {
	case "localfs", "sqlite":
	default:
		return fmt.Errorf("unknown store backend %q (want localfs or sqlite)", c.Store.Backend)
	}
	return nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "snapwidget", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "snapwidget", "config.yaml"), nil
}

// Load reads the config at path, layering it over defaults. A missing file
// is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
