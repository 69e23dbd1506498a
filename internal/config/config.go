// Package config loads client settings: defaults, then an optional YAML
// file, then CHOREQUEST_* environment variables.
//
// The API URL and key set here override the persisted values for one run
// and are never written back to storage.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// APIURL and APIKey override the persisted values when non-empty.
	APIURL string `yaml:"api_url" env:"CHOREQUEST_API_URL"`
	APIKey string `yaml:"api_key" env:"CHOREQUEST_API_KEY"`

	// StoragePath is the JSON file holding persisted settings.
	StoragePath string `yaml:"storage_path" env:"CHOREQUEST_STORAGE"`
	// Ephemeral keeps every setting in memory for this run.
	Ephemeral bool `yaml:"ephemeral" env:"CHOREQUEST_EPHEMERAL"`

	Timeout      time.Duration `yaml:"timeout" env:"CHOREQUEST_TIMEOUT"`
	PollInterval time.Duration `yaml:"poll_interval" env:"CHOREQUEST_POLL_INTERVAL"`

	LogLevel string `yaml:"log_level" env:"CHOREQUEST_LOG_LEVEL"`
	// Style picks the glyph set: classic, neon or mono.
	Style string `yaml:"style" env:"CHOREQUEST_STYLE"`
}

func Default() Config {
	return Config{
		Timeout:      30 * time.Second,
		PollInterval: 60 * time.Second,
		LogLevel:     "warn",
		Style:        "classic",
	}
}

// Load reads path (if non-empty) over the defaults and then applies the
// environment. A missing file at the default location is not an error; an
// explicitly named missing file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath is config.yaml next to the storage file, or "" when the
// platform has no config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chorequest", "config.yaml")
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("poll_interval must be at least 1s, got %s", c.PollInterval)
	}
	switch c.Style {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown style %q (classic, neon, mono)", c.Style)
	}
	return nil
}

// Save writes c as YAML, creating parent directories.
func (c Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
