// Package config loads riddlebox settings from a YAML file with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all riddlebox configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Audio   AudioConfig   `yaml:"audio"`
	Admin   AdminConfig   `yaml:"admin"`
	Hints   HintsConfig   `yaml:"hints"`
	Fuzzy   FuzzyConfig   `yaml:"fuzzy"`
	Keys    KeysConfig    `yaml:"keys"`
	Log     LogConfig     `yaml:"log"`
	Locale  LocaleConfig  `yaml:"locale"`
}

// StorageConfig selects where progress is persisted.
type StorageConfig struct {
	Kind string `yaml:"kind" env:"RIDDLEBOX_STORAGE"` // memory, file, bolt, sqlite
	Path string `yaml:"path" env:"RIDDLEBOX_DATA"`
}

// AudioConfig configures soundtrack playback.
type AudioConfig struct {
	Enabled     bool   `yaml:"enabled" env:"RIDDLEBOX_AUDIO"`
	Dir         string `yaml:"dir" env:"RIDDLEBOX_AUDIO_DIR"`
	CrossfadeMS int    `yaml:"crossfade_ms" env:"RIDDLEBOX_CROSSFADE_MS"`
	SampleRate  int    `yaml:"sample_rate"`
}

// AdminConfig configures the admin dashboard gate.
type AdminConfig struct {
	Pin string `yaml:"pin" env:"RIDDLEBOX_ADMIN_PIN"`
}

// HintsConfig configures hint cooldowns. Zero keeps each stage's own cooldown.
type HintsConfig struct {
	CooldownSeconds int `yaml:"cooldown_seconds" env:"RIDDLEBOX_HINT_COOLDOWN"`
}

// FuzzyConfig configures answer matching.
type FuzzyConfig struct {
	Threshold float64 `yaml:"threshold" env:"RIDDLEBOX_FUZZY_THRESHOLD"`
}

// KeysConfig rebinds command words. Empty keeps the built-in bindings.
type KeysConfig struct {
	Hint string `yaml:"hint"`
	Skip string `yaml:"skip"`
	Quit string `yaml:"quit"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" env:"RIDDLEBOX_LOG_LEVEL"`
	JSON  bool   `yaml:"json" env:"RIDDLEBOX_LOG_JSON"`
}

// LocaleConfig points gotext at translation files.
type LocaleConfig struct {
	Dir  string `yaml:"dir" env:"RIDDLEBOX_LOCALE_DIR"`
	Lang string `yaml:"lang" env:"RIDDLEBOX_LANG"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Kind: "file",
			Path: defaultDataDir(),
		},
		Audio: AudioConfig{
			Enabled:     true,
			Dir:         "audio",
			CrossfadeMS: 2000,
			SampleRate:  44100,
		},
		Admin: AdminConfig{Pin: "1337"},
		Fuzzy: FuzzyConfig{Threshold: 0.6},
		Log:   LogConfig{Level: "warn"},
		Locale: LocaleConfig{
			Lang: "en_US",
		},
	}
}

// DefaultPath is where the CLI looks for a config file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "riddlebox.yaml"
	}
	return filepath.Join(dir, "riddlebox", "config.yaml")
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".riddlebox"
	}
	return filepath.Join(dir, "riddlebox", "data")
}

// Load reads configuration from a YAML file. A missing file yields defaults.
// Environment variables are applied on top either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from RIDDLEBOX_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Crossfade returns the crossfade duration.
func (c *Config) Crossfade() time.Duration {
	return time.Duration(c.Audio.CrossfadeMS) * time.Millisecond
}

// ValidStorageKinds lists the supported storage backends.
var ValidStorageKinds = []string{"memory", "file", "bolt", "sqlite"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !slices.Contains(ValidStorageKinds, c.Storage.Kind) {
		return fmt.Errorf("invalid storage kind: %s (valid: %v)", c.Storage.Kind, ValidStorageKinds)
	}
	if c.Storage.Kind != "memory" && c.Storage.Path == "" {
		return fmt.Errorf("storage kind %s needs a path", c.Storage.Kind)
	}
	if c.Audio.CrossfadeMS < 0 {
		return fmt.Errorf("crossfade_ms must not be negative: %d", c.Audio.CrossfadeMS)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive: %d", c.Audio.SampleRate)
	}
	if len(c.Admin.Pin) != 4 || !isDigits(c.Admin.Pin) {
		return fmt.Errorf("admin pin must be 4 digits")
	}
	if c.Hints.CooldownSeconds < 0 {
		return fmt.Errorf("cooldown_seconds must not be negative: %d", c.Hints.CooldownSeconds)
	}
	if c.Fuzzy.Threshold <= 0 || c.Fuzzy.Threshold > 1 {
		return fmt.Errorf("fuzzy threshold must be in (0, 1]: %v", c.Fuzzy.Threshold)
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
