package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Storage.Kind)
	assert.Equal(t, "1337", cfg.Admin.Pin)
	assert.Equal(t, 2*time.Second, cfg.Crossfade())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  kind: bolt
  path: /tmp/rb.db
audio:
  crossfade_ms: 500
fuzzy:
  threshold: 0.75
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Storage.Kind)
	assert.Equal(t, "/tmp/rb.db", cfg.Storage.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Crossfade())
	assert.Equal(t, 0.75, cfg.Fuzzy.Threshold)
	assert.True(t, cfg.Audio.Enabled, "unset fields keep their defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  kind: bolt\n"), 0644))
	t.Setenv("RIDDLEBOX_STORAGE", "sqlite")
	t.Setenv("RIDDLEBOX_ADMIN_PIN", "4321")
	t.Setenv("RIDDLEBOX_AUDIO", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Kind)
	assert.Equal(t, "4321", cfg.Admin.Pin)
	assert.False(t, cfg.Audio.Enabled)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("RIDDLEBOX_CROSSFADE_MS", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Storage.Kind = "memory"
	cfg.Hints.CooldownSeconds = 30
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"storage kind": func(c *Config) { c.Storage.Kind = "redis" },
		"storage path": func(c *Config) { c.Storage.Path = "" },
		"crossfade":    func(c *Config) { c.Audio.CrossfadeMS = -1 },
		"sample rate":  func(c *Config) { c.Audio.SampleRate = 0 },
		"short pin":    func(c *Config) { c.Admin.Pin = "12" },
		"letter pin":   func(c *Config) { c.Admin.Pin = "12a4" },
		"cooldown":     func(c *Config) { c.Hints.CooldownSeconds = -5 },
		"threshold":    func(c *Config) { c.Fuzzy.Threshold = 1.5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	mem := Default()
	mem.Storage = StorageConfig{Kind: "memory"}
	assert.NoError(t, mem.Validate(), "memory storage needs no path")
}
