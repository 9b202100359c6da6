package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.BlurGrace)
	assert.Equal(t, 3, cfg.Search.MinChars)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, 10, cfg.Recommendations.PageSize)
	assert.Equal(t, "ctrl", cfg.Keys.Modifier)
	assert.NotEmpty(t, cfg.Storage.Path)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "http://example.com:9000"

[search]
debounce = "150ms"
min_chars = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.com:9000", cfg.API.BaseURL)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 2, cfg.Search.MinChars)
	// Unset fields keep their defaults.
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, 10, cfg.Recommendations.PageSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad scheme",
			mutate:  func(c *Config) { c.API.BaseURL = "ftp://example.com" },
			wantErr: "scheme",
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.API.BaseURL = "http://" },
			wantErr: "host",
		},
		{
			name:    "min chars zero",
			mutate:  func(c *Config) { c.Search.MinChars = 0 },
			wantErr: "min_chars",
		},
		{
			name:    "page size zero",
			mutate:  func(c *Config) { c.Recommendations.PageSize = 0 },
			wantErr: "page_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGenerateDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated", "config.toml")
	require.NoError(t, GenerateDefaultConfig(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, "ctrl", cfg.Keys.Modifier)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded := expandPath("~/.cine/watchlist.db")
	assert.Equal(t, filepath.Join(home, ".cine", "watchlist.db"), expanded)

	abs := expandPath("/tmp/watchlist.db")
	assert.Equal(t, "/tmp/watchlist.db", abs)

	assert.Empty(t, expandPath(""))
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "off", cfg.Log.Level)
}
