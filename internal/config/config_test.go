package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Home)
	assert.Equal(t, constants.DefaultFreshnessWindow, cfg.Store.FreshnessWindow)
	assert.Equal(t, constants.DefaultLockTimeout, cfg.Store.LockTimeout)
	assert.Equal(t, constants.DefaultDocumentsDir, cfg.Documents.Dir)
	assert.Equal(t, constants.DefaultHistoryLimit, cfg.History.Limit)

	assert.NoError(t, Validate(cfg), "defaults must pass their own validation")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"freshness zero disables caching", func(c *Config) { c.Store.FreshnessWindow = 0 }, false},
		{"freshness at one hour", func(c *Config) { c.Store.FreshnessWindow = time.Hour }, false},
		{"freshness negative", func(c *Config) { c.Store.FreshnessWindow = -time.Second }, true},
		{"freshness above one hour", func(c *Config) { c.Store.FreshnessWindow = time.Hour + time.Second }, true},
		{"lock timeout at floor", func(c *Config) { c.Store.LockTimeout = 100 * time.Millisecond }, false},
		{"lock timeout below floor", func(c *Config) { c.Store.LockTimeout = 99 * time.Millisecond }, true},
		{"lock timeout above ceiling", func(c *Config) { c.Store.LockTimeout = 2 * time.Minute }, true},
		{"empty documents dir", func(c *Config) { c.Documents.Dir = "" }, true},
		{"history limit zero", func(c *Config) { c.History.Limit = 0 }, true},
		{"history limit at ceiling", func(c *Config) { c.History.Limit = 1000 }, false},
		{"history limit above ceiling", func(c *Config) { c.History.Limit = 1001 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrConfigInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNilConfig(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfigInvalid)
}

func TestLoadDefaultsWhenNoFiles(t *testing.T) {
	// Point HOME at an empty directory so no real global config leaks in.
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultFreshnessWindow, cfg.Store.FreshnessWindow)
	assert.Equal(t, constants.DefaultHistoryLimit, cfg.History.Limit)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SPECFLOW_STORE_LOCK_TIMEOUT", "30s")
	t.Setenv("SPECFLOW_HISTORY_LIMIT", "50")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Store.LockTimeout)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.Equal(t, constants.DefaultFreshnessWindow, cfg.Store.FreshnessWindow,
		"keys without an override keep their defaults")
}

func TestLoadGlobalConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, constants.SpecflowHome)
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	payload := "store:\n  freshness_window: 90s\nhistory:\n  limit: 7\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, constants.GlobalConfigName), []byte(payload), 0o600))

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Store.FreshnessWindow)
	assert.Equal(t, 7, cfg.History.Limit)
	assert.Equal(t, constants.DefaultLockTimeout, cfg.Store.LockTimeout)
}

func TestLoadRejectsOutOfRangeFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, constants.SpecflowHome)
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	payload := "history:\n  limit: 100000\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, constants.GlobalConfigName), []byte(payload), 0o600))

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfigInvalid)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path) //#nosec G304 -- test-owned path
	require.NoError(t, err)
	assert.Contains(t, string(data), "freshness_window")
	assert.Contains(t, string(data), "# specflow configuration")
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("home: /custom\n"), 0o600))

	err := WriteDefault(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfigInvalid)

	// The existing file is untouched.
	data, err := os.ReadFile(path) //#nosec G304 -- test-owned path
	require.NoError(t, err)
	assert.Equal(t, "home: /custom\n", string(data))
}

func TestWriteDefaultOutputIsLoadable(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, constants.SpecflowHome, constants.GlobalConfigName)
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.NoError(t, Validate(cfg))
	assert.Equal(t, constants.DefaultFreshnessWindow, cfg.Store.FreshnessWindow)
}

func TestProjectConfigPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".specflow", "config.yaml"), ProjectConfigPath())
}
