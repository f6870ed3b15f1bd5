package config

import (
	"fmt"
	"time"

	"github.com/mrz1836/specflow/internal/errors"
)

// Validation bounds for configuration values.
const (
	maxFreshnessWindow = time.Hour
	minLockTimeout     = 100 * time.Millisecond
	maxLockTimeout     = time.Minute
	maxHistoryLimit    = 1000
)

// Validate checks a Config for out-of-range values.
// It returns the first violation found, naming the offending key.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil: %w", errors.ErrConfigInvalid)
	}

	if err := validateStoreConfig(&cfg.Store); err != nil {
		return err
	}

	if cfg.Documents.Dir == "" {
		return fmt.Errorf("documents.dir cannot be empty: %w", errors.ErrConfigInvalid)
	}

	if cfg.History.Limit < 1 || cfg.History.Limit > maxHistoryLimit {
		return fmt.Errorf("history.limit %d outside range 1-%d: %w",
			cfg.History.Limit, maxHistoryLimit, errors.ErrConfigInvalid)
	}

	return nil
}

// validateStoreConfig checks the state store tuning values.
func validateStoreConfig(store *StoreConfig) error {
	if store.FreshnessWindow < 0 || store.FreshnessWindow > maxFreshnessWindow {
		return fmt.Errorf("store.freshness_window %s outside range 0-%s: %w",
			store.FreshnessWindow, maxFreshnessWindow, errors.ErrConfigInvalid)
	}
	if store.LockTimeout < minLockTimeout || store.LockTimeout > maxLockTimeout {
		return fmt.Errorf("store.lock_timeout %s outside range %s-%s: %w",
			store.LockTimeout, minLockTimeout, maxLockTimeout, errors.ErrConfigInvalid)
	}
	return nil
}
