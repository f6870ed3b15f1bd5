package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/specflow/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files and environment variables.
func DefaultConfig() *Config {
	return &Config{
		// Home: empty means ~/.specflow, resolved by the store.
		Home: "",
		Store: StoreConfig{
			FreshnessWindow: constants.DefaultFreshnessWindow,
			LockTimeout:     constants.DefaultLockTimeout,
		},
		Documents: DocumentsConfig{
			Dir: constants.DefaultDocumentsDir,
		},
		History: HistoryConfig{
			Limit: constants.DefaultHistoryLimit,
		},
	}
}

// setDefaults registers the default values on a Viper instance so that
// partially specified config files merge over a complete base layer.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("home", defaults.Home)
	v.SetDefault("store.freshness_window", defaults.Store.FreshnessWindow)
	v.SetDefault("store.lock_timeout", defaults.Store.LockTimeout)
	v.SetDefault("documents.dir", defaults.Documents.Dir)
	v.SetDefault("history.limit", defaults.History.Limit)
}
