// Package config provides configuration management for specflow with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. Environment variables (SPECFLOW_* prefix)
//  2. Project config (.specflow/config.yaml)
//  3. Global config (~/.specflow/config.yaml)
//  4. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for specflow.
type Config struct {
	// Home is the base directory for all persisted state.
	// Empty means ~/.specflow.
	Home string `yaml:"home" mapstructure:"home"`

	// Store contains settings for the specification state store.
	Store StoreConfig `yaml:"store" mapstructure:"store"`

	// Documents contains settings for the document metadata collaborator.
	Documents DocumentsConfig `yaml:"documents" mapstructure:"documents"`

	// History contains settings for event history display.
	History HistoryConfig `yaml:"history" mapstructure:"history"`
}

// StoreConfig contains settings for the specification state store.
type StoreConfig struct {
	// FreshnessWindow is how long a cached record may be served for reads
	// before the store re-consults the durable file. Cross-process readers
	// may observe state up to one window old; a writer's own reads never are.
	// Default: 3 minutes. Valid range: 0 (caching disabled) to 1 hour.
	FreshnessWindow time.Duration `yaml:"freshness_window" mapstructure:"freshness_window"`

	// LockTimeout is the maximum duration to wait for a per-specification
	// file lock. Default: 5 seconds. Valid range: 100ms to 1 minute.
	LockTimeout time.Duration `yaml:"lock_timeout" mapstructure:"lock_timeout"`
}

// DocumentsConfig contains settings for the document metadata collaborator.
type DocumentsConfig struct {
	// Dir is the directory, relative to the working directory unless
	// absolute, where rendered phase documents live:
	// <dir>/<spec-name>/{requirements,design,tasks}.md
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// HistoryConfig contains settings for event history display.
type HistoryConfig struct {
	// Limit is the default number of event entries shown by history queries.
	// Default: 20. Valid range: 1-1000.
	Limit int `yaml:"limit" mapstructure:"limit"`
}
