package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/mrz1836/specflow/internal/config"
	"github.com/mrz1836/specflow/internal/workflow"
)

// commandContext bundles the loaded configuration and wired engine that
// every subcommand needs.
type commandContext struct {
	cfg    *config.Config
	store  *workflow.FileStore
	engine *workflow.Engine
}

// newCommandContext loads configuration and wires the store, event log, and
// engine. Config load failures fall back to defaults with a warning; a spec
// command should still work with out-of-the-box settings.
func newCommandContext(ctx context.Context) (*commandContext, error) {
	logger := GetLogger()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load config, using defaults")
		cfg = config.DefaultConfig()
	}

	home := cfg.Home
	if home == "" {
		home, err = specflowHome()
		if err != nil {
			return nil, err
		}
	}

	store, err := workflow.NewFileStore(home,
		workflow.WithFreshnessWindow(cfg.Store.FreshnessWindow),
		workflow.WithLockTimeout(cfg.Store.LockTimeout),
	)
	if err != nil {
		return nil, err
	}

	events := workflow.NewFileEventLog(store, logger)
	engine := workflow.NewEngine(store, events, logger)

	return &commandContext{
		cfg:    cfg,
		store:  store,
		engine: engine,
	}, nil
}

// HandleCommandError writes a JSON error payload when the output format is
// JSON, and returns the error either way so exit codes stay correct.
func HandleCommandError(format string, w io.Writer, payload any, err error) error {
	if format == OutputJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(payload)
	}
	return err
}
