package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/specflow/internal/errors"
)

// configHeader is prepended to generated config files.
const configHeader = `# specflow configuration.
# Precedence: SPECFLOW_* environment variables > .specflow/config.yaml > this file > defaults.
`

// WriteDefault writes a config file populated with the built-in defaults to
// the given path, creating parent directories as needed. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, errors.ErrConfigInvalid)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return errors.Wrap(err, "failed to marshal default config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	content := append([]byte(configHeader), data...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}
