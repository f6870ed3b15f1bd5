package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/errors"
)

// GlobalConfigDir returns the path to the global specflow configuration
// directory, typically ~/.specflow on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.SpecflowHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file,
// typically ~/.specflow/config.yaml on Unix systems.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "get global config path")
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration
// file. This is always .specflow/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(constants.ProjectConfigDir, constants.GlobalConfigName)
}
