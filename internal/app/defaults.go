package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment
// variables first. Environment variables:
//   - DUPES_CONFIG_PATH: config file location (default: ~/.config/dupe-remover.toml)
//   - DUPES_HOME: base directory for dupe-remover data (default: ~/.local/share/dupe-remover)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking DUPES_CONFIG_PATH
// first, then falling back to the default ~/.config/dupe-remover.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("DUPES_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "dupe-remover.toml"), nil
}

// getBaseDir returns the base directory for dupe-remover data, checking
// DUPES_HOME first, then falling back to the XDG default
// ~/.local/share/dupe-remover.
func getBaseDir() (string, error) {
	if path := os.Getenv("DUPES_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "dupe-remover"), nil
}
