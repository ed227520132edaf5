package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv reads KEY=VALUE pairs from a .env file in the working directory, if
// one exists. Variables already set in the environment win.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - LAB_CONFIG_PATH: config file location (default: ~/.config/lab.toml)
//   - LAB_HOME: base directory for lab data (default: ~/.local/share/lab)
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

// getConfigPath returns the config file path, checking LAB_CONFIG_PATH first,
// then falling back to ~/.config/lab.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("LAB_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "lab.toml"), nil
}

// getBaseDir returns the base directory for lab data, checking LAB_HOME first,
// then falling back to the XDG default ~/.local/share/lab.
func getBaseDir() (string, error) {
	if path := os.Getenv("LAB_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "lab"), nil
}
