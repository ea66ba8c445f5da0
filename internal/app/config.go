package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/lunchpick/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lunchpick"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# lunchpick configuration
# Run: lunchpick --help

# Optional: override the SQLite database location.
# Can also be set via LUNCHPICK_DB_PATH or --db-path.
# db_path: ~/.config/lunchpick/lunchpick.db

# Base URL that share links are built on.
# share_base_url: https://lunchpick.local/

# How long "pick" waits before revealing the result, in milliseconds.
# reveal_delay_ms: 2000
`
