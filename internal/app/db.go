package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// GetDBPath resolves the database path.
// Order of precedence:
// 1) CLI override (--db-path)
// 2) Environment variable: LUNCHPICK_DB_PATH
// 3) config.yaml: db_path
// 4) Default: ~/.config/lunchpick/lunchpick.db
func GetDBPath() (string, error) {
	path, _, err := ResolveDBPathDetailed()
	return path, err
}

// ResolveDBPathDetailed returns the resolved DB path along with the source of that decision.
func ResolveDBPathDetailed() (path string, source string, err error) {
	if override := getDBPathOverride(); override != "" {
		resolved, ensureErr := ensureIfFile(override)
		return resolved, "cli(--db-path)", ensureErr
	}

	if envPath := os.Getenv("LUNCHPICK_DB_PATH"); envPath != "" {
		resolved, ensureErr := ensureIfFile(envPath)
		return resolved, "env(LUNCHPICK_DB_PATH)", ensureErr
	}

	dir, err := ConfigDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to determine config directory: %w", err)
	}

	for _, p := range settingsPaths(dir) {
		s, loadErr := loadSettingsFile(p)
		if loadErr == nil {
			if s.DBPath != "" {
				resolved, ensureErr := ensureIfFile(expandHome(s.DBPath))
				return resolved, fmt.Sprintf("config(%s)", p), ensureErr
			}
			continue
		}
		if errors.Is(loadErr, os.ErrNotExist) {
			continue
		}
		return "", "", fmt.Errorf("failed to load config %s: %w", p, loadErr)
	}

	resolved, err := EnsureDBDir(filepath.Join(dir, "lunchpick.db"))
	return resolved, "default(~/.config/lunchpick/lunchpick.db)", err
}

// EnsureDBDir creates the parent directory of dbPath.
func EnsureDBDir(dbPath string) (string, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return dbPath, nil
}

// ensureIfFile leaves ":memory:" and "file:" DSNs alone.
func ensureIfFile(dbPath string) (string, error) {
	if dbPath == ":memory:" || len(dbPath) > 5 && dbPath[:5] == "file:" {
		return dbPath, nil
	}
	return EnsureDBDir(dbPath)
}

func expandHome(p string) string {
	if len(p) < 2 || p[:2] != "~/" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
