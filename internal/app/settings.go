package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
type Settings struct {
	DBPath        string `yaml:"db_path"`
	ShareBaseURL  string `yaml:"share_base_url"`
	RevealDelayMS *int   `yaml:"reveal_delay_ms"`
}

// Effective is the validated runtime view of Settings.
type Effective struct {
	ShareBaseURL string        `json:"share_base_url"`
	RevealDelay  time.Duration `json:"reveal_delay"`
}

const (
	defaultShareBaseURL  = "https://lunchpick.local/"
	defaultRevealDelayMS = 2000
	maxRevealDelayMS     = 10000
)

// EffectiveSettings returns settings with defaults applied and values clamped.
// A missing or unreadable config yields the defaults.
func EffectiveSettings() Effective {
	cfg := Effective{
		ShareBaseURL: defaultShareBaseURL,
		RevealDelay:  defaultRevealDelayMS * time.Millisecond,
	}

	s, err := LoadSettings()
	if err != nil {
		return cfg
	}

	if s.ShareBaseURL != "" {
		cfg.ShareBaseURL = s.ShareBaseURL
	}
	if s.RevealDelayMS != nil {
		ms := *s.RevealDelayMS
		if ms < 0 {
			ms = 0
		}
		if ms > maxRevealDelayMS {
			ms = maxRevealDelayMS
		}
		cfg.RevealDelay = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

// settingsOnce, settings and settingsErr implement the lazy-load singleton for config.
// dbPathOverrideMu and dbPathOverride hold the process-wide --db-path override.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	dbPathOverrideMu sync.RWMutex
	dbPathOverride   string
)

// SetDBPathOverride sets a process-wide database path override.
// Intended for CLI flag support (--db-path).
func SetDBPathOverride(path string) {
	dbPathOverrideMu.Lock()
	dbPathOverride = path
	dbPathOverrideMu.Unlock()
}

func getDBPathOverride() string {
	dbPathOverrideMu.RLock()
	v := dbPathOverride
	dbPathOverrideMu.RUnlock()
	return v
}

// settingsPaths lists config files in lookup order.
func settingsPaths(configDir string) []string {
	return []string{
		filepath.Join(configDir, "config.yaml"),
		filepath.Join(string(os.PathSeparator), "etc", "lunchpick", "config.yaml"),
		"config.yaml",
	}
}

// LoadSettings loads configuration once. The first file found wins:
// 1) ~/.config/lunchpick/config.yaml
// 2) /etc/lunchpick/config.yaml
// 3) ./config.yaml
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}
		for _, p := range settingsPaths(dir) {
			s, err := loadSettingsFile(p)
			if err == nil {
				settings = s
				return
			}
			if !errors.Is(err, os.ErrNotExist) {
				settingsErr = err
				return
			}
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path) //nolint:gosec // G304: fixed lookup paths
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
