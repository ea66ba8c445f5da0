package app

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func resetSettingsStateForTest() {
	settingsOnce = sync.Once{}
	settings = Settings{}
	settingsErr = nil
	SetDBPathOverride("")
}

func TestGetDBPath_PrioritizesCLIOverride(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LUNCHPICK_DB_PATH", filepath.Join(home, "env", "lunchpick.db"))

	overridePath := filepath.Join(home, "cli", "lunchpick.db")
	SetDBPathOverride(overridePath)

	resolved, err := GetDBPath()
	require.NoError(t, err)
	require.Equal(t, overridePath, resolved)
	require.DirExists(t, filepath.Dir(overridePath))
}

func TestResolveDBPathDetailed_ReportsSourceForEnv(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	envPath := filepath.Join(home, "env", "lunchpick.db")
	t.Setenv("LUNCHPICK_DB_PATH", envPath)

	resolved, source, err := ResolveDBPathDetailed()
	require.NoError(t, err)
	require.Equal(t, envPath, resolved)
	require.Equal(t, "env(LUNCHPICK_DB_PATH)", source)
}

func TestResolveDBPathDetailed_UsesConfigThenDefault(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LUNCHPICK_DB_PATH", "")

	workdir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workdir))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	resolved, source, err := ResolveDBPathDetailed()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "lunchpick", "lunchpick.db"), resolved)
	require.Equal(t, "default(~/.config/lunchpick/lunchpick.db)", source)

	userConfig := filepath.Join(home, ".config", "lunchpick", "config.yaml")
	require.NoError(t, os.WriteFile(userConfig, []byte("db_path: ~/data/lunch.db\n"), 0o600))

	resolved, source, err = ResolveDBPathDetailed()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "data", "lunch.db"), resolved)
	require.Equal(t, "config("+userConfig+")", source)
}

func TestResolveDBPathDetailed_MemoryLeftAlone(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	SetDBPathOverride(":memory:")
	resolved, _, err := ResolveDBPathDetailed()
	require.NoError(t, err)
	require.Equal(t, ":memory:", resolved)
}

func TestEnsureDBDir_CreatesParentDirectories(t *testing.T) {
	base := t.TempDir()
	dbPath := filepath.Join(base, "nested", "deep", "lunchpick.db")

	resolved, err := EnsureDBDir(dbPath)
	require.NoError(t, err)
	require.Equal(t, dbPath, resolved)
	require.DirExists(t, filepath.Dir(dbPath))
}
