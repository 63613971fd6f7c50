package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/rally-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, homeDir, content string) {
	t.Helper()

	dir := filepath.Join(homeDir, ".rally")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
}

func loadConfig(t *testing.T) (Config, error) {
	t.Helper()

	cfg, err := New()
	require.NoError(t, err)
	return Load(cfg)
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	got, err := loadConfig(t)
	require.NoError(t, err)

	dataDir := filepath.Join(homeDir, ".rally")
	assert.Equal(t, Config{
		DataDir:      dataDir,
		HistoryPath:  filepath.Join(dataDir, "history.toml"),
		StoreBackend: BackendChain,
		Defaults:     domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true},
		LogLevel:     slog.LevelWarn,
	}, got)
	assert.Equal(t, filepath.Join(dataDir, "sessions"), got.SessionsDir())
	assert.Equal(t, filepath.Join(dataDir, "rally.db"), got.DatabasePath())
}

func TestLoadReadsConfigFile(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	dataDir := filepath.Join(homeDir, "scores")
	writeConfig(t, homeDir, `
[data]
dir = "`+dataDir+`"

[store]
backend = "file"

[defaults]
target_points = 11
best_of_sets = 5
deuce = false

[log]
level = "debug"
`)

	got, err := loadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, dataDir, got.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "history.toml"), got.HistoryPath)
	assert.Equal(t, BackendFile, got.StoreBackend)
	assert.Equal(t, domain.MatchRules{TargetPoints: 11, BestOfSets: 5}, got.Defaults)
	assert.Equal(t, slog.LevelDebug, got.LogLevel)
}

func TestLoadEnvironmentOverridesConfigFile(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	writeConfig(t, homeDir, "[store]\nbackend = \"file\"\n")
	t.Setenv("RALLY_STORE_BACKEND", "sqlite")
	t.Setenv("RALLY_DEFAULTS_TARGET_POINTS", "15")
	t.Setenv("RALLY_HISTORY_PATH", filepath.Join(homeDir, "elsewhere.toml"))

	got, err := loadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, got.StoreBackend)
	assert.Equal(t, 15, got.Defaults.TargetPoints)
	assert.Equal(t, filepath.Join(homeDir, "elsewhere.toml"), got.HistoryPath)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "backend", content: "[store]\nbackend = \"redis\"\n", wantErr: "unsupported store backend"},
		{name: "even best of", content: "[defaults]\nbest_of_sets = 4\n", wantErr: "default match rules"},
		{name: "log level", content: "[log]\nlevel = \"loud\"\n", wantErr: "invalid log level"},
		{name: "malformed", content: "[store\n", wantErr: "read config file"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			homeDir := t.TempDir()
			t.Setenv("HOME", homeDir)
			writeConfig(t, homeDir, tc.content)

			_, err := loadConfig(t)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestParseStoreBackend(t *testing.T) {
	t.Parallel()

	backend, err := ParseStoreBackend(" SQLite ")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, backend)

	backend, err = ParseStoreBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendChain, backend)
}
