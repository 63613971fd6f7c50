// Package config loads rally settings from ~/.rally/config.toml and RALLY_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/rally-cli/internal/domain"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".rally"
	envPrefix  = "RALLY"

	DataDirKey      = "data.dir"
	HistoryPathKey  = "history.path"
	StoreBackendKey = "store.backend"
	TargetPointsKey = "defaults.target_points"
	BestOfSetsKey   = "defaults.best_of_sets"
	DeuceKey        = "defaults.deuce"
	LogLevelKey     = "log.level"
)

type StoreBackend string

const (
	// BackendChain writes to SQLite and falls back to plain files.
	BackendChain  StoreBackend = "chain"
	BackendSQLite StoreBackend = "sqlite"
	BackendFile   StoreBackend = "file"
)

func ParseStoreBackend(raw string) (StoreBackend, error) {
	switch backend := StoreBackend(strings.ToLower(strings.TrimSpace(raw))); backend {
	case BackendChain, BackendSQLite, BackendFile:
		return backend, nil
	case "":
		return BackendChain, nil
	default:
		return "", fmt.Errorf("unsupported store backend %q (want chain, sqlite or file)", raw)
	}
}

type Config struct {
	DataDir      string
	HistoryPath  string
	StoreBackend StoreBackend
	Defaults     domain.MatchRules
	LogLevel     slog.Level
}

// SessionsDir is where the file backend keeps one document per live match.
func (c Config) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "rally.db")
}

// New returns a viper instance with rally's search path, defaults and
// environment binding applied. Nothing is read from disk yet.
func New() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))

	cfg.SetDefault(DataDirKey, filepath.Join(homeDir, configDir))
	cfg.SetDefault(StoreBackendKey, string(BackendChain))
	cfg.SetDefault(TargetPointsKey, 21)
	cfg.SetDefault(BestOfSetsKey, 3)
	cfg.SetDefault(DeuceKey, true)
	cfg.SetDefault(LogLevelKey, "warn")

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	return cfg, nil
}

// Load reads the config file if there is one and resolves the settings. A
// missing config file is not an error.
func Load(cfg *viper.Viper) (Config, error) {
	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	dataDir := strings.TrimSpace(cfg.GetString(DataDirKey))
	if dataDir == "" {
		return Config{}, errors.New("data dir is empty")
	}
	dataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	historyPath := strings.TrimSpace(cfg.GetString(HistoryPathKey))
	if historyPath == "" {
		historyPath = filepath.Join(dataDir, "history.toml")
		cfg.Set(HistoryPathKey, historyPath)
	}

	backend, err := ParseStoreBackend(cfg.GetString(StoreBackendKey))
	if err != nil {
		return Config{}, err
	}

	rules := domain.MatchRules{
		TargetPoints: cfg.GetInt(TargetPointsKey),
		BestOfSets:   cfg.GetInt(BestOfSetsKey),
		DeuceEnabled: cfg.GetBool(DeuceKey),
	}
	if err := rules.Validate(); err != nil {
		return Config{}, fmt.Errorf("default match rules: %w", err)
	}

	level, err := parseLogLevel(cfg.GetString(LogLevelKey))
	if err != nil {
		return Config{}, err
	}

	return Config{
		DataDir:      filepath.Clean(dataDir),
		HistoryPath:  historyPath,
		StoreBackend: backend,
		Defaults:     rules,
		LogLevel:     level,
	}, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(raw) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}
