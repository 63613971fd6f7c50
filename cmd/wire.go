package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	chainkv "github.com/bnema/rally-cli/internal/adapters/kv/chain"
	filekv "github.com/bnema/rally-cli/internal/adapters/kv/file"
	sqlitekv "github.com/bnema/rally-cli/internal/adapters/kv/sqlite"
	"github.com/bnema/rally-cli/internal/adapters/render/scoreboard"
	kvrepo "github.com/bnema/rally-cli/internal/adapters/repo/kv"
	tomlrepo "github.com/bnema/rally-cli/internal/adapters/repo/toml"
	"github.com/bnema/rally-cli/internal/application"
	"github.com/bnema/rally-cli/internal/config"
	"github.com/bnema/rally-cli/internal/domain"
	"github.com/bnema/rally-cli/internal/ports"
)

type app struct {
	config          config.Config
	service         *application.ScoringService
	logger          *slog.Logger
	logLevel        *slog.LevelVar
	statusRenderer  func([]application.MatchStatus, scoreboard.RenderOptions) (string, error)
	historyRenderer func([]domain.MatchSummary, scoreboard.RenderOptions) (string, error)
	boardRenderer   func(application.MatchStatus) string
	now             func() time.Time
	closers         []io.Closer
}

func wireApp() (*app, error) {
	v, err := config.New()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	store, closers, err := wireKVStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	history, err := tomlrepo.NewRepository(v)
	if err != nil {
		_ = closeAll(closers)
		return nil, fmt.Errorf("wire match history: %w", err)
	}

	service := application.NewScoringService(kvrepo.NewRepository(store), history, ports.SystemClock{}, logger)

	return &app{
		config:          cfg,
		service:         service,
		logger:          logger,
		logLevel:        logLevel,
		statusRenderer:  scoreboard.Render,
		historyRenderer: scoreboard.RenderHistory,
		boardRenderer:   scoreboard.Board,
		now:             time.Now,
		closers:         closers,
	}, nil
}

// wireKVStore builds the store selected by store.backend. In chain mode a
// database that cannot be opened degrades to the file store alone.
func wireKVStore(cfg config.Config, logger *slog.Logger) (ports.KVStore, []io.Closer, error) {
	files := filekv.NewStore(cfg.SessionsDir())

	switch cfg.StoreBackend {
	case config.BackendFile:
		return files, nil, nil
	case config.BackendSQLite:
		db, err := sqlitekv.Open(cfg.DatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return db, []io.Closer{db}, nil
	default:
		db, err := sqlitekv.Open(cfg.DatabasePath())
		if err != nil {
			logger.Warn("sqlite store unavailable, using file store only",
				"path", cfg.DatabasePath(),
				"error", err,
			)
			return files, nil, nil
		}

		store, err := chainkv.NewStoreChecked(db, files)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, []io.Closer{db}, nil
	}
}

func (a *app) Close() error {
	err := closeAll(a.closers)
	a.closers = nil
	return err
}

func closeAll(closers []io.Closer) error {
	var firstErr error
	for _, closer := range closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
