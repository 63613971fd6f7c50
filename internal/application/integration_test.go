package application_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	chainkv "github.com/bnema/rally-cli/internal/adapters/kv/chain"
	filekv "github.com/bnema/rally-cli/internal/adapters/kv/file"
	sqlitekv "github.com/bnema/rally-cli/internal/adapters/kv/sqlite"
	kvrepo "github.com/bnema/rally-cli/internal/adapters/repo/kv"
	tomlrepo "github.com/bnema/rally-cli/internal/adapters/repo/toml"
	"github.com/bnema/rally-cli/internal/application"
	"github.com/bnema/rally-cli/internal/domain"
	"github.com/bnema/rally-cli/internal/ports"
	"github.com/bnema/rally-cli/internal/ports/mocks"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storage struct {
	db *sqlitekv.Store
}

func openService(t *testing.T, dir string, clock *mocks.MockClock) (*application.ScoringService, *storage) {
	t.Helper()

	db, err := sqlitekv.Open(filepath.Join(dir, "rally.db"))
	require.NoError(t, err)
	store := chainkv.NewStore(db, filekv.NewStore(filepath.Join(dir, "sessions")))

	cfg := viper.New()
	cfg.Set("history.path", filepath.Join(dir, "history.toml"))
	history, err := tomlrepo.NewRepository(cfg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := application.NewScoringService(kvrepo.NewRepository(store), history, clock, logger)
	return service, &storage{db: db}
}

func TestLiveSessionSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(start).Times(4)
	clock.EXPECT().Now().Return(start.Add(10 * time.Minute)).Times(2)
	clock.EXPECT().Now().Return(start.Add(25 * time.Minute))

	service, store := openService(t, dir, clock)
	ctx := context.Background()

	outcome, err := service.Start(ctx, application.StartMatchCommand{
		Participants: domain.Doubles("red", "blue"),
		Rules:        domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true},
	})
	require.NoError(t, err)
	id := outcome.Session.MatchID

	for _, side := range []domain.Side{domain.SideA, domain.SideA, domain.SideB} {
		outcome, err = service.ExecuteByID(ctx, application.ScoreCommand{MatchID: id, Action: application.ActionAddPoint, Side: side})
		require.NoError(t, err)
		require.NoError(t, outcome.PersistErr)
	}
	outcome, err = service.ExecuteByID(ctx, application.ScoreCommand{MatchID: id, Action: application.ActionPause})
	require.NoError(t, err)
	require.NoError(t, outcome.PersistErr)
	require.NoError(t, store.db.Close())

	reopened, reopenedStore := openService(t, dir, clock)
	t.Cleanup(func() { _ = reopenedStore.db.Close() })

	status, err := reopened.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaused, status.Status)
	assert.Equal(t, domain.SetScore{SideA: 2, SideB: 1}, status.CurrentSet)
	assert.Equal(t, 3, status.UndoDepth)
	assert.Equal(t, 10*time.Minute, status.Elapsed)

	_, err = reopened.ExecuteByID(ctx, application.ScoreCommand{MatchID: id, Action: application.ActionUndo})
	require.NoError(t, err)
}

func TestCorruptSessionDoesNotBlockOtherMatches(t *testing.T) {
	dir := t.TempDir()
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC))

	service, store := openService(t, dir, clock)
	t.Cleanup(func() { _ = store.db.Close() })
	ctx := context.Background()

	outcome, err := service.Start(ctx, application.StartMatchCommand{
		Participants: domain.Singles("alice", "bob"),
		Rules:        domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true},
	})
	require.NoError(t, err)
	good := outcome.Session.MatchID
	require.NoError(t, store.db.Put(ctx, "session/broken", []byte("version = 9\n")))

	id, err := service.ResolveID(ctx, string(good))
	require.NoError(t, err)
	assert.Equal(t, good, id)

	id, err = service.ResolveID(ctx, "broken")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchID("broken"), id)

	_, err = service.Load(ctx, "broken")
	require.ErrorIs(t, err, ports.ErrCorruptRecord)

	require.NoError(t, service.Abandon(ctx, "broken"))
	_, err = service.ResolveID(ctx, "broken")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = service.GetStatus(ctx, good)
	require.NoError(t, err)
}
