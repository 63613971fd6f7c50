package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	filekv "github.com/bnema/rally-cli/internal/adapters/kv/file"
	"github.com/bnema/rally-cli/internal/domain"
	"github.com/bnema/rally-cli/internal/ports"
	portmocks "github.com/bnema/rally-cli/internal/ports/mocks"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 7, 18, 30, 0, 0, time.UTC)

func playedSession(t *testing.T, id domain.MatchID) domain.LiveMatchSession {
	t.Helper()

	rules := domain.MatchRules{TargetPoints: 3, BestOfSets: 3, DeuceEnabled: true}
	session, err := domain.NewSession(id, domain.Singles("alice", "bob"), rules, baseTime)
	require.NoError(t, err)

	at := baseTime
	step := func(op func(domain.LiveMatchSession, time.Time) (domain.LiveMatchSession, error)) {
		at = at.Add(1500 * time.Millisecond)
		session, err = op(session, at)
		require.NoError(t, err)
	}
	addA := func(s domain.LiveMatchSession, now time.Time) (domain.LiveMatchSession, error) {
		return domain.AddPoint(s, domain.SideA, now)
	}
	addB := func(s domain.LiveMatchSession, now time.Time) (domain.LiveMatchSession, error) {
		return domain.AddPoint(s, domain.SideB, now)
	}

	step(addA)
	step(addA)
	step(addA)
	step(domain.AdvanceSet)
	step(addB)
	step(domain.Pause)

	return session
}

func TestRepositoryRoundTripOnFileStore(t *testing.T) {
	t.Parallel()

	repo := NewRepository(filekv.NewStore(t.TempDir()))
	session := playedSession(t, "m-1")

	require.NoError(t, repo.Save(context.Background(), session))

	got, err := repo.GetByID(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, session, got)
	assert.Equal(t, domain.StatusPaused, got.Status())
	assert.Equal(t, 5, got.Ledger.Len())

	undone, err := domain.Undo(got, baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.SetScore{}, undone.CurrentSet)
}

func TestRepositoryListAndDelete(t *testing.T) {
	t.Parallel()

	repo := NewRepository(filekv.NewStore(t.TempDir()))
	first := playedSession(t, "m-1")
	second := playedSession(t, "m-2")

	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), second))

	sessions, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.LiveMatchSession{first, second}, sessions)

	require.NoError(t, repo.Delete(context.Background(), "m-1"))

	_, err = repo.GetByID(context.Background(), "m-1")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	sessions, err = repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.LiveMatchSession{second}, sessions)
}

func TestRepositoryGetByIDMapsMissingKey(t *testing.T) {
	t.Parallel()

	store := portmocks.NewMockKVStore(t)
	repo := NewRepository(store)
	store.EXPECT().Get(mock.Anything, "session/m-9").Return(nil, ports.ErrKeyNotFound).Once()

	_, err := repo.GetByID(context.Background(), "m-9")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRepositorySaveWrapsStoreFailure(t *testing.T) {
	t.Parallel()

	store := portmocks.NewMockKVStore(t)
	repo := NewRepository(store)
	store.EXPECT().Put(mock.Anything, "session/m-1", mock.Anything).Return(errors.New("disk full")).Once()

	err := repo.Save(context.Background(), playedSession(t, "m-1"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "save session m-1")
	assert.ErrorContains(t, err, "disk full")
}

func TestRepositoryRejectsInvalidMatchIDs(t *testing.T) {
	t.Parallel()

	repo := NewRepository(portmocks.NewMockKVStore(t))
	testCases := []struct {
		name    string
		id      domain.MatchID
		wantErr string
	}{
		{name: "empty", id: "", wantErr: "match id is required"},
		{name: "slash", id: "a/b", wantErr: "invalid match id"},
		{name: "backslash", id: `a\b`, wantErr: "invalid match id"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := repo.GetByID(context.Background(), tc.id)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDecodeSessionRejectsNewerSchema(t *testing.T) {
	t.Parallel()

	_, err := decodeSession([]byte("version = 2\nmatch_id = \"m-1\"\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported session schema version 2")
}

func TestDecodeSessionRejectsMalformedTimes(t *testing.T) {
	t.Parallel()

	doc := "version = 1\nmatch_id = \"m-1\"\nupdated_at = \"yesterday\"\n"
	_, err := decodeSession([]byte(doc))
	require.Error(t, err)
	assert.ErrorContains(t, err, "updated_at")
}

func TestRepositoryHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewRepository(portmocks.NewMockKVStore(t))
	require.ErrorIs(t, repo.Save(ctx, playedSession(t, "m-1")), context.Canceled)
	_, err := repo.List(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDecodeSessionRejectsInconsistentDocuments(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(doc *sessionSchema)
		wantErr string
	}{
		{
			name:    "zero best of sets",
			mutate:  func(doc *sessionSchema) { doc.Rules.BestOfSets = 0 },
			wantErr: "best of sets",
		},
		{
			name:    "zero target",
			mutate:  func(doc *sessionSchema) { doc.Rules.TargetPoints = 0 },
			wantErr: "target points",
		},
		{
			name:    "same participant on both sides",
			mutate:  func(doc *sessionSchema) { doc.Participants.SideB = doc.Participants.SideA },
			wantErr: "must differ",
		},
		{
			name:    "paused without paused_at",
			mutate:  func(doc *sessionSchema) { doc.Clock.PausedAt = "" },
			wantErr: "paused_at",
		},
		{
			name: "paused_at while running",
			mutate: func(doc *sessionSchema) {
				doc.Clock.Paused = false
			},
			wantErr: "paused_at",
		},
		{
			name:    "missing start",
			mutate:  func(doc *sessionSchema) { doc.Clock.StartedAt = "" },
			wantErr: "started_at",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := toSchema(playedSession(t, "m-1"))
			tc.mutate(&doc)
			data, err := toml.Marshal(doc)
			require.NoError(t, err)

			_, err = decodeSession(data)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestRepositoryFlagsCorruptDocumentsAndStillListsIDs(t *testing.T) {
	t.Parallel()

	store := filekv.NewStore(t.TempDir())
	repo := NewRepository(store)
	require.NoError(t, repo.Save(context.Background(), playedSession(t, "m-1")))
	require.NoError(t, store.Put(context.Background(), "session/broken", []byte("version = 9\n")))

	_, err := repo.GetByID(context.Background(), "broken")
	require.ErrorIs(t, err, ports.ErrCorruptRecord)
	assert.ErrorContains(t, err, "unsupported session schema version 9")

	_, err = repo.List(context.Background())
	require.ErrorIs(t, err, ports.ErrCorruptRecord)

	ids, err := repo.ListIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.MatchID{"broken", "m-1"}, ids)

	require.NoError(t, repo.Delete(context.Background(), "broken"))
	sessions, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
