package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bnema/rally-cli/internal/domain"
	"github.com/bnema/rally-cli/internal/ports"
	"github.com/bnema/rally-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var serviceNow = time.Date(2026, 3, 7, 18, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*ScoringService, *mocks.MockSessionRepository, *mocks.MockMatchRepository, *mocks.MockClock) {
	t.Helper()

	sessions := mocks.NewMockSessionRepository(t)
	matches := mocks.NewMockMatchRepository(t)
	clock := mocks.NewMockClock(t)
	service := NewScoringService(sessions, matches, clock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.newID = func() domain.MatchID { return "m-1" }

	return service, sessions, matches, clock
}

func liveSession(t *testing.T, rules domain.MatchRules) domain.LiveMatchSession {
	t.Helper()

	session, err := domain.NewSession("m-1", domain.Singles("alice", "bob"), rules, serviceNow.Add(-time.Hour))
	require.NoError(t, err)
	return session
}

func completedSession(t *testing.T) domain.LiveMatchSession {
	t.Helper()

	session := liveSession(t, domain.MatchRules{TargetPoints: 3, BestOfSets: 1})
	var err error
	for i := 0; i < 3; i++ {
		session, err = domain.AddPoint(session, domain.SideB, serviceNow)
		require.NoError(t, err)
	}
	session, err = domain.AdvanceSet(session, serviceNow)
	require.NoError(t, err)
	require.True(t, session.IsMatchComplete())
	return session
}

func TestScoringServiceStartPersistsSession(t *testing.T) {
	service, sessions, _, clock := newTestService(t)

	clock.EXPECT().Now().Return(serviceNow)
	sessions.EXPECT().Save(mockAnyContext(), mock.MatchedBy(func(s domain.LiveMatchSession) bool {
		return s.MatchID == "m-1" && s.Clock.StartedAt.Equal(serviceNow) && s.Rules.TargetPoints == 21
	})).Return(nil)

	outcome, err := service.Start(context.Background(), StartMatchCommand{
		Participants: domain.Doubles("red", "blue"),
		Rules:        domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true},
	})
	require.NoError(t, err)
	assert.NoError(t, outcome.PersistErr)
	assert.Equal(t, domain.MatchID("m-1"), outcome.Session.MatchID)
	assert.Equal(t, domain.StatusRunning, outcome.Session.Status())
}

func TestScoringServiceStartRejectsInvalidRules(t *testing.T) {
	service, _, _, clock := newTestService(t)

	clock.EXPECT().Now().Return(serviceNow)

	_, err := service.Start(context.Background(), StartMatchCommand{
		Participants: domain.Singles("alice", "bob"),
		Rules:        domain.MatchRules{TargetPoints: 21, BestOfSets: 4},
	})
	require.ErrorIs(t, err, domain.ErrInvalidRules)
}

func TestScoringServiceExecuteByIDAddsPointAndSaves(t *testing.T) {
	service, sessions, _, clock := newTestService(t)
	session := liveSession(t, domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true})

	clock.EXPECT().Now().Return(serviceNow)
	sessions.EXPECT().GetByID(mockAnyContext(), domain.MatchID("m-1")).Return(session, nil)
	sessions.EXPECT().Save(mockAnyContext(), mock.MatchedBy(func(s domain.LiveMatchSession) bool {
		return s.CurrentSet == domain.SetScore{SideA: 1} && s.Ledger.Len() == 1
	})).Return(nil)

	outcome, err := service.ExecuteByID(context.Background(), ScoreCommand{
		MatchID: "m-1",
		Action:  ActionAddPoint,
		Side:    domain.SideA,
	})
	require.NoError(t, err)
	assert.NoError(t, outcome.PersistErr)
	assert.Equal(t, domain.SetScore{SideA: 1}, outcome.Session.CurrentSet)
	assert.Equal(t, serviceNow, outcome.Session.UpdatedAt)
}

func TestScoringServiceExecuteKeepsStateWhenSaveFails(t *testing.T) {
	service, sessions, _, clock := newTestService(t)
	session := liveSession(t, domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true})
	saveErr := errors.New("disk full")

	clock.EXPECT().Now().Return(serviceNow)
	sessions.EXPECT().Save(mockAnyContext(), mock.Anything).Return(saveErr)

	outcome, err := service.Execute(context.Background(), session, ScoreCommand{Action: ActionAddPoint, Side: domain.SideB})
	require.NoError(t, err)
	require.ErrorIs(t, outcome.PersistErr, saveErr)
	assert.Equal(t, domain.SetScore{SideB: 1}, outcome.Session.CurrentSet)
}

func TestScoringServiceExecuteRejectedActionSkipsSave(t *testing.T) {
	service, _, _, clock := newTestService(t)
	session := liveSession(t, domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true})

	clock.EXPECT().Now().Return(serviceNow)

	outcome, err := service.Execute(context.Background(), session, ScoreCommand{Action: ActionRemovePoint, Side: domain.SideA})
	require.ErrorIs(t, err, domain.ErrNoPointsToRemove)
	assert.Equal(t, session, outcome.Session)
}

func TestScoringServiceExecuteValidatesCommand(t *testing.T) {
	service, _, _, _ := newTestService(t)
	session := liveSession(t, domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true})

	_, err := service.Execute(context.Background(), session, ScoreCommand{Action: "smash"})
	require.ErrorIs(t, err, ErrUnsupportedAction)

	_, err = service.Execute(context.Background(), session, ScoreCommand{MatchID: "m-2", Action: ActionUndo})
	require.ErrorIs(t, err, ErrMatchIDMismatch)
}

func TestScoringServiceExecuteByIDMissingSession(t *testing.T) {
	service, sessions, _, _ := newTestService(t)

	sessions.EXPECT().GetByID(mockAnyContext(), domain.MatchID("nope")).Return(domain.LiveMatchSession{}, domain.ErrSessionNotFound)

	_, err := service.ExecuteByID(context.Background(), ScoreCommand{MatchID: "nope", Action: ActionUndo})
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestScoringServiceFinalizeStoresSummaryAndDropsSession(t *testing.T) {
	service, sessions, matches, clock := newTestService(t)
	session := completedSession(t)

	clock.EXPECT().Now().Return(serviceNow)
	matches.EXPECT().Save(mockAnyContext(), domain.MatchSummary{
		MatchID:       "m-1",
		Participants:  session.Participants,
		Rules:         session.Rules,
		CompletedSets: []domain.SetScore{{SideB: 3}},
		Result:        domain.ResultSideBWins,
		Duration:      time.Hour,
		FinalizedAt:   serviceNow,
	}).Return(nil)
	sessions.EXPECT().Delete(mockAnyContext(), domain.MatchID("m-1")).Return(nil)

	summary, err := service.Finalize(context.Background(), session, false)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultSideBWins, summary.Result)
}

func TestScoringServiceFinalizeRefusesUndeterminedByDefault(t *testing.T) {
	service, _, _, clock := newTestService(t)
	session := liveSession(t, domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true})

	clock.EXPECT().Now().Return(serviceNow)

	summary, err := service.Finalize(context.Background(), session, false)
	require.ErrorIs(t, err, domain.ErrUndeterminedResult)
	assert.Equal(t, domain.ResultUndetermined, summary.Result)
}

func TestScoringServiceFinalizeUndeterminedWhenAllowed(t *testing.T) {
	service, sessions, matches, clock := newTestService(t)
	session := liveSession(t, domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true})

	clock.EXPECT().Now().Return(serviceNow)
	sessions.EXPECT().GetByID(mockAnyContext(), domain.MatchID("m-1")).Return(session, nil)
	matches.EXPECT().Save(mockAnyContext(), mock.Anything).Return(nil)
	sessions.EXPECT().Delete(mockAnyContext(), domain.MatchID("m-1")).Return(errors.New("locked"))

	summary, err := service.FinalizeByID(context.Background(), FinalizeCommand{MatchID: "m-1", AllowUndetermined: true})
	require.NoError(t, err)
	assert.Equal(t, domain.ResultUndetermined, summary.Result)
}

func TestScoringServiceFinalizeKeepsSessionWhenSummarySaveFails(t *testing.T) {
	service, _, matches, clock := newTestService(t)
	saveErr := errors.New("history locked")

	clock.EXPECT().Now().Return(serviceNow)
	matches.EXPECT().Save(mockAnyContext(), mock.Anything).Return(saveErr)

	_, err := service.Finalize(context.Background(), completedSession(t), false)
	require.ErrorIs(t, err, saveErr)
}

func TestScoringServiceAbandon(t *testing.T) {
	service, sessions, _, _ := newTestService(t)
	session := liveSession(t, domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true})

	sessions.EXPECT().GetByID(mockAnyContext(), domain.MatchID("m-1")).Return(session, nil)
	sessions.EXPECT().Delete(mockAnyContext(), domain.MatchID("m-1")).Return(nil)

	require.NoError(t, service.Abandon(context.Background(), "m-1"))
}

func TestScoringServiceAbandonDropsCorruptSession(t *testing.T) {
	service, sessions, _, _ := newTestService(t)

	sessions.EXPECT().GetByID(mockAnyContext(), domain.MatchID("m-1")).
		Return(domain.LiveMatchSession{}, fmt.Errorf("session m-1: %w", ports.ErrCorruptRecord))
	sessions.EXPECT().Delete(mockAnyContext(), domain.MatchID("m-1")).Return(nil)

	require.NoError(t, service.Abandon(context.Background(), "m-1"))
}

func TestScoringServiceAbandonMissingSession(t *testing.T) {
	service, sessions, _, _ := newTestService(t)

	sessions.EXPECT().GetByID(mockAnyContext(), domain.MatchID("m-1")).
		Return(domain.LiveMatchSession{}, domain.ErrSessionNotFound)

	require.ErrorIs(t, service.Abandon(context.Background(), "m-1"), domain.ErrSessionNotFound)
}

func TestScoringServiceListLiveNewestFirst(t *testing.T) {
	service, sessions, _, clock := newTestService(t)
	older := liveSession(t, domain.MatchRules{TargetPoints: 21, BestOfSets: 3, DeuceEnabled: true})
	newer := older
	newer.MatchID = "m-2"
	newer.UpdatedAt = older.UpdatedAt.Add(time.Minute)

	clock.EXPECT().Now().Return(serviceNow)
	sessions.EXPECT().List(mockAnyContext()).Return([]domain.LiveMatchSession{older, newer}, nil)

	statuses, err := service.ListLive(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, domain.MatchID("m-2"), statuses[0].MatchID)
	assert.Equal(t, time.Hour, statuses[1].Elapsed)
}

func TestScoringServiceHistoryNewestFirst(t *testing.T) {
	service, _, matches, _ := newTestService(t)
	listErr := errors.New("read failed")

	matches.EXPECT().List(mockAnyContext()).Return([]domain.MatchSummary{
		{MatchID: "old", FinalizedAt: serviceNow.Add(-time.Hour)},
		{MatchID: "new", FinalizedAt: serviceNow},
	}, nil).Once()

	history, err := service.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.MatchID("new"), history[0].MatchID)

	matches.EXPECT().List(mockAnyContext()).Return(nil, listErr).Once()
	_, err = service.History(context.Background())
	require.ErrorIs(t, err, listErr)
}

func TestScoringServiceResolveID(t *testing.T) {
	service, sessions, _, _ := newTestService(t)
	sessions.EXPECT().ListIDs(mockAnyContext()).Return([]domain.MatchID{"3f2a9c10-0000", "3f7b1d22-0000", "3f7b1d22-0000-x"}, nil)

	testCases := []struct {
		name    string
		raw     string
		want    domain.MatchID
		wantErr error
	}{
		{name: "full id that is also a prefix", raw: "3f7b1d22-0000", want: "3f7b1d22-0000"},
		{name: "unique prefix", raw: " 3f2 ", want: "3f2a9c10-0000"},
		{name: "ambiguous prefix", raw: "3f", wantErr: ErrAmbiguousMatchID},
		{name: "unknown", raw: "9", wantErr: domain.ErrSessionNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.ResolveID(context.Background(), tc.raw)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := service.ResolveID(context.Background(), "  ")
	assert.ErrorContains(t, err, "match id is required")
}

func TestParseAction(t *testing.T) {
	action, err := ParseAction("Remove-Point")
	require.NoError(t, err)
	assert.Equal(t, ActionRemovePoint, action)
	assert.True(t, action.NeedsSide())

	_, err = ParseAction("serve")
	assert.ErrorIs(t, err, ErrUnsupportedAction)
}

func mockAnyContext() interface{} {
	return mock.Anything
}
