package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/bnema/rally-cli/internal/domain"
	"github.com/bnema/rally-cli/internal/ports"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedAction = errors.New("unsupported scoring action")
	ErrMatchIDMismatch   = errors.New("command match id does not match session")
	ErrAmbiguousMatchID  = errors.New("match id prefix is ambiguous")
)

// Outcome is the result of a scoring action that the engine accepted.
// PersistErr is set when the new session could not be saved; Session is the
// new state regardless and stays the source of truth.
type Outcome struct {
	Session    domain.LiveMatchSession
	PersistErr error
}

type ScoringService struct {
	sessions ports.SessionRepository
	matches  ports.MatchRepository
	clock    ports.Clock
	logger   *slog.Logger
	newID    func() domain.MatchID
}

func NewScoringService(sessions ports.SessionRepository, matches ports.MatchRepository, clock ports.Clock, logger *slog.Logger) *ScoringService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ScoringService{
		sessions: sessions,
		matches:  matches,
		clock:    clock,
		logger:   logger,
		newID: func() domain.MatchID {
			return domain.MatchID(uuid.NewString())
		},
	}
}

func (s *ScoringService) Start(ctx context.Context, cmd StartMatchCommand) (Outcome, error) {
	session, err := domain.NewSession(s.newID(), cmd.Participants, cmd.Rules, s.clock.Now())
	if err != nil {
		return Outcome{}, err
	}

	s.logger.Info("match started",
		"match_id", session.MatchID,
		"format", session.Participants.Format,
		"target_points", session.Rules.TargetPoints,
		"best_of", session.Rules.BestOfSets,
		"deuce", session.Rules.DeuceEnabled,
	)

	return s.persist(ctx, session), nil
}

func (s *ScoringService) Load(ctx context.Context, id domain.MatchID) (domain.LiveMatchSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.LiveMatchSession{}, fmt.Errorf("get live session: %w", err)
	}
	return session, nil
}

// ResolveID expands raw to the id of a live match. raw may be the full id or
// a prefix that matches exactly one live match. Stored sessions are not
// decoded, so a corrupt one can still be addressed.
func (s *ScoringService) ResolveID(ctx context.Context, raw string) (domain.MatchID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("match id is required")
	}

	ids, err := s.sessions.ListIDs(ctx)
	if err != nil {
		return "", fmt.Errorf("list live sessions: %w", err)
	}

	var candidates []domain.MatchID
	for _, id := range ids {
		if string(id) == raw {
			return id, nil
		}
		if strings.HasPrefix(string(id), raw) {
			candidates = append(candidates, id)
		}
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("match %s: %w", raw, domain.ErrSessionNotFound)
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d live matches", ErrAmbiguousMatchID, raw, len(candidates))
	}
}

// Execute applies cmd to session. Rejected actions return the unchanged
// session with the domain error.
func (s *ScoringService) Execute(ctx context.Context, session domain.LiveMatchSession, cmd ScoreCommand) (Outcome, error) {
	if cmd.MatchID != "" && cmd.MatchID != session.MatchID {
		return Outcome{Session: session}, fmt.Errorf("%w: %s != %s", ErrMatchIDMismatch, cmd.MatchID, session.MatchID)
	}

	next, err := apply(session, cmd, s.clock)
	if err != nil {
		s.logger.Debug("scoring action rejected",
			"match_id", session.MatchID,
			"action", cmd.Action,
			"side", cmd.Side,
			"error", err,
		)
		return Outcome{Session: session}, err
	}

	s.logger.Debug("scoring action applied",
		"match_id", next.MatchID,
		"action", cmd.Action,
		"side", cmd.Side,
		"set", next.CurrentSetNumber(),
		"score", next.CurrentSet.String(),
		"status", next.Status(),
	)

	return s.persist(ctx, next), nil
}

func (s *ScoringService) ExecuteByID(ctx context.Context, cmd ScoreCommand) (Outcome, error) {
	session, err := s.Load(ctx, cmd.MatchID)
	if err != nil {
		return Outcome{}, err
	}

	return s.Execute(ctx, session, cmd)
}

// Finalize stores the summary of session and drops the live session.
func (s *ScoringService) Finalize(ctx context.Context, session domain.LiveMatchSession, allowUndetermined bool) (domain.MatchSummary, error) {
	summary, err := domain.Finalize(session, s.clock.Now())
	if err != nil {
		if !errors.Is(err, domain.ErrUndeterminedResult) || !allowUndetermined {
			return summary, err
		}
		s.logger.Warn("finalizing match with undetermined result", "match_id", session.MatchID)
	}

	if err := s.matches.Save(ctx, summary); err != nil {
		return summary, fmt.Errorf("save match summary: %w", err)
	}

	if err := s.sessions.Delete(ctx, session.MatchID); err != nil {
		s.logger.Warn("delete finalized live session failed",
			"match_id", session.MatchID,
			"error", err,
		)
	}

	s.logger.Info("match finalized",
		"match_id", summary.MatchID,
		"result", summary.Result,
		"sets", len(summary.CompletedSets),
		"duration", summary.Duration,
	)

	return summary, nil
}

func (s *ScoringService) FinalizeByID(ctx context.Context, cmd FinalizeCommand) (domain.MatchSummary, error) {
	session, err := s.Load(ctx, cmd.MatchID)
	if err != nil {
		return domain.MatchSummary{}, err
	}

	return s.Finalize(ctx, session, cmd.AllowUndetermined)
}

// Abandon drops a live session without recording a summary.
func (s *ScoringService) Abandon(ctx context.Context, id domain.MatchID) error {
	if _, err := s.Load(ctx, id); err != nil {
		if !errors.Is(err, ports.ErrCorruptRecord) {
			return err
		}
		s.logger.Warn("abandoning unreadable live session", "match_id", id, "error", err)
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete live session: %w", err)
	}

	s.logger.Info("match abandoned", "match_id", id)
	return nil
}

func (s *ScoringService) StatusOf(session domain.LiveMatchSession) MatchStatus {
	return statusFromSession(session, s.clock.Now())
}

func (s *ScoringService) GetStatus(ctx context.Context, id domain.MatchID) (MatchStatus, error) {
	session, err := s.Load(ctx, id)
	if err != nil {
		return MatchStatus{}, err
	}

	return s.StatusOf(session), nil
}

func (s *ScoringService) ListLive(ctx context.Context) ([]MatchStatus, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list live sessions: %w", err)
	}

	now := s.clock.Now()
	statuses := make([]MatchStatus, 0, len(sessions))
	for _, session := range sessions {
		statuses = append(statuses, statusFromSession(session, now))
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].UpdatedAt.After(statuses[j].UpdatedAt)
	})

	return statuses, nil
}

func (s *ScoringService) History(ctx context.Context) ([]domain.MatchSummary, error) {
	summaries, err := s.matches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list match history: %w", err)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].FinalizedAt.After(summaries[j].FinalizedAt)
	})

	return summaries, nil
}

func (s *ScoringService) persist(ctx context.Context, session domain.LiveMatchSession) Outcome {
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Warn("persist live session failed, continuing in memory",
			"match_id", session.MatchID,
			"error", err,
		)
		return Outcome{Session: session, PersistErr: fmt.Errorf("save live session: %w", err)}
	}

	return Outcome{Session: session}
}

func apply(session domain.LiveMatchSession, cmd ScoreCommand, clock ports.Clock) (domain.LiveMatchSession, error) {
	if !cmd.Action.Valid() {
		return session, fmt.Errorf("%w: %q", ErrUnsupportedAction, cmd.Action)
	}

	now := clock.Now()
	switch cmd.Action {
	case ActionAddPoint:
		return domain.AddPoint(session, cmd.Side, now)
	case ActionRemovePoint:
		return domain.RemovePoint(session, cmd.Side, now)
	case ActionAdvanceSet:
		return domain.AdvanceSet(session, now)
	case ActionUndo:
		return domain.Undo(session, now)
	case ActionPause:
		return domain.Pause(session, now)
	default:
		return domain.Resume(session, now)
	}
}
