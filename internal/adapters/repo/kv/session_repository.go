// Package kv stores live match sessions as TOML documents in a key-value store.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/rally-cli/internal/domain"
	"github.com/bnema/rally-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const sessionKeyPrefix = "session/"

type Repository struct {
	store ports.KVStore
}

var _ ports.SessionRepository = (*Repository)(nil)

func NewRepository(store ports.KVStore) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Save(ctx context.Context, session domain.LiveMatchSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := sessionKey(session.MatchID)
	if err != nil {
		return err
	}

	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save session %s: %w", session.MatchID, err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id domain.MatchID) (domain.LiveMatchSession, error) {
	if err := ctx.Err(); err != nil {
		return domain.LiveMatchSession{}, err
	}

	key, err := sessionKey(id)
	if err != nil {
		return domain.LiveMatchSession{}, err
	}

	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return domain.LiveMatchSession{}, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
		}
		return domain.LiveMatchSession{}, fmt.Errorf("load session %s: %w", id, err)
	}

	session, err := decodeSession(data)
	if err != nil {
		return domain.LiveMatchSession{}, fmt.Errorf("session %s: %w: %w", id, ports.ErrCorruptRecord, err)
	}

	return session, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.LiveMatchSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys, err := r.store.Keys(ctx, sessionKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]domain.LiveMatchSession, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			// Removed between Keys and Get.
			if errors.Is(err, ports.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("load session %s: %w", strings.TrimPrefix(key, sessionKeyPrefix), err)
		}

		session, err := decodeSession(data)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w: %w", strings.TrimPrefix(key, sessionKeyPrefix), ports.ErrCorruptRecord, err)
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (r *Repository) ListIDs(ctx context.Context) ([]domain.MatchID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys, err := r.store.Keys(ctx, sessionKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	ids := make([]domain.MatchID, 0, len(keys))
	for _, key := range keys {
		id := strings.TrimPrefix(key, sessionKeyPrefix)
		if id == "" || strings.ContainsAny(id, `/\`) {
			continue
		}
		ids = append(ids, domain.MatchID(id))
	}

	return ids, nil
}

func (r *Repository) Delete(ctx context.Context, id domain.MatchID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := sessionKey(id)
	if err != nil {
		return err
	}

	if err := r.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	return nil
}

func sessionKey(id domain.MatchID) (string, error) {
	raw := strings.TrimSpace(string(id))
	if raw == "" {
		return "", errors.New("match id is required")
	}
	if strings.ContainsAny(raw, `/\`) {
		return "", fmt.Errorf("invalid match id %q", raw)
	}

	return sessionKeyPrefix + raw, nil
}

func encodeSession(session domain.LiveMatchSession) ([]byte, error) {
	doc := toSchema(session)
	doc.applyDefaults()

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", session.MatchID, err)
	}

	return data, nil
}

func decodeSession(data []byte) (domain.LiveMatchSession, error) {
	var doc sessionSchema
	if err := toml.Unmarshal(data, &doc); err != nil {
		return domain.LiveMatchSession{}, fmt.Errorf("decode session: %w", err)
	}
	if err := doc.validateVersion(); err != nil {
		return domain.LiveMatchSession{}, err
	}
	doc.applyDefaults()

	session, err := fromSchema(doc)
	if err != nil {
		return domain.LiveMatchSession{}, fmt.Errorf("decode session %s: %w", doc.MatchID, err)
	}

	return session, nil
}

func toSchema(session domain.LiveMatchSession) sessionSchema {
	entries := session.Ledger.Entries()
	undo := make([]undoEntrySchema, 0, len(entries))
	for _, entry := range entries {
		undo = append(undo, undoEntrySchema{
			At:                 formatTime(entry.At),
			Kind:               string(entry.Kind),
			SetNumber:          entry.SetNumber,
			PriorCurrentSet:    toSetScoreSchema(entry.PriorCurrentSet),
			PriorCompletedSets: toSetScoreSchemas(entry.PriorCompletedSets),
		})
	}

	return sessionSchema{
		Version:   currentSchemaVersion,
		MatchID:   string(session.MatchID),
		UpdatedAt: formatTime(session.UpdatedAt),
		Participants: participantsSchema{
			Format: string(session.Participants.Format),
			SideA:  string(session.Participants.SideA),
			SideB:  string(session.Participants.SideB),
		},
		Rules: rulesSchema{
			TargetPoints: session.Rules.TargetPoints,
			BestOfSets:   session.Rules.BestOfSets,
			DeuceEnabled: session.Rules.DeuceEnabled,
		},
		CurrentSet:    toSetScoreSchema(session.CurrentSet),
		CompletedSets: toSetScoreSchemas(session.CompletedSets),
		Clock: clockSchema{
			StartedAt:        formatTime(session.Clock.StartedAt),
			Paused:           session.Clock.Paused,
			PausedAt:         formatTime(session.Clock.PausedAt),
			AccumulatedPause: session.Clock.AccumulatedPause.String(),
		},
		Undo: undo,
	}
}

func fromSchema(doc sessionSchema) (domain.LiveMatchSession, error) {
	updatedAt, err := parseTime(doc.UpdatedAt)
	if err != nil {
		return domain.LiveMatchSession{}, fmt.Errorf("updated_at: %w", err)
	}
	clock, err := fromClockSchema(doc.Clock)
	if err != nil {
		return domain.LiveMatchSession{}, err
	}

	entries := make([]domain.UndoEntry, 0, len(doc.Undo))
	for i, entry := range doc.Undo {
		at, err := parseTime(entry.At)
		if err != nil {
			return domain.LiveMatchSession{}, fmt.Errorf("undo entry %d: %w", i, err)
		}
		entries = append(entries, domain.UndoEntry{
			At:                 at,
			Kind:               domain.UndoActionKind(entry.Kind),
			SetNumber:          entry.SetNumber,
			PriorCurrentSet:    fromSetScoreSchema(entry.PriorCurrentSet),
			PriorCompletedSets: fromSetScoreSchemas(entry.PriorCompletedSets),
		})
	}

	session := domain.LiveMatchSession{
		MatchID: domain.MatchID(doc.MatchID),
		Participants: domain.Participants{
			Format: domain.Format(doc.Participants.Format),
			SideA:  domain.ParticipantID(doc.Participants.SideA),
			SideB:  domain.ParticipantID(doc.Participants.SideB),
		},
		Rules: domain.MatchRules{
			TargetPoints: doc.Rules.TargetPoints,
			BestOfSets:   doc.Rules.BestOfSets,
			DeuceEnabled: doc.Rules.DeuceEnabled,
		},
		CurrentSet:    fromSetScoreSchema(doc.CurrentSet),
		CompletedSets: fromSetScoreSchemas(doc.CompletedSets),
		Ledger:        domain.NewUndoLedger(entries...),
		Clock:         clock,
		UpdatedAt:     updatedAt,
	}
	if err := validateSession(session); err != nil {
		return domain.LiveMatchSession{}, err
	}

	return session, nil
}

func validateSession(session domain.LiveMatchSession) error {
	if strings.TrimSpace(string(session.MatchID)) == "" {
		return errors.New("match_id is empty")
	}
	if err := session.Rules.Validate(); err != nil {
		return err
	}
	if err := session.Participants.Validate(); err != nil {
		return err
	}
	if session.Clock.StartedAt.IsZero() {
		return errors.New("clock started_at is empty")
	}
	// PausedAt is set exactly while the clock is paused.
	if session.Clock.Paused == session.Clock.PausedAt.IsZero() {
		return fmt.Errorf("clock paused=%t does not match paused_at %q", session.Clock.Paused, formatTime(session.Clock.PausedAt))
	}
	if session.Clock.AccumulatedPause < 0 {
		return errors.New("clock accumulated_pause is negative")
	}

	return nil
}

func fromClockSchema(doc clockSchema) (domain.MatchClock, error) {
	startedAt, err := parseTime(doc.StartedAt)
	if err != nil {
		return domain.MatchClock{}, fmt.Errorf("clock started_at: %w", err)
	}
	pausedAt, err := parseTime(doc.PausedAt)
	if err != nil {
		return domain.MatchClock{}, fmt.Errorf("clock paused_at: %w", err)
	}

	var accumulated time.Duration
	if doc.AccumulatedPause != "" {
		accumulated, err = time.ParseDuration(doc.AccumulatedPause)
		if err != nil {
			return domain.MatchClock{}, fmt.Errorf("clock accumulated_pause: %w", err)
		}
	}

	return domain.MatchClock{
		StartedAt:        startedAt,
		Paused:           doc.Paused,
		PausedAt:         pausedAt,
		AccumulatedPause: accumulated,
	}, nil
}

func toSetScoreSchema(score domain.SetScore) setScoreSchema {
	return setScoreSchema{SideA: score.SideA, SideB: score.SideB}
}

func fromSetScoreSchema(score setScoreSchema) domain.SetScore {
	return domain.SetScore{SideA: score.SideA, SideB: score.SideB}
}

func toSetScoreSchemas(scores []domain.SetScore) []setScoreSchema {
	if len(scores) == 0 {
		return nil
	}

	out := make([]setScoreSchema, 0, len(scores))
	for _, score := range scores {
		out = append(out, toSetScoreSchema(score))
	}
	return out
}

func fromSetScoreSchemas(scores []setScoreSchema) []domain.SetScore {
	if len(scores) == 0 {
		return nil
	}

	out := make([]domain.SetScore, 0, len(scores))
	for _, score := range scores {
		out = append(out, fromSetScoreSchema(score))
	}
	return out
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339Nano, raw)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
