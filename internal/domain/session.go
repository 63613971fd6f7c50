package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type SessionStatus string

const (
	StatusRunning   SessionStatus = "running"
	StatusPaused    SessionStatus = "paused"
	StatusCompleted SessionStatus = "completed"
)

// LiveMatchSession is the transient state of one in-progress match. It is a
// value: engine operations return a new session and never modify the input.
type LiveMatchSession struct {
	MatchID       MatchID
	Participants  Participants
	Rules         MatchRules
	CurrentSet    SetScore
	CompletedSets []SetScore
	Ledger        UndoLedger
	Clock         MatchClock
	UpdatedAt     time.Time
}

func NewSession(id MatchID, participants Participants, rules MatchRules, now time.Time) (LiveMatchSession, error) {
	if strings.TrimSpace(string(id)) == "" {
		return LiveMatchSession{}, fmt.Errorf("match id is required")
	}
	if err := rules.Validate(); err != nil {
		return LiveMatchSession{}, err
	}
	if err := participants.Validate(); err != nil {
		return LiveMatchSession{}, err
	}

	return LiveMatchSession{
		MatchID:      id,
		Participants: participants,
		Rules:        rules,
		Clock:        NewMatchClock(now),
		UpdatedAt:    now,
	}, nil
}

func (s LiveMatchSession) CurrentSetNumber() int {
	return len(s.CompletedSets) + 1
}

func (s LiveMatchSession) CanUndo() bool {
	return s.Ledger.CanUndo()
}

func (s LiveMatchSession) IsSetComplete() bool {
	_, ok := s.SetWinner()
	return ok
}

func (s LiveMatchSession) SetWinner() (Side, bool) {
	return s.CurrentSet.Winner(s.Rules)
}

// SetsWon counts completed sets won by each side.
func (s LiveMatchSession) SetsWon() (int, int) {
	return setsWon(s.CompletedSets)
}

func (s LiveMatchSession) MatchWinner() (Side, bool) {
	a, b := s.SetsWon()
	needed := s.Rules.SetsNeededToWin()
	switch {
	case a >= needed:
		return SideA, true
	case b >= needed:
		return SideB, true
	default:
		return "", false
	}
}

func (s LiveMatchSession) IsMatchComplete() bool {
	_, ok := s.MatchWinner()
	return ok
}

func (s LiveMatchSession) Status() SessionStatus {
	switch {
	case s.IsMatchComplete():
		return StatusCompleted
	case s.Clock.Paused:
		return StatusPaused
	default:
		return StatusRunning
	}
}

func (s LiveMatchSession) Elapsed(now time.Time) time.Duration {
	return s.Clock.Elapsed(now)
}

// clone detaches the slices so a mutation never leaks into the caller's copy.
func (s LiveMatchSession) clone() LiveMatchSession {
	s.CompletedSets = slices.Clone(s.CompletedSets)
	return s
}
