package application

import (
	"time"

	"github.com/bnema/rally-cli/internal/domain"
)

type MatchStatus struct {
	MatchID       domain.MatchID
	Participants  domain.Participants
	Rules         domain.MatchRules
	Status        domain.SessionStatus
	SetNumber     int
	CurrentSet    domain.SetScore
	CompletedSets []domain.SetScore
	SetsWonA      int
	SetsWonB      int
	SetComplete   bool
	SetWinner     domain.Side `json:",omitempty"`
	MatchWinner   domain.Side `json:",omitempty"`
	CanUndo       bool
	UndoDepth     int
	Elapsed       time.Duration
	UpdatedAt     time.Time
}

func statusFromSession(session domain.LiveMatchSession, now time.Time) MatchStatus {
	setsA, setsB := session.SetsWon()
	setWinner, _ := session.SetWinner()
	matchWinner, _ := session.MatchWinner()

	completed := make([]domain.SetScore, len(session.CompletedSets))
	copy(completed, session.CompletedSets)

	return MatchStatus{
		MatchID:       session.MatchID,
		Participants:  session.Participants,
		Rules:         session.Rules,
		Status:        session.Status(),
		SetNumber:     session.CurrentSetNumber(),
		CurrentSet:    session.CurrentSet,
		CompletedSets: completed,
		SetsWonA:      setsA,
		SetsWonB:      setsB,
		SetComplete:   session.IsSetComplete(),
		SetWinner:     setWinner,
		MatchWinner:   matchWinner,
		CanUndo:       session.CanUndo(),
		UndoDepth:     session.Ledger.Len(),
		Elapsed:       session.Elapsed(now),
		UpdatedAt:     session.UpdatedAt,
	}
}
