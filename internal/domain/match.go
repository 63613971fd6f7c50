package domain

import (
	"fmt"
	"strings"
	"time"
)

type MatchID string
type ParticipantID string
type Format string

const (
	FormatSingles Format = "singles"
	FormatDoubles Format = "doubles"
)

type MatchRules struct {
	TargetPoints int
	BestOfSets   int
	DeuceEnabled bool
}

func (r MatchRules) Validate() error {
	if r.TargetPoints < 1 {
		return fmt.Errorf("%w: target points must be at least 1, got %d", ErrInvalidRules, r.TargetPoints)
	}
	if r.BestOfSets < 1 || r.BestOfSets%2 == 0 {
		return fmt.Errorf("%w: best of sets must be a positive odd number, got %d", ErrInvalidRules, r.BestOfSets)
	}

	return nil
}

func (r MatchRules) SetsNeededToWin() int {
	return (r.BestOfSets + 1) / 2
}

// Participants identifies who plays on each side. Singles sides are player
// ids, doubles sides are team ids.
type Participants struct {
	Format Format
	SideA  ParticipantID
	SideB  ParticipantID
}

func Singles(playerA, playerB ParticipantID) Participants {
	return Participants{Format: FormatSingles, SideA: playerA, SideB: playerB}
}

func Doubles(teamA, teamB ParticipantID) Participants {
	return Participants{Format: FormatDoubles, SideA: teamA, SideB: teamB}
}

func (p Participants) Validate() error {
	switch p.Format {
	case FormatSingles, FormatDoubles:
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidParticipants, p.Format)
	}
	a := strings.TrimSpace(string(p.SideA))
	b := strings.TrimSpace(string(p.SideB))
	if a == "" || b == "" {
		return fmt.Errorf("%w: both sides are required", ErrInvalidParticipants)
	}
	if a == b {
		return fmt.Errorf("%w: side a and side b must differ", ErrInvalidParticipants)
	}

	return nil
}

func (p Participants) Name(side Side) string {
	if side == SideB {
		return string(p.SideB)
	}
	return string(p.SideA)
}

type MatchResult string

const (
	ResultSideAWins    MatchResult = "side_a_wins"
	ResultSideBWins    MatchResult = "side_b_wins"
	ResultUndetermined MatchResult = "undetermined"
)

// MatchSummary is what remains of a match once its live session is finalized.
type MatchSummary struct {
	MatchID       MatchID
	Participants  Participants
	Rules         MatchRules
	CompletedSets []SetScore
	Result        MatchResult
	Duration      time.Duration
	FinalizedAt   time.Time
}

func resultFromSets(sets []SetScore) MatchResult {
	a, b := setsWon(sets)
	switch {
	case a > b:
		return ResultSideAWins
	case b > a:
		return ResultSideBWins
	default:
		return ResultUndetermined
	}
}

func setsWon(sets []SetScore) (int, int) {
	var a, b int
	for _, set := range sets {
		leader, ok := set.Leader()
		if !ok {
			continue
		}
		if leader == SideA {
			a++
		} else {
			b++
		}
	}
	return a, b
}
