package domain

import (
	"fmt"
	"slices"
	"time"
)

// Scoring operations. Each one takes a session and returns the next session;
// on failure the input session is returned as is together with the error.
// Sets never advance implicitly: a won set waits for AdvanceSet.

func AddPoint(s LiveMatchSession, side Side, now time.Time) (LiveMatchSession, error) {
	if !side.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownSide, side)
	}
	if err := checkScorable(s); err != nil {
		return s, err
	}
	if s.IsSetComplete() {
		return s, ErrSetAwaitingAdvance
	}

	next := s.clone()
	next.Ledger = next.Ledger.Push(UndoEntry{
		At:              now,
		Kind:            UndoPointAdded,
		PriorCurrentSet: s.CurrentSet,
		SetNumber:       s.CurrentSetNumber(),
	})
	next.CurrentSet = s.CurrentSet.WithPoints(side, s.CurrentSet.Points(side)+1)
	next.UpdatedAt = now

	return next, nil
}

func RemovePoint(s LiveMatchSession, side Side, now time.Time) (LiveMatchSession, error) {
	if !side.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownSide, side)
	}
	if err := checkScorable(s); err != nil {
		return s, err
	}
	points := s.CurrentSet.Points(side)
	if points == 0 {
		return s, ErrNoPointsToRemove
	}

	next := s.clone()
	next.Ledger = next.Ledger.Push(UndoEntry{
		At:              now,
		Kind:            UndoPointRemoved,
		PriorCurrentSet: s.CurrentSet,
		SetNumber:       s.CurrentSetNumber(),
	})
	next.CurrentSet = s.CurrentSet.WithPoints(side, points-1)
	next.UpdatedAt = now

	return next, nil
}

// AdvanceSet confirms a won set: it moves the current set into the completed
// sets and starts a fresh one.
func AdvanceSet(s LiveMatchSession, now time.Time) (LiveMatchSession, error) {
	if err := checkScorable(s); err != nil {
		return s, err
	}
	if !s.IsSetComplete() {
		return s, ErrSetNotYetWon
	}

	next := s.clone()
	next.Ledger = next.Ledger.Push(UndoEntry{
		At:                 now,
		Kind:               UndoSetAdvanced,
		PriorCurrentSet:    s.CurrentSet,
		SetNumber:          s.CurrentSetNumber(),
		PriorCompletedSets: s.CompletedSets,
	})
	next.CompletedSets = append(next.CompletedSets, s.CurrentSet)
	next.CurrentSet = SetScore{}
	next.UpdatedAt = now

	return next, nil
}

// Undo reverts the most recent recorded action. It is accepted in every
// status, so a mistakenly confirmed final set can be reopened.
func Undo(s LiveMatchSession, now time.Time) (LiveMatchSession, error) {
	entry, ledger, err := s.Ledger.Pop()
	if err != nil {
		return s, err
	}

	next := s.clone()
	next.Ledger = ledger
	next.CurrentSet = entry.PriorCurrentSet
	if entry.Kind == UndoSetAdvanced {
		next.CompletedSets = slices.Clone(entry.PriorCompletedSets)
	}
	next.UpdatedAt = now

	return next, nil
}

func Pause(s LiveMatchSession, now time.Time) (LiveMatchSession, error) {
	if s.IsMatchComplete() {
		return s, ErrMatchAlreadyCompleted
	}
	if s.Clock.Paused {
		return s, nil
	}

	next := s.clone()
	next.Clock = s.Clock.Pause(now)
	next.UpdatedAt = now
	return next, nil
}

func Resume(s LiveMatchSession, now time.Time) (LiveMatchSession, error) {
	if s.IsMatchComplete() {
		return s, ErrMatchAlreadyCompleted
	}
	if !s.Clock.Paused {
		return s, nil
	}

	next := s.clone()
	next.Clock = s.Clock.Resume(now)
	next.UpdatedAt = now
	return next, nil
}

// Finalize summarizes the session. It is allowed in any status. An
// undetermined result is returned together with ErrUndeterminedResult so the
// caller can decide whether to keep it.
func Finalize(s LiveMatchSession, now time.Time) (MatchSummary, error) {
	summary := MatchSummary{
		MatchID:       s.MatchID,
		Participants:  s.Participants,
		Rules:         s.Rules,
		CompletedSets: slices.Clone(s.CompletedSets),
		Result:        resultFromSets(s.CompletedSets),
		Duration:      s.Elapsed(now),
		FinalizedAt:   now,
	}

	if summary.Result == ResultUndetermined {
		return summary, ErrUndeterminedResult
	}
	return summary, nil
}

func checkScorable(s LiveMatchSession) error {
	if s.IsMatchComplete() {
		return ErrMatchAlreadyCompleted
	}
	if s.Clock.Paused {
		return ErrMatchPaused
	}
	return nil
}
