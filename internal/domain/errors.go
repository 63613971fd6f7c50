package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("live session not found")
	ErrMatchNotFound   = errors.New("match not found")

	ErrInvalidRules        = errors.New("invalid match rules")
	ErrInvalidParticipants = errors.New("invalid participants")
	ErrUnknownSide         = errors.New("unknown side")

	ErrMatchAlreadyCompleted = errors.New("match already completed")
	ErrMatchPaused           = errors.New("match is paused")
	ErrNoPointsToRemove      = errors.New("no points to remove")
	ErrSetNotYetWon          = errors.New("set not yet won")
	ErrSetAwaitingAdvance    = errors.New("set won, advance to the next set first")
	ErrNothingToUndo         = errors.New("nothing to undo")
	ErrUndeterminedResult    = errors.New("match result undetermined")
)
