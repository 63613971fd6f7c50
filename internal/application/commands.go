package application

import (
	"fmt"
	"strings"

	"github.com/bnema/rally-cli/internal/domain"
)

type Action string

const (
	ActionAddPoint    Action = "add_point"
	ActionRemovePoint Action = "remove_point"
	ActionAdvanceSet  Action = "advance_set"
	ActionUndo        Action = "undo"
	ActionPause       Action = "pause"
	ActionResume      Action = "resume"
)

func (a Action) Valid() bool {
	switch a {
	case ActionAddPoint, ActionRemovePoint, ActionAdvanceSet, ActionUndo, ActionPause, ActionResume:
		return true
	default:
		return false
	}
}

// NeedsSide reports whether the action targets one side of the court.
func (a Action) NeedsSide() bool {
	return a == ActionAddPoint || a == ActionRemovePoint
}

func ParseAction(raw string) (Action, error) {
	action := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	if !action.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAction, raw)
	}
	return action, nil
}

type StartMatchCommand struct {
	Participants domain.Participants
	Rules        domain.MatchRules
}

type ScoreCommand struct {
	MatchID domain.MatchID
	Action  Action
	Side    domain.Side
}

type FinalizeCommand struct {
	MatchID domain.MatchID
	// AllowUndetermined stores a summary even when neither side leads on sets.
	AllowUndetermined bool
}
