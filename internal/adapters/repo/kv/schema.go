package kv

import "fmt"

const currentSchemaVersion = 1

type sessionSchema struct {
	Version       int                `toml:"version"`
	MatchID       string             `toml:"match_id"`
	UpdatedAt     string             `toml:"updated_at"`
	Participants  participantsSchema `toml:"participants"`
	Rules         rulesSchema        `toml:"rules"`
	CurrentSet    setScoreSchema     `toml:"current_set"`
	CompletedSets []setScoreSchema   `toml:"completed_sets,omitempty"`
	Clock         clockSchema        `toml:"clock"`
	Undo          []undoEntrySchema  `toml:"undo,omitempty"`
}

func (s *sessionSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s sessionSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type participantsSchema struct {
	Format string `toml:"format"`
	SideA  string `toml:"side_a"`
	SideB  string `toml:"side_b"`
}

type rulesSchema struct {
	TargetPoints int  `toml:"target_points"`
	BestOfSets   int  `toml:"best_of_sets"`
	DeuceEnabled bool `toml:"deuce"`
}

type setScoreSchema struct {
	SideA int `toml:"side_a"`
	SideB int `toml:"side_b"`
}

type clockSchema struct {
	StartedAt        string `toml:"started_at"`
	Paused           bool   `toml:"paused"`
	PausedAt         string `toml:"paused_at,omitempty"`
	AccumulatedPause string `toml:"accumulated_pause"`
}

type undoEntrySchema struct {
	At                 string           `toml:"at"`
	Kind               string           `toml:"kind"`
	SetNumber          int              `toml:"set_number"`
	PriorCurrentSet    setScoreSchema   `toml:"prior_current_set"`
	PriorCompletedSets []setScoreSchema `toml:"prior_completed_sets,omitempty"`
}
