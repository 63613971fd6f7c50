package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Matches []matchSchema `toml:"matches"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported history schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type matchSchema struct {
	ID           string             `toml:"id"`
	Result       string             `toml:"result"`
	Duration     string             `toml:"duration"`
	FinalizedAt  string             `toml:"finalized_at"`
	Participants participantsSchema `toml:"participants"`
	Rules        rulesSchema        `toml:"rules"`
	Sets         []setSchema        `toml:"sets,omitempty"`
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

type setSchema struct {
	SideA int `toml:"side_a"`
	SideB int `toml:"side_b"`
}
