// Package toml keeps finalized match summaries in a single history.toml file.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/rally-cli/internal/domain"
	"github.com/bnema/rally-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	historyPathKey    = "history.path"
	historyFileMode   = 0o600
	historyDirMode    = 0o700
	historyConfigDir  = ".rally"
	historyConfigFile = "history.toml"
	tempFilePattern   = ".history-*.toml.tmp"
)

type Repository struct {
	historyPath string
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.MatchRepository = (*Repository)(nil)

// NewRepository resolves the history file from cfg's "history.path", falling
// back to ~/.rally/history.toml.
func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	historyPath := cfg.GetString(historyPathKey)
	if historyPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		historyPath = filepath.Join(homeDir, historyConfigDir, historyConfigFile)
	}

	historyPath, err := normalizeHistoryPath(historyPath)
	if err != nil {
		return nil, err
	}

	return &Repository{historyPath: historyPath, mu: lockForPath(historyPath)}, nil
}

func (r *Repository) Path() string {
	return r.historyPath
}

// Save records summary, replacing an earlier summary with the same match id.
func (r *Repository) Save(ctx context.Context, summary domain.MatchSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(summary)
	updated := false
	for i := range file.Matches {
		if file.Matches[i].ID == encoded.ID {
			file.Matches[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Matches = append(file.Matches, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByID(ctx context.Context, id domain.MatchID) (domain.MatchSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.MatchSummary{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.MatchSummary{}, err
	}

	for _, entry := range file.Matches {
		if entry.ID == string(id) {
			return fromSchema(entry)
		}
	}

	return domain.MatchSummary{}, fmt.Errorf("match %s: %w", id, domain.ErrMatchNotFound)
}

// List returns summaries in the order they were first recorded.
func (r *Repository) List(ctx context.Context) ([]domain.MatchSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.MatchSummary, 0, len(file.Matches))
	for _, entry := range file.Matches {
		summary, err := fromSchema(entry)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.historyPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read history file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode history file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeHistoryPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve history path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

// lockForPath shares one lock between repositories opened on the same file.
func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.historyPath), historyDirMode); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode history file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.historyPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp history file: %w", err)
	}

	if err := tempFile.Chmod(historyFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp history file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}

	if err := os.Rename(tempName, r.historyPath); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}

	cleanup = false
	return nil
}

func toSchema(summary domain.MatchSummary) matchSchema {
	var sets []setSchema
	for _, set := range summary.CompletedSets {
		sets = append(sets, setSchema{SideA: set.SideA, SideB: set.SideB})
	}

	return matchSchema{
		ID:          string(summary.MatchID),
		Result:      string(summary.Result),
		Duration:    summary.Duration.String(),
		FinalizedAt: formatTime(summary.FinalizedAt),
		Participants: participantsSchema{
			Format: string(summary.Participants.Format),
			SideA:  string(summary.Participants.SideA),
			SideB:  string(summary.Participants.SideB),
		},
		Rules: rulesSchema{
			TargetPoints: summary.Rules.TargetPoints,
			BestOfSets:   summary.Rules.BestOfSets,
			DeuceEnabled: summary.Rules.DeuceEnabled,
		},
		Sets: sets,
	}
}

func fromSchema(entry matchSchema) (domain.MatchSummary, error) {
	finalizedAt, err := parseTime(entry.FinalizedAt)
	if err != nil {
		return domain.MatchSummary{}, fmt.Errorf("match %s finalized_at: %w", entry.ID, err)
	}

	var duration time.Duration
	if entry.Duration != "" {
		duration, err = time.ParseDuration(entry.Duration)
		if err != nil {
			return domain.MatchSummary{}, fmt.Errorf("match %s duration: %w", entry.ID, err)
		}
	}

	var sets []domain.SetScore
	for _, set := range entry.Sets {
		sets = append(sets, domain.SetScore{SideA: set.SideA, SideB: set.SideB})
	}

	result := domain.MatchResult(entry.Result)
	if result == "" {
		result = domain.ResultUndetermined
	}

	return domain.MatchSummary{
		MatchID: domain.MatchID(entry.ID),
		Participants: domain.Participants{
			Format: domain.Format(entry.Participants.Format),
			SideA:  domain.ParticipantID(entry.Participants.SideA),
			SideB:  domain.ParticipantID(entry.Participants.SideB),
		},
		Rules: domain.MatchRules{
			TargetPoints: entry.Rules.TargetPoints,
			BestOfSets:   entry.Rules.BestOfSets,
			DeuceEnabled: entry.Rules.DeuceEnabled,
		},
		CompletedSets: sets,
		Result:        result,
		Duration:      duration,
		FinalizedAt:   finalizedAt,
	}, nil
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
