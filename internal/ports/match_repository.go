package ports

import (
	"context"

	"github.com/bnema/rally-cli/internal/domain"
)

// MatchRepository keeps finalized match summaries.
type MatchRepository interface {
	GetByID(ctx context.Context, id domain.MatchID) (domain.MatchSummary, error)
	List(ctx context.Context) ([]domain.MatchSummary, error)
	Save(ctx context.Context, summary domain.MatchSummary) error
}
