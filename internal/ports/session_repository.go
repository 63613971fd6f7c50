package ports

import (
	"context"

	"github.com/bnema/rally-cli/internal/domain"
)

type SessionRepository interface {
	GetByID(ctx context.Context, id domain.MatchID) (domain.LiveMatchSession, error)
	List(ctx context.Context) ([]domain.LiveMatchSession, error)
	// ListIDs returns the ids of stored sessions without decoding them.
	ListIDs(ctx context.Context) ([]domain.MatchID, error)
	Save(ctx context.Context, session domain.LiveMatchSession) error
	Delete(ctx context.Context, id domain.MatchID) error
}
