package ports

import (
	"context"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

// ReputationRepository stores reputation votes and the running score.
type ReputationRepository interface {
	// ApplyVote resolves and applies one vote in a single transaction. The
	// (voter, target) uniqueness constraint arbitrates concurrent calls.
	ApplyVote(ctx context.Context, voterID, targetID string, dir domain.VoteDirection) (*domain.VoteResult, domain.VoteTransition, error)
	Status(ctx context.Context, voterID, targetID string) (*domain.VoteStatus, error)
}
