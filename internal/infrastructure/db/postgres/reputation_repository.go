package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

type ReputationRepository struct {
	db *sql.DB
}

func NewReputationRepository(db *sql.DB) *ReputationRepository {
	return &ReputationRepository{db: db}
}

// ApplyVote records one vote and adjusts the target's reputation atomically.
//
// The insert relies on the (voter_id, target_user_id) unique constraint: when
// two requests race, exactly one insert wins and the other falls through to
// the row lock, so the pair can never hold two rows and the delta is applied
// once per state change.
func (r *ReputationRepository) ApplyVote(ctx context.Context, voterID, targetID string, dir domain.VoteDirection) (*domain.VoteResult, domain.VoteTransition, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		result     domain.VoteResult
		transition domain.VoteTransition
	)
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO user_reputation_votes (voter_id, target_user_id, vote_type)
			VALUES ($1, $2, $3)
			ON CONFLICT (voter_id, target_user_id) DO NOTHING
			RETURNING id`, voterID, targetID, string(dir)).Scan(&id)

		switch {
		case err == nil:
			transition = domain.ResolveVote(nil, dir)
		case errors.Is(err, sql.ErrNoRows):
			if transition, err = r.resolveExisting(ctx, tx, voterID, targetID, dir); err != nil {
				return err
			}
		case isForeignKeyViolation(err):
			return domain.ErrUserNotFound
		case isCheckViolation(err):
			return domain.ErrSelfVote
		default:
			return translate(err, "insert vote", domain.ErrUserNotFound)
		}

		err = tx.QueryRowContext(ctx, `
			UPDATE users SET reputation = reputation + $2, updated_at = NOW()
			WHERE id = $1
			RETURNING reputation`, targetID, transition.Delta).Scan(&result.Reputation)
		if err != nil {
			return translate(err, "update reputation", domain.ErrUserNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, domain.VoteTransition{}, err
	}

	result.HasVoted = transition.Current != nil
	result.VoteType = transition.Current
	return &result, transition, nil
}

// resolveExisting locks the existing vote row and removes or flips it.
func (r *ReputationRepository) resolveExisting(ctx context.Context, tx *sql.Tx, voterID, targetID string, dir domain.VoteDirection) (domain.VoteTransition, error) {
	var stored string
	err := tx.QueryRowContext(ctx, `
		SELECT vote_type FROM user_reputation_votes
		WHERE voter_id = $1 AND target_user_id = $2
		FOR UPDATE`, voterID, targetID).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Removed by a concurrent toggle between our insert and the lock.
			return domain.VoteTransition{}, domain.ErrVoteRace
		}
		return domain.VoteTransition{}, fmt.Errorf("lock vote: %w", err)
	}

	existing := domain.VoteDirection(stored)
	transition := domain.ResolveVote(&existing, dir)

	switch transition.Op {
	case domain.VoteRemoved:
		_, err = tx.ExecContext(ctx, `
			DELETE FROM user_reputation_votes
			WHERE voter_id = $1 AND target_user_id = $2`, voterID, targetID)
	case domain.VoteSwitched:
		_, err = tx.ExecContext(ctx, `
			UPDATE user_reputation_votes SET vote_type = $3, updated_at = NOW()
			WHERE voter_id = $1 AND target_user_id = $2`, voterID, targetID, string(dir))
	}
	if err != nil {
		return domain.VoteTransition{}, fmt.Errorf("apply vote: %w", err)
	}
	return transition, nil
}

// Status returns the voter's current vote on target.
func (r *ReputationRepository) Status(ctx context.Context, voterID, targetID string) (*domain.VoteStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var stored string
	err := r.db.QueryRowContext(ctx, `
		SELECT vote_type FROM user_reputation_votes
		WHERE voter_id = $1 AND target_user_id = $2`, voterID, targetID).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == codeInvalidText {
			return &domain.VoteStatus{}, nil
		}
		return nil, fmt.Errorf("select vote: %w", err)
	}

	dir := domain.VoteDirection(stored)
	return &domain.VoteStatus{HasVoted: true, VoteType: &dir}, nil
}
