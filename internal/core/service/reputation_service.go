package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/policy"
	"github.com/coffeeshop/site-api/internal/core/ports"
	"github.com/coffeeshop/site-api/internal/pkg/metrics"
)

type reputationService struct {
	repo   ports.ReputationRepository
	policy *policy.Policy
	audit  ports.AuditRepository
	log    zerolog.Logger
}

// NewReputationService returns a ReputationService implementation.
func NewReputationService(
	repo ports.ReputationRepository,
	p *policy.Policy,
	auditRepo ports.AuditRepository,
	log zerolog.Logger,
) ports.ReputationService {
	return &reputationService{repo: repo, policy: p, audit: auditRepo, log: log}
}

// Vote applies the toggle/switch rule for actor's vote on targetID.
func (s *reputationService) Vote(ctx context.Context, actor *domain.Actor, targetID string, dir domain.VoteDirection) (*domain.VoteResult, error) {
	if err := authorize(s.policy, actor, policy.ActionVote, policy.Resource{Kind: policy.KindReputation, TargetID: targetID}); err != nil {
		return nil, err
	}
	if !dir.Valid() {
		return nil, domain.Invalid("vote type must be up or down")
	}
	targetID, err := canonicalID(targetID)
	if err != nil {
		return nil, err
	}
	if actor.ID == targetID {
		return nil, domain.ErrSelfVote
	}

	result, tr, err := s.repo.ApplyVote(ctx, actor.ID, targetID, dir)
	if err != nil {
		return nil, err
	}

	metrics.VotesTotal.WithLabelValues(string(dir), string(tr.Op)).Inc()
	audit(ctx, s.audit, s.log, domain.AuditEvent{
		Action:   domain.AuditVoteCast,
		ActorID:  actor.ID,
		TargetID: targetID,
		Details:  map[string]any{"direction": string(dir), "op": string(tr.Op), "delta": tr.Delta},
	})

	s.log.Debug().
		Str("voter", actor.ID).
		Str("target", targetID).
		Str("op", string(tr.Op)).
		Int("reputation", result.Reputation).
		Msg("vote applied")
	return result, nil
}

func (s *reputationService) Status(ctx context.Context, actor *domain.Actor, targetID string) (*domain.VoteStatus, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	targetID, err := canonicalID(targetID)
	if err != nil {
		return nil, err
	}
	return s.repo.Status(ctx, actor.ID, targetID)
}

// canonicalID normalises an account id to the lowercase hyphenated form the
// store returns. Anything that is not a UUID names no account.
func canonicalID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", domain.ErrUserNotFound
	}
	return parsed.String(), nil
}
