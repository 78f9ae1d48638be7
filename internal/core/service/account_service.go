package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/policy"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

// AdminListLimit caps the admin user listing.
const AdminListLimit = 200

type accountService struct {
	accounts ports.AccountRepository
	policy   *policy.Policy
	images   *Images
	audit    ports.AuditRepository
	log      zerolog.Logger
}

// NewAccountService returns an AccountService implementation.
func NewAccountService(
	accounts ports.AccountRepository,
	p *policy.Policy,
	images *Images,
	auditRepo ports.AuditRepository,
	log zerolog.Logger,
) ports.AccountService {
	return &accountService{accounts: accounts, policy: p, images: images, audit: auditRepo, log: log}
}

func (s *accountService) Profile(ctx context.Context, actor *domain.Actor) (*domain.Account, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.accounts.FindByID(ctx, actor.ID)
}

func (s *accountService) PublicProfile(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	public := account.Public()
	return &public, nil
}

// SetAvatar stores the new image, then deletes the previous one once the
// account row points at the new file.
func (s *accountService) SetAvatar(ctx context.Context, actor *domain.Actor, img ports.ImageInput) (*domain.Account, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	upload, err := s.images.Save(ctx, img)
	if err != nil {
		return nil, err
	}

	account, previous, err := s.accounts.SetAvatar(ctx, actor.ID, &upload.URL)
	if err != nil {
		s.images.Discard(ctx, &upload.URL)
		return nil, err
	}
	s.images.Discard(ctx, previous)
	return account, nil
}

func (s *accountService) DeleteAvatar(ctx context.Context, actor *domain.Actor) (*domain.Account, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	account, previous, err := s.accounts.SetAvatar(ctx, actor.ID, nil)
	if err != nil {
		return nil, err
	}
	s.images.Discard(ctx, previous)
	return account, nil
}

// List is reachable only through the creator-gated admin routes.
func (s *accountService) List(ctx context.Context, actor *domain.Actor, search string) ([]domain.Account, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.accounts.List(ctx, strings.TrimSpace(search), AdminListLimit)
}

func (s *accountService) SetReputation(ctx context.Context, actor *domain.Actor, targetID string, value int) (*domain.Account, error) {
	if err := authorize(s.policy, actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindReputation, TargetID: targetID}); err != nil {
		return nil, err
	}

	account, err := s.accounts.SetReputation(ctx, targetID, value)
	if err != nil {
		return nil, err
	}

	audit(ctx, s.audit, s.log, domain.AuditEvent{
		Action:   domain.AuditReputationSet,
		ActorID:  actor.ID,
		TargetID: targetID,
		Details:  map[string]any{"reputation": value},
	})
	return account, nil
}

func (s *accountService) Delete(ctx context.Context, actor *domain.Actor, targetID string) error {
	if actor == nil {
		return authorize(s.policy, nil, policy.ActionDelete, policy.Resource{Kind: policy.KindAccount})
	}

	target, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := authorize(s.policy, actor, policy.ActionDelete, policy.Resource{
		Kind:           policy.KindAccount,
		TargetID:       target.ID,
		TargetUsername: target.Username,
	}); err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, target.ID); err != nil {
		return err
	}
	s.images.Discard(ctx, target.Avatar)

	audit(ctx, s.audit, s.log, domain.AuditEvent{
		Action:   domain.AuditAccountDeleted,
		ActorID:  actor.ID,
		TargetID: target.ID,
		Details:  map[string]any{"username": target.Username, "role": string(target.Role)},
	})
	s.log.Info().Str("actor", actor.ID).Str("target", target.ID).Msg("account deleted")
	return nil
}
