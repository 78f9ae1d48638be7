package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/policy"
	"github.com/coffeeshop/site-api/internal/core/ports"
	"github.com/coffeeshop/site-api/internal/pkg/metrics"
)

type roleService struct {
	accounts ports.AccountRepository
	policy   *policy.Policy
	audit    ports.AuditRepository
	log      zerolog.Logger
}

// NewRoleService returns the single entry point for role changes. Every
// assignment of creator demotes the previous holder in the same transaction.
func NewRoleService(
	accounts ports.AccountRepository,
	p *policy.Policy,
	auditRepo ports.AuditRepository,
	log zerolog.Logger,
) ports.RoleService {
	return &roleService{accounts: accounts, policy: p, audit: auditRepo, log: log}
}

func (s *roleService) AssignRole(ctx context.Context, actor *domain.Actor, targetID string, role domain.Role) (*domain.Account, error) {
	if actor == nil {
		return nil, authorize(s.policy, nil, policy.ActionAssignRole, policy.Resource{Kind: policy.KindAccount})
	}
	if !role.Assignable() {
		return nil, domain.Invalid("role must be one of guest, worker, manager, creator")
	}

	target, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := authorize(s.policy, actor, policy.ActionAssignRole, policy.Resource{
		Kind:           policy.KindAccount,
		TargetID:       target.ID,
		TargetUsername: target.Username,
		RequestedRole:  role,
	}); err != nil {
		return nil, err
	}

	return s.apply(ctx, actor.ID, target, role)
}

func (s *roleService) PromoteBootstrap(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if account.Role == domain.RoleCreator || !s.policy.IsBootstrap(account.Username) {
		return account, nil
	}
	return s.apply(ctx, "", account, domain.RoleCreator)
}

// Reconcile runs once at startup. It is idempotent: the bootstrap account ends
// up as the only creator, or no account holds creator when it is not registered.
func (s *roleService) Reconcile(ctx context.Context) error {
	bootstrap := s.policy.Bootstrap()
	if bootstrap == "" {
		s.log.Warn().Msg("no bootstrap creator configured, skipping role reconciliation")
		return nil
	}

	account, err := s.accounts.FindByUsername(ctx, bootstrap)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		demoted, err := s.accounts.DemoteCreators(ctx, "")
		if err != nil {
			return err
		}
		s.demoted(ctx, "", demoted)
		s.log.Info().Str("bootstrap", bootstrap).Int("demoted", len(demoted)).Msg("bootstrap creator not registered yet")
		return nil
	case err != nil:
		return err
	}

	if account.Role != domain.RoleCreator {
		if _, err := s.apply(ctx, "", account, domain.RoleCreator); err != nil {
			return err
		}
	} else {
		demoted, err := s.accounts.DemoteCreators(ctx, account.ID)
		if err != nil {
			return err
		}
		s.demoted(ctx, "", demoted)
	}

	audit(ctx, s.audit, s.log, domain.AuditEvent{Action: domain.AuditReconciled, TargetID: account.ID})
	s.log.Info().Str("bootstrap", bootstrap).Str("user_id", account.ID).Msg("creator role reconciled")
	return nil
}

func (s *roleService) apply(ctx context.Context, actorID string, target *domain.Account, role domain.Role) (*domain.Account, error) {
	updated, demoted, err := s.accounts.UpdateRole(ctx, target.ID, role)
	if err != nil {
		return nil, err
	}

	metrics.RoleAssignmentsTotal.WithLabelValues(string(role)).Inc()
	s.demoted(ctx, actorID, demoted)
	audit(ctx, s.audit, s.log, domain.AuditEvent{
		Action:   domain.AuditRoleAssigned,
		ActorID:  actorID,
		TargetID: target.ID,
		Details:  map[string]any{"from": string(target.Role), "to": string(role)},
	})

	s.log.Info().
		Str("target", target.ID).
		Str("from", string(target.Role)).
		Str("to", string(role)).
		Int("demoted", len(demoted)).
		Msg("role assigned")
	return updated, nil
}

func (s *roleService) demoted(ctx context.Context, actorID string, ids []string) {
	for _, id := range ids {
		metrics.CreatorDemotionsTotal.Inc()
		audit(ctx, s.audit, s.log, domain.AuditEvent{
			Action:   domain.AuditCreatorDemoted,
			ActorID:  actorID,
			TargetID: id,
			Details:  map[string]any{"to": string(domain.RoleManager)},
		})
	}
}
