package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/policy"
	"github.com/coffeeshop/site-api/internal/core/ports"
	"github.com/coffeeshop/site-api/internal/pkg/metrics"
)

// authorize consults the policy and counts denials.
func authorize(p *policy.Policy, actor *domain.Actor, action policy.Action, res policy.Resource) error {
	d := p.Decide(actor, action, res)
	if !d.Allowed {
		metrics.PolicyDenialsTotal.WithLabelValues(string(res.Kind), string(action)).Inc()
	}
	return d.Err()
}

// audit writes to the audit trail when one is configured (non-fatal on failure).
func audit(ctx context.Context, repo ports.AuditRepository, log zerolog.Logger, ev domain.AuditEvent) {
	if repo == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := repo.Record(ctx, ev); err != nil {
		log.Warn().Err(err).Str("action", string(ev.Action)).Str("target", ev.TargetID).Msg("failed to record audit event")
	}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
