package ports

import (
	"context"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

// AuditRepository appends to the audit trail. Failures are never fatal to
// the operation being audited.
type AuditRepository interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditReader lists recorded audit events, newest first.
type AuditReader interface {
	Recent(ctx context.Context, targetID string, limit int64) ([]domain.AuditEvent, error)
}
