package domain

import "time"

// AuditAction names a privileged mutation recorded in the audit trail.
type AuditAction string

const (
	AuditRoleAssigned     AuditAction = "role_assigned"
	AuditCreatorDemoted   AuditAction = "creator_demoted"
	AuditReconciled       AuditAction = "roles_reconciled"
	AuditAccountDeleted   AuditAction = "account_deleted"
	AuditReputationSet    AuditAction = "reputation_set"
	AuditVoteCast         AuditAction = "vote_cast"
	AuditContentDeleted   AuditAction = "content_deleted"
	AuditCommentModerated AuditAction = "comment_moderated"
)

// AuditEvent records who changed what.
type AuditEvent struct {
	Action   AuditAction
	ActorID  string
	TargetID string
	Details  map[string]any
	At       time.Time
}
