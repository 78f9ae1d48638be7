// Package policy decides whether an actor may perform an action on a resource.
//
// Decide is a pure function of its inputs: it never reads the store. Callers
// load the live actor and the resource owner first and act on the result.
package policy

import (
	"github.com/coffeeshop/site-api/internal/core/domain"
)

// Action is a mutating operation.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionAssignRole Action = "assign-role"
	ActionVote       Action = "vote"
)

// Kind is the resource class an action targets.
type Kind string

const (
	KindNews       Kind = "news"
	KindPost       Kind = "post"
	KindDrink      Kind = "drink"
	KindShift      Kind = "shift"
	KindComment    Kind = "comment"
	KindReview     Kind = "review"
	KindLike       Kind = "like"
	KindAccount    Kind = "account"
	KindReputation Kind = "reputation"
)

// Resource describes the target of an action.
type Resource struct {
	Kind Kind
	// OwnerID is the account that wrote the content, nil for legacy rows.
	OwnerID *string
	// OwnerName is the display name stored with the content. It is only
	// consulted for legacy rows.
	OwnerName string
	// LegacyOwner is set on rows that predate owner ids. Content orphaned by
	// an account deletion is not legacy and has no owner.
	LegacyOwner bool
	// TargetID and TargetUsername identify the account for account actions.
	TargetID       string
	TargetUsername string
	// RequestedRole is the role being assigned for ActionAssignRole.
	RequestedRole domain.Role
}

// Decision is the outcome of Decide.
type Decision struct {
	Allowed bool
	Reason  string

	anonymous bool
}

// Err returns nil for an allow, ErrUnauthenticated for an anonymous caller
// and a forbidden error carrying the reason otherwise.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.anonymous:
		return &domain.Error{Kind: domain.ErrUnauthenticated, Msg: d.Reason}
	default:
		return domain.Denied(d.Reason)
	}
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Policy holds the rules that depend on deployment settings.
type Policy struct {
	bootstrap string
}

// New returns a Policy for the given bootstrap creator username.
func New(bootstrapUsername string) *Policy {
	return &Policy{bootstrap: bootstrapUsername}
}

// Bootstrap returns the username that is bound to the creator role.
func (p *Policy) Bootstrap() string { return p.bootstrap }

// IsBootstrap reports whether username is the bootstrap identity.
func (p *Policy) IsBootstrap(username string) bool {
	return p.bootstrap != "" && username == p.bootstrap
}

// Authorize is shorthand for Decide(...).Err().
func (p *Policy) Authorize(actor *domain.Actor, action Action, res Resource) error {
	return p.Decide(actor, action, res).Err()
}

// Decide evaluates the rules in order: anonymous, ownership, moderation,
// resource class gates, creator binding, default deny.
func (p *Policy) Decide(actor *domain.Actor, action Action, res Resource) Decision {
	if actor == nil || actor.ID == "" {
		return Decision{Reason: "authentication required", anonymous: true}
	}

	authored := res.Kind == KindComment || res.Kind == KindReview
	if authored && (action == ActionUpdate || action == ActionDelete) && Owns(actor, res) {
		return allow()
	}

	if authored && action == ActionDelete && actor.Role.IsPrivileged() {
		return allow()
	}

	switch res.Kind {
	case KindNews, KindPost, KindDrink:
		if isCRUD(action) {
			if actor.Role == domain.RoleCreator {
				return allow()
			}
			return deny("only the creator may manage " + string(res.Kind) + " entries")
		}

	case KindShift:
		if isCRUD(action) {
			if actor.Role.IsStaff() {
				return allow()
			}
			return deny("only staff may manage shifts")
		}

	case KindComment, KindReview, KindLike:
		if action == ActionCreate {
			return allow()
		}
		if authored {
			return deny("you can only modify your own " + string(res.Kind))
		}

	case KindReputation:
		switch action {
		case ActionVote:
			return allow()
		case ActionUpdate, ActionDelete:
			if actor.Role == domain.RoleCreator {
				return allow()
			}
			return deny("only the creator may edit reputation")
		}

	case KindAccount:
		switch action {
		case ActionDelete:
			return p.decideAccountDelete(actor, res)
		case ActionAssignRole:
			return p.decideAssignRole(actor, res)
		}
	}

	return deny("action not permitted")
}

func (p *Policy) decideAccountDelete(actor *domain.Actor, res Resource) Decision {
	if actor.Role != domain.RoleCreator {
		return deny("only the creator may delete accounts")
	}
	if res.TargetID == actor.ID {
		return deny("you cannot delete your own account")
	}
	if p.IsBootstrap(res.TargetUsername) {
		return deny("the site creator account cannot be deleted")
	}
	return allow()
}

func (p *Policy) decideAssignRole(actor *domain.Actor, res Resource) Decision {
	if actor.Role != domain.RoleCreator {
		return deny("only the creator may assign roles")
	}
	if res.RequestedRole == domain.RoleCreator && !p.IsBootstrap(res.TargetUsername) {
		return deny("the creator role is reserved for " + p.bootstrap)
	}
	return allow()
}

// Owns matches by id when the content has an owner id, and by stored display
// name only for rows flagged as legacy.
func Owns(actor *domain.Actor, res Resource) bool {
	if res.OwnerID != nil {
		return *res.OwnerID == actor.ID
	}
	return res.LegacyOwner && res.OwnerName != "" && res.OwnerName == actor.Username
}

func isCRUD(a Action) bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}
