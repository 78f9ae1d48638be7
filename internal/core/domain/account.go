package domain

import "time"

// Role is the access level stored on an Account.
type Role string

const (
	RoleGuest   Role = "guest"
	RoleUser    Role = "user"
	RoleWorker  Role = "worker"
	RoleManager Role = "manager"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

var knownRoles = map[Role]struct{}{
	RoleGuest: {}, RoleUser: {}, RoleWorker: {}, RoleManager: {}, RoleCreator: {}, RoleAdmin: {},
}

// ParseRole returns the Role for s and whether it is a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := knownRoles[r]
	return r, ok
}

// IsPrivileged reports whether the role may moderate any comment or review.
func (r Role) IsPrivileged() bool {
	switch r {
	case RoleWorker, RoleManager, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role appears on the work schedule.
func (r Role) IsStaff() bool {
	switch r {
	case RoleWorker, RoleManager, RoleCreator:
		return true
	}
	return false
}

// Assignable reports whether a creator may hand out this role through the admin API.
func (r Role) Assignable() bool {
	switch r {
	case RoleGuest, RoleWorker, RoleManager, RoleCreator:
		return true
	}
	return false
}

// Account is a registered user.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Reputation   int       `json:"reputation"`
	Avatar       *string   `json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor returns the identity used for authorization decisions.
func (a *Account) Actor() *Actor {
	return &Actor{ID: a.ID, Username: a.Username, Role: a.Role}
}

// Public strips fields that only the owner may see.
func (a Account) Public() Account {
	a.Email = ""
	return a
}

// Actor is the authenticated caller of an operation. A nil *Actor is anonymous.
type Actor struct {
	ID       string
	Username string
	Role     Role
}

// Employee is a staff member listed on the schedule.
type Employee struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Role     Role    `json:"role"`
	Avatar   *string `json:"avatar"`
}
