package ports

import (
	"context"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

// AccountRepository persists accounts.
type AccountRepository interface {
	// Create inserts the account. A taken username or email yields domain.ErrUserExists.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// FindByLogin matches either the username or the email.
	FindByLogin(ctx context.Context, login string) (*domain.Account, error)
	// List returns at most limit accounts, newest first, filtered by a
	// case-insensitive username substring when search is non-empty.
	List(ctx context.Context, search string, limit int) ([]domain.Account, error)
	Employees(ctx context.Context) ([]domain.Employee, error)

	// UpdateRole sets the role in one transaction. Assigning creator first
	// demotes every other creator to manager; their ids are returned.
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Account, []string, error)
	// DemoteCreators demotes every creator except keepID to manager.
	DemoteCreators(ctx context.Context, keepID string) ([]string, error)
	SetReputation(ctx context.Context, id string, value int) (*domain.Account, error)
	// SetAvatar replaces the avatar and returns the previous reference.
	SetAvatar(ctx context.Context, id string, avatar *string) (*domain.Account, *string, error)
	Delete(ctx context.Context, id string) error
}
