package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

const accountColumns = `id, username, email, password, role, reputation, avatar, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(r rowScanner) (*domain.Account, error) {
	var (
		a      domain.Account
		role   string
		avatar sql.NullString
	)
	if err := r.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role, &a.Reputation, &avatar, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	a.Avatar = nullString(avatar)
	return &a, nil
}

// Create inserts a new account. A taken username or email yields domain.ErrUserExists.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, email, password, role, reputation, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+accountColumns,
		a.ID, a.Username, a.Email, a.PasswordHash, string(a.Role), a.Reputation, a.Avatar)

	created, err := scanAccount(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE username = $1`, username)
}

// FindByLogin matches the username exactly or the email case-insensitively.
func (r *AccountRepository) FindByLogin(ctx context.Context, login string) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE username = $1 OR email = LOWER($1) LIMIT 1`, login)
}

func (r *AccountRepository) findOne(ctx context.Context, where string, arg any) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	a, err := scanAccount(r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users `+where, arg))
	if err != nil {
		return nil, translate(err, "select user", domain.ErrUserNotFound)
	}
	return a, nil
}

// List returns at most limit accounts, newest first. A non-empty search
// filters by case-insensitive username substring.
func (r *AccountRepository) List(ctx context.Context, search string, limit int) ([]domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+accountColumns+` FROM users
		WHERE $1 = '' OR username ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2`, escapeLike(search), limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Employees returns every account that appears on the schedule.
func (r *AccountRepository) Employees(ctx context.Context) ([]domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, role, avatar FROM users
		WHERE role IN ('worker', 'manager', 'creator')
		ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Employee, 0)
	for rows.Next() {
		var (
			e      domain.Employee
			role   string
			avatar sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Username, &role, &avatar); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		e.Role = domain.Role(role)
		e.Avatar = nullString(avatar)
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateRole sets the role of one account. When the new role is creator,
// every other creator is demoted to manager first, in the same transaction,
// so the users_single_creator index is never violated.
func (r *AccountRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Account, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		updated *domain.Account
		demoted []string
	)
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if role == domain.RoleCreator {
			var err error
			if demoted, err = demoteCreators(ctx, tx, id); err != nil {
				return err
			}
		}

		a, err := scanAccount(tx.QueryRowContext(ctx, `
			UPDATE users SET role = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING `+accountColumns, id, string(role)))
		if err != nil {
			return translate(err, "update role", domain.ErrUserNotFound)
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, demoted, nil
}

// DemoteCreators demotes every creator other than keepID to manager. An
// empty keepID demotes all of them.
func (r *AccountRepository) DemoteCreators(ctx context.Context, keepID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var demoted []string
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		demoted, err = demoteCreators(ctx, tx, keepID)
		return err
	})
	return demoted, err
}

func demoteCreators(ctx context.Context, tx *sql.Tx, keepID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		UPDATE users SET role = 'manager', updated_at = NOW()
		WHERE role = 'creator' AND id::text <> $1
		RETURNING id`, keepID)
	if err != nil {
		return nil, fmt.Errorf("demote creators: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan demoted: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *AccountRepository) SetReputation(ctx context.Context, id string, value int) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	a, err := scanAccount(r.db.QueryRowContext(ctx, `
		UPDATE users SET reputation = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+accountColumns, id, value))
	if err != nil {
		return nil, translate(err, "set reputation", domain.ErrUserNotFound)
	}
	return a, nil
}

// SetAvatar replaces the avatar reference and returns the previous one.
func (r *AccountRepository) SetAvatar(ctx context.Context, id string, avatar *string) (*domain.Account, *string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		updated  *domain.Account
		previous sql.NullString
	)
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT avatar FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&previous)
		if err != nil {
			return translate(err, "select avatar", domain.ErrUserNotFound)
		}

		updated, err = scanAccount(tx.QueryRowContext(ctx, `
			UPDATE users SET avatar = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING `+accountColumns, id, avatar))
		if err != nil {
			return fmt.Errorf("update avatar: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, nullString(previous), nil
}

// Delete removes the account. Votes, likes and shifts go with it through
// ON DELETE CASCADE; authored content keeps its display name with a NULL user_id.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete user", domain.ErrUserNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
