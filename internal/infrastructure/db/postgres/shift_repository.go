package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

const shiftColumns = `
	ws.id, ws.user_id, to_char(ws.shift_date, 'YYYY-MM-DD'),
	to_char(ws.start_time, 'HH24:MI'), to_char(ws.end_time, 'HH24:MI'),
	ws.hours, ws.notes, ws.created_by, ws.created_at, ws.updated_at,
	u.username, u.avatar, u.role`

type ShiftRepository struct {
	db *sql.DB
}

func NewShiftRepository(db *sql.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

func scanShift(r rowScanner) (*domain.Shift, error) {
	var (
		s                                        domain.Shift
		notes, createdBy, username, avatar, role sql.NullString
	)
	err := r.Scan(&s.ID, &s.UserID, &s.ShiftDate, &s.StartTime, &s.EndTime, &s.Hours,
		&notes, &createdBy, &s.CreatedAt, &s.UpdatedAt, &username, &avatar, &role)
	if err != nil {
		return nil, err
	}
	s.Notes = nullString(notes)
	s.CreatedBy = nullString(createdBy)
	s.Username = nullString(username)
	s.Avatar = nullString(avatar)
	if role.Valid {
		rl := domain.Role(role.String)
		s.Role = &rl
	}
	return &s, nil
}

// Range returns the shifts between start and end inclusive, ordered by day,
// start time and employee name.
func (r *ShiftRepository) Range(ctx context.Context, start, end string) ([]domain.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+shiftColumns+`
		FROM work_shifts ws
		LEFT JOIN users u ON u.id = ws.user_id
		WHERE ws.shift_date BETWEEN $1::date AND $2::date
		ORDER BY ws.shift_date, ws.start_time, u.username`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *ShiftRepository) get(ctx context.Context, id int64) (*domain.Shift, error) {
	s, err := scanShift(r.db.QueryRowContext(ctx, `
		SELECT `+shiftColumns+`
		FROM work_shifts ws
		LEFT JOIN users u ON u.id = ws.user_id
		WHERE ws.id = $1`, id))
	if err != nil {
		return nil, translate(err, "select shift", domain.ErrShiftNotFound)
	}
	return s, nil
}

// Create inserts a shift. An unknown employee id yields domain.ErrUserNotFound.
func (r *ShiftRepository) Create(ctx context.Context, s *domain.Shift) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO work_shifts (user_id, shift_date, start_time, end_time, hours, notes, created_by)
		VALUES ($1, $2::date, $3::time, $4::time, $5, $6, $7)
		RETURNING id`,
		s.UserID, s.ShiftDate, s.StartTime, s.EndTime, s.Hours, s.Notes, s.CreatedBy).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) || pgCode(err) == codeInvalidText {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert shift: %w", err)
	}
	return r.get(ctx, id)
}

func (r *ShiftRepository) Update(ctx context.Context, id int64, p domain.ShiftPatch) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE work_shifts SET
			user_id = COALESCE($2::uuid, user_id),
			shift_date = COALESCE($3::date, shift_date),
			start_time = COALESCE($4::time, start_time),
			end_time = COALESCE($5::time, end_time),
			hours = COALESCE($6, hours),
			notes = COALESCE($7, notes),
			updated_at = NOW()
		WHERE id = $1`, id, p.UserID, p.ShiftDate, p.StartTime, p.EndTime, p.Hours, p.Notes)
	if err != nil {
		if isForeignKeyViolation(err) || pgCode(err) == codeInvalidText {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update shift: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrShiftNotFound
	}
	return r.get(ctx, id)
}

func (r *ShiftRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := execCount(ctx, r.db, `DELETE FROM work_shifts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrShiftNotFound
	}
	return nil
}

// Templates returns the shift presets ordered by name.
func (r *ShiftRepository) Templates(ctx context.Context) ([]domain.ShiftTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), hours, color
		FROM shift_templates
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list shift templates: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ShiftTemplate, 0)
	for rows.Next() {
		var (
			t     domain.ShiftTemplate
			color sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.StartTime, &t.EndTime, &t.Hours, &color); err != nil {
			return nil, fmt.Errorf("scan shift template: %w", err)
		}
		t.Color = nullString(color)
		out = append(out, t)
	}
	return out, rows.Err()
}
