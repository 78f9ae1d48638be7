package domain

import "time"

// DateLayout is the wire format of shift dates.
const DateLayout = "2006-01-02"

// Shift is one employee's scheduled work block.
type Shift struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	ShiftDate string    `json:"shift_date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Hours     float64   `json:"hours"`
	Notes     *string   `json:"notes"`
	CreatedBy *string   `json:"created_by,omitempty"`
	Username  *string   `json:"username,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	Role      *Role     `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShiftPatch holds the optional fields of a shift update.
type ShiftPatch struct {
	UserID    *string
	ShiftDate *string
	StartTime *string
	EndTime   *string
	Hours     *float64
	Notes     *string
}

// Empty reports whether the patch changes nothing.
func (p ShiftPatch) Empty() bool {
	return p.UserID == nil && p.ShiftDate == nil && p.StartTime == nil &&
		p.EndTime == nil && p.Hours == nil && p.Notes == nil
}

// ShiftTemplate is a named preset of start and end times.
type ShiftTemplate struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Hours     float64 `json:"hours"`
	Color     *string `json:"color"`
}
