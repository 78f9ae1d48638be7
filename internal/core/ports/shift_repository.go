package ports

import (
	"context"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

// ShiftRepository persists the work schedule.
type ShiftRepository interface {
	// Range returns shifts with start <= shift_date <= end, both YYYY-MM-DD.
	Range(ctx context.Context, start, end string) ([]domain.Shift, error)
	Create(ctx context.Context, shift *domain.Shift) (*domain.Shift, error)
	Update(ctx context.Context, id int64, patch domain.ShiftPatch) (*domain.Shift, error)
	Delete(ctx context.Context, id int64) error
	Templates(ctx context.Context) ([]domain.ShiftTemplate, error)
}
