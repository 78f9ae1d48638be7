package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/policy"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

type scheduleService struct {
	shifts   ports.ShiftRepository
	accounts ports.AccountRepository
	policy   *policy.Policy
	log      zerolog.Logger
}

// NewScheduleService returns a ScheduleService implementation.
func NewScheduleService(
	shifts ports.ShiftRepository,
	accounts ports.AccountRepository,
	p *policy.Policy,
	log zerolog.Logger,
) ports.ScheduleService {
	return &scheduleService{shifts: shifts, accounts: accounts, policy: p, log: log}
}

// Shifts returns the schedule between start and end inclusive.
func (s *scheduleService) Shifts(ctx context.Context, start, end string) ([]domain.Shift, error) {
	if start == "" || end == "" {
		return nil, domain.Invalid("startDate and endDate are required")
	}
	from, err := time.Parse(domain.DateLayout, start)
	if err != nil {
		return nil, domain.Invalid("startDate must be YYYY-MM-DD")
	}
	to, err := time.Parse(domain.DateLayout, end)
	if err != nil {
		return nil, domain.Invalid("endDate must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, domain.Invalid("endDate must not be before startDate")
	}
	return s.shifts.Range(ctx, start, end)
}

func (s *scheduleService) Employees(ctx context.Context) ([]domain.Employee, error) {
	return s.accounts.Employees(ctx)
}

func (s *scheduleService) Templates(ctx context.Context) ([]domain.ShiftTemplate, error) {
	return s.shifts.Templates(ctx)
}

func (s *scheduleService) Create(ctx context.Context, actor *domain.Actor, in ports.ShiftInput) (*domain.Shift, error) {
	if err := authorize(s.policy, actor, policy.ActionCreate, policy.Resource{Kind: policy.KindShift}); err != nil {
		return nil, err
	}

	if in.UserID == "" || in.ShiftDate == "" || in.StartTime == "" || in.EndTime == "" || in.Hours <= 0 {
		return nil, domain.Invalid("userId, shiftDate, startTime, endTime and hours are required")
	}
	if err := validateShiftFields(&in.ShiftDate, &in.StartTime, &in.EndTime, &in.Hours); err != nil {
		return nil, err
	}

	createdBy := actor.ID
	shift, err := s.shifts.Create(ctx, &domain.Shift{
		UserID:    in.UserID,
		ShiftDate: in.ShiftDate,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Hours:     in.Hours,
		Notes:     blankToNil(in.Notes),
		CreatedBy: &createdBy,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("shift_id", shift.ID).Str("user_id", in.UserID).Str("date", in.ShiftDate).Msg("shift created")
	return shift, nil
}

func (s *scheduleService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.ShiftPatch) (*domain.Shift, error) {
	if err := authorize(s.policy, actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindShift}); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.ErrNoFields
	}
	if err := validateShiftFields(patch.ShiftDate, patch.StartTime, patch.EndTime, patch.Hours); err != nil {
		return nil, err
	}
	return s.shifts.Update(ctx, id, patch)
}

func (s *scheduleService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	if err := authorize(s.policy, actor, policy.ActionDelete, policy.Resource{Kind: policy.KindShift}); err != nil {
		return err
	}
	return s.shifts.Delete(ctx, id)
}

// validateShiftFields checks the fields that are present. Times accept HH:MM
// or HH:MM:SS.
func validateShiftFields(date, start, end *string, hours *float64) error {
	if date != nil {
		if _, err := time.Parse(domain.DateLayout, *date); err != nil {
			return domain.Invalid("shiftDate must be YYYY-MM-DD")
		}
	}
	for _, t := range []*string{start, end} {
		if t != nil && !validClock(*t) {
			return domain.Invalid("times must be HH:MM")
		}
	}
	if hours != nil && (*hours <= 0 || *hours > 24) {
		return domain.Invalid("hours must be between 0 and 24")
	}
	return nil
}

func validClock(v string) bool {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
