package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/api/middleware"
	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

// ScheduleHandler serves /api/schedule.
type ScheduleHandler struct {
	service ports.ScheduleService
}

func NewScheduleHandler(service ports.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

type shiftRequest struct {
	UserID    string  `json:"userId"    validate:"required"`
	ShiftDate string  `json:"shiftDate" validate:"required"`
	StartTime string  `json:"startTime" validate:"required"`
	EndTime   string  `json:"endTime"   validate:"required"`
	Hours     float64 `json:"hours"     validate:"required"`
	Notes     *string `json:"notes"`
}

type shiftPatchRequest struct {
	UserID    *string  `json:"userId"`
	ShiftDate *string  `json:"shiftDate"`
	StartTime *string  `json:"startTime"`
	EndTime   *string  `json:"endTime"`
	Hours     *float64 `json:"hours"`
	Notes     *string  `json:"notes"`
}

// Shifts returns the shifts between startDate and endDate inclusive.
//
// @Summary      Get schedule
// @Tags         schedule
// @Produce      json
// @Param        startDate  query     string  true  "YYYY-MM-DD"
// @Param        endDate    query     string  true  "YYYY-MM-DD"
// @Success      200        {object}  map[string]any
// @Failure      400        {object}  map[string]any
// @Router       /schedule [get]
func (h *ScheduleHandler) Shifts(c echo.Context) error {
	shifts, err := h.service.Shifts(c.Request().Context(), c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"shifts": shifts})
}

// Employees lists staff members that can be scheduled.
//
// @Summary      List employees
// @Tags         schedule
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /schedule/employees [get]
func (h *ScheduleHandler) Employees(c echo.Context) error {
	employees, err := h.service.Employees(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"employees": employees})
}

// Templates lists the preset shift times.
//
// @Summary      List shift templates
// @Tags         schedule
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /schedule/templates [get]
func (h *ScheduleHandler) Templates(c echo.Context) error {
	templates, err := h.service.Templates(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"templates": templates})
}

// Create schedules a shift.
//
// @Summary      Create shift
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      shiftRequest  true  "Shift"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /schedule [post]
func (h *ScheduleHandler) Create(c echo.Context) error {
	var req shiftRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	shift, err := h.service.Create(c.Request().Context(), middleware.ActorFrom(c), ports.ShiftInput{
		UserID:    req.UserID,
		ShiftDate: req.ShiftDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Hours:     req.Hours,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, echo.Map{"shift": shift})
}

// Update changes the given fields of a shift.
//
// @Summary      Update shift
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Shift id"
// @Param        body  body      shiftPatchRequest  true  "Fields to change"
// @Success      200   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /schedule/{id} [patch]
func (h *ScheduleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req shiftPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	shift, err := h.service.Update(c.Request().Context(), middleware.ActorFrom(c), id, domain.ShiftPatch{
		UserID:    req.UserID,
		ShiftDate: req.ShiftDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Hours:     req.Hours,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"shift": shift})
}

// Delete removes a shift.
//
// @Summary      Delete shift
// @Tags         schedule
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Shift id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /schedule/{id} [delete]
func (h *ScheduleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return err
	}
	return message(c, "shift deleted")
}
