package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/api/middleware"
	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AdminHandler serves /api/admin. The router restricts it to the creator.
type AdminHandler struct {
	accounts ports.AccountService
	roles    ports.RoleService
	audit    ports.AuditReader
}

// NewAdminHandler builds the handler. audit may be nil when the audit trail is disabled.
func NewAdminHandler(accounts ports.AccountService, roles ports.RoleService, audit ports.AuditReader) *AdminHandler {
	return &AdminHandler{accounts: accounts, roles: roles, audit: audit}
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

type reputationRequest struct {
	Reputation *int `json:"reputation" validate:"required"`
}

type auditEntry struct {
	Action   domain.AuditAction `json:"action"`
	ActorID  string             `json:"actor_id"`
	TargetID string             `json:"target_id,omitempty"`
	Details  map[string]any     `json:"details,omitempty"`
	At       string             `json:"at"`
}

// ListUsers lists accounts, newest first, optionally filtered by username.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Username substring"
// @Success      200     {object}  map[string]any
// @Failure      403     {object}  map[string]any
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.accounts.List(c.Request().Context(), middleware.ActorFrom(c), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"users": users})
}

// UpdateRole assigns a role. Assigning creator demotes the current creator.
//
// @Summary      Assign role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Account id"
// @Param        body  body      roleRequest  true  "New role"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /admin/users/{id}/role [patch]
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, known := domain.ParseRole(req.Role)
	if !known {
		return domain.Invalid("unknown role " + strconv.Quote(req.Role))
	}

	account, err := h.roles.AssignRole(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), role)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"user": account})
}

// UpdateReputation overrides an account's reputation score.
//
// @Summary      Set reputation
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      reputationRequest  true  "New score"
// @Success      200   {object}  map[string]any
// @Router       /admin/users/{id}/reputation [patch]
func (h *AdminHandler) UpdateReputation(c echo.Context) error {
	var req reputationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.SetReputation(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), *req.Reputation)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"user": account})
}

// DeleteUser removes an account. The bootstrap creator and the caller cannot be deleted.
//
// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.accounts.Delete(c.Request().Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return message(c, "user deleted")
}

// AuditLog returns recent privileged actions, newest first.
//
// @Summary      Audit trail
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        target  query     string  false  "Filter by target id"
// @Param        limit   query     int     false  "Max entries (default 50, max 500)"
// @Success      200     {object}  map[string]any
// @Failure      404     {object}  map[string]any
// @Router       /admin/audit [get]
func (h *AdminHandler) AuditLog(c echo.Context) error {
	if h.audit == nil {
		return &domain.Error{Kind: domain.ErrNotFound, Msg: "audit trail is disabled"}
	}

	limit := int64(defaultAuditLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return domain.Invalid("limit must be a positive integer")
		}
		limit = min(n, maxAuditLimit)
	}

	events, err := h.audit.Recent(c.Request().Context(), c.QueryParam("target"), limit)
	if err != nil {
		return err
	}

	out := make([]auditEntry, 0, len(events))
	for _, ev := range events {
		out = append(out, auditEntry{
			Action:   ev.Action,
			ActorID:  ev.ActorID,
			TargetID: ev.TargetID,
			Details:  ev.Details,
			At:       ev.At.UTC().Format(time.RFC3339),
		})
	}
	return ok(c, http.StatusOK, echo.Map{"events": out})
}
