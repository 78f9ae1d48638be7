package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/api/middleware"
	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

// UserHandler serves /api/user: own profile, avatars, public profiles and
// reputation votes.
type UserHandler struct {
	accounts   ports.AccountService
	reputation ports.ReputationService
}

func NewUserHandler(accounts ports.AccountService, reputation ports.ReputationService) *UserHandler {
	return &UserHandler{accounts: accounts, reputation: reputation}
}

type voteRequest struct {
	VoteType string `json:"voteType" validate:"required,oneof=up down"`
}

// Profile returns the caller's own account including the email.
//
// @Summary      Current user profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /user/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	account, err := h.accounts.Profile(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"user": account})
}

// UploadAvatar replaces the caller's avatar with the multipart "avatar" file.
//
// @Summary      Upload avatar
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "Image (jpeg, png, webp, gif; max 5 MB)"
// @Success      200     {object}  map[string]any
// @Failure      400     {object}  map[string]any
// @Router       /user/avatar [post]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	img, err := formImage(c, "avatar")
	if err != nil {
		return err
	}
	if img == nil {
		return domain.Invalid("avatar file is required")
	}

	account, err := h.accounts.SetAvatar(c.Request().Context(), middleware.ActorFrom(c), *img)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"user": account})
}

// DeleteAvatar clears the caller's avatar.
//
// @Summary      Delete avatar
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /user/avatar [delete]
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	account, err := h.accounts.DeleteAvatar(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"user": account})
}

// Get returns the public profile of any account.
//
// @Summary      Public profile
// @Tags         user
// @Produce      json
// @Param        userId  path      string  true  "Account id"
// @Success      200     {object}  map[string]any
// @Failure      404     {object}  map[string]any
// @Router       /user/{userId} [get]
func (h *UserHandler) Get(c echo.Context) error {
	account, err := h.accounts.PublicProfile(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"user": account})
}

// ReputationStatus reports the caller's current vote on the account.
//
// @Summary      Reputation vote status
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Target account id"
// @Success      200     {object}  domain.VoteStatus
// @Router       /user/{userId}/reputation-status [get]
func (h *UserHandler) ReputationStatus(c echo.Context) error {
	status, err := h.reputation.Status(c.Request().Context(), middleware.ActorFrom(c), c.Param("userId"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"hasVoted": status.HasVoted, "voteType": status.VoteType})
}

// Vote casts, flips or withdraws the caller's reputation vote.
//
// @Summary      Vote on reputation
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string       true  "Target account id"
// @Param        body    body      voteRequest  true  "Vote direction"
// @Success      200     {object}  domain.VoteResult
// @Failure      400     {object}  map[string]any
// @Failure      404     {object}  map[string]any
// @Router       /user/{userId}/reputation [post]
func (h *UserHandler) Vote(c echo.Context) error {
	var req voteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.reputation.Vote(c.Request().Context(), middleware.ActorFrom(c), c.Param("userId"), domain.VoteDirection(req.VoteType))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{
		"reputation": res.Reputation,
		"hasVoted":   res.HasVoted,
		"voteType":   res.VoteType,
	})
}
