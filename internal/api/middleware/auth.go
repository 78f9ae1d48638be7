package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/token"
)

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// AccountLoader fetches the live account named by a token.
type AccountLoader interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

// Auth requires a valid bearer token. The account is re-read on every request
// so a role change or deletion takes effect before the token expires.
func Auth(tokens TokenVerifier, accounts AccountLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearer(c)
			if err != nil {
				return err
			}
			account, err := load(c.Request().Context(), tokens, accounts, raw)
			if err != nil {
				return err
			}
			SetAccount(c, account)
			return next(c)
		}
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(tokens TokenVerifier, accounts AccountLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearer(c)
			if err != nil {
				return next(c)
			}
			account, err := load(c.Request().Context(), tokens, accounts, raw)
			switch {
			case err == nil:
				SetAccount(c, account)
			case errors.Is(err, domain.ErrUnauthenticated):
			default:
				return err
			}
			return next(c)
		}
	}
}

func bearer(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", domain.ErrUnauthenticated
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", domain.ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}

func load(ctx context.Context, tokens TokenVerifier, accounts AccountLoader, raw string) (*domain.Account, error) {
	claims, err := tokens.Verify(raw)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	account, err := accounts.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountGone
		}
		return nil, err
	}
	return account, nil
}
