package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

// RequireRole lets through callers whose live role is one of roles. It must
// run after Auth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
		names = append(names, string(r))
	}
	reason := strings.Join(names, " or ") + " role required"

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFrom(c)
			if actor == nil {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[actor.Role]; !ok {
				return domain.Denied(reason)
			}
			return next(c)
		}
	}
}
