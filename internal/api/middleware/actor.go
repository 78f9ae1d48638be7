package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

const (
	actorKey   = "actor"
	accountKey = "account"
)

// SetAccount stores the authenticated account and its actor on the context.
func SetAccount(c echo.Context, a *domain.Account) {
	c.Set(accountKey, a)
	c.Set(actorKey, a.Actor())
}

// ActorFrom returns the authenticated caller, or nil for anonymous requests.
func ActorFrom(c echo.Context) *domain.Actor {
	a, _ := c.Get(actorKey).(*domain.Actor)
	return a
}

// AccountFrom returns the live account loaded for the request, or nil.
func AccountFrom(c echo.Context) *domain.Account {
	a, _ := c.Get(accountKey).(*domain.Account)
	return a
}
