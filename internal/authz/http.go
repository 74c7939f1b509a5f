package authz

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPError maps the package sentinels onto the HTTP responses every
// handler returns for them.
func HTTPError(err error) error {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrInvalidOperation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid operation")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// ContextKey is where middleware stores the resolved principal on the echo
// context.
const ContextKey = "principal"

// PrincipalFrom returns the principal the middleware resolved for this
// request, or nil for an anonymous request.
func PrincipalFrom(c echo.Context) *Principal {
	if p, ok := c.Get(ContextKey).(*Principal); ok {
		return p
	}
	return nil
}
