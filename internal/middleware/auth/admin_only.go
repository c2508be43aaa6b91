package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminOnly allows only identities with the admin flag. A missing identity
// (guard ordering broken) is a deny, not a panic.
func (g *Guard) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := IdentityFrom(c)
		if identity == nil || !identity.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}
