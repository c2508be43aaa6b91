package auth

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// AdminOrOwner admits admins unconditionally and everyone else only when the
// route's :id equals their own user id. The route parameter is a string, so
// it is parsed before comparing; a non-numeric id is a plain deny.
func (g *Guard) AdminOrOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := IdentityFrom(c)
		if identity == nil {
			return echo.NewHTTPError(http.StatusForbidden, "user not authenticated")
		}

		if identity.IsAdmin {
			return next(c)
		}

		targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "invalid target user id")
		}

		if uint(targetID) != identity.UserID {
			return echo.NewHTTPError(http.StatusForbidden, "you can only access your own profile")
		}
		return next(c)
	}
}
