package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"user-backend/internal/logging"
	authmw "user-backend/internal/middleware/auth"
	"user-backend/internal/mykafka"
	"user-backend/internal/service"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
	Secure   bool
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.Svc.Login(ctx, req.Identity, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		l.Error("login_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.setSessionCookies(c, res)
	h.publish(c, map[string]interface{}{
		"type":     "user_logged_in",
		"user_id":  res.User.ID,
		"username": res.User.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user": echo.Map{
			"id":       res.User.ID,
			"username": res.User.Username,
			"is_admin": res.User.IsAdmin,
		},
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var raw string
	if cookie, err := c.Cookie(authmw.RefreshCookie); err == nil {
		raw = cookie.Value
	}

	res, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		if errors.Is(err, service.ErrMissingToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, "No refresh token")
		}
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired refresh token")
		}
		logging.FromContext(ctx).Error("refresh_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.setSessionCookies(c, res)
	return c.JSON(http.StatusOK, echo.Map{"message": "Tokens refreshed"})
}

// Logout clears both cookies unconditionally. The refresh row is dropped when
// the cookie is present; a second logout is still a success.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(authmw.RefreshCookie); err == nil {
		_ = h.Svc.Logout(ctx, cookie.Value)
	}

	c.SetCookie(DeleteCookie(authmw.AccessCookie, "/", h.Secure))
	c.SetCookie(DeleteCookie(authmw.RefreshCookie, "/", h.Secure))

	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	return c.JSON(http.StatusOK, identity)
}

func (h *AuthHandler) setSessionCookies(c echo.Context, res *service.SessionResult) {
	c.SetCookie(CreateCookie(authmw.AccessCookie, res.AccessToken, "/", res.AccessExp, h.Secure))
	c.SetCookie(CreateCookie(authmw.RefreshCookie, res.RefreshToken, "/", res.RefreshExp, h.Secure))
}

func (h *AuthHandler) publish(c echo.Context, event map[string]interface{}) {
	publishEvent(c, h.Producer, event)
}
