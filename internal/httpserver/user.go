package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"user-backend/internal/logging"
	"user-backend/internal/mykafka"
	"user-backend/internal/service"
)

type UserHandler struct {
	Svc      *service.UserService
	Producer *mykafka.Producer
}

func publishEvent(c echo.Context, p *mykafka.Producer, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, "user_events", fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka publish error", "error", err)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func userError(err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func (h *UserHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	summary, err := h.Svc.Create(ctx, service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Names:    req.Names,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		return userError(err)
	}

	publishEvent(c, h.Producer, map[string]interface{}{
		"type":     "user_created",
		"user_id":  summary.ID,
		"username": summary.Username,
	})

	return c.JSON(http.StatusCreated, summary)
}

func (h *UserHandler) List(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	limit := parseIntDefault(c.QueryParam("limit"), 0)

	result, err := h.Svc.FindAll(c.Request().Context(), page, limit)
	if err != nil {
		return userError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *UserHandler) GetOne(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	summary, svcErr := h.Svc.FindOne(c.Request().Context(), uint(id))
	if svcErr != nil {
		return userError(svcErr)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	summary, svcErr := h.Svc.Update(c.Request().Context(), uint(id), service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Names:    req.Names,
		IsAdmin:  req.IsAdmin,
	})
	if svcErr != nil {
		return userError(svcErr)
	}

	publishEvent(c, h.Producer, map[string]interface{}{
		"type":    "user_updated",
		"user_id": summary.ID,
	})

	return c.JSON(http.StatusOK, summary)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	summary, svcErr := h.Svc.Delete(c.Request().Context(), uint(id))
	if svcErr != nil {
		return userError(svcErr)
	}

	publishEvent(c, h.Producer, map[string]interface{}{
		"type":    "user_deleted",
		"user_id": summary.ID,
	})

	return c.JSON(http.StatusOK, summary)
}
