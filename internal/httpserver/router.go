package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "user-backend/internal/middleware/auth"
)

type Deps struct {
	Guard         *authmw.Guard
	AuthHandler   *AuthHandler
	UserHandler   *UserHandler
	FilesHandler  *FilesHandler
	SearchHandler *SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/profile", d.AuthHandler.Profile, d.Guard.RequireAuth)

	user := api.Group("/user")
	user.POST("", d.UserHandler.Create)
	user.GET("", d.UserHandler.List, d.Guard.RequireAuth, d.Guard.AdminOnly)
	user.GET("/search", d.SearchHandler.Search, d.Guard.RequireAuth, d.Guard.AdminOnly)
	user.GET("/:id", d.UserHandler.GetOne, d.Guard.RequireAuth, d.Guard.AdminOrOwner)
	user.PATCH("/:id", d.UserHandler.Update, d.Guard.RequireAuth, d.Guard.AdminOrOwner)
	user.DELETE("/:id", d.UserHandler.Delete, d.Guard.RequireAuth, d.Guard.AdminOrOwner)

	api.GET("/files", d.FilesHandler.List, d.Guard.RequireAuth)
}
