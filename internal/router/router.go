// Package router wires HTTP routes to handlers and attaches the
// authentication, role, cache and rate limit middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/handler"
	"github.com/olekhv/train-station-api/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register,
// login, refresh and logout are open; /v1/auth/me requires a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1/auth", middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
	// Shorter alias kept for clients that expect /v1/me.
	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}
