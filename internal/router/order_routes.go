package router

import (
	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/handler"
	"github.com/olekhv/train-station-api/internal/middleware"
)

// RegisterOrders registers the order endpoints.  Any authenticated
// user can place orders and see their own; there is no admin override
// for reading other users' orders.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler, jwtSecret string) {
	g := e.Group(
		"/v1/orders",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "USER"),
	)
	g.POST("", o.PlaceOrder)
	g.GET("", o.ListOrders)
	g.GET("/:id", o.GetOrder)
}
