package api

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/marketbay/order-system/internal/api/handler"
	"github.com/marketbay/order-system/internal/api/middleware"
	"github.com/marketbay/order-system/internal/core/ports"
	"github.com/marketbay/order-system/internal/token"
)

// NewOrdersRouter builds the Echo instance for the orders service. Every
// order route sits behind token authentication.
func NewOrdersRouter(orders ports.OrderService, authority *token.Authority, db *mongo.Database, log zerolog.Logger) *echo.Echo {
	e := newEcho(log, "orders")

	orderHandler := handler.NewOrderHandler(orders)
	auth := middleware.Auth(authority)

	group := e.Group("/v1/orders", auth)
	group.POST("", orderHandler.Create)
	group.GET("", orderHandler.List)
	group.GET("/:order_id", orderHandler.Get)
	group.PUT("/:order_id/status", orderHandler.UpdateStatus)
	group.DELETE("/:order_id", orderHandler.Cancel)

	registerProbes(e, db, nil)
	return e
}
