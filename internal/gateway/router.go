package gateway

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/marketbay/order-system/internal/api"
	"github.com/marketbay/order-system/internal/api/handler"
	"github.com/marketbay/order-system/internal/api/middleware"
	"github.com/marketbay/order-system/internal/token"
)

// NewRouter builds the edge router. Registration and login pass through
// without a credential; every other relayed route is rejected at the edge
// when the bearer token is missing, malformed, expired or mis-signed, so
// garbage never reaches the services. Services still verify independently.
func NewRouter(identity, orders *Proxy, authority *token.Authority, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("gateway"))

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/health", handler.NewHealthHandler().Liveness)

	auth := middleware.Auth(authority)

	e.POST("/v1/auth/register", identity.Forward)
	e.POST("/v1/auth/login", identity.Forward)

	users := e.Group("/v1/users", auth)
	users.Any("", identity.Forward)
	users.Any("/*", identity.Forward)

	ordersGroup := e.Group("/v1/orders", auth)
	ordersGroup.Any("", orders.Forward)
	ordersGroup.Any("/*", orders.Forward)

	return e
}
