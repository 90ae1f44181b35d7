package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/marketbay/order-system/docs"
	"github.com/marketbay/order-system/internal/api/handler"
	"github.com/marketbay/order-system/internal/api/middleware"
	"github.com/marketbay/order-system/internal/core/ports"
	"github.com/marketbay/order-system/internal/token"
)

// NewIdentityRouter builds the Echo instance for the identity service.
func NewIdentityRouter(identity ports.IdentityService, authority *token.Authority, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := newEcho(log, "identity")

	authHandler := handler.NewAuthHandler(identity)
	userHandler := handler.NewUserHandler(identity)
	auth := middleware.Auth(authority)

	v1 := e.Group("/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	users := v1.Group("/users", auth)
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateMe)
	users.GET("", userHandler.List)

	registerProbes(e, db, rdb)
	return e
}

// newEcho applies the middleware and handlers shared by every service router.
func newEcho(log zerolog.Logger, service string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware(service))

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

// registerProbes wires the liveness and readiness endpoints. rdb may be nil
// for services that do not depend on Redis.
func registerProbes(e *echo.Echo, db *mongo.Database, rdb *redis.Client) {
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if db != nil {
		e.GET("/health/ready", handler.NewReadinessHandler(db, rdb).Readiness)
	}
}
