// The identity service owns accounts and credentials: registration, login,
// profile management and the admin user listing. It is the only service that
// mints tokens; everything else just verifies them.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketbay/order-system/internal/api"
	"github.com/marketbay/order-system/internal/core/service"
	"github.com/marketbay/order-system/internal/infrastructure/config"
	mongodb "github.com/marketbay/order-system/internal/infrastructure/db/mongo"
	redisdb "github.com/marketbay/order-system/internal/infrastructure/db/redis"
	"github.com/marketbay/order-system/internal/token"
	"github.com/marketbay/order-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// Redis only backs the login throttle; the service runs without it.
	var limiter service.LoginLimiter
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
	} else {
		defer func() { _ = rdb.Close() }()
		limiter = redisdb.NewLoginLimiter(rdb, cfg.Login.MaxFailures, cfg.Login.Window)
	}

	authority := token.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	identity := service.NewIdentityService(userRepo, authority, limiter, log)

	e := api.NewIdentityRouter(identity, authority, db, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("identity service listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
