// The orders service owns the order lifecycle: creation, retrieval, the
// status state machine and owner-scoped listings. It trusts tokens minted by
// the identity service but verifies every one itself.
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

	orderRepo := mongodb.NewOrderRepository(db)
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	authority := token.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	orders := service.NewOrderService(orderRepo, log)

	e := api.NewOrdersRouter(orders, authority, db, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("orders service listening")
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
