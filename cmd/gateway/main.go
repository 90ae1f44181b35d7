// The gateway is the platform's single public entry point. It screens bearer
// credentials at the edge and relays everything else verbatim to the identity
// and orders services.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketbay/order-system/internal/gateway"
	"github.com/marketbay/order-system/internal/infrastructure/config"
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

	identity, err := gateway.NewProxy("identity", cfg.Gateway.UsersServiceURL, cfg.Gateway.UpstreamTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid users service url")
	}
	orders, err := gateway.NewProxy("orders", cfg.Gateway.OrdersServiceURL, cfg.Gateway.UpstreamTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid orders service url")
	}

	authority := token.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	e := gateway.NewRouter(identity, orders, authority, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("gateway listening")
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
