// Package config loads per-service settings from the environment with
// go-envconfig. Each binary loads the same Config; sections it does not use
// simply keep their defaults.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Gateway GatewayConfig
	Login   LoginConfig
}

// AuthConfig holds the shared credential settings. Every service must see the
// same secret or tokens minted by identity will not verify elsewhere.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=30m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=order_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// GatewayConfig points the edge at its downstream services.
type GatewayConfig struct {
	UsersServiceURL  string        `env:"USERS_SERVICE_URL,  default=http://localhost:8001"`
	OrdersServiceURL string        `env:"ORDERS_SERVICE_URL, default=http://localhost:8002"`
	UpstreamTimeout  time.Duration `env:"UPSTREAM_TIMEOUT,   default=10s"`
}

// LoginConfig tunes the failed-login throttle.
type LoginConfig struct {
	MaxFailures int64         `env:"LOGIN_MAX_FAILURES, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
