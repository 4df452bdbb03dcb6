package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is built once at startup and passed to every component that needs it.
type Config struct {
	Port        string        `env:"PORT,               default=8080"        validate:"required,numeric"`
	Env         string        `env:"ENV,                default=development" validate:"oneof=development staging production"`
	LogLevel    string        `env:"LOG_LEVEL,          default=info"        validate:"oneof=trace debug info warn warning error"`
	JWTSecret   string        `env:"JWT_SECRET"                              validate:"required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,          default=1h"          validate:"gte=0"`
	CORSOrigins []string      `env:"CORS_ALLOW_ORIGINS, default=*"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017" validate:"required"`
	Database    string `env:"MONGO_DB,            default=user_auth"                 validate:"required"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=100"`
}

type RedisConfig struct {
	Enabled bool   `env:"REDIS_ENABLED, default=false"`
	Addr    string `env:"REDIS_ADDR,    default=localhost:6379" validate:"required_if=Enabled true"`
	DB      int    `env:"REDIS_DB,      default=0"              validate:"gte=0"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment take precedence over .env.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith populates and validates a Config from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
