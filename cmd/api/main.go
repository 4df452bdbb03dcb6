// @title           User Auth API
// @version         1.0
// @description     Credential management service: registration, login, token-gated user administration.
// @BasePath        /
//
// @securityDefinitions.apikey TokenAuth
// @in                         header
// @name                       Authorization
// @description                Raw token as returned by /auth/login, without a scheme prefix.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/firas-saidi/user-auth-api/docs"
	"github.com/firas-saidi/user-auth-api/internal/api"
	"github.com/firas-saidi/user-auth-api/internal/core/credential"
	"github.com/firas-saidi/user-auth-api/internal/core/ports"
	"github.com/firas-saidi/user-auth-api/internal/core/service"
	"github.com/firas-saidi/user-auth-api/internal/core/token"
	mongostore "github.com/firas-saidi/user-auth-api/internal/infrastructure/db/mongo"
	redisstore "github.com/firas-saidi/user-auth-api/internal/infrastructure/db/redis"
	"github.com/firas-saidi/user-auth-api/internal/pkg/config"
	"github.com/firas-saidi/user-auth-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		l := zerolog.New(os.Stderr).With().Timestamp().Logger()
		l.Fatal().Err(err).Msg("application error")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "user-auth-api",
	})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongostore.Disconnect(client); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	userRepo := mongostore.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	var (
		rdb   *redis.Client
		guard ports.RegistrationGuard
	)
	if cfg.Redis.Enabled {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, registrations will not be guarded")
		} else {
			defer rdb.Close()
			guard = redisstore.NewRegistrationGuard(rdb)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
		}
	}

	codec := credential.NewCodec(cfg.JWTSecret)
	issuer := token.NewIssuer(cfg.JWTSecret)

	router := api.NewRouter(api.Dependencies{
		AuthService: service.NewAuthService(userRepo, codec, issuer, guard, cfg.TokenTTL, log),
		UserService: service.NewUserService(userRepo, codec, log),
		Verifier:    issuer,
		CORSOrigins: cfg.CORSOrigins,
		Mongo:       db,
		Redis:       rdb,
		Logger:      log,
	})

	srv := newServer(cfg.Port, router)

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErrors:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("http server stopped")
	return nil
}

func newServer(port string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
