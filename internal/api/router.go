package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/firas-saidi/user-auth-api/internal/api/handler"
	"github.com/firas-saidi/user-auth-api/internal/api/metrics"
	"github.com/firas-saidi/user-auth-api/internal/api/middleware"
	"github.com/firas-saidi/user-auth-api/internal/core/domain"
	"github.com/firas-saidi/user-auth-api/internal/core/ports"
)

// Dependencies holds everything the router needs. Mongo and Redis are only
// used for readiness checks and may be nil.
type Dependencies struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Verifier    middleware.TokenVerifier
	CORSOrigins []string
	Mongo       *mongo.Database
	Redis       *redis.Client
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Auth and user routes are served both at the root and under /api.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	reg := metrics.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
	}))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(dependencyChecks(d))

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/hello", healthHandler.Hello)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(d.AuthService)
	userHandler := handler.NewUserHandler(d.UserService)
	authMiddleware := middleware.Auth(d.Verifier)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	for _, prefix := range []string{"", "/api"} {
		g := e.Group(prefix)

		// --- Auth routes ---
		g.POST("/auth/register", authHandler.Register)
		g.POST("/auth/login", authHandler.Login)

		// --- User routes ---
		users := g.Group("/users", authMiddleware)
		users.GET("", userHandler.List, adminOnly)
		users.GET("/:id", userHandler.Get, adminOnly)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete, adminOnly)
	}

	return e
}

func dependencyChecks(d Dependencies) map[string]handler.DependencyCheck {
	checks := make(map[string]handler.DependencyCheck)
	if d.Mongo != nil {
		db := d.Mongo
		checks["mongodb"] = func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		}
	}
	if d.Redis != nil {
		rdb := d.Redis
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
