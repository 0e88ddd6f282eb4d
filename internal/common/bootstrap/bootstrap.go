// Package bootstrap wires storage, services and routes from a Config.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/taskflow/backend/internal/auth/http"
	authservice "github.com/AlibekovAA/taskflow/backend/internal/auth/service"
	"github.com/AlibekovAA/taskflow/backend/internal/common/clock"
	"github.com/AlibekovAA/taskflow/backend/internal/common/config"
	"github.com/AlibekovAA/taskflow/backend/internal/common/constants"
	"github.com/AlibekovAA/taskflow/backend/internal/common/crypto"
	"github.com/AlibekovAA/taskflow/backend/internal/common/db"
	commonhttp "github.com/AlibekovAA/taskflow/backend/internal/common/http"
	"github.com/AlibekovAA/taskflow/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/common/mongodb"
	"github.com/AlibekovAA/taskflow/backend/internal/common/resilience"
	"github.com/AlibekovAA/taskflow/backend/internal/common/server"
	"github.com/AlibekovAA/taskflow/backend/internal/common/validation"
	projecthttp "github.com/AlibekovAA/taskflow/backend/internal/project/http"
	projectrepo "github.com/AlibekovAA/taskflow/backend/internal/project/repository"
	projectservice "github.com/AlibekovAA/taskflow/backend/internal/project/service"
	userhttp "github.com/AlibekovAA/taskflow/backend/internal/user/http"
	userrepo "github.com/AlibekovAA/taskflow/backend/internal/user/repository"
	userservice "github.com/AlibekovAA/taskflow/backend/internal/user/service"
)

type App struct {
	Log         *logger.Logger
	Config      config.Config
	UserRepo    userrepo.Repository
	ProjectRepo projectrepo.Repository
	Handler     http.Handler

	hooks []server.ShutdownHook
}

// NewLogger builds the service logger from LOG_DIR and LOG_LEVEL.
func NewLogger(serviceName string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
}

func NewApp(ctx context.Context, log *logger.Logger, cfg config.Config) (*App, error) {
	app := &App{Log: log, Config: cfg}

	if err := app.initStorage(ctx); err != nil {
		app.Close(context.Background())
		return nil, err
	}

	app.Handler = app.routes()
	return app, nil
}

// ShutdownHooks releases what NewApp acquired, in reverse order.
func (a *App) ShutdownHooks() []server.ShutdownHook {
	hooks := make([]server.ShutdownHook, 0, len(a.hooks))
	for i := len(a.hooks) - 1; i >= 0; i-- {
		hooks = append(hooks, a.hooks[i])
	}
	return hooks
}

func (a *App) Close(ctx context.Context) {
	for _, hook := range a.ShutdownHooks() {
		if err := hook(ctx); err != nil {
			a.Log.Errorf("shutdown hook failed: %v", err)
		}
	}
	a.hooks = nil
}

func (a *App) initStorage(ctx context.Context) error {
	switch a.Config.StorageBackend {
	case config.StorageBackendPostgres:
		pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize database pool: %w", err)
		}
		a.hooks = append(a.hooks, func(context.Context) error {
			a.Log.Infof("closing database pool")
			pool.Close()
			return nil
		})

		if err := db.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}

		metricsCtx, stopMetrics := context.WithCancel(context.Background())
		db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)
		a.hooks = append(a.hooks, func(context.Context) error {
			stopMetrics()
			return nil
		})

		a.UserRepo = userrepo.NewPgRepository(pool, a.Log)
		a.ProjectRepo = projectrepo.NewPgRepository(pool, a.Log)

	case config.StorageBackendMongo:
		client, err := mongodb.Connect(ctx, a.Log, a.Config.MongoURI)
		if err != nil {
			return err
		}
		a.hooks = append(a.hooks, func(ctx context.Context) error {
			a.Log.Infof("disconnecting from mongo")
			return client.Disconnect(ctx)
		})

		database := client.Database(a.Config.MongoDatabase)
		users := userrepo.NewMongoRepository(database)
		if err := users.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create user indexes: %w", err)
		}
		projects := projectrepo.NewMongoRepository(database)
		if err := projects.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create project indexes: %w", err)
		}

		a.UserRepo = users
		a.ProjectRepo = projects

	case config.StorageBackendMemory:
		a.Log.Warn("using in-memory storage: data is lost on restart")
		a.UserRepo = userrepo.NewMemoryRepository()
		a.ProjectRepo = projectrepo.NewMemoryRepository()

	default:
		return fmt.Errorf("unknown storage backend %q", a.Config.StorageBackend)
	}

	a.Log.Infof("storage backend: %s", a.Config.StorageBackend)
	return nil
}

func (a *App) routes() http.Handler {
	cfg := a.Config
	clk := clock.NewRealClock()
	ids := crypto.NewUUIDGenerator()
	validator := validation.New()

	sessions := authservice.NewSessionManager(cfg.JWTSecret, ids, cfg.AccessTokenTTL, clk)
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  cfg.CircuitBreakerThreshold,
		Timeout:    cfg.CircuitBreakerTimeout,
		ResetAfter: cfg.CircuitBreakerReset,
		Name:       "user_store",
		Logger:     a.Log,
		Clock:      clk,
	})

	authSvc := authservice.NewAuthService(
		a.UserRepo,
		sessions,
		crypto.NewBcryptHasher(cfg.BcryptCost),
		ids,
		validator,
		breaker,
		clk,
		a.Log,
	)
	userSvc := userservice.NewService(a.UserRepo, validator, clk, a.Log)
	projectSvc := projectservice.NewService(a.ProjectRepo, userSvc, ids, validator, clk, a.Log, projectservice.Config{
		WriteMode:    cfg.ProjectWriteMode,
		WriteRetries: cfg.ProjectWriteRetries,
		Location:     cfg.Location,
	})

	authHandler := authhttp.NewHandler(authSvc, a.Log)
	userHandler := userhttp.NewHandler(userSvc, a.Log)
	projectHandler := projecthttp.NewHandler(projectSvc, a.Log)
	requireToken := jwtverify.Middleware(sessions.Verifier(), a.Log)

	limiter := commonhttp.NewStrictRateLimiter()
	a.hooks = append(a.hooks, func(context.Context) error {
		limiter.Stop()
		return nil
	})

	r := commonhttp.NewBaseRouter(a.Log, commonhttp.BaseOptions{
		AllowedOrigin:  cfg.AllowedOrigin,
		RequestTimeout: cfg.RequestTimeout,
		RateLimiter:    limiter,
	})

	r.Get("/health", commonhttp.HealthHandler(a.Log))
	r.Handle("/metrics", promhttp.Handler())

	mount := func(r chi.Router) {
		authHandler.Register(r)
		r.Group(func(r chi.Router) {
			r.Use(requireToken)
			userHandler.Register(r)
			projectHandler.Register(r)
		})
	}
	mount(r)
	r.Route("/api", mount)

	return r
}
