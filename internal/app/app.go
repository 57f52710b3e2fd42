package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/db"
	foodhttp "github.com/yungbote/foodgram-backend/internal/http"
	"github.com/yungbote/foodgram-backend/internal/observability"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const dbStatsInterval = 15 * time.Second

type App struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Cfg        *Config
	Repos      Repos
	Aggregates Aggregates
	Services   Services
	Clients    Clients
	Metrics    *observability.Metrics
	Server     *foodhttp.Server

	middleware Middleware
	database   *db.PostgresService
	otelStop   func(context.Context) error
}

// New loads configuration and wires the full application. The database
// schema is migrated before any service is built.
func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a, err := newWithConfig(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func newWithConfig(ctx context.Context, log *logger.Logger, cfg *Config) (*App, error) {
	metrics := observability.Init(log, cfg.Metrics.Enabled)
	otelStop := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Tracing.Environment,
		Endpoint:    cfg.Tracing.Endpoint,
		Headers:     cfg.Tracing.Headers,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})

	database, err := db.NewPostgresService(log, cfg.DBConfig())
	if err != nil {
		_ = otelStop(ctx)
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		_ = database.Close()
		_ = otelStop(ctx)
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	theDB := database.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = database.Close()
		_ = otelStop(ctx)
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	aggs, err := wireAggregates(theDB, log, reposet, metrics)
	if err != nil {
		clients.Close()
		_ = database.Close()
		_ = otelStop(ctx)
		return nil, err
	}
	serviceset := wireServices(theDB, log, cfg, reposet, aggs, clients, metrics)

	sqlDB, err := theDB.DB()
	if err != nil {
		log.Warn("health check will not ping the database", "error", err)
	}
	handlers := wireHandlers(log, cfg, serviceset, sqlDB)
	middleware := wireMiddleware(log, cfg, serviceset)

	return &App{
		Log:        log,
		DB:         theDB,
		Cfg:        cfg,
		Repos:      reposet,
		Aggregates: aggs,
		Services:   serviceset,
		Clients:    clients,
		Metrics:    metrics,
		Server:     wireServer(log, cfg, handlers, middleware, metrics),
		middleware: middleware,
		database:   database,
		otelStop:   otelStop,
	}, nil
}

// Run serves HTTP until ctx is cancelled. The rate limiter sweep and the DB
// stats collector stop with the server.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.Metrics.StartDBCollector(ctx, a.Log, a.DB, dbStatsInterval)

	g, gctx := errgroup.WithContext(ctx)
	if a.middleware.RateLimiter.Enabled() {
		g.Go(func() error {
			a.middleware.RateLimiter.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		return a.Server.Run(gctx, a.Cfg.Server.ShutdownTimeout)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.Log.Warn("close database", "error", err)
		}
	}
	if a.otelStop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelStop(ctx); err != nil {
			a.Log.Warn("flush traces", "error", err)
		}
	}
	a.Log.Sync()
}
