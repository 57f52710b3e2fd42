package app

import (
	"database/sql"

	foodhttp "github.com/yungbote/foodgram-backend/internal/http"
	httpH "github.com/yungbote/foodgram-backend/internal/http/handlers"
	httpMW "github.com/yungbote/foodgram-backend/internal/http/middleware"
	"github.com/yungbote/foodgram-backend/internal/observability"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type Middleware struct {
	Auth        *httpMW.AuthMiddleware
	RateLimiter *httpMW.RateLimiter
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Recipe     *httpH.RecipeHandler
	Ingredient *httpH.IngredientHandler
}

func wireHandlers(log *logger.Logger, cfg *Config, services Services, sqlDB *sql.DB) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}
	return Handlers{
		Health: httpH.NewHealthHandler(pinger),
		Auth:   httpH.NewAuthHandler(log, services.Auth),
		User:   httpH.NewUserHandler(log, services.Auth, services.User, services.Avatar, services.Subscription),
		Recipe: httpH.NewRecipeHandler(log, services.Recipe, services.Membership, httpH.RecipeHandlerConfig{
			PublicBaseURL:   cfg.Links.PublicBaseURL,
			FrontendBaseURL: cfg.Links.FrontendBaseURL,
		}),
		Ingredient: httpH.NewIngredientHandler(log, services.Ingredient),
	}
}

func wireMiddleware(log *logger.Logger, cfg *Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:        httpMW.NewAuthMiddleware(log, services.Auth),
		RateLimiter: httpMW.NewRateLimiter(cfg.Limits.RPS, cfg.Limits.Burst),
	}
}

func wireServer(log *logger.Logger, cfg *Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *foodhttp.Server {
	var tracingService string
	if cfg.Tracing.Enabled {
		tracingService = cfg.Tracing.ServiceName
	}
	return foodhttp.NewServer(log, cfg.Address(), foodhttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		RateLimiter:       middleware.RateLimiter,
		CORSOrigins:       cfg.CORS.AllowedOrigins,
		TracingService:    tracingService,
		AuthMiddleware:    middleware.Auth,
		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		RecipeHandler:     handlers.Recipe,
		IngredientHandler: handlers.Ingredient,
		HealthHandler:     handlers.Health,
	})
}
