package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/foodgram-backend/internal/http/handlers"
	httpMW "github.com/yungbote/foodgram-backend/internal/http/middleware"
	"github.com/yungbote/foodgram-backend/internal/observability"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	RateLimiter *httpMW.RateLimiter
	CORSOrigins []string

	// TracingService enables otelgin spans under this service name when set.
	TracingService string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	RecipeHandler     *httpH.RecipeHandler
	IngredientHandler *httpH.IngredientHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	// Trailing slashes are stripped by the server before routing.
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.RateLimit(cfg.RateLimiter, cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	required := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.AuthMiddleware == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{cfg.AuthMiddleware.RequireAuth(), h}
	}
	optional := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.AuthMiddleware == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{cfg.AuthMiddleware.OptionalAuth(), h}
	}

	api := r.Group("/api")

	// Auth
	if h := cfg.AuthHandler; h != nil {
		api.POST("/auth/token/login", h.Login)
		api.POST("/auth/token/logout", required(h.Logout)...)
	}

	// Users
	if h := cfg.UserHandler; h != nil {
		api.GET("/users", optional(h.List)...)
		api.POST("/users", h.Create)
		api.GET("/users/me", required(h.Me)...)
		api.DELETE("/users/me", required(h.DeleteMe)...)
		api.GET("/users/me/avatar", required(h.GetAvatar)...)
		api.PUT("/users/me/avatar", required(h.PutAvatar)...)
		api.DELETE("/users/me/avatar", required(h.DeleteAvatar)...)
		api.POST("/users/set_password", required(h.SetPassword)...)
		api.GET("/users/subscriptions", required(h.Subscriptions)...)
		api.GET("/users/:id", optional(h.Get)...)
		api.POST("/users/:id/subscribe", required(h.Subscribe)...)
		api.DELETE("/users/:id/subscribe", required(h.Unsubscribe)...)
	}

	// Ingredients
	if h := cfg.IngredientHandler; h != nil {
		api.GET("/ingredients", h.List)
		api.GET("/ingredients/suggest", h.Suggest)
		api.GET("/ingredients/:id", h.Get)
	}

	// Recipes
	if h := cfg.RecipeHandler; h != nil {
		api.GET("/recipes", optional(h.List)...)
		api.POST("/recipes", required(h.Create)...)
		api.GET("/recipes/download_shopping_cart", required(h.DownloadShoppingCart)...)
		api.GET("/recipes/:id", optional(h.Get)...)
		api.PATCH("/recipes/:id", required(h.Update)...)
		api.DELETE("/recipes/:id", required(h.Delete)...)
		api.GET("/recipes/:id/get-link", h.GetLink)
		api.POST("/recipes/:id/favorite", required(h.AddFavorite)...)
		api.DELETE("/recipes/:id/favorite", required(h.RemoveFavorite)...)
		api.POST("/recipes/:id/shopping_cart", required(h.AddToCart)...)
		api.DELETE("/recipes/:id/shopping_cart", required(h.RemoveFromCart)...)

		r.GET("/s/:code", h.Redirect)
	}

	return r
}
