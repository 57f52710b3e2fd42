package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/observability"
	"github.com/yungbote/foodgram-backend/internal/platform/authz"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type Aggregates struct {
	Recipe     domainagg.RecipeAggregate
	Membership domainagg.MembershipAggregate
	User       domainagg.UserAggregate
}

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Avatar       services.AvatarService
	Recipe       services.RecipeService
	Membership   services.MembershipService
	Subscription services.SubscriptionService
	Ingredient   services.IngredientService
	Importer     services.IngredientImporter
}

func wireAggregates(db *gorm.DB, log *logger.Logger, repos Repos, metrics *observability.Metrics) (Aggregates, error) {
	log.Info("Wiring aggregates...")
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return Aggregates{}, fmt.Errorf("init authz enforcer: %w", err)
	}
	base := aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: aggregates.NewObservabilityHooks(metrics),
	}
	return Aggregates{
		Recipe: aggregates.NewRecipeAggregate(aggregates.RecipeAggregateDeps{
			Base:        base,
			Recipes:     repos.Recipe,
			Lines:       repos.RecipeIngredient,
			Ingredients: repos.Ingredient,
			Memberships: repos.Membership,
			Authz:       enforcer,
		}),
		Membership: aggregates.NewMembershipAggregate(aggregates.MembershipAggregateDeps{
			Base:        base,
			Memberships: repos.Membership,
			Recipes:     repos.Recipe,
			Users:       repos.User,
		}),
		User: aggregates.NewUserAggregate(aggregates.UserAggregateDeps{
			Base:        base,
			Users:       repos.User,
			Tokens:      repos.UserToken,
			Recipes:     repos.Recipe,
			Lines:       repos.RecipeIngredient,
			Memberships: repos.Membership,
		}),
	}, nil
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg *Config, repos Repos, aggs Aggregates, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	authService := services.NewAuthService(db, log, repos.User, repos.UserToken, services.AuthConfig{
		JWTSecretKey: cfg.Auth.JWTSecretKey,
		AccessTTL:    cfg.Auth.AccessTTL,
		BcryptCost:   cfg.Auth.BcryptCost,
	})
	ingredientService := services.NewIngredientService(log, repos.Ingredient, clients.IngredientCache, metrics)

	return Services{
		Auth:         authService,
		User:         services.NewUserService(log, repos.User, repos.Recipe, repos.RecipeIngredient, repos.Membership, aggs.User, clients.Bucket),
		Avatar:       services.NewAvatarService(log, repos.User, clients.Bucket),
		Recipe:       services.NewRecipeService(log, repos.User, repos.Recipe, repos.RecipeIngredient, repos.Membership, aggs.Recipe, clients.Bucket),
		Membership:   services.NewMembershipService(log, repos.Recipe, aggs.Membership),
		Subscription: services.NewSubscriptionService(log, repos.User, repos.Recipe, repos.RecipeIngredient, repos.Membership, aggs.Membership),
		Ingredient:   ingredientService,
		Importer:     services.NewIngredientImporter(db, log, repos.Ingredient, ingredientService),
	}
}
