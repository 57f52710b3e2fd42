package app

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/db"
	"github.com/yungbote/foodgram-backend/internal/platform/cache"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

// Tooling is the slice of the application the admin CLI needs: a migrated
// database, the ingredient importer and token maintenance. It never touches
// object storage.
type Tooling struct {
	Log      *logger.Logger
	Cfg      *Config
	DB       *gorm.DB
	Auth     services.AuthService
	Importer services.IngredientImporter

	database *db.PostgresService
	redis    *cache.Redis
}

func NewTooling() (*Tooling, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	database, err := db.NewPostgresService(log, cfg.DBConfig())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		_ = database.Close()
		log.Sync()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	t := &Tooling{Log: log, Cfg: cfg, DB: database.DB(), database: database}

	// The API's in-process tiers expire on their own; the shared tier is
	// purged after an import.
	var store cache.Store
	if addr := strings.TrimSpace(cfg.Cache.RedisAddr); addr != "" {
		t.redis, err = cache.NewRedis(log, addr, ingredientCachePrefix, cfg.Cache.IngredientTTL)
		if err != nil {
			t.Close()
			return nil, fmt.Errorf("init redis cache: %w", err)
		}
		store = t.redis
	}

	reposet := wireRepos(t.DB, log)
	catalog := services.NewIngredientService(log, reposet.Ingredient, store, nil)
	t.Importer = services.NewIngredientImporter(t.DB, log, reposet.Ingredient, catalog)
	t.Auth = services.NewAuthService(t.DB, log, reposet.User, reposet.UserToken, services.AuthConfig{
		JWTSecretKey: cfg.Auth.JWTSecretKey,
		AccessTTL:    cfg.Auth.AccessTTL,
		BcryptCost:   cfg.Auth.BcryptCost,
	})
	return t, nil
}

func (t *Tooling) Close() {
	if t == nil {
		return
	}
	if t.redis != nil {
		_ = t.redis.Close()
	}
	if t.database != nil {
		_ = t.database.Close()
	}
	t.Log.Sync()
}
