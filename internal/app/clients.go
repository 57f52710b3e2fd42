package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/foodgram-backend/internal/platform/cache"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/platform/objectstore"
)

const ingredientCachePrefix = "foodgram:ingredients:"

type Clients struct {
	Bucket          objectstore.BucketService
	IngredientCache cache.Store
	redis           *cache.Redis
}

func wireClients(log *logger.Logger, cfg *Config) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := resolveBucketService(log)
	if err != nil {
		return Clients{}, err
	}

	local, err := cache.NewLRU(cfg.Cache.IngredientSize, cfg.Cache.IngredientTTL)
	if err != nil {
		return Clients{}, fmt.Errorf("init ingredient lru: %w", err)
	}

	var remote *cache.Redis
	if addr := strings.TrimSpace(cfg.Cache.RedisAddr); addr != "" {
		remote, err = cache.NewRedis(log, addr, ingredientCachePrefix, cfg.Cache.IngredientTTL)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
	}

	clients := Clients{Bucket: bucket, redis: remote}
	if remote != nil {
		clients.IngredientCache = cache.NewTiered(local, remote)
	} else {
		clients.IngredientCache = local
	}
	return clients, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
}
