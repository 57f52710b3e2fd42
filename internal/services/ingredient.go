package services

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sahilm/fuzzy"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/observability"
	"github.com/yungbote/foodgram-backend/internal/platform/cache"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

type IngredientService interface {
	Search(ctx context.Context, prefix string) ([]*types.Ingredient, error)
	Get(ctx context.Context, ingredientID int64) (*types.Ingredient, error)
	Suggest(ctx context.Context, query string, limit int) ([]*types.Ingredient, error)
	InvalidateCache(ctx context.Context) error
}

type ingredientService struct {
	log            *logger.Logger
	ingredientRepo repos.IngredientRepo
	store          cache.Store
	metrics        *observability.Metrics
}

// NewIngredientService reads through store when it is non-nil.
func NewIngredientService(log *logger.Logger, ingredientRepo repos.IngredientRepo, store cache.Store, metrics *observability.Metrics) IngredientService {
	return &ingredientService{
		log:            log.With("service", "IngredientService"),
		ingredientRepo: ingredientRepo,
		store:          store,
		metrics:        metrics,
	}
}

func prefixKey(prefix string) string {
	return "prefix:" + prefix
}

func (is *ingredientService) Search(ctx context.Context, prefix string) ([]*types.Ingredient, error) {
	const op = "Ingredient.Search"
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	key := prefixKey(prefix)

	if is.store != nil {
		if raw, ok := is.store.Get(ctx, key); ok {
			var cached []*types.Ingredient
			if err := json.Unmarshal(raw, &cached); err == nil {
				is.metrics.ObserveCacheLookup("ingredients", true)
				return cached, nil
			}
			is.log.Warn("dropping undecodable cache entry", "key", key)
		}
		is.metrics.ObserveCacheLookup("ingredients", false)
	}

	rows, err := is.ingredientRepo.SearchByNamePrefix(dbctx.Context{Ctx: ctx}, prefix)
	if err != nil {
		return nil, internalErr(op, err)
	}
	if rows == nil {
		rows = []*types.Ingredient{}
	}
	if is.store != nil {
		if raw, err := json.Marshal(rows); err == nil {
			is.store.Set(ctx, key, raw)
		}
	}
	return rows, nil
}

func (is *ingredientService) Get(ctx context.Context, ingredientID int64) (*types.Ingredient, error) {
	const op = "Ingredient.Get"
	rows, err := is.ingredientRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []int64{ingredientID})
	if err != nil {
		return nil, internalErr(op, err)
	}
	if len(rows) == 0 || rows[0] == nil {
		return nil, notFoundErr(op, "ingredient %d not found", ingredientID)
	}
	return rows[0], nil
}

type ingredientSource []*types.Ingredient

func (s ingredientSource) Len() int            { return len(s) }
func (s ingredientSource) String(i int) string { return strings.ToLower(s[i].Name) }

// Suggest ranks the whole catalog against query with fuzzy matching, best
// match first.
func (is *ingredientService) Suggest(ctx context.Context, query string, limit int) ([]*types.Ingredient, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []*types.Ingredient{}, nil
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}
	catalog, err := is.Search(ctx, "")
	if err != nil {
		return nil, err
	}
	matches := fuzzy.FindFrom(query, ingredientSource(catalog))
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]*types.Ingredient, 0, len(matches))
	for _, m := range matches {
		out = append(out, catalog[m.Index])
	}
	return out, nil
}

func (is *ingredientService) InvalidateCache(ctx context.Context) error {
	if is.store == nil {
		return nil
	}
	if err := is.store.Purge(ctx); err != nil {
		return internalErr("Ingredient.InvalidateCache", err)
	}
	return nil
}
