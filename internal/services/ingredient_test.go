package services

import (
	"context"
	"sync"
	"testing"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
)

type mapStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	gets   int
	purges int
}

func newMapStore() *mapStore { return &mapStore{data: map[string][]byte{}} }

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.data[key]
	return v, ok
}

func (m *mapStore) Set(_ context.Context, key string, val []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
}

func (m *mapStore) Purge(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purges++
	m.data = map[string][]byte{}
	return nil
}

// countingIngredientRepo counts prefix searches that reach the database.
type countingIngredientRepo struct {
	repos.IngredientRepo
	searches int
}

func (c *countingIngredientRepo) SearchByNamePrefix(dbc dbctx.Context, prefix string) ([]*types.Ingredient, error) {
	c.searches++
	return c.IngredientRepo.SearchByNamePrefix(dbc, prefix)
}

func seedCatalog(t *testing.T) (*countingIngredientRepo, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	ctx := context.Background()
	for _, pair := range [][2]string{
		{"Sugar", "g"},
		{"sugar syrup", "ml"},
		{"salt", "g"},
		{"egg", "pcs"},
		{"eggplant", "pcs"},
		{"Абрикос", "г"},
		{"абрикосовый джем", "г"},
	} {
		testutil.SeedIngredient(t, ctx, db, pair[0], pair[1])
	}
	return &countingIngredientRepo{IngredientRepo: repos.NewIngredientRepo(db, testutil.Logger(t))}, ctx
}

func TestIngredientSearchIsCaseInsensitivePrefix(t *testing.T) {
	repo, ctx := seedCatalog(t)
	svc := NewIngredientService(testutil.Logger(t), repo, nil, nil)

	got, err := svc.Search(ctx, "  SUG ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Sugar" || got[1].Name != "sugar syrup" {
		t.Fatalf("unexpected matches: %+v", got)
	}

	cyrillic, err := svc.Search(ctx, "АБР")
	if err != nil {
		t.Fatalf("Search cyrillic: %v", err)
	}
	if len(cyrillic) != 2 || cyrillic[0].Name != "Абрикос" || cyrillic[1].Name != "абрикосовый джем" {
		t.Fatalf("non-ASCII prefixes must fold case: %+v", cyrillic)
	}
	if lower, err := svc.Search(ctx, "аб"); err != nil || len(lower) != 2 {
		t.Fatalf("lowercase cyrillic prefix: %+v %v", lower, err)
	}

	all, err := svc.Search(ctx, "")
	if err != nil || len(all) != 7 {
		t.Fatalf("empty prefix should list the catalog: %d %v", len(all), err)
	}
	none, err := svc.Search(ctx, "zzz")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("no match should be an empty list: %v %v", none, err)
	}
}

func TestIngredientSearchReadsThroughCache(t *testing.T) {
	repo, ctx := seedCatalog(t)
	store := newMapStore()
	svc := NewIngredientService(testutil.Logger(t), repo, store, nil)

	for i := 0; i < 3; i++ {
		got, err := svc.Search(ctx, "egg")
		if err != nil || len(got) != 2 {
			t.Fatalf("Search #%d: %v %v", i, got, err)
		}
	}
	if repo.searches != 1 {
		t.Fatalf("expected a single database search, got %d", repo.searches)
	}

	if err := svc.InvalidateCache(ctx); err != nil {
		t.Fatalf("InvalidateCache: %v", err)
	}
	if _, err := svc.Search(ctx, "EGG"); err != nil {
		t.Fatalf("Search after purge: %v", err)
	}
	if repo.searches != 2 || store.purges != 1 {
		t.Fatalf("purge should force a reload: searches=%d purges=%d", repo.searches, store.purges)
	}
}

func TestIngredientGet(t *testing.T) {
	repo, ctx := seedCatalog(t)
	svc := NewIngredientService(testutil.Logger(t), repo, nil, nil)

	all, _ := svc.Search(ctx, "salt")
	got, err := svc.Get(ctx, all[0].ID)
	if err != nil || got.Name != "salt" {
		t.Fatalf("Get: %+v %v", got, err)
	}
	_, err = svc.Get(ctx, 999999)
	if domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestIngredientSuggestToleratesTypos(t *testing.T) {
	repo, ctx := seedCatalog(t)
	svc := NewIngredientService(testutil.Logger(t), repo, newMapStore(), nil)

	got, err := svc.Suggest(ctx, "eplant", 0)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) == 0 || got[0].Name != "eggplant" {
		t.Fatalf("expected eggplant first, got %+v", got)
	}

	limited, err := svc.Suggest(ctx, "s", 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limit not applied: %v %v", limited, err)
	}
	empty, err := svc.Suggest(ctx, "   ", 5)
	if err != nil || len(empty) != 0 {
		t.Fatalf("blank query should suggest nothing: %v %v", empty, err)
	}
}
