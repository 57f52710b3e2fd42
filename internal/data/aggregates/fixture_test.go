package aggregates_test

import (
	"context"
	"testing"

	"github.com/yungbote/foodgram-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/foodgram-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/foodgram-backend/internal/data/repos"
	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/authz"
	"gorm.io/gorm"
)

type fixture struct {
	ctx   context.Context
	db    *gorm.DB
	hooks *aggtest.HooksRecorder

	users       repos.UserRepo
	tokens      repos.UserTokenRepo
	ingredients repos.IngredientRepo
	recipes     repos.RecipeRepo
	lines       repos.RecipeIngredientRepo
	memberships repos.MembershipRepo

	recipeAgg     domainagg.RecipeAggregate
	membershipAgg domainagg.MembershipAggregate
	userAgg       domainagg.UserAggregate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	f := &fixture{
		ctx:         context.Background(),
		db:          db,
		hooks:       &aggtest.HooksRecorder{},
		users:       repos.NewUserRepo(db, log),
		tokens:      repos.NewUserTokenRepo(db, log),
		ingredients: repos.NewIngredientRepo(db, log),
		recipes:     repos.NewRecipeRepo(db, log),
		lines:       repos.NewRecipeIngredientRepo(db, log),
		memberships: repos.NewMembershipRepo(db, log),
	}
	base := aggregates.BaseDeps{DB: db, Log: log, Hooks: f.hooks}
	f.recipeAgg = aggregates.NewRecipeAggregate(aggregates.RecipeAggregateDeps{
		Base:        base,
		Recipes:     f.recipes,
		Lines:       f.lines,
		Ingredients: f.ingredients,
		Memberships: f.memberships,
		Authz:       enforcer,
	})
	f.membershipAgg = aggregates.NewMembershipAggregate(aggregates.MembershipAggregateDeps{
		Base:        base,
		Memberships: f.memberships,
		Recipes:     f.recipes,
		Users:       f.users,
	})
	f.userAgg = aggregates.NewUserAggregate(aggregates.UserAggregateDeps{
		Base:        base,
		Users:       f.users,
		Tokens:      f.tokens,
		Recipes:     f.recipes,
		Lines:       f.lines,
		Memberships: f.memberships,
	})
	return f
}

func requester(id int64) domainagg.Requester {
	return domainagg.Requester{UserID: id}
}

func image(key string) *domainagg.RecipeImage {
	return &domainagg.RecipeImage{BucketKey: key, URL: "http://cdn.test/" + key}
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := domainagg.CodeOf(err); got != code {
		t.Fatalf("expected %s error, got %q (%v)", code, got, err)
	}
}
