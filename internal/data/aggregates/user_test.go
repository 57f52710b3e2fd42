package aggregates_test

import (
	"testing"
	"time"

	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
)

func TestUserDeleteCascades(t *testing.T) {
	f := newFixture(t)
	dbc := dbctx.Context{Ctx: f.ctx}

	gone := testutil.SeedUser(t, f.ctx, f.db, "user_delete_gone")
	stays := testutil.SeedUser(t, f.ctx, f.db, "user_delete_stays")
	egg := testutil.SeedIngredient(t, f.ctx, f.db, "egg", "pcs")
	own := testutil.SeedRecipe(t, f.ctx, f.db, gone.ID, "own", types.LineItemInput{IngredientID: egg.ID, Amount: 1})
	foreign := testutil.SeedRecipe(t, f.ctx, f.db, stays.ID, "foreign", types.LineItemInput{IngredientID: egg.ID, Amount: 2})

	adds := []domainagg.MembershipInput{
		{Kind: types.KindFavorite, OwnerID: stays.ID, TargetID: own.ID},
		{Kind: types.KindShoppingCart, OwnerID: stays.ID, TargetID: own.ID},
		{Kind: types.KindFavorite, OwnerID: gone.ID, TargetID: foreign.ID},
		{Kind: types.KindShoppingCart, OwnerID: gone.ID, TargetID: foreign.ID},
		{Kind: types.KindSubscription, OwnerID: gone.ID, TargetID: stays.ID},
		{Kind: types.KindSubscription, OwnerID: stays.ID, TargetID: gone.ID},
	}
	for _, in := range adds {
		if _, err := f.membershipAgg.Add(f.ctx, in); err != nil {
			t.Fatalf("Add %+v: %v", in, err)
		}
	}
	if _, err := f.tokens.Create(dbc, []*types.UserToken{{UserID: gone.ID, JTI: "gone-jti", ExpiresAt: time.Now().Add(time.Hour)}}); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	res, err := f.userAgg.Delete(f.ctx, domainagg.DeleteUserInput{UserID: gone.ID})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(res.RecipeIDs) != 1 || res.RecipeIDs[0] != own.ID || len(res.RecipeImageKeys) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	if rows, _ := f.users.GetByIDs(dbc, []int64{gone.ID}); len(rows) != 0 {
		t.Fatalf("user row left behind")
	}
	if rows, _ := f.recipes.GetByIDs(dbc, []int64{own.ID}); len(rows) != 0 {
		t.Fatalf("owned recipe left behind")
	}
	if lines, _ := f.lines.GetLinesByRecipeIDs(dbc, []int64{own.ID}); len(lines) != 0 {
		t.Fatalf("owned line items left behind")
	}
	if lines, _ := f.lines.GetLinesByRecipeIDs(dbc, []int64{foreign.ID}); len(lines) != 1 {
		t.Fatalf("foreign recipe must keep its line items")
	}
	for _, kind := range []types.MembershipKind{types.KindFavorite, types.KindShoppingCart, types.KindSubscription} {
		if ids, _ := f.memberships.ListTargets(dbc, kind, stays.ID); len(ids) != 0 {
			t.Fatalf("%s rows pointing at deleted data left behind: %v", kind, ids)
		}
		if ids, _ := f.memberships.ListTargets(dbc, kind, gone.ID); len(ids) != 0 {
			t.Fatalf("%s rows owned by deleted user left behind: %v", kind, ids)
		}
	}
	if tok, _ := f.tokens.GetByJTI(dbc, "gone-jti"); tok != nil {
		t.Fatalf("token left behind")
	}

	_, err = f.userAgg.Delete(f.ctx, domainagg.DeleteUserInput{UserID: gone.ID})
	requireCode(t, err, domainagg.CodeNotFound)
}
