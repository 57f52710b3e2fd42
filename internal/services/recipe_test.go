package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/objectstore"
	"github.com/yungbote/foodgram-backend/internal/platform/shortlink"
)

func recipeInput(t *testing.T, name string, lines ...types.LineItemInput) RecipeWriteInput {
	t.Helper()
	return RecipeWriteInput{
		Ingredients: lines,
		Image:       ptr(pngDataURL(t, 8, 8)),
		Name:        ptr(name),
		Text:        ptr("Mix and bake."),
		CookingTime: ptr(25),
	}
}

func TestRecipeCreate(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.ctx, f.db, "rc_author")
	flour := testutil.SeedIngredient(t, f.ctx, f.db, "flour", "g")
	sugar := testutil.SeedIngredient(t, f.ctx, f.db, "sugar", "g")

	view, err := f.recipeSvc.Create(f.as(author.ID), recipeInput(t, "Pie",
		types.LineItemInput{IngredientID: flour.ID, Amount: 200},
		types.LineItemInput{IngredientID: sugar.ID, Amount: 50},
	))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Recipe.ID == 0 || view.Recipe.Name != "Pie" || view.Recipe.CookingTime != 25 {
		t.Fatalf("unexpected recipe: %+v", view.Recipe)
	}
	if view.Author.User == nil || view.Author.User.ID != author.ID {
		t.Fatalf("author not attached: %+v", view.Author)
	}
	if len(view.Lines) != 2 || view.IsFavorited || view.IsInCart {
		t.Fatalf("unexpected view: lines=%d fav=%v cart=%v", len(view.Lines), view.IsFavorited, view.IsInCart)
	}
	if !f.bucket.has(objectstore.BucketCategoryRecipe, view.Recipe.ImageBucketKey) {
		t.Fatalf("image %q was not uploaded", view.Recipe.ImageBucketKey)
	}
	if !strings.HasPrefix(view.Recipe.ImageURL, "http://cdn.test/") {
		t.Fatalf("unexpected image url %q", view.Recipe.ImageURL)
	}
}

func TestRecipeCreateRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.ctx, f.db, "rc_bad")
	flour := testutil.SeedIngredient(t, f.ctx, f.db, "flour", "g")
	line := types.LineItemInput{IngredientID: flour.ID, Amount: 100}
	ctx := f.as(author.ID)

	noImage := recipeInput(t, "No image", line)
	noImage.Image = nil
	if _, err := f.recipeSvc.Create(ctx, noImage); domainagg.MessageOf(err) != "image: this field is required" {
		t.Fatalf("expected missing image error, got %v", err)
	}

	notImage := recipeInput(t, "Text file", line)
	notImage.Image = ptr("data:text/plain;base64,aGVsbG8=")
	_, err := f.recipeSvc.Create(ctx, notImage)
	if domainagg.CodeOf(err) != domainagg.CodeValidation || !strings.HasPrefix(domainagg.MessageOf(err), "image: ") {
		t.Fatalf("expected image validation error, got %v", err)
	}

	// The upload happens before the aggregate validates, so it must be rolled back.
	zeroTime := recipeInput(t, "Instant", line)
	zeroTime.CookingTime = ptr(0)
	if _, err := f.recipeSvc.Create(ctx, zeroTime); domainagg.CodeOf(err) != domainagg.CodeValidation {
		t.Fatalf("expected cooking time validation error, got %v", err)
	}
	unknown := recipeInput(t, "Mystery", types.LineItemInput{IngredientID: flour.ID + 100, Amount: 1})
	if _, err := f.recipeSvc.Create(ctx, unknown); domainagg.CodeOf(err) != domainagg.CodeValidation {
		t.Fatalf("expected unknown ingredient validation error, got %v", err)
	}
	if n := f.bucket.count(); n != 0 {
		t.Fatalf("rejected recipes left %d objects behind", n)
	}

	if _, err := f.recipeSvc.Create(f.ctx, recipeInput(t, "Anon", line)); domainagg.CodeOf(err) != domainagg.CodeUnauthenticated {
		t.Fatalf("anonymous create should be unauthenticated, got %v", err)
	}
}

func TestRecipeCreateStoreUnavailable(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.ctx, f.db, "rc_store")
	flour := testutil.SeedIngredient(t, f.ctx, f.db, "flour", "g")
	f.bucket.failPut = fmt.Errorf("%w: breaker open", objectstore.ErrStoreUnavailable)

	_, err := f.recipeSvc.Create(f.as(author.ID), recipeInput(t, "Pie", types.LineItemInput{IngredientID: flour.ID, Amount: 1}))
	if domainagg.CodeOf(err) != domainagg.CodeRetryable {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

func TestRecipeUpdate(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.ctx, f.db, "ru_author")
	other := testutil.SeedUser(t, f.ctx, f.db, "ru_other")
	flour := testutil.SeedIngredient(t, f.ctx, f.db, "flour", "g")
	milk := testutil.SeedIngredient(t, f.ctx, f.db, "milk", "ml")

	created, err := f.recipeSvc.Create(f.as(author.ID), recipeInput(t, "Pancakes", types.LineItemInput{IngredientID: flour.ID, Amount: 100}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	oldKey := created.Recipe.ImageBucketKey

	upd := recipeInput(t, "Crepes", types.LineItemInput{IngredientID: milk.ID, Amount: 300})
	updated, err := f.recipeSvc.Update(f.as(author.ID), created.Recipe.ID, upd)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Recipe.Name != "Crepes" || len(updated.Lines) != 1 || updated.Lines[0].Name != "milk" {
		t.Fatalf("unexpected updated view: %+v lines=%+v", updated.Recipe, updated.Lines)
	}
	if f.bucket.has(objectstore.BucketCategoryRecipe, oldKey) {
		t.Fatalf("replaced image %q still stored", oldKey)
	}
	if !f.bucket.has(objectstore.BucketCategoryRecipe, updated.Recipe.ImageBucketKey) {
		t.Fatalf("new image missing")
	}

	uploads := f.bucket.uploadCount()
	_, err = f.recipeSvc.Update(f.as(other.ID), created.Recipe.ID, recipeInput(t, "Stolen", types.LineItemInput{IngredientID: milk.ID, Amount: 1}))
	if domainagg.CodeOf(err) != domainagg.CodePermissionDenied {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if n := f.bucket.uploadCount(); n != uploads {
		t.Fatalf("non-author update reached the object store: %d uploads, want %d", n, uploads)
	}
	if n := f.bucket.count(); n != 1 {
		t.Fatalf("rejected update leaked an upload: %d objects", n)
	}
	if _, err := f.recipeSvc.Update(f.as(author.ID), created.Recipe.ID+100, upd); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("image update of a missing recipe: %v", err)
	}
	if n := f.bucket.uploadCount(); n != uploads {
		t.Fatalf("missing recipe update reached the object store: %d uploads", n)
	}

	partial := RecipeWriteInput{Name: ptr("Crepes v2")}
	if _, err := f.recipeSvc.Update(f.as(author.ID), created.Recipe.ID, partial); domainagg.MessageOf(err) != "ingredients: this field is required" {
		t.Fatalf("update without ingredients should fail, got %v", err)
	}

	if _, err := f.recipeSvc.Update(f.as(author.ID), created.Recipe.ID+100, partial); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecipeDeleteRemovesImage(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.ctx, f.db, "rd_author")
	other := testutil.SeedUser(t, f.ctx, f.db, "rd_other")
	flour := testutil.SeedIngredient(t, f.ctx, f.db, "flour", "g")

	created, err := f.recipeSvc.Create(f.as(author.ID), recipeInput(t, "Bread", types.LineItemInput{IngredientID: flour.ID, Amount: 500}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.recipeSvc.Delete(f.as(other.ID), created.Recipe.ID); domainagg.CodeOf(err) != domainagg.CodePermissionDenied {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if err := f.recipeSvc.Delete(f.as(author.ID), created.Recipe.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.bucket.count() != 0 {
		t.Fatalf("image not removed after delete")
	}
	if _, err := f.recipeSvc.Get(f.ctx, created.Recipe.ID); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("deleted recipe still readable: %v", err)
	}
}

func TestRecipeListFilters(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.ctx, f.db, "rl_author")
	other := testutil.SeedUser(t, f.ctx, f.db, "rl_other")
	viewer := testutil.SeedUser(t, f.ctx, f.db, "rl_viewer")
	salt := testutil.SeedIngredient(t, f.ctx, f.db, "salt", "g")
	line := types.LineItemInput{IngredientID: salt.ID, Amount: 1}

	soup := testutil.SeedRecipe(t, f.ctx, f.db, author.ID, "soup", line)
	stew := testutil.SeedRecipe(t, f.ctx, f.db, author.ID, "stew", line)
	testutil.SeedRecipe(t, f.ctx, f.db, other.ID, "salad", line)

	vctx := f.as(viewer.ID)
	if _, err := f.membershipSvc.AddRecipe(vctx, types.KindFavorite, soup.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if _, err := f.membershipSvc.AddRecipe(vctx, types.KindShoppingCart, stew.ID); err != nil {
		t.Fatalf("cart: %v", err)
	}

	all, total, err := f.recipeSvc.List(f.ctx, RecipeQuery{}, 0, 10)
	if err != nil || total != 3 || len(all) != 3 {
		t.Fatalf("List all: total=%d len=%d err=%v", total, len(all), err)
	}

	byAuthor, total, err := f.recipeSvc.List(f.ctx, RecipeQuery{AuthorID: author.ID}, 0, 10)
	if err != nil || total != 2 || len(byAuthor) != 2 {
		t.Fatalf("List by author: total=%d err=%v", total, err)
	}

	favs, total, err := f.recipeSvc.List(vctx, RecipeQuery{FavoritedOnly: true}, 0, 10)
	if err != nil || total != 1 || favs[0].Recipe.ID != soup.ID || !favs[0].IsFavorited || favs[0].IsInCart {
		t.Fatalf("favorites filter: total=%d err=%v", total, err)
	}

	cart, total, err := f.recipeSvc.List(vctx, RecipeQuery{InCartOnly: true, AuthorID: author.ID}, 0, 10)
	if err != nil || total != 1 || cart[0].Recipe.ID != stew.ID || !cart[0].IsInCart {
		t.Fatalf("cart filter: total=%d err=%v", total, err)
	}

	anon, total, err := f.recipeSvc.List(f.ctx, RecipeQuery{FavoritedOnly: true, InCartOnly: true}, 0, 10)
	if err != nil || total != 3 || len(anon) != 3 {
		t.Fatalf("anonymous viewers ignore membership filters: total=%d err=%v", total, err)
	}
	for _, v := range anon {
		if v.IsFavorited || v.IsInCart {
			t.Fatalf("anonymous view carries membership flags: %+v", v)
		}
	}

	page, total, err := f.recipeSvc.List(f.ctx, RecipeQuery{}, 2, 2)
	if err != nil || total != 3 || len(page) != 1 {
		t.Fatalf("second page: total=%d len=%d err=%v", total, len(page), err)
	}
}

func TestRecipeShortCode(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.ctx, f.db, "rs_author")
	recipe := testutil.SeedRecipe(t, f.ctx, f.db, author.ID, "toast")

	code, err := f.recipeSvc.ShortCode(f.ctx, recipe.ID)
	if err != nil || code == "" {
		t.Fatalf("ShortCode: %q %v", code, err)
	}
	id, err := f.recipeSvc.ResolveShortCode(f.ctx, code)
	if err != nil || id != recipe.ID {
		t.Fatalf("ResolveShortCode: id=%d err=%v", id, err)
	}

	if _, err := f.recipeSvc.ShortCode(f.ctx, recipe.ID+100); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("short code for missing recipe: %v", err)
	}
	if _, err := f.recipeSvc.ResolveShortCode(f.ctx, shortlink.Encode(recipe.ID+100)); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("dangling short code: %v", err)
	}
	if _, err := f.recipeSvc.ResolveShortCode(f.ctx, "!!"); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("garbage short code: %v", err)
	}
}

func TestShoppingListFromCart(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.ctx, f.db, "sl_author")
	shopper := testutil.SeedUser(t, f.ctx, f.db, "sl_shopper")
	flour := testutil.SeedIngredient(t, f.ctx, f.db, "flour", "g")
	eggs := testutil.SeedIngredient(t, f.ctx, f.db, "eggs", "pcs")

	bread := testutil.SeedRecipe(t, f.ctx, f.db, author.ID, "bread", types.LineItemInput{IngredientID: flour.ID, Amount: 500})
	cake := testutil.SeedRecipe(t, f.ctx, f.db, author.ID, "cake",
		types.LineItemInput{IngredientID: flour.ID, Amount: 250},
		types.LineItemInput{IngredientID: eggs.ID, Amount: 3},
	)
	testutil.SeedRecipe(t, f.ctx, f.db, author.ID, "ignored", types.LineItemInput{IngredientID: eggs.ID, Amount: 12})

	ctx := f.as(shopper.ID)
	empty, err := f.recipeSvc.ShoppingList(ctx)
	if err != nil || !strings.Contains(empty, "Total ingredients: 0") {
		t.Fatalf("empty cart list: %q %v", empty, err)
	}

	for _, id := range []int64{bread.ID, cake.ID} {
		if _, err := f.membershipSvc.AddRecipe(ctx, types.KindShoppingCart, id); err != nil {
			t.Fatalf("add to cart: %v", err)
		}
	}
	list, err := f.recipeSvc.ShoppingList(ctx)
	if err != nil {
		t.Fatalf("ShoppingList: %v", err)
	}
	for _, want := range []string{"eggs (pcs) — 3\n", "flour (g) — 750\n", "Total ingredients: 2"} {
		if !strings.Contains(list, want) {
			t.Fatalf("shopping list missing %q:\n%s", want, list)
		}
	}
	if strings.Index(list, "eggs") > strings.Index(list, "flour") {
		t.Fatalf("shopping list not sorted:\n%s", list)
	}

	if _, err := f.recipeSvc.ShoppingList(f.ctx); domainagg.CodeOf(err) != domainagg.CodeUnauthenticated {
		t.Fatalf("anonymous shopping list: %v", err)
	}
}
