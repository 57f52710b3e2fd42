package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/services"
)

func testContext(target string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Params = params
	return c, rec
}

func TestPathID(t *testing.T) {
	cases := []struct {
		raw    string
		wantOK bool
		want   int64
	}{
		{"42", true, 42},
		{"0", false, 0},
		{"-3", false, 0},
		{"abc", false, 0},
		{"9223372036854775808", false, 0},
	}
	for _, tc := range cases {
		c, rec := testContext("/x", gin.Params{{Key: "id", Value: tc.raw}})
		got, ok := pathID(c, "id")
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("%q: want (%d,%v), got (%d,%v)", tc.raw, tc.want, tc.wantOK, got, ok)
		}
		if !ok && rec.Code != http.StatusNotFound {
			t.Fatalf("%q: want 404, got %d", tc.raw, rec.Code)
		}
	}
}

func TestQueryHelpers(t *testing.T) {
	c, _ := testContext("/x?is_favorited=1&is_in_shopping_cart=TRUE&other=0", nil)
	if !queryFlag(c, "is_favorited") || !queryFlag(c, "is_in_shopping_cart") {
		t.Fatalf("1 and true must be flags")
	}
	if queryFlag(c, "other") || queryFlag(c, "missing") {
		t.Fatalf("0 and absent must not be flags")
	}

	c, _ = testContext("/x?recipes_limit=3", nil)
	if n, ok := queryInt(c, "recipes_limit"); !ok || n != 3 {
		t.Fatalf("recipes_limit: got (%d,%v)", n, ok)
	}
	if n, ok := queryInt(c, "absent"); !ok || n != 0 {
		t.Fatalf("absent value should default to 0, got (%d,%v)", n, ok)
	}

	c, rec := testContext("/x?recipes_limit=-1", nil)
	if _, ok := queryInt(c, "recipes_limit"); ok {
		t.Fatalf("negative value must be rejected")
	}
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "recipes_limit") {
		t.Fatalf("unexpected rejection: %d %s", rec.Code, rec.Body.String())
	}
}

func sampleRecipeView() *services.RecipeView {
	avatar := "https://cdn.test/a.png"
	return &services.RecipeView{
		Recipe: &types.Recipe{ID: 7, AuthorID: 3, Name: "pancakes", ImageURL: "https://cdn.test/r.png", Text: "mix", CookingTime: 20},
		Author: services.UserView{
			User:         &types.User{ID: 3, Email: "cook@example.com", Username: "cook", FirstName: "Julia", LastName: "Child", AvatarURL: &avatar},
			IsSubscribed: true,
		},
		Lines: []*types.LineItem{
			{RecipeID: 7, IngredientID: 11, Name: "flour", MeasurementUnit: "g", Amount: 250},
		},
		IsFavorited: true,
	}
}

func TestRecipePresenters(t *testing.T) {
	v := sampleRecipeView()

	full, ok := presentRecipeFor("retrieve", v).(recipePayload)
	if !ok {
		t.Fatalf("retrieve should build the full payload, got %T", presentRecipeFor("retrieve", v))
	}
	if full.Author.Username != "cook" || !full.Author.IsSubscribed || *full.Author.Avatar != "https://cdn.test/a.png" {
		t.Fatalf("unexpected author: %+v", full.Author)
	}
	if len(full.Ingredients) != 1 || full.Ingredients[0].ID != 11 || full.Ingredients[0].Amount != 250 {
		t.Fatalf("unexpected ingredients: %+v", full.Ingredients)
	}
	if !full.IsFavorited || full.IsInShoppingCart {
		t.Fatalf("flags not carried: %+v", full)
	}

	for _, action := range []string{"favorite", "shopping_cart"} {
		mini, ok := presentRecipeFor(action, v).(recipeMinifiedPayload)
		if !ok {
			t.Fatalf("%s should build the minified payload", action)
		}
		if mini.ID != 7 || mini.Image != "https://cdn.test/r.png" || mini.CookingTime != 20 {
			t.Fatalf("%s: unexpected payload %+v", action, mini)
		}
	}

	if _, ok := presentRecipeFor("unknown", v).(recipePayload); !ok {
		t.Fatalf("unknown actions fall back to the full payload")
	}
}

func TestUserPresenters(t *testing.T) {
	v := sampleRecipeView()
	author := services.AuthorView{
		UserView:     v.Author,
		Recipes:      []*types.Recipe{v.Recipe},
		RecipesCount: 4,
	}

	if _, ok := presentUserFor("create", author).(userCreatedPayload); !ok {
		t.Fatalf("create should omit subscription and avatar fields")
	}
	if p, ok := presentUserFor("me", author).(userPayload); !ok || p.ID != 3 {
		t.Fatalf("me should build the user payload, got %#v", presentUserFor("me", author))
	}
	sub, ok := presentUserFor("subscriptions", author).(authorPayload)
	if !ok {
		t.Fatalf("subscriptions should build the author payload")
	}
	if sub.RecipesCount != 4 || len(sub.Recipes) != 1 || sub.Recipes[0].Name != "pancakes" {
		t.Fatalf("unexpected author payload: %+v", sub)
	}

	empty := presentAuthor(services.AuthorView{UserView: v.Author})
	if empty.Recipes == nil {
		t.Fatalf("recipes must encode as [] not null")
	}
}
