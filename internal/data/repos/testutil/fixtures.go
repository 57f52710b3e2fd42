package testutil

import (
	"context"
	"fmt"
	"testing"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "A",
		LastName:  "B",
		Password:  "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, name, unit string) *types.Ingredient {
	tb.Helper()
	ing := &types.Ingredient{Name: name, MeasurementUnit: unit}
	if err := tx.WithContext(ctx).Create(ing).Error; err != nil {
		tb.Fatalf("seed ingredient: %v", err)
	}
	return ing
}

// SeedRecipe creates a recipe with one line item per (ingredient, amount) pair.
func SeedRecipe(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID int64, name string, lines ...types.LineItemInput) *types.Recipe {
	tb.Helper()
	r := &types.Recipe{
		AuthorID:       authorID,
		Name:           name,
		ImageBucketKey: fmt.Sprintf("recipes/%s.jpg", name),
		ImageURL:       fmt.Sprintf("http://cdn.test/recipes/%s.jpg", name),
		Text:           "text",
		CookingTime:    10,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed recipe: %v", err)
	}
	for _, l := range lines {
		row := &types.RecipeIngredient{RecipeID: r.ID, IngredientID: l.IngredientID, Amount: l.Amount}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed recipe ingredient: %v", err)
		}
	}
	return r
}
