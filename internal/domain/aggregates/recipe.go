package aggregates

import (
	"context"

	"github.com/yungbote/foodgram-backend/internal/domain/recipes"
)

var RecipeAggregateContract = Contract{
	Name:             "Recipes.RecipeAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns a recipe together with its line items; cascades favorites and cart rows on delete.",
}

// RecipeAggregate owns the recipe + line item consistency boundary.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodePermissionDenied, CodeUnauthenticated,
// CodeConflict, CodeRetryable, CodeInternal.
type RecipeAggregate interface {
	Aggregate

	Create(ctx context.Context, in CreateRecipeInput) (*recipes.Recipe, error)
	Replace(ctx context.Context, in ReplaceRecipeInput) (ReplaceRecipeResult, error)
	// AuthorizeReplace runs the Replace permission check without writing.
	// Replace repeats it inside its transaction.
	AuthorizeReplace(ctx context.Context, recipeID int64, who Requester) error
	Delete(ctx context.Context, in DeleteRecipeInput) (DeleteRecipeResult, error)
}

// Requester is the identity a write is performed for.
type Requester struct {
	UserID  int64
	IsStaff bool
}

type RecipeImage struct {
	BucketKey string
	URL       string
}

type CreateRecipeInput struct {
	Author      Requester
	Name        string
	Image       *RecipeImage
	Text        string
	CookingTime int
	LineItems   []recipes.LineItemInput
}

// ReplaceRecipeInput leaves fields unchanged when their pointer is nil.
// LineItems is always required.
type ReplaceRecipeInput struct {
	RecipeID    int64
	Requester   Requester
	Name        *string
	Image       *RecipeImage
	Text        *string
	CookingTime *int
	LineItems   []recipes.LineItemInput
}

// ReplaceRecipeResult carries the previous image key when the image changed.
type ReplaceRecipeResult struct {
	Recipe           *recipes.Recipe
	ReplacedImageKey string
}

type DeleteRecipeInput struct {
	RecipeID  int64
	Requester Requester
}

type DeleteRecipeResult struct {
	RecipeID       int64
	ImageBucketKey string
}
