package aggregates

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/domain/recipes"
	"github.com/yungbote/foodgram-backend/internal/platform/authz"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
)

// Authorizer decides whether a subject may act on an object.
type Authorizer interface {
	Can(sub authz.Subject, ownerID int64, object, action string) (bool, error)
}

type RecipeAggregateDeps struct {
	Base BaseDeps

	Recipes     repos.RecipeRepo
	Lines       repos.RecipeIngredientRepo
	Ingredients repos.IngredientRepo
	Memberships repos.MembershipRepo
	Authz       Authorizer
}

type recipeAggregate struct {
	deps RecipeAggregateDeps
}

func NewRecipeAggregate(deps RecipeAggregateDeps) domainagg.RecipeAggregate {
	deps.Base = deps.Base.withDefaults()
	return &recipeAggregate{deps: deps}
}

func (a *recipeAggregate) Contract() domainagg.Contract {
	return domainagg.RecipeAggregateContract
}

func (a *recipeAggregate) Create(ctx context.Context, in domainagg.CreateRecipeInput) (*types.Recipe, error) {
	const op = "Recipes.Recipe.Create"
	if err := a.requirePermission(op, in.Author, 0, authz.ActionCreate); err != nil {
		return nil, err
	}
	if err := a.configured(op); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	text := strings.TrimSpace(in.Text)
	if err := firstError(
		validateName(name),
		validateText(text),
		validateCookingTime(in.CookingTime),
		validateImage(in.Image),
		validateLineItems(in.LineItems),
	); err != nil {
		return nil, MapError(op, err)
	}

	var out *types.Recipe
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.requireIngredients(dbc, in.LineItems); err != nil {
			return err
		}
		recipe := &types.Recipe{
			AuthorID:       in.Author.UserID,
			Name:           name,
			ImageBucketKey: in.Image.BucketKey,
			ImageURL:       in.Image.URL,
			Text:           text,
			CookingTime:    in.CookingTime,
		}
		if _, err := a.deps.Recipes.Create(dbc, []*types.Recipe{recipe}); err != nil {
			return err
		}
		if err := a.insertLines(dbc, recipe.ID, in.LineItems); err != nil {
			return err
		}
		out = recipe
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *recipeAggregate) Replace(ctx context.Context, in domainagg.ReplaceRecipeInput) (domainagg.ReplaceRecipeResult, error) {
	const op = "Recipes.Recipe.Replace"
	var out domainagg.ReplaceRecipeResult
	if err := a.configured(op); err != nil {
		return out, err
	}
	if in.Requester.UserID <= 0 {
		return out, domainagg.NewError(domainagg.CodeUnauthenticated, op, "authentication credentials were not provided", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		recipe, err := a.loadRecipe(dbc, op, in.RecipeID)
		if err != nil {
			return err
		}
		if err := a.requirePermission(op, in.Requester, recipe.AuthorID, authz.ActionUpdate); err != nil {
			return err
		}

		if in.LineItems == nil {
			return ValidationError("ingredients: this field is required")
		}
		updates := map[string]interface{}{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if err := validateName(name); err != nil {
				return err
			}
			updates["name"] = name
			recipe.Name = name
		}
		if in.Text != nil {
			text := strings.TrimSpace(*in.Text)
			if err := validateText(text); err != nil {
				return err
			}
			updates["text"] = text
			recipe.Text = text
		}
		if in.CookingTime != nil {
			if err := validateCookingTime(*in.CookingTime); err != nil {
				return err
			}
			updates["cooking_time"] = *in.CookingTime
			recipe.CookingTime = *in.CookingTime
		}
		if in.Image != nil {
			if err := validateImage(in.Image); err != nil {
				return err
			}
			if recipe.ImageBucketKey != in.Image.BucketKey {
				out.ReplacedImageKey = recipe.ImageBucketKey
			}
			updates["image_bucket_key"] = in.Image.BucketKey
			updates["image_url"] = in.Image.URL
			recipe.ImageBucketKey = in.Image.BucketKey
			recipe.ImageURL = in.Image.URL
		}
		if err := validateLineItems(in.LineItems); err != nil {
			return err
		}
		if err := a.requireIngredients(dbc, in.LineItems); err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := a.deps.Recipes.UpdateFields(dbc, recipe.ID, updates); err != nil {
				return err
			}
		}
		if err := a.deps.Lines.FullDeleteByRecipeIDs(dbc, []int64{recipe.ID}); err != nil {
			return err
		}
		if err := a.insertLines(dbc, recipe.ID, in.LineItems); err != nil {
			return err
		}
		out.Recipe = recipe
		return nil
	})
	if err != nil {
		return domainagg.ReplaceRecipeResult{}, err
	}
	return out, nil
}

func (a *recipeAggregate) AuthorizeReplace(ctx context.Context, recipeID int64, who domainagg.Requester) error {
	const op = "Recipes.Recipe.AuthorizeReplace"
	if err := a.configured(op); err != nil {
		return err
	}
	if who.UserID <= 0 {
		return domainagg.NewError(domainagg.CodeUnauthenticated, op, "authentication credentials were not provided", nil)
	}
	recipe, err := a.loadRecipe(dbctx.Context{Ctx: ctx}, op, recipeID)
	if err != nil {
		return MapError(op, err)
	}
	return a.requirePermission(op, who, recipe.AuthorID, authz.ActionUpdate)
}

func (a *recipeAggregate) Delete(ctx context.Context, in domainagg.DeleteRecipeInput) (domainagg.DeleteRecipeResult, error) {
	const op = "Recipes.Recipe.Delete"
	var out domainagg.DeleteRecipeResult
	if err := a.configured(op); err != nil {
		return out, err
	}
	if in.Requester.UserID <= 0 {
		return out, domainagg.NewError(domainagg.CodeUnauthenticated, op, "authentication credentials were not provided", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		recipe, err := a.loadRecipe(dbc, op, in.RecipeID)
		if err != nil {
			return err
		}
		if err := a.requirePermission(op, in.Requester, recipe.AuthorID, authz.ActionDelete); err != nil {
			return err
		}

		ids := []int64{recipe.ID}
		if err := a.deps.Lines.FullDeleteByRecipeIDs(dbc, ids); err != nil {
			return err
		}
		if err := a.deps.Memberships.DeleteByTargets(dbc, types.KindFavorite, ids); err != nil {
			return err
		}
		if err := a.deps.Memberships.DeleteByTargets(dbc, types.KindShoppingCart, ids); err != nil {
			return err
		}
		if err := a.deps.Recipes.FullDeleteByIDs(dbc, ids); err != nil {
			return err
		}
		out = domainagg.DeleteRecipeResult{RecipeID: recipe.ID, ImageBucketKey: recipe.ImageBucketKey}
		return nil
	})
	if err != nil {
		return domainagg.DeleteRecipeResult{}, err
	}
	return out, nil
}

func (a *recipeAggregate) configured(op string) error {
	if a.deps.Recipes == nil || a.deps.Lines == nil || a.deps.Ingredients == nil || a.deps.Memberships == nil || a.deps.Authz == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "recipe aggregate deps not configured", nil)
	}
	return nil
}

func (a *recipeAggregate) requirePermission(op string, who domainagg.Requester, ownerID int64, action string) error {
	if who.UserID <= 0 {
		return domainagg.NewError(domainagg.CodeUnauthenticated, op, "authentication credentials were not provided", nil)
	}
	if a.deps.Authz == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "recipe aggregate deps not configured", nil)
	}
	ok, err := a.deps.Authz.Can(authz.Subject{UserID: who.UserID, IsStaff: who.IsStaff}, ownerID, authz.ObjectRecipe, action)
	if err != nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "authorization check failed", err)
	}
	if !ok {
		return domainagg.NewError(domainagg.CodePermissionDenied, op, "you do not have permission to perform this action", nil)
	}
	return nil
}

func (a *recipeAggregate) loadRecipe(dbc dbctx.Context, op string, recipeID int64) (*types.Recipe, error) {
	rows, err := a.deps.Recipes.GetByIDs(dbc, []int64{recipeID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0] == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("recipe %d not found", recipeID), nil)
	}
	return rows[0], nil
}

func (a *recipeAggregate) requireIngredients(dbc dbctx.Context, items []types.LineItemInput) error {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.IngredientID)
	}
	found, err := a.deps.Ingredients.GetByIDs(dbc, ids)
	if err != nil {
		return err
	}
	known := make(map[int64]bool, len(found))
	for _, ing := range found {
		known[ing.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return ValidationError(fmt.Sprintf("ingredients: ingredient %d does not exist", id))
		}
	}
	return nil
}

func (a *recipeAggregate) insertLines(dbc dbctx.Context, recipeID int64, items []types.LineItemInput) error {
	rows := make([]*types.RecipeIngredient, 0, len(items))
	for _, it := range items {
		rows = append(rows, &types.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: it.IngredientID,
			Amount:       it.Amount,
		})
	}
	_, err := a.deps.Lines.Create(dbc, rows)
	return err
}

func validateName(name string) error {
	if name == "" {
		return ValidationError("name: this field may not be blank")
	}
	if utf8.RuneCountInString(name) > recipes.MaxNameLength {
		return ValidationError(fmt.Sprintf("name: ensure this field has no more than %d characters", recipes.MaxNameLength))
	}
	return nil
}

func validateText(text string) error {
	if text == "" {
		return ValidationError("text: this field may not be blank")
	}
	return nil
}

func validateCookingTime(minutes int) error {
	if minutes < recipes.MinCookingTime || minutes > recipes.MaxCookingTime {
		return ValidationError(fmt.Sprintf("cooking_time: must be between %d and %d", recipes.MinCookingTime, recipes.MaxCookingTime))
	}
	return nil
}

func validateImage(img *domainagg.RecipeImage) error {
	if img == nil || strings.TrimSpace(img.BucketKey) == "" || strings.TrimSpace(img.URL) == "" {
		return ValidationError("image: this field is required")
	}
	return nil
}

func validateLineItems(items []types.LineItemInput) error {
	if items == nil {
		return ValidationError("ingredients: this field is required")
	}
	if len(items) == 0 {
		return ValidationError("ingredients: at least one ingredient is required")
	}
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if it.IngredientID <= 0 {
			return ValidationError("ingredients: ingredient id must be a positive integer")
		}
		if seen[it.IngredientID] {
			return ValidationError("ingredients: ingredients must not repeat")
		}
		seen[it.IngredientID] = true
		if it.Amount < recipes.MinAmount || it.Amount > recipes.MaxAmount {
			return ValidationError(fmt.Sprintf("ingredients: amount must be between %d and %d", recipes.MinAmount, recipes.MaxAmount))
		}
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
