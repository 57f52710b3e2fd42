package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
)

// UserView is a user as seen by the current viewer.
type UserView struct {
	User         *types.User
	IsSubscribed bool
}

// AuthorView is a user card with a preview of their recipes.
type AuthorView struct {
	UserView
	Recipes      []*types.Recipe
	RecipesCount int64
}

type RecipeView struct {
	Recipe      *types.Recipe
	Author      UserView
	Lines       []*types.LineItem
	IsFavorited bool
	IsInCart    bool
}

// viewLoader batches the reads needed to present users and recipes.
type viewLoader struct {
	users       repos.UserRepo
	recipes     repos.RecipeRepo
	lines       repos.RecipeIngredientRepo
	memberships repos.MembershipRepo
}

func (vl viewLoader) flags(ctx context.Context, kind types.MembershipKind, viewerID int64, ids []int64) (map[int64]bool, error) {
	if viewerID <= 0 || len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	return vl.memberships.ExistingTargets(dbctx.Context{Ctx: ctx}, kind, viewerID, ids)
}

func (vl viewLoader) userViews(ctx context.Context, viewerID int64, users []*types.User) ([]UserView, error) {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := vl.flags(ctx, types.KindSubscription, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load subscription flags: %w", err)
	}
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, UserView{User: u, IsSubscribed: subscribed[u.ID]})
	}
	return out, nil
}

func (vl viewLoader) recipeViews(ctx context.Context, viewerID int64, recipes []*types.Recipe) ([]*RecipeView, error) {
	if len(recipes) == 0 {
		return []*RecipeView{}, nil
	}
	recipeIDs := make([]int64, 0, len(recipes))
	authorSet := map[int64]struct{}{}
	authorIDs := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		if _, ok := authorSet[r.AuthorID]; !ok {
			authorSet[r.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	var (
		authors    []*types.User
		subscribed map[int64]bool
		lines      []*types.LineItem
		favorited  map[int64]bool
		inCart     map[int64]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = vl.users.GetByIDs(dbctx.Context{Ctx: gctx}, authorIDs)
		return err
	})
	g.Go(func() error {
		var err error
		subscribed, err = vl.flags(gctx, types.KindSubscription, viewerID, authorIDs)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = vl.lines.GetLinesByRecipeIDs(dbctx.Context{Ctx: gctx}, recipeIDs)
		return err
	})
	g.Go(func() error {
		var err error
		favorited, err = vl.flags(gctx, types.KindFavorite, viewerID, recipeIDs)
		return err
	})
	g.Go(func() error {
		var err error
		inCart, err = vl.flags(gctx, types.KindShoppingCart, viewerID, recipeIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load recipe views: %w", err)
	}

	authorByID := make(map[int64]*types.User, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}
	linesByRecipe := make(map[int64][]*types.LineItem, len(recipes))
	for _, l := range lines {
		linesByRecipe[l.RecipeID] = append(linesByRecipe[l.RecipeID], l)
	}

	out := make([]*RecipeView, 0, len(recipes))
	for _, r := range recipes {
		recipeLines := linesByRecipe[r.ID]
		if recipeLines == nil {
			recipeLines = []*types.LineItem{}
		}
		out = append(out, &RecipeView{
			Recipe:      r,
			Author:      UserView{User: authorByID[r.AuthorID], IsSubscribed: subscribed[r.AuthorID]},
			Lines:       recipeLines,
			IsFavorited: favorited[r.ID],
			IsInCart:    inCart[r.ID],
		})
	}
	return out, nil
}

// authorViews attaches up to recipesLimit newest recipes (all when
// recipesLimit <= 0) and the full recipe count to each user.
func (vl viewLoader) authorViews(ctx context.Context, viewerID int64, users []*types.User, recipesLimit int) ([]*AuthorView, error) {
	base, err := vl.userViews(ctx, viewerID, users)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	dbc := dbctx.Context{Ctx: ctx}
	counts, err := vl.recipes.CountByAuthors(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}
	out := make([]*AuthorView, 0, len(base))
	for _, uv := range base {
		recipes, err := vl.recipes.ListByAuthor(dbc, uv.User.ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("list author recipes: %w", err)
		}
		out = append(out, &AuthorView{UserView: uv, Recipes: recipes, RecipesCount: counts[uv.User.ID]})
	}
	return out, nil
}
