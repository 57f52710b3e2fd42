package aggregates

import (
	"context"
	"fmt"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
)

type UserAggregateDeps struct {
	Base BaseDeps

	Users       repos.UserRepo
	Tokens      repos.UserTokenRepo
	Recipes     repos.RecipeRepo
	Lines       repos.RecipeIngredientRepo
	Memberships repos.MembershipRepo
}

type userAggregate struct {
	deps UserAggregateDeps
}

func NewUserAggregate(deps UserAggregateDeps) domainagg.UserAggregate {
	deps.Base = deps.Base.withDefaults()
	return &userAggregate{deps: deps}
}

func (a *userAggregate) Contract() domainagg.Contract {
	return domainagg.UserAggregateContract
}

// Delete removes the user's recipes with their line items and membership
// rows, the user's own memberships, subscriptions in both directions,
// tokens and finally the user row.
func (a *userAggregate) Delete(ctx context.Context, in domainagg.DeleteUserInput) (domainagg.DeleteUserResult, error) {
	const op = "Users.User.Delete"
	var out domainagg.DeleteUserResult
	if in.UserID <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if a.deps.Users == nil || a.deps.Tokens == nil || a.deps.Recipes == nil || a.deps.Lines == nil || a.deps.Memberships == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "user aggregate deps not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		users, err := a.deps.Users.GetByIDs(dbc, []int64{in.UserID})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("user %d not found", in.UserID), nil)
		}
		u := users[0]

		owned, err := a.deps.Recipes.GetByAuthorIDs(dbc, []int64{u.ID})
		if err != nil {
			return err
		}
		recipeIDs := make([]int64, 0, len(owned))
		imageKeys := make([]string, 0, len(owned))
		for _, r := range owned {
			recipeIDs = append(recipeIDs, r.ID)
			if r.ImageBucketKey != "" {
				imageKeys = append(imageKeys, r.ImageBucketKey)
			}
		}

		if err := a.deps.Lines.FullDeleteByRecipeIDs(dbc, recipeIDs); err != nil {
			return err
		}
		for _, kind := range []types.MembershipKind{types.KindFavorite, types.KindShoppingCart} {
			if err := a.deps.Memberships.DeleteByTargets(dbc, kind, recipeIDs); err != nil {
				return err
			}
		}
		if err := a.deps.Recipes.FullDeleteByIDs(dbc, recipeIDs); err != nil {
			return err
		}

		owner := []int64{u.ID}
		for _, kind := range []types.MembershipKind{types.KindFavorite, types.KindShoppingCart, types.KindSubscription} {
			if err := a.deps.Memberships.DeleteByOwners(dbc, kind, owner); err != nil {
				return err
			}
		}
		if err := a.deps.Memberships.DeleteByTargets(dbc, types.KindSubscription, owner); err != nil {
			return err
		}
		if err := a.deps.Tokens.FullDeleteByUserIDs(dbc, owner); err != nil {
			return err
		}
		if err := a.deps.Users.FullDeleteByIDs(dbc, owner); err != nil {
			return err
		}

		out = domainagg.DeleteUserResult{
			UserID:          u.ID,
			RecipeIDs:       recipeIDs,
			RecipeImageKeys: imageKeys,
			AvatarBucketKey: u.AvatarBucketKey,
		}
		return nil
	})
	if err != nil {
		return domainagg.DeleteUserResult{}, err
	}
	return out, nil
}
