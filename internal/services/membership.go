package services

import (
	"context"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// MembershipService marks recipes as favorites or puts them in the cart.
type MembershipService interface {
	AddRecipe(ctx context.Context, kind types.MembershipKind, recipeID int64) (*types.Recipe, error)
	RemoveRecipe(ctx context.Context, kind types.MembershipKind, recipeID int64) error
}

type membershipService struct {
	log           *logger.Logger
	recipeRepo    repos.RecipeRepo
	membershipAgg domainagg.MembershipAggregate
}

func NewMembershipService(log *logger.Logger, recipeRepo repos.RecipeRepo, membershipAgg domainagg.MembershipAggregate) MembershipService {
	return &membershipService{
		log:           log.With("service", "MembershipService"),
		recipeRepo:    recipeRepo,
		membershipAgg: membershipAgg,
	}
}

func (ms *membershipService) AddRecipe(ctx context.Context, kind types.MembershipKind, recipeID int64) (*types.Recipe, error) {
	const op = "Membership.AddRecipe"
	rd, err := requireViewer(ctx, op)
	if err != nil {
		return nil, err
	}
	if _, err := ms.membershipAgg.Add(ctx, domainagg.MembershipInput{Kind: kind, OwnerID: rd.UserID, TargetID: recipeID}); err != nil {
		return nil, err
	}
	found, err := ms.recipeRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []int64{recipeID})
	if err != nil {
		return nil, internalErr(op, err)
	}
	if len(found) == 0 {
		return nil, notFoundErr(op, "recipe %d not found", recipeID)
	}
	return found[0], nil
}

func (ms *membershipService) RemoveRecipe(ctx context.Context, kind types.MembershipKind, recipeID int64) error {
	rd, err := requireViewer(ctx, "Membership.RemoveRecipe")
	if err != nil {
		return err
	}
	return ms.membershipAgg.Remove(ctx, domainagg.MembershipInput{Kind: kind, OwnerID: rd.UserID, TargetID: recipeID})
}
