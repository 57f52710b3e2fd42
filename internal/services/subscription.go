package services

import (
	"context"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type SubscriptionService interface {
	Subscribe(ctx context.Context, authorID int64, recipesLimit int) (*AuthorView, error)
	Unsubscribe(ctx context.Context, authorID int64) error
	List(ctx context.Context, offset, limit, recipesLimit int) ([]*AuthorView, int64, error)
}

type subscriptionService struct {
	log            *logger.Logger
	userRepo       repos.UserRepo
	membershipRepo repos.MembershipRepo
	membershipAgg  domainagg.MembershipAggregate
	views          viewLoader
}

func NewSubscriptionService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	recipeRepo repos.RecipeRepo,
	lineRepo repos.RecipeIngredientRepo,
	membershipRepo repos.MembershipRepo,
	membershipAgg domainagg.MembershipAggregate,
) SubscriptionService {
	return &subscriptionService{
		log:            log.With("service", "SubscriptionService"),
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		membershipAgg:  membershipAgg,
		views: viewLoader{
			users:       userRepo,
			recipes:     recipeRepo,
			lines:       lineRepo,
			memberships: membershipRepo,
		},
	}
}

func (ss *subscriptionService) Subscribe(ctx context.Context, authorID int64, recipesLimit int) (*AuthorView, error) {
	const op = "Subscription.Subscribe"
	rd, err := requireViewer(ctx, op)
	if err != nil {
		return nil, err
	}
	in := domainagg.MembershipInput{Kind: types.KindSubscription, OwnerID: rd.UserID, TargetID: authorID}
	if _, err := ss.membershipAgg.Add(ctx, in); err != nil {
		return nil, err
	}
	users, err := ss.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []int64{authorID})
	if err != nil {
		return nil, internalErr(op, err)
	}
	if len(users) == 0 {
		return nil, notFoundErr(op, "user %d not found", authorID)
	}
	views, err := ss.views.authorViews(ctx, rd.UserID, users, recipesLimit)
	if err != nil {
		return nil, internalErr(op, err)
	}
	return views[0], nil
}

func (ss *subscriptionService) Unsubscribe(ctx context.Context, authorID int64) error {
	rd, err := requireViewer(ctx, "Subscription.Unsubscribe")
	if err != nil {
		return err
	}
	return ss.membershipAgg.Remove(ctx, domainagg.MembershipInput{Kind: types.KindSubscription, OwnerID: rd.UserID, TargetID: authorID})
}

// List returns the viewer's authors, newest subscription first.
func (ss *subscriptionService) List(ctx context.Context, offset, limit, recipesLimit int) ([]*AuthorView, int64, error) {
	const op = "Subscription.List"
	rd, err := requireViewer(ctx, op)
	if err != nil {
		return nil, 0, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	authorIDs, total, err := ss.membershipRepo.ListTargetsPage(dbc, types.KindSubscription, rd.UserID, offset, limit)
	if err != nil {
		return nil, 0, internalErr(op, err)
	}
	if len(authorIDs) == 0 {
		return []*AuthorView{}, total, nil
	}
	users, err := ss.userRepo.GetByIDs(dbc, authorIDs)
	if err != nil {
		return nil, 0, internalErr(op, err)
	}
	byID := make(map[int64]*types.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	ordered := make([]*types.User, 0, len(authorIDs))
	for _, id := range authorIDs {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	views, err := ss.views.authorViews(ctx, rd.UserID, ordered, recipesLimit)
	if err != nil {
		return nil, 0, internalErr(op, err)
	}
	return views, total, nil
}
