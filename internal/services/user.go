package services

import (
	"context"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/platform/objectstore"
)

type DeleteMeInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
}

type UserService interface {
	List(ctx context.Context, offset, limit int) ([]UserView, int64, error)
	Get(ctx context.Context, userID int64) (UserView, error)
	Me(ctx context.Context) (UserView, error)
	DeleteMe(ctx context.Context, in DeleteMeInput) error
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	userAgg  domainagg.UserAggregate
	assets   assetStore
	views    viewLoader
}

func NewUserService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	recipeRepo repos.RecipeRepo,
	lineRepo repos.RecipeIngredientRepo,
	membershipRepo repos.MembershipRepo,
	userAgg domainagg.UserAggregate,
	bucket objectstore.BucketService,
) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		log:      serviceLog,
		userRepo: userRepo,
		userAgg:  userAgg,
		assets:   assetStore{log: serviceLog, bucket: bucket},
		views: viewLoader{
			users:       userRepo,
			recipes:     recipeRepo,
			lines:       lineRepo,
			memberships: membershipRepo,
		},
	}
}

func (us *userService) List(ctx context.Context, offset, limit int) ([]UserView, int64, error) {
	const op = "User.List"
	users, total, err := us.userRepo.List(dbctx.Context{Ctx: ctx}, offset, limit)
	if err != nil {
		return nil, 0, internalErr(op, err)
	}
	views, err := us.views.userViews(ctx, ctxutil.ViewerID(ctx), users)
	if err != nil {
		return nil, 0, internalErr(op, err)
	}
	return views, total, nil
}

func (us *userService) Get(ctx context.Context, userID int64) (UserView, error) {
	const op = "User.Get"
	users, err := us.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []int64{userID})
	if err != nil {
		return UserView{}, internalErr(op, err)
	}
	if len(users) == 0 || users[0] == nil {
		return UserView{}, notFoundErr(op, "user %d not found", userID)
	}
	views, err := us.views.userViews(ctx, ctxutil.ViewerID(ctx), []*types.User{users[0]})
	if err != nil {
		return UserView{}, internalErr(op, err)
	}
	return views[0], nil
}

func (us *userService) Me(ctx context.Context) (UserView, error) {
	rd, err := requireViewer(ctx, "User.Me")
	if err != nil {
		return UserView{}, err
	}
	return us.Get(ctx, rd.UserID)
}

func (us *userService) DeleteMe(ctx context.Context, in DeleteMeInput) error {
	const op = "User.DeleteMe"
	rd, err := requireViewer(ctx, op)
	if err != nil {
		return err
	}
	if in.CurrentPassword == "" {
		return validationErr(op, "current_password: this field is required")
	}
	users, err := us.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []int64{rd.UserID})
	if err != nil {
		return internalErr(op, err)
	}
	if len(users) == 0 || users[0] == nil {
		return notFoundErr(op, "user %d not found", rd.UserID)
	}
	ok, err := passwordMatches(users[0].Password, in.CurrentPassword)
	if err != nil {
		return internalErr(op, err)
	}
	if !ok {
		return validationErr(op, msgWrongPassword)
	}

	res, err := us.userAgg.Delete(ctx, domainagg.DeleteUserInput{UserID: rd.UserID})
	if err != nil {
		return err
	}
	for _, key := range res.RecipeImageKeys {
		us.assets.discard(ctx, objectstore.BucketCategoryRecipe, key)
	}
	us.assets.discard(ctx, objectstore.BucketCategoryAvatar, res.AvatarBucketKey)
	us.log.Info("user deleted", "user_id", rd.UserID, "recipes", len(res.RecipeIDs))
	return nil
}
