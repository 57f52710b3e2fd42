package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/imaging"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/platform/objectstore"
)

type AvatarService interface {
	Get(ctx context.Context) (*string, error)
	Put(ctx context.Context, dataURL *string) (string, error)
	Delete(ctx context.Context) error
}

type avatarService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	assets   assetStore
	now      func() time.Time
}

func NewAvatarService(log *logger.Logger, userRepo repos.UserRepo, bucket objectstore.BucketService) AvatarService {
	serviceLog := log.With("service", "AvatarService")
	return &avatarService{
		log:      serviceLog,
		userRepo: userRepo,
		assets:   assetStore{log: serviceLog, bucket: bucket},
		now:      time.Now,
	}
}

func (as *avatarService) currentUser(ctx context.Context, op string) (*types.User, error) {
	rd, err := requireViewer(ctx, op)
	if err != nil {
		return nil, err
	}
	users, err := as.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []int64{rd.UserID})
	if err != nil {
		return nil, internalErr(op, err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, notFoundErr(op, "user %d not found", rd.UserID)
	}
	return users[0], nil
}

func (as *avatarService) Get(ctx context.Context) (*string, error) {
	user, err := as.currentUser(ctx, "User.Avatar.Get")
	if err != nil {
		return nil, err
	}
	return user.AvatarURL, nil
}

func (as *avatarService) Put(ctx context.Context, dataURL *string) (string, error) {
	const op = "User.Avatar.Put"
	user, err := as.currentUser(ctx, op)
	if err != nil {
		return "", err
	}
	if dataURL == nil || strings.TrimSpace(*dataURL) == "" {
		return "", validationErr(op, "avatar: this field is required")
	}
	payload, err := decodeImageField(op, "avatar", *dataURL)
	if err != nil {
		return "", err
	}
	avatar, err := imaging.Avatar(payload, imaging.AvatarSize)
	if err != nil {
		return "", internalErr(op, fmt.Errorf("render avatar: %w", err))
	}

	// Versioned key so CDN caches never serve the previous image.
	key := fmt.Sprintf("user_avatar/%d/%d.png", user.ID, as.now().UnixNano())
	url, err := as.assets.upload(ctx, op, objectstore.BucketCategoryAvatar, key, avatar)
	if err != nil {
		return "", err
	}
	if err := as.userRepo.UpdateAvatarFields(dbctx.Context{Ctx: ctx}, user.ID, key, &url); err != nil {
		as.assets.discard(ctx, objectstore.BucketCategoryAvatar, key)
		return "", internalErr(op, err)
	}
	if user.AvatarBucketKey != key {
		as.assets.discard(ctx, objectstore.BucketCategoryAvatar, user.AvatarBucketKey)
	}
	return url, nil
}

func (as *avatarService) Delete(ctx context.Context) error {
	const op = "User.Avatar.Delete"
	user, err := as.currentUser(ctx, op)
	if err != nil {
		return err
	}
	if err := as.userRepo.UpdateAvatarFields(dbctx.Context{Ctx: ctx}, user.ID, "", nil); err != nil {
		return internalErr(op, err)
	}
	as.assets.discard(ctx, objectstore.BucketCategoryAvatar, user.AvatarBucketKey)
	return nil
}
