// Package objectstore stores recipe photos and avatars in a public bucket
// and hands back their URLs.
package objectstore

import (
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type BucketCategory string

const (
	BucketCategoryAvatar BucketCategory = "avatar"
	BucketCategoryRecipe BucketCategory = "recipe"
)

type BucketService interface {
	UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error
	GetPublicURL(category BucketCategory, key string) string
}

type bucketConfig struct {
	name      string
	cdnDomain string
}

// NewBucketService builds the backend selected by OBJECT_STORAGE_MODE and
// wraps it in a circuit breaker.
func NewBucketService(log *logger.Logger) (BucketService, error) {
	cfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve object storage config: %w", err)
	}
	return NewBucketServiceWithConfig(log, cfg)
}

func NewBucketServiceWithConfig(log *logger.Logger, cfg ObjectStorageConfig) (BucketService, error) {
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	var (
		inner BucketService
		err   error
	)
	switch cfg.Mode {
	case ObjectStorageModeS3:
		inner, err = newS3BucketService(log, cfg)
	default:
		inner, err = newGCSBucketService(log, cfg)
	}
	if err != nil {
		return nil, err
	}
	return NewBreakerBucketService(log, inner, cfg.BreakerFailures), nil
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

func (c ObjectStorageConfig) bucketFor(category BucketCategory) (bucketConfig, error) {
	switch category {
	case BucketCategoryAvatar:
		return bucketConfig{name: c.AvatarBucket, cdnDomain: c.AvatarCDN}, nil
	case BucketCategoryRecipe:
		return bucketConfig{name: c.RecipeBucket, cdnDomain: c.RecipeCDN}, nil
	default:
		return bucketConfig{}, fmt.Errorf("unknown bucket category: %s", category)
	}
}
