package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/imaging"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/platform/objectstore"
)

// assetStore uploads prepared images and removes stale objects.
type assetStore struct {
	log    *logger.Logger
	bucket objectstore.BucketService
}

// upload stores p under key and returns its public URL.
func (a assetStore) upload(ctx context.Context, op string, category objectstore.BucketCategory, key string, p imaging.Payload) (string, error) {
	if err := a.bucket.UploadFile(dbctx.Context{Ctx: ctx}, category, key, bytes.NewReader(p.Data)); err != nil {
		if errors.Is(err, objectstore.ErrStoreUnavailable) {
			return "", domainagg.NewError(domainagg.CodeRetryable, op, msgStoreUnavailable, err)
		}
		return "", internalErr(op, fmt.Errorf("upload %s: %w", key, err))
	}
	return a.bucket.GetPublicURL(category, key), nil
}

// discard deletes key and only logs failures.
func (a assetStore) discard(ctx context.Context, category objectstore.BucketCategory, key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if err := a.bucket.DeleteFile(dbctx.Context{Ctx: ctx}, category, key); err != nil {
		a.log.Warn("failed to delete stored object (ignored)", "category", string(category), "key", key, "error", err)
	}
}

// decodeImageField parses a data URL and reports problems against field.
func decodeImageField(op, field, raw string) (imaging.Payload, error) {
	p, err := imaging.DecodeDataURL(raw)
	if err == nil {
		return p, nil
	}
	switch {
	case errors.Is(err, imaging.ErrEmptyPayload):
		return imaging.Payload{}, validationErr(op, field+": this field is required")
	case errors.Is(err, imaging.ErrNotDataURL),
		errors.Is(err, imaging.ErrNotImage),
		errors.Is(err, imaging.ErrPayloadTooBig):
		return imaging.Payload{}, domainagg.NewError(domainagg.CodeValidation, op, field+": "+unwrapFirst(err).Error(), err)
	default:
		return imaging.Payload{}, internalErr(op, err)
	}
}

// unwrapFirst returns the sentinel of a "%w: detail" error.
func unwrapFirst(err error) error {
	for _, sentinel := range []error{imaging.ErrNotDataURL, imaging.ErrNotImage, imaging.ErrPayloadTooBig} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}
