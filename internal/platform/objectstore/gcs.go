package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type gcsBucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	cfg           ObjectStorageConfig
}

func newGCSBucketService(log *logger.Logger, cfg ObjectStorageConfig) (BucketService, error) {
	serviceLog := log.With("service", "GCSBucketService")

	ctx := context.Background()
	var opts []option.ClientOption
	switch cfg.Mode {
	case ObjectStorageModeGCSEmulator:
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.EmulatorHost, "/"))
		opts = append(opts, option.WithoutAuthentication())
	default:
		opts = append(clientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Mode,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", cfg.PublicBaseURL,
		"avatar_bucket", cfg.AvatarBucket,
		"recipe_bucket", cfg.RecipeBucket,
	)
	return &gcsBucketService{log: serviceLog, storageClient: client, cfg: cfg}, nil
}

func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (bs *gcsBucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error {
	bucket, err := bs.cfg.bucketFor(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bucket.name).Object(key).NewWriter(ctx)
	w.ContentType = contentTypeForKey(key)
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *gcsBucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	bucket, err := bs.cfg.bucketFor(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 30*time.Second)
	defer cancel()
	err = bs.storageClient.Bucket(bucket.name).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bucket.name, err)
	}
	return nil
}

func (bs *gcsBucketService) GetPublicURL(category BucketCategory, key string) string {
	bucket, err := bs.cfg.bucketFor(category)
	if err != nil {
		return key
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if bucket.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bucket.cdnDomain, key)
	}
	if bs.cfg.Mode == ObjectStorageModeGCSEmulator {
		base := bs.cfg.PublicBaseURL
		if base == "" {
			base = strings.TrimRight(bs.cfg.EmulatorHost, "/")
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(bucket.name), url.PathEscape(key))
	}
	if bs.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", bs.cfg.PublicBaseURL, bucket.name, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket.name, key)
}
