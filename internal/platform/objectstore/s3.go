package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// s3BucketService talks to any S3-compatible store (AWS, DigitalOcean
// Spaces, MinIO). Objects are written public-read.
type s3BucketService struct {
	log    *logger.Logger
	client *s3.Client
	cfg    ObjectStorageConfig
}

func newS3BucketService(log *logger.Logger, cfg ObjectStorageConfig) (BucketService, error) {
	serviceLog := log.With("service", "S3BucketService")

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		config.WithRegion(cfg.S3Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Mode,
		"endpoint", cfg.S3Endpoint,
		"region", cfg.S3Region,
		"avatar_bucket", cfg.AvatarBucket,
		"recipe_bucket", cfg.RecipeBucket,
	)
	return &s3BucketService{log: serviceLog, client: client, cfg: cfg}, nil
}

func (s *s3BucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error {
	bucket, err := s.cfg.bucketFor(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 2*time.Minute)
	defer cancel()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket.name),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentTypeForKey(key)),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("failed to put S3 object %q: %w", key, err)
	}
	return nil
}

func (s *s3BucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	bucket, err := s.cfg.bucketFor(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 30*time.Second)
	defer cancel()
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete S3 object %q in bucket %q: %w", key, bucket.name, err)
	}
	return nil
}

func (s *s3BucketService) GetPublicURL(category BucketCategory, key string) string {
	bucket, err := s.cfg.bucketFor(category)
	if err != nil {
		return key
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case bucket.cdnDomain != "":
		return fmt.Sprintf("https://%s/%s", bucket.cdnDomain, key)
	case s.cfg.PublicBaseURL != "":
		return fmt.Sprintf("%s/%s/%s", s.cfg.PublicBaseURL, bucket.name, key)
	case s.cfg.S3Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", s.cfg.S3Endpoint, bucket.name, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket.name, s.cfg.S3Region, key)
	}
}
