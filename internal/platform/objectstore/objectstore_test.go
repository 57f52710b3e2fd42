package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

func TestResolveObjectStorageConfigFromEnv(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_EMULATOR_HOST", "http://fake-gcs:4443")
	t.Setenv("AVATAR_BUCKET_NAME", "avatars")
	t.Setenv("RECIPE_BUCKET_NAME", "recipes")

	cfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Mode != ObjectStorageModeGCSEmulator {
		t.Fatalf("emulator host should imply emulator mode, got %q", cfg.Mode)
	}
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestResolveObjectStorageConfigRejectsUnknownMode(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "ftp")
	_, err := ResolveObjectStorageConfigFromEnv()
	var cfgErr *ObjectStorageConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Code != ObjectStorageConfigErrorInvalidMode {
		t.Fatalf("expected invalid mode error, got %v", err)
	}
}

func TestValidateObjectStorageConfig(t *testing.T) {
	base := ObjectStorageConfig{Mode: ObjectStorageModeGCS, AvatarBucket: "a", RecipeBucket: "r"}
	if err := ValidateObjectStorageConfig(base); err != nil {
		t.Fatalf("valid gcs config: %v", err)
	}

	noRecipe := base
	noRecipe.RecipeBucket = ""
	if err := ValidateObjectStorageConfig(noRecipe); err == nil {
		t.Fatalf("expected missing bucket error")
	}

	s3cfg := base
	s3cfg.Mode = ObjectStorageModeS3
	if err := ValidateObjectStorageConfig(s3cfg); err == nil {
		t.Fatalf("expected missing s3 settings error")
	}
	s3cfg.S3Region = "ams3"
	s3cfg.S3AccessKey = "k"
	s3cfg.S3SecretKey = "s"
	s3cfg.S3Endpoint = "https://ams3.digitaloceanspaces.com"
	if err := ValidateObjectStorageConfig(s3cfg); err != nil {
		t.Fatalf("valid s3 config: %v", err)
	}

	emu := base
	emu.Mode = ObjectStorageModeGCSEmulator
	if err := ValidateObjectStorageConfig(emu); err == nil {
		t.Fatalf("expected missing emulator host error")
	}
}

func TestGCSPublicURL(t *testing.T) {
	cfg := ObjectStorageConfig{Mode: ObjectStorageModeGCS, AvatarBucket: "avatars", RecipeBucket: "recipes", RecipeCDN: "cdn.example.com"}
	bs := &gcsBucketService{cfg: cfg}

	if got := bs.GetPublicURL(BucketCategoryAvatar, "/user_avatar/1/2.png"); got != "https://storage.googleapis.com/avatars/user_avatar/1/2.png" {
		t.Fatalf("avatar url: %s", got)
	}
	if got := bs.GetPublicURL(BucketCategoryRecipe, "recipe/1.jpg"); got != "https://cdn.example.com/recipe/1.jpg" {
		t.Fatalf("recipe url: %s", got)
	}

	bs.cfg.Mode = ObjectStorageModeGCSEmulator
	bs.cfg.EmulatorHost = "http://localhost:4443"
	if got := bs.GetPublicURL(BucketCategoryAvatar, "a/b.png"); got != "http://localhost:4443/storage/v1/b/avatars/o/a%2Fb.png?alt=media" {
		t.Fatalf("emulator url: %s", got)
	}
}

func TestS3PublicURL(t *testing.T) {
	s := &s3BucketService{cfg: ObjectStorageConfig{AvatarBucket: "avatars", RecipeBucket: "recipes", S3Region: "us-east-1"}}
	if got := s.GetPublicURL(BucketCategoryRecipe, "r/1.png"); got != "https://recipes.s3.us-east-1.amazonaws.com/r/1.png" {
		t.Fatalf("s3 url: %s", got)
	}
	s.cfg.S3Endpoint = "https://ams3.digitaloceanspaces.com"
	if got := s.GetPublicURL(BucketCategoryRecipe, "r/1.png"); got != "https://ams3.digitaloceanspaces.com/recipes/r/1.png" {
		t.Fatalf("endpoint url: %s", got)
	}
}

type failingStore struct {
	calls int
}

func (f *failingStore) UploadFile(dbctx.Context, BucketCategory, string, io.Reader) error {
	f.calls++
	return errors.New("boom")
}

func (f *failingStore) DeleteFile(dbctx.Context, BucketCategory, string) error {
	f.calls++
	return errors.New("boom")
}

func (f *failingStore) GetPublicURL(_ BucketCategory, key string) string { return key }

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &failingStore{}
	bs := NewBreakerBucketService(logger.Nop(), inner, 2)
	dbc := dbctx.Context{Ctx: context.Background()}

	for i := 0; i < 2; i++ {
		if err := bs.DeleteFile(dbc, BucketCategoryAvatar, "k"); err == nil || errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("call %d: expected inner failure, got %v", i, err)
		}
	}
	err := bs.DeleteFile(dbc, BucketCategoryAvatar, "k")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("inner should not be called while open, calls=%d", inner.calls)
	}
}

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"a.png":  "image/png",
		"a.JPG":  "image/jpeg",
		"a.webp": "image/webp",
		"a.bin":  "application/octet-stream",
	}
	for key, want := range cases {
		if got := contentTypeForKey(key); got != want {
			t.Fatalf("%s: want=%s got=%s", key, want, got)
		}
	}
}
