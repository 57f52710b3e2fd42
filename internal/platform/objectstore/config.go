package objectstore

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
	ObjectStorageModeS3          ObjectStorageMode = "s3"
)

type ObjectStorageConfig struct {
	Mode          ObjectStorageMode
	EmulatorHost  string
	PublicBaseURL string

	AvatarBucket string
	RecipeBucket string
	AvatarCDN    string
	RecipeCDN    string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	BreakerFailures uint32
}

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidURL          ObjectStorageConfigErrorCode = "invalid_url"
	ObjectStorageConfigErrorMissingBucket       ObjectStorageConfigErrorCode = "missing_bucket"
	ObjectStorageConfigErrorMissingS3Settings   ObjectStorageConfigErrorCode = "missing_s3_settings"
)

type ObjectStorageConfigError struct {
	Code  ObjectStorageConfigErrorCode
	Mode  string
	Value string
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q, %q)",
			e.Mode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator, ObjectStorageModeS3)
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorInvalidURL:
		return fmt.Sprintf("invalid URL %q; expected absolute URL like http://localhost:4443", e.Value)
	case ObjectStorageConfigErrorMissingBucket:
		return fmt.Sprintf("missing env var %s", e.Value)
	case ObjectStorageConfigErrorMissingS3Settings:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires %s", ObjectStorageModeS3, e.Value)
	default:
		return "invalid object storage config"
	}
}

func ResolveObjectStorageConfigFromEnv() (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		EmulatorHost:  strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("OBJECT_STORAGE_PUBLIC_BASE_URL")), "/"),
		AvatarBucket:  strings.TrimSpace(os.Getenv("AVATAR_BUCKET_NAME")),
		RecipeBucket:  strings.TrimSpace(os.Getenv("RECIPE_BUCKET_NAME")),
		AvatarCDN:     strings.TrimSpace(os.Getenv("AVATAR_CDN_DOMAIN")),
		RecipeCDN:     strings.TrimSpace(os.Getenv("RECIPE_CDN_DOMAIN")),
		S3Endpoint:    strings.TrimRight(strings.TrimSpace(os.Getenv("S3_ENDPOINT")), "/"),
		S3Region:      strings.TrimSpace(os.Getenv("S3_REGION")),
		S3AccessKey:   strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		S3SecretKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
	}
	cfg.BreakerFailures = 5
	if raw := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_BREAKER_FAILURES")); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 32); err == nil && n > 0 {
			cfg.BreakerFailures = uint32(n)
		}
	}

	rawMode := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE"))
	switch mode := ObjectStorageMode(strings.ToLower(rawMode)); mode {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		} else {
			cfg.Mode = ObjectStorageModeGCS
		}
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator, ObjectStorageModeS3:
		cfg.Mode = mode
	default:
		return cfg, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: rawMode}
	}
	return cfg, nil
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	switch cfg.Mode {
	case ObjectStorageModeGCS, ObjectStorageModeS3:
	case ObjectStorageModeGCSEmulator:
		if cfg.EmulatorHost == "" {
			return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingEmulatorHost}
		}
		if !isAbsoluteURL(cfg.EmulatorHost) {
			return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidURL, Value: cfg.EmulatorHost}
		}
	default:
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	if cfg.PublicBaseURL != "" && !isAbsoluteURL(cfg.PublicBaseURL) {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidURL, Value: cfg.PublicBaseURL}
	}
	if cfg.AvatarBucket == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingBucket, Value: "AVATAR_BUCKET_NAME"}
	}
	if cfg.RecipeBucket == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingBucket, Value: "RECIPE_BUCKET_NAME"}
	}
	if cfg.Mode == ObjectStorageModeS3 {
		if cfg.S3Region == "" {
			return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingS3Settings, Value: "S3_REGION"}
		}
		if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
			return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingS3Settings, Value: "S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY"}
		}
		if cfg.S3Endpoint != "" && !isAbsoluteURL(cfg.S3Endpoint) {
			return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidURL, Value: cfg.S3Endpoint}
		}
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
