package app

import (
	"errors"
	"fmt"

	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/platform/objectstore"
)

var newBucketServiceWithConfig = objectstore.NewBucketServiceWithConfig

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidConfig StorageProviderBootstrapErrorCode = "invalid_config"
	StorageProviderBootstrapErrorConnectFailed StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code   StorageProviderBootstrapErrorCode
	Reason string
	Mode   string
	Cause  error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf("object storage bootstrap failed (code=%s reason=%s mode=%q): %v", e.Code, e.Reason, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func resolveBucketService(log *logger.Logger) (objectstore.BucketService, error) {
	storageCfg, err := objectstore.ResolveObjectStorageConfigFromEnv()
	if err == nil {
		log.Info("Selecting object storage provider",
			"mode", storageCfg.Mode,
			"breaker_failures", storageCfg.BreakerFailures,
		)
		var bucket objectstore.BucketService
		if bucket, err = newBucketServiceWithConfig(log, storageCfg); err == nil {
			return bucket, nil
		}
	}
	classified := classifyStorageProviderBootstrapError(storageCfg, err)
	log.Error("Object storage provider bootstrap failed",
		"mode", storageCfg.Mode,
		"error_code", classified.Code,
		"reason", classified.Reason,
		"error", err,
	)
	return nil, classified
}

func classifyStorageProviderBootstrapError(storageCfg objectstore.ObjectStorageConfig, err error) *StorageProviderBootstrapError {
	out := &StorageProviderBootstrapError{
		Code:   StorageProviderBootstrapErrorConnectFailed,
		Reason: "client_init",
		Mode:   string(storageCfg.Mode),
		Cause:  err,
	}
	var cfgErr *objectstore.ObjectStorageConfigError
	if errors.As(err, &cfgErr) {
		out.Code = StorageProviderBootstrapErrorInvalidConfig
		out.Reason = string(cfgErr.Code)
		if out.Mode == "" {
			out.Mode = cfgErr.Mode
		}
	}
	return out
}
