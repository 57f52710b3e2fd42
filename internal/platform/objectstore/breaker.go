package objectstore

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// ErrStoreUnavailable is returned while the breaker is open.
var ErrStoreUnavailable = errors.New("object store temporarily unavailable")

type breakerBucketService struct {
	inner BucketService
	cb    *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerBucketService trips after maxFailures consecutive upload or
// delete failures and rejects calls for 30 seconds.
func NewBreakerBucketService(log *logger.Logger, inner BucketService, maxFailures uint32) BucketService {
	if maxFailures == 0 {
		maxFailures = 5
	}
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "object-store",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.Warn("object store breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			}
		},
	})
	return &breakerBucketService{inner: inner, cb: cb}
}

func (b *breakerBucketService) run(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

func (b *breakerBucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error {
	return b.run(func() error { return b.inner.UploadFile(dbc, category, key, file) })
}

func (b *breakerBucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	return b.run(func() error { return b.inner.DeleteFile(dbc, category, key) })
}

func (b *breakerBucketService) GetPublicURL(category BucketCategory, key string) string {
	return b.inner.GetPublicURL(category, key)
}
