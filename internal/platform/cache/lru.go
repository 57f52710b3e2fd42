package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

type lruEntry struct {
	val     []byte
	expires time.Time
}

type LRU struct {
	cache *lru.Cache
	ttl   time.Duration
	now   clock
}

// NewLRU keeps at most size entries, each for ttl (0 disables expiry).
func NewLRU(size int, ttl time.Duration) (*LRU, error) {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("init lru: %w", err)
	}
	return &LRU{cache: c, ttl: ttl, now: time.Now}, nil
}

func (l *LRU) Get(_ context.Context, key string) ([]byte, bool) {
	raw, ok := l.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry := raw.(lruEntry)
	if !entry.expires.IsZero() && l.now().After(entry.expires) {
		l.cache.Remove(key)
		return nil, false
	}
	return entry.val, true
}

func (l *LRU) Set(_ context.Context, key string, val []byte) {
	entry := lruEntry{val: val}
	if l.ttl > 0 {
		entry.expires = l.now().Add(l.ttl)
	}
	l.cache.Add(key, entry)
}

func (l *LRU) Purge(context.Context) error {
	l.cache.Purge()
	return nil
}

func (l *LRU) Len() int { return l.cache.Len() }
