// Package cache holds byte-slice caches for derivable read models: an
// in-process LRU, a shared Redis cache, and a two-tier combination.
package cache

import (
	"context"
	"time"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Purge(ctx context.Context) error
}

// Tiered reads the local store first and falls back to the remote store,
// filling the local tier on a remote hit.
type Tiered struct {
	local  Store
	remote Store
}

func NewTiered(local, remote Store) Store {
	switch {
	case remote == nil:
		return local
	case local == nil:
		return remote
	}
	return &Tiered{local: local, remote: remote}
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := t.local.Get(ctx, key); ok {
		return v, true
	}
	v, ok := t.remote.Get(ctx, key)
	if ok {
		t.local.Set(ctx, key, v)
	}
	return v, ok
}

func (t *Tiered) Set(ctx context.Context, key string, val []byte) {
	t.local.Set(ctx, key, val)
	t.remote.Set(ctx, key, val)
}

func (t *Tiered) Purge(ctx context.Context) error {
	if err := t.local.Purge(ctx); err != nil {
		return err
	}
	return t.remote.Purge(ctx)
}

type clock func() time.Time
