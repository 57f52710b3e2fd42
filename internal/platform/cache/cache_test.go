package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRU(2, 0)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Set(ctx, "c", []byte("3"))

	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatalf("oldest entry should be evicted")
	}
	if v, ok := c.Get(ctx, "c"); !ok || string(v) != "3" {
		t.Fatalf("unexpected value for c: %q %v", v, ok)
	}
}

func TestLRUExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRU(4, time.Minute)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	c.Set(ctx, "k", []byte("v"))

	now = now.Add(30 * time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatalf("entry should still be fresh")
	}
	now = now.Add(time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("entry should have expired")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be removed")
	}
}

type mapStore struct {
	data map[string][]byte
	gets int
}

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool) {
	m.gets++
	v, ok := m.data[key]
	return v, ok
}
func (m *mapStore) Set(_ context.Context, key string, val []byte) { m.data[key] = val }
func (m *mapStore) Purge(context.Context) error {
	m.data = map[string][]byte{}
	return nil
}

func TestTieredFillsLocal(t *testing.T) {
	ctx := context.Background()
	local := &mapStore{data: map[string][]byte{}}
	remote := &mapStore{data: map[string][]byte{"k": []byte("v")}}
	store := NewTiered(local, remote)

	if v, ok := store.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Fatalf("expected remote hit")
	}
	if _, ok := local.data["k"]; !ok {
		t.Fatalf("local tier should be filled")
	}
	_, _ = store.Get(ctx, "k")
	if remote.gets != 1 {
		t.Fatalf("second read should be served locally, remote gets=%d", remote.gets)
	}
	if err := store.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if len(local.data) != 0 || len(remote.data) != 0 {
		t.Fatalf("purge should clear both tiers")
	}
}

func TestNewTieredWithoutRemote(t *testing.T) {
	local := &mapStore{data: map[string][]byte{}}
	if NewTiered(local, nil) != Store(local) {
		t.Fatalf("nil remote should return the local store")
	}
}
