// Package memcache holds the in-process stores: a JSON cache used when no redis address is
// configured, and the search-session registry.
package memcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"

	"flight_search/internal/adapters/observability"
	"flight_search/internal/domain"
)

var _ domain.Cache = (*Cache)(nil)

// Cache stores values as JSON so callers get copies, the same as with redis.
type Cache struct{ c *cache.Cache }

func New(cleanupInterval time.Duration) *Cache {
	return &Cache{c: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (m *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, json.Unmarshal(v.([]byte), dst)
}

// Set with ttlSec <= 0 keeps the value until deleted.
func (m *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ttl := cache.NoExpiration
	if ttlSec > 0 {
		ttl = time.Duration(ttlSec) * time.Second
	}
	observability.ObserveCache("memory", "set")
	m.c.Set(key, b, ttl)
	return nil
}

func (m *Cache) Del(_ context.Context, key string) error {
	observability.ObserveCache("memory", "del")
	m.c.Delete(key)
	return nil
}

// Layered reads through Local to Remote and writes to both. Local errors are ignored.
type Layered struct{ Local, Remote domain.Cache }

func (l Layered) Get(ctx context.Context, key string, dst any) (bool, error) {
	if ok, err := l.Local.Get(ctx, key, dst); ok && err == nil {
		return true, nil
	}
	return l.Remote.Get(ctx, key, dst)
}

func (l Layered) Set(ctx context.Context, key string, v any, ttlSec int) error {
	_ = l.Local.Set(ctx, key, v, ttlSec)
	return l.Remote.Set(ctx, key, v, ttlSec)
}

func (l Layered) Del(ctx context.Context, key string) error {
	_ = l.Local.Del(ctx, key)
	return l.Remote.Del(ctx, key)
}
