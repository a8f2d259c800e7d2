// Package cached puts a Redis read cache in front of the item and filter
// stores. Search and count results are cached with a TTL. Upserts only mark
// the cache dirty, so a parse run does not pay for an invalidation per row;
// the next read flushes it. Flag and filter writes invalidate immediately.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"playlist_syncer/internal/cache"
)

const (
	keyPrefix   = "playlist_syncer:"
	itemsPrefix = keyPrefix + "items:"
	filtersKey  = keyPrefix + "filters:all"
)

// Cache holds the Redis client and the dirty flag shared by all decorators.
type Cache struct {
	redis  *cache.Redis
	ttl    time.Duration
	dirty  atomic.Bool
	logger *slog.Logger
}

func NewCache(r *cache.Redis, ttl time.Duration, logger *slog.Logger) *Cache {
	c := &Cache{
		redis:  r,
		ttl:    ttl,
		logger: logger.With("component", "cache"),
	}
	// Rows may have changed while the process was down.
	c.dirty.Store(true)
	return c
}

func (c *Cache) markDirty() {
	c.dirty.Store(true)
}

// flush drops every cached item result if an upsert happened since the last
// flush. On failure the flag is restored so the next read retries.
func (c *Cache) flush(ctx context.Context) {
	if !c.dirty.CompareAndSwap(true, false) {
		return
	}
	if err := cache.DelPattern(ctx, c.redis, itemsPrefix+"*"); err != nil {
		c.dirty.Store(true)
		c.logger.Warn("cache flush failed", "error", err)
	}
}

func (c *Cache) invalidate(ctx context.Context, pattern string) {
	if err := cache.DelPattern(ctx, c.redis, pattern); err != nil {
		c.logger.Warn("cache invalidate failed", "pattern", pattern, "error", err)
	}
}

// drop deletes exact keys.
func (c *Cache) drop(ctx context.Context, keys ...string) {
	if err := cache.Del(ctx, c.redis, keys...); err != nil {
		c.logger.Warn("cache delete failed", "keys", keys, "error", err)
	}
}

// readThrough serves key from Redis or loads it with load and stores the
// result. Redis errors are logged and fall through to load.
func readThrough[T any](ctx context.Context, c *Cache, key string, load func() (T, error)) (T, error) {
	v, err := cache.Get[T](ctx, c.redis, key)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	}

	v, err = load()
	if err != nil {
		return v, err
	}
	if err := cache.Set(ctx, c.redis, key, v, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}

// queryKey derives a stable cache key from any query value.
func queryKey(prefix string, q any) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%#v", q)))
	return prefix + hex.EncodeToString(sum[:8])
}
