// Package cache provides a best-effort JSON snapshot cache in front of the
// database. Entries are deleted on mutation rather than updated, so a bounded
// staleness window (one TTL) applies only to reads racing a mutation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nahashon-source/globalship-backend/pkg/logger"
	"github.com/nahashon-source/globalship-backend/pkg/redis"
)

// Store is the subset of cache operations the snapshot cache needs
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Cache stores JSON snapshots of entities keyed by "<kind>:<id>". All
// operations are best-effort: failures are logged and reported, and callers
// fall back to the database.
type Cache struct {
	store Store
	ttl   time.Duration
}

// New creates a Cache with the given snapshot TTL
func New(store Store, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{store: store, ttl: ttl}
}

// Key builds a cache key from an entity kind and ID
func Key(kind, id string) string {
	return fmt.Sprintf("%s:%s", kind, id)
}

// Get unmarshals the cached snapshot for key into dest. It returns false on
// a miss, on an infrastructure error, and on a corrupt entry; the corrupt
// entry is deleted so the next read repopulates it.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Get().Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Get().Warn("cache entry corrupt, evicting", zap.String("key", key), zap.Error(err))
		c.Delete(ctx, key)
		return false
	}
	return true
}

// Set stores a JSON snapshot of value under key with the configured TTL.
// Failures are logged and swallowed.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Get().Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		logger.Get().Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes snapshots. Failures are logged and swallowed; a leftover
// entry ages out at the TTL.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		logger.Get().Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
