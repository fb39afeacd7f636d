// Package ratelimit implements a fixed-window request counter backed by a
// shared key-value cache. Counting requests per key within discrete windows
// can admit up to 2x the nominal limit across a window boundary; that is an
// accepted trade-off for abuse deterrence, not billing-grade metering.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nahashon-source/globalship-backend/pkg/redis"
)

// Store is the subset of cache operations the counter needs. INCR must be
// atomic: it is the sole mutation path, so two concurrent requests for the
// same key can never both read-then-write a stale count.
type Store interface {
	// Get returns the raw counter value, or redis.Nil if the key is absent
	Get(ctx context.Context, key string) (string, error)
	// Incr atomically increments the key, creating it at 1 if absent
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets the key's TTL
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// ErrPanicked reports a panic contained inside a counter check
var ErrPanicked = errors.New("rate limit check panicked")

// Result is the outcome of a counter check
type Result struct {
	Count   int64
	Allowed bool
}

// Counter counts requests per key within fixed windows. Entries are
// created lazily and expire via TTL; they are never explicitly deleted.
type Counter struct {
	store  Store
	prefix string
}

// NewCounter creates a new Counter
func NewCounter(store Store) *Counter {
	return &Counter{
		store:  store,
		prefix: "rate_limit:",
	}
}

// IncrementAndCheck reads the current count for key and, if it is below
// limit, atomically increments it. The increment that produces 1 starts a
// fresh window and sets the TTL. At or over the limit the counter denies
// without incrementing.
//
// Infrastructure failures are returned as errors, never folded into the
// result; the caller decides whether to fail open.
func (c *Counter) IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	storeKey := c.prefix + key

	current, err := c.currentCount(ctx, storeKey)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit read failed: %w", err)
	}

	if current >= int64(limit) {
		return Result{Count: current, Allowed: false}, nil
	}

	count, err := c.store.Incr(ctx, storeKey)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit increment failed: %w", err)
	}

	// First request in a fresh window starts the TTL clock
	if count == 1 {
		if err := c.store.Expire(ctx, storeKey, window); err != nil {
			return Result{}, fmt.Errorf("rate limit expire failed: %w", err)
		}
	}

	return Result{Count: count, Allowed: true}, nil
}

func (c *Counter) currentCount(ctx context.Context, storeKey string) (int64, error) {
	raw, err := c.store.Get(ctx, storeKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// An unparsable counter behaves like an absent one
		return 0, nil
	}
	return count, nil
}
