package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahashon-source/globalship-backend/pkg/redis"
)

type fakeStore struct {
	values  map[string]string
	ttls    map[string]time.Duration
	getErr  error
	incrErr error
	expErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (s *fakeStore) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *fakeStore) Incr(ctx context.Context, key string) (int64, error) {
	if s.incrErr != nil {
		return 0, s.incrErr
	}
	count, _ := strconv.ParseInt(s.values[key], 10, 64)
	count++
	s.values[key] = strconv.FormatInt(count, 10)
	return count, nil
}

func (s *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if s.expErr != nil {
		return s.expErr
	}
	s.ttls[key] = ttl
	return nil
}

func TestCounter_IncrementAndCheck(t *testing.T) {
	ctx := context.Background()
	window := time.Minute

	t.Run("allows requests up to the limit and denies the next", func(t *testing.T) {
		store := newFakeStore()
		counter := NewCounter(store)

		for i := 1; i <= 5; i++ {
			result, err := counter.IncrementAndCheck(ctx, "1.2.3.4", 5, window)
			require.NoError(t, err)
			assert.True(t, result.Allowed, "request %d should be allowed", i)
			assert.Equal(t, int64(i), result.Count)
		}

		result, err := counter.IncrementAndCheck(ctx, "1.2.3.4", 5, window)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, int64(5), result.Count)
	})

	t.Run("denied requests do not increment the count", func(t *testing.T) {
		store := newFakeStore()
		counter := NewCounter(store)

		for i := 0; i < 3; i++ {
			_, err := counter.IncrementAndCheck(ctx, "1.2.3.4", 3, window)
			require.NoError(t, err)
		}
		for i := 0; i < 10; i++ {
			result, err := counter.IncrementAndCheck(ctx, "1.2.3.4", 3, window)
			require.NoError(t, err)
			assert.False(t, result.Allowed)
		}

		assert.Equal(t, "3", store.values["rate_limit:1.2.3.4"])
	})

	t.Run("first request in a window sets the TTL", func(t *testing.T) {
		store := newFakeStore()
		counter := NewCounter(store)

		_, err := counter.IncrementAndCheck(ctx, "1.2.3.4", 5, window)
		require.NoError(t, err)
		assert.Equal(t, window, store.ttls["rate_limit:1.2.3.4"])

		// Later requests must not reset the window
		store.ttls = make(map[string]time.Duration)
		_, err = counter.IncrementAndCheck(ctx, "1.2.3.4", 5, window)
		require.NoError(t, err)
		assert.Empty(t, store.ttls)
	})

	t.Run("keys are counted independently", func(t *testing.T) {
		store := newFakeStore()
		counter := NewCounter(store)

		for i := 0; i < 2; i++ {
			_, err := counter.IncrementAndCheck(ctx, "1.2.3.4", 2, window)
			require.NoError(t, err)
		}

		blocked, err := counter.IncrementAndCheck(ctx, "1.2.3.4", 2, window)
		require.NoError(t, err)
		assert.False(t, blocked.Allowed)

		other, err := counter.IncrementAndCheck(ctx, "5.6.7.8", 2, window)
		require.NoError(t, err)
		assert.True(t, other.Allowed)
		assert.Equal(t, int64(1), other.Count)
	})

	t.Run("returns read failures to the caller", func(t *testing.T) {
		store := newFakeStore()
		store.getErr = errors.New("connection refused")
		counter := NewCounter(store)

		_, err := counter.IncrementAndCheck(ctx, "1.2.3.4", 5, window)
		require.Error(t, err)
		assert.ErrorContains(t, err, "rate limit read failed")
	})

	t.Run("returns increment failures to the caller", func(t *testing.T) {
		store := newFakeStore()
		store.incrErr = errors.New("connection refused")
		counter := NewCounter(store)

		_, err := counter.IncrementAndCheck(ctx, "1.2.3.4", 5, window)
		require.Error(t, err)
		assert.ErrorContains(t, err, "rate limit increment failed")
	})

	t.Run("treats an unparsable stored value as zero", func(t *testing.T) {
		store := newFakeStore()
		store.values["rate_limit:1.2.3.4"] = "not-a-number"
		counter := NewCounter(store)

		result, err := counter.IncrementAndCheck(ctx, "1.2.3.4", 5, window)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})
}
