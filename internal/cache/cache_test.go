package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahashon-source/globalship-backend/pkg/redis"
)

type fakeStore struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
	delErr error
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

func (s *fakeStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	raw, ok := value.([]byte)
	if !ok {
		return errors.New("unexpected value type")
	}
	s.values[key] = string(raw)
	s.ttls[key] = ttl
	return nil
}

func (s *fakeStore) Del(ctx context.Context, keys ...string) error {
	if s.delErr != nil {
		return s.delErr
	}
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

type snapshot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a snapshot", func(t *testing.T) {
		store := newFakeStore()
		c := New(store, 5*time.Minute)

		c.Set(ctx, Key("user", "u1"), snapshot{ID: "u1", Name: "Ada"})
		assert.Equal(t, 5*time.Minute, store.ttls["user:u1"])

		var got snapshot
		require.True(t, c.Get(ctx, Key("user", "u1"), &got))
		assert.Equal(t, snapshot{ID: "u1", Name: "Ada"}, got)
	})

	t.Run("misses on absent key", func(t *testing.T) {
		store := newFakeStore()
		c := New(store, time.Minute)

		var got snapshot
		assert.False(t, c.Get(ctx, "user:absent", &got))
	})

	t.Run("treats infrastructure errors as misses", func(t *testing.T) {
		store := newFakeStore()
		store.getErr = errors.New("connection refused")
		c := New(store, time.Minute)

		var got snapshot
		assert.False(t, c.Get(ctx, "user:u1", &got))
	})

	t.Run("evicts corrupt entries", func(t *testing.T) {
		store := newFakeStore()
		store.values["user:u1"] = "{not json"
		c := New(store, time.Minute)

		var got snapshot
		assert.False(t, c.Get(ctx, "user:u1", &got))
		_, stillThere := store.values["user:u1"]
		assert.False(t, stillThere)
	})

	t.Run("delete removes all given keys", func(t *testing.T) {
		store := newFakeStore()
		c := New(store, time.Minute)
		c.Set(ctx, "user:u1", snapshot{ID: "u1"})
		c.Set(ctx, "shipment:s1", snapshot{ID: "s1"})

		c.Delete(ctx, "user:u1", "shipment:s1")
		assert.Empty(t, store.values)
	})

	t.Run("swallows write failures", func(t *testing.T) {
		store := newFakeStore()
		store.setErr = errors.New("connection refused")
		c := New(store, time.Minute)

		c.Set(ctx, "user:u1", snapshot{ID: "u1"})
		assert.Empty(t, store.values)
	})

	t.Run("stores plain JSON", func(t *testing.T) {
		store := newFakeStore()
		c := New(store, time.Minute)
		c.Set(ctx, "user:u1", snapshot{ID: "u1", Name: "Ada"})

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(store.values["user:u1"]), &decoded))
		assert.Equal(t, "u1", decoded["id"])
	})
}
