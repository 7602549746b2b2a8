package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcart/internal/cache"
)

// fakeRedis keeps entries in a map and records the TTL of the last Set.
type fakeRedis struct {
	entries map[string]string
	lastTTL time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{entries: map[string]string{}}
}

func (r *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	value, ok := r.entries[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (r *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	r.entries[key] = string(value.([]byte))
	r.lastTTL = expiration
	return redis.NewStatusResult("OK", nil)
}

func (r *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	deleted := int64(0)
	for _, key := range keys {
		if _, ok := r.entries[key]; ok {
			delete(r.entries, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

func TestCartCache(t *testing.T) {
	ctx := context.Background()

	t.Run("a missing key is a miss, not an error", func(t *testing.T) {
		cartCache := cache.NewCartCache(newFakeRedis(), time.Hour)

		payload, ok, err := cartCache.Get(ctx, "c1")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, payload)
	})

	t.Run("set then get roundtrips under a namespaced key", func(t *testing.T) {
		client := newFakeRedis()
		cartCache := cache.NewCartCache(client, time.Hour)

		require.NoError(t, cartCache.Set(ctx, "c1", []byte(`{"status":"pending"}`)))
		assert.Contains(t, client.entries, "cart:c1")
		assert.Equal(t, time.Hour, client.lastTTL)

		payload, ok, err := cartCache.Get(ctx, "c1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte(`{"status":"pending"}`), payload)
	})

	t.Run("invalidate removes the entry", func(t *testing.T) {
		client := newFakeRedis()
		cartCache := cache.NewCartCache(client, time.Hour)

		require.NoError(t, cartCache.Set(ctx, "c1", []byte(`{}`)))
		require.NoError(t, cartCache.Invalidate(ctx, "c1"))

		_, ok, err := cartCache.Get(ctx, "c1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
