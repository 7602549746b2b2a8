package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient abstracts the Redis operations the cart cache needs, for
// testing against a fake.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CartCache is a read-through cache for rendered cart details. Entries are
// invalidated after every accepted command against the cart, so the TTL only
// bounds staleness when an invalidation is lost.
type CartCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewCartCache(client RedisClient, ttl time.Duration) *CartCache {
	return &CartCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CartCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if err == redis.Nil {
		cacheMisses.Inc()
		return nil, false, nil
	}
	if err != nil {
		cacheMisses.Inc()
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	cacheHits.Inc()
	return payload, true, nil
}

func (c *CartCache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, cacheKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *CartCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return "cart:" + key
}
