package relay

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const checkpointKey = "relay:position"

// RedisCheckpoint stores the relay position in redis. A missing key means
// the relay starts from the beginning of the feed.
type RedisCheckpoint struct {
	client *redis.Client
}

func NewRedisCheckpoint(client *redis.Client) *RedisCheckpoint {
	return &RedisCheckpoint{
		client: client,
	}
}

func (c *RedisCheckpoint) Load(ctx context.Context) (int64, error) {
	position, err := c.client.Get(ctx, checkpointKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load relay checkpoint: %w", err)
	}
	return position, nil
}

func (c *RedisCheckpoint) Store(ctx context.Context, position int64) error {
	if err := c.client.Set(ctx, checkpointKey, position, 0).Err(); err != nil {
		return fmt.Errorf("store relay checkpoint: %w", err)
	}
	return nil
}
