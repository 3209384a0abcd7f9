package export

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"penguinlens/pkg/platform/sentinel"
)

const redisKeyPrefix = "penguinlens:"

// RedisCache shares encoded exports between instances. The client's
// lifecycle is managed by the caller.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache stores entries with the given TTL; zero keeps them until
// evicted by Redis.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, body []byte) error {
	return c.client.Set(ctx, redisKeyPrefix+key, body, c.ttl).Err()
}
