package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) IdempotencyKey(key string) string {
	return "order:idempotency:" + key
}

// Claim sets the marker unless it already exists. It reports false when another request holds it.
func (c *RedisCache) Claim(ctx context.Context, key string) (bool, error) {
	return c.Client.SetNX(ctx, key, "1", c.TTL).Result()
}

func (c *RedisCache) Release(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}
