package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"restaurant-pos/analytics-svc/internal/aggregator"

	"github.com/redis/go-redis/v9"
)

// DailySalesKeyPrefix must match the key agg-svc deletes when an order changes.
const DailySalesKeyPrefix = "sales:daily:"

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) DailySalesKey(date string) string {
	return DailySalesKeyPrefix + date
}

// GetDailySales reports false on a cache miss.
func (c *RedisCache) GetDailySales(ctx context.Context, date string) (*aggregator.DailySales, bool, error) {
	raw, err := c.Client.Get(ctx, c.DailySalesKey(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var daily aggregator.DailySales
	if err := json.Unmarshal(raw, &daily); err != nil {
		return nil, false, err
	}
	return &daily, true, nil
}

func (c *RedisCache) SetDailySales(ctx context.Context, daily aggregator.DailySales) error {
	payload, err := json.Marshal(daily)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.DailySalesKey(daily.Date), payload, c.TTL).Err()
}
