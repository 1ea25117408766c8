package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// dailySalesKeyPrefix must match the key analytics-svc caches daily sales under.
const dailySalesKeyPrefix = "sales:daily:"

type Store struct {
	Client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{Client: client}
}

func DailySalesKey(date string) string {
	return dailySalesKeyPrefix + date
}

// InvalidateDailySales drops the cached aggregate for date. A missing entry is not an error.
func (s *Store) InvalidateDailySales(ctx context.Context, date string) error {
	return s.Client.Del(ctx, DailySalesKey(date)).Err()
}
