package service

import (
	"context"
	"time"

	"restaurant-pos/analytics-svc/internal/aggregator"
	"restaurant-pos/analytics-svc/internal/domain"
	"restaurant-pos/analytics-svc/internal/storage"
)

type SalesRepository interface {
	ListSales(ctx context.Context, from, until time.Time) ([]aggregator.Sale, error)
}

type SalesCache interface {
	GetDailySales(ctx context.Context, date string) (*aggregator.DailySales, bool, error)
	SetDailySales(ctx context.Context, daily aggregator.DailySales) error
}

type PredictionRepository interface {
	OrderLines(ctx context.Context, since time.Time) ([]domain.OrderLine, error)
	SavePredictions(ctx context.Context, predictions []domain.Prediction) error
	ListPredictions(ctx context.Context, date string) ([]domain.Prediction, error)
}

type SyncRepository interface {
	CountRecords(ctx context.Context) (domain.RecordCounts, error)
	Cleanup(ctx context.Context, now time.Time) (int, error)
	LogSync(ctx context.Context, entry domain.SyncLogEntry) error
}

type AnalyticsInterface interface {
	DailySales(ctx context.Context, date string) (*aggregator.DailySales, error)
	Sales(ctx context.Context, startDate, endDate string) ([]aggregator.DailySales, error)
}

type PredictionInterface interface {
	Predictions(ctx context.Context, date string) ([]domain.Prediction, error)
	Generate(ctx context.Context, date string) (*domain.GenerationResult, error)
}

type SyncInterface interface {
	Sync(ctx context.Context) (*domain.SyncResult, error)
	Status() domain.SyncStatus
	SetInterval(minutes int) error
}

// DailySalesRefresher recomputes one day from the order store and stores it in the cache.
type DailySalesRefresher interface {
	RefreshDailySales(ctx context.Context, day time.Time) (*aggregator.DailySales, error)
}

type PredictionGenerator interface {
	GenerateFor(ctx context.Context, target time.Time) (*domain.GenerationResult, error)
}

var (
	_ SalesRepository      = (*storage.PostgresRepository)(nil)
	_ PredictionRepository = (*storage.PostgresRepository)(nil)
	_ SyncRepository       = (*storage.PostgresRepository)(nil)
	_ SalesCache           = (*storage.RedisCache)(nil)

	_ AnalyticsInterface  = (*AnalyticsService)(nil)
	_ DailySalesRefresher = (*AnalyticsService)(nil)
	_ PredictionInterface = (*PredictionService)(nil)
	_ PredictionGenerator = (*PredictionService)(nil)
	_ SyncInterface       = (*SyncService)(nil)
)
