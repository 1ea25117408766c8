package service

import (
	"context"

	"restaurant-pos/order-svc/internal/domain"
	"restaurant-pos/order-svc/internal/storage"
)

type OrderServiceInterface interface {
	Create(ctx context.Context, order *domain.Order, idempotencyKey string) error
	List(ctx context.Context, startDate, endDate string) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.Order, error)
	QRCode(ctx context.Context, id string) ([]byte, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, order *domain.Order, expectedVersion int) error
	ActiveDishIDs(ctx context.Context, ids []string) ([]string, error)
}

type IdempotencyCache interface {
	IdempotencyKey(key string) string
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

var (
	_ OrderServiceInterface = (*OrderService)(nil)
	_ OrderRepository       = (*storage.PostgresRepository)(nil)
	_ IdempotencyCache      = (*storage.RedisCache)(nil)
	_ OrderPublisher        = (*storage.KafkaPublisher)(nil)
	_ QRGenerator           = DefaultQRGenerator{}
)
