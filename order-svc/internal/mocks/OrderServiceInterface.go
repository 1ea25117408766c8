package mocks

import (
	"context"

	"restaurant-pos/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OrderServiceInterface struct {
	mock.Mock
}

func (m *OrderServiceInterface) Create(ctx context.Context, order *domain.Order, idempotencyKey string) error {
	args := m.Called(ctx, order, idempotencyKey)
	return args.Error(0)
}

func (m *OrderServiceInterface) List(ctx context.Context, startDate, endDate string) ([]domain.Order, error) {
	args := m.Called(ctx, startDate, endDate)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *OrderServiceInterface) Get(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderServiceInterface) UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.Order, error) {
	args := m.Called(ctx, id, change)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderServiceInterface) QRCode(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}

func NewOrderServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
