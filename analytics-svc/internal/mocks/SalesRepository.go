package mocks

import (
	"context"
	"time"

	"restaurant-pos/analytics-svc/internal/aggregator"

	"github.com/stretchr/testify/mock"
)

type SalesRepository struct {
	mock.Mock
}

func (m *SalesRepository) ListSales(ctx context.Context, from, until time.Time) ([]aggregator.Sale, error) {
	args := m.Called(ctx, from, until)
	sales, _ := args.Get(0).([]aggregator.Sale)
	return sales, args.Error(1)
}

func NewSalesRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *SalesRepository {
	m := &SalesRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
