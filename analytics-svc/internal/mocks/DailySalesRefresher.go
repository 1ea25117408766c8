package mocks

import (
	"context"
	"time"

	"restaurant-pos/analytics-svc/internal/aggregator"

	"github.com/stretchr/testify/mock"
)

type DailySalesRefresher struct {
	mock.Mock
}

func (m *DailySalesRefresher) RefreshDailySales(ctx context.Context, day time.Time) (*aggregator.DailySales, error) {
	args := m.Called(ctx, day)
	daily, _ := args.Get(0).(*aggregator.DailySales)
	return daily, args.Error(1)
}

func NewDailySalesRefresher(t interface {
	mock.TestingT
	Cleanup(func())
}) *DailySalesRefresher {
	m := &DailySalesRefresher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
