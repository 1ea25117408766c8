package mocks

import (
	"context"
	"time"

	"restaurant-pos/analytics-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type PredictionRepository struct {
	mock.Mock
}

func (m *PredictionRepository) OrderLines(ctx context.Context, since time.Time) ([]domain.OrderLine, error) {
	args := m.Called(ctx, since)
	lines, _ := args.Get(0).([]domain.OrderLine)
	return lines, args.Error(1)
}

func (m *PredictionRepository) SavePredictions(ctx context.Context, predictions []domain.Prediction) error {
	args := m.Called(ctx, predictions)
	return args.Error(0)
}

func (m *PredictionRepository) ListPredictions(ctx context.Context, date string) ([]domain.Prediction, error) {
	args := m.Called(ctx, date)
	predictions, _ := args.Get(0).([]domain.Prediction)
	return predictions, args.Error(1)
}

func NewPredictionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *PredictionRepository {
	m := &PredictionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
