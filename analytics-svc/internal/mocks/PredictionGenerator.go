package mocks

import (
	"context"
	"time"

	"restaurant-pos/analytics-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type PredictionGenerator struct {
	mock.Mock
}

func (m *PredictionGenerator) GenerateFor(ctx context.Context, target time.Time) (*domain.GenerationResult, error) {
	args := m.Called(ctx, target)
	result, _ := args.Get(0).(*domain.GenerationResult)
	return result, args.Error(1)
}

func NewPredictionGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *PredictionGenerator {
	m := &PredictionGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
