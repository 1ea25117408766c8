package mocks

import (
	"context"

	"restaurant-pos/menu-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type DishRepository struct {
	mock.Mock
}

func (m *DishRepository) CreateDish(ctx context.Context, dish *domain.Dish) error {
	args := m.Called(ctx, dish)
	return args.Error(0)
}

func (m *DishRepository) ListActiveDishes(ctx context.Context) ([]domain.Dish, error) {
	args := m.Called(ctx)
	dishes, _ := args.Get(0).([]domain.Dish)
	return dishes, args.Error(1)
}

func (m *DishRepository) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	args := m.Called(ctx, id)
	dish, _ := args.Get(0).(*domain.Dish)
	return dish, args.Error(1)
}

func (m *DishRepository) UpdateDish(ctx context.Context, dish *domain.Dish, expectedVersion int) error {
	args := m.Called(ctx, dish, expectedVersion)
	return args.Error(0)
}

func (m *DishRepository) DeactivateDish(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func NewDishRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *DishRepository {
	m := &DishRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
