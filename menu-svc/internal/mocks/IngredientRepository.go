package mocks

import (
	"context"

	"restaurant-pos/menu-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type IngredientRepository struct {
	mock.Mock
}

func (m *IngredientRepository) CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

func (m *IngredientRepository) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	args := m.Called(ctx)
	ingredients, _ := args.Get(0).([]domain.Ingredient)
	return ingredients, args.Error(1)
}

func (m *IngredientRepository) GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error) {
	args := m.Called(ctx, id)
	ingredient, _ := args.Get(0).(*domain.Ingredient)
	return ingredient, args.Error(1)
}

func (m *IngredientRepository) UpdateIngredient(ctx context.Context, ingredient *domain.Ingredient, expectedVersion int, change *domain.InventoryTransaction) error {
	args := m.Called(ctx, ingredient, expectedVersion, change)
	return args.Error(0)
}

func (m *IngredientRepository) ExistingIngredientIDs(ctx context.Context, ids []string) ([]string, error) {
	args := m.Called(ctx, ids)
	existing, _ := args.Get(0).([]string)
	return existing, args.Error(1)
}

func NewIngredientRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *IngredientRepository {
	m := &IngredientRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
