package service_test

import (
	"context"
	"testing"

	"restaurant-pos/menu-svc/internal/domain"
	"restaurant-pos/menu-svc/internal/mocks"
	"restaurant-pos/menu-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIngredientService_Create(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.Ingredient
		wantErr bool
	}{
		{name: "valid", input: domain.Ingredient{Name: "Flour", Unit: "kg", QuantityToday: 10, MinThreshold: 2}},
		{name: "missing unit", input: domain.Ingredient{Name: "Flour"}, wantErr: true},
		{name: "negative quantity", input: domain.Ingredient{Name: "Flour", Unit: "kg", QuantityToday: -1}, wantErr: true},
		{name: "negative threshold", input: domain.Ingredient{Name: "Flour", Unit: "kg", MinThreshold: -1}, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewIngredientRepository(t)
			if !testCase.wantErr {
				repo.On("CreateIngredient", mock.Anything, mock.AnythingOfType("*domain.Ingredient")).Return(nil).Once()
			}

			ingredient := testCase.input
			err := service.NewIngredientService(repo).Create(context.Background(), &ingredient)

			if testCase.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidIngredient)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, ingredient.ID)
			assert.Equal(t, 1, ingredient.Version)
		})
	}
}

func TestIngredientService_SetQuantity_LogsDelta(t *testing.T) {
	repo := mocks.NewIngredientRepository(t)
	repo.On("GetIngredient", mock.Anything, "ing-1").
		Return(&domain.Ingredient{ID: "ing-1", Name: "Flour", Unit: "kg", QuantityToday: 10, Version: 4}, nil).Once()
	repo.On("UpdateIngredient", mock.Anything, mock.AnythingOfType("*domain.Ingredient"), 4,
		mock.MatchedBy(func(change *domain.InventoryTransaction) bool {
			return change != nil &&
				change.Type == domain.TransactionAdjustment &&
				change.QuantityChange == -3.5 &&
				change.IngredientID == "ing-1"
		}),
	).Return(nil).Once()

	ingredient, err := service.NewIngredientService(repo).SetQuantity(context.Background(), "ing-1", 6.5)

	require.NoError(t, err)
	assert.Equal(t, 6.5, ingredient.QuantityToday)
}

func TestIngredientService_SetQuantity_Errors(t *testing.T) {
	t.Run("negative quantity", func(t *testing.T) {
		_, err := service.NewIngredientService(mocks.NewIngredientRepository(t)).SetQuantity(context.Background(), "ing-1", -1)
		assert.ErrorIs(t, err, service.ErrInvalidIngredient)
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		repo := mocks.NewIngredientRepository(t)
		repo.On("GetIngredient", mock.Anything, "nope").Return(nil, domain.ErrNotFound).Once()

		_, err := service.NewIngredientService(repo).SetQuantity(context.Background(), "nope", 1)
		assert.ErrorIs(t, err, service.ErrIngredientNotFound)
	})

	t.Run("version conflict", func(t *testing.T) {
		repo := mocks.NewIngredientRepository(t)
		repo.On("GetIngredient", mock.Anything, "ing-1").
			Return(&domain.Ingredient{ID: "ing-1", Name: "Flour", Unit: "kg", Version: 1}, nil).Once()
		repo.On("UpdateIngredient", mock.Anything, mock.Anything, 1, mock.Anything).Return(domain.ErrVersionConflict).Once()

		_, err := service.NewIngredientService(repo).SetQuantity(context.Background(), "ing-1", 1)
		assert.ErrorIs(t, err, service.ErrStaleWrite)
	})
}

func TestIngredientService_Restock(t *testing.T) {
	repo := mocks.NewIngredientRepository(t)
	repo.On("GetIngredient", mock.Anything, "ing-1").
		Return(&domain.Ingredient{ID: "ing-1", Name: "Milk", Unit: "l", QuantityToday: 2, Supplier: "Dairy Co", Version: 1}, nil).Once()
	repo.On("UpdateIngredient", mock.Anything, mock.Anything, 1,
		mock.MatchedBy(func(change *domain.InventoryTransaction) bool {
			return change.Type == domain.TransactionRestock && change.QuantityChange == 8 && change.ReferenceID == "Dairy Co"
		}),
	).Return(nil).Once()

	ingredient, err := service.NewIngredientService(repo).Restock(context.Background(), "ing-1", 8, "")

	require.NoError(t, err)
	assert.Equal(t, 10.0, ingredient.QuantityToday)
}

func TestIngredientService_Update_NoQuantityChangeSkipsTransaction(t *testing.T) {
	name := "Whole Milk"
	repo := mocks.NewIngredientRepository(t)
	repo.On("GetIngredient", mock.Anything, "ing-1").
		Return(&domain.Ingredient{ID: "ing-1", Name: "Milk", Unit: "l", QuantityToday: 2, Version: 2}, nil).Once()
	repo.On("UpdateIngredient", mock.Anything, mock.Anything, 2, (*domain.InventoryTransaction)(nil)).Return(nil).Once()

	ingredient, err := service.NewIngredientService(repo).Update(context.Background(), "ing-1", domain.IngredientPatch{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Whole Milk", ingredient.Name)
}

func TestIngredientService_LowStock(t *testing.T) {
	repo := mocks.NewIngredientRepository(t)
	repo.On("ListIngredients", mock.Anything).Return([]domain.Ingredient{
		{ID: "a", Name: "Basil", QuantityToday: 1, MinThreshold: 2},
		{ID: "b", Name: "Flour", QuantityToday: 10, MinThreshold: 2},
		{ID: "c", Name: "Salt", QuantityToday: 2, MinThreshold: 2},
	}, nil).Once()

	low, err := service.NewIngredientService(repo).LowStock(context.Background())

	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "a", low[0].ID)
	assert.Equal(t, "c", low[1].ID)
}
