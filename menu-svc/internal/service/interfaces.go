package service

import (
	"context"

	"restaurant-pos/menu-svc/internal/domain"
	"restaurant-pos/menu-svc/internal/storage"
)

type DishRepository interface {
	CreateDish(ctx context.Context, dish *domain.Dish) error
	ListActiveDishes(ctx context.Context) ([]domain.Dish, error)
	GetDish(ctx context.Context, id string) (*domain.Dish, error)
	UpdateDish(ctx context.Context, dish *domain.Dish, expectedVersion int) error
	DeactivateDish(ctx context.Context, id string) (int64, error)
}

type IngredientRepository interface {
	CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error
	ListIngredients(ctx context.Context) ([]domain.Ingredient, error)
	GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error)
	UpdateIngredient(ctx context.Context, ingredient *domain.Ingredient, expectedVersion int, change *domain.InventoryTransaction) error
	ExistingIngredientIDs(ctx context.Context, ids []string) ([]string, error)
}

type DishServiceInterface interface {
	Create(ctx context.Context, dish *domain.Dish) error
	List(ctx context.Context) ([]domain.Dish, error)
	Get(ctx context.Context, id string) (*domain.Dish, error)
	Update(ctx context.Context, id string, patch domain.DishPatch) (*domain.Dish, error)
	Delete(ctx context.Context, id string) error
}

type IngredientServiceInterface interface {
	Create(ctx context.Context, ingredient *domain.Ingredient) error
	List(ctx context.Context) ([]domain.Ingredient, error)
	LowStock(ctx context.Context) ([]domain.Ingredient, error)
	Update(ctx context.Context, id string, patch domain.IngredientPatch) (*domain.Ingredient, error)
	SetQuantity(ctx context.Context, id string, quantity float64) (*domain.Ingredient, error)
	Restock(ctx context.Context, id string, amount float64, supplier string) (*domain.Ingredient, error)
}

var (
	_ DishRepository             = (*storage.PostgresRepository)(nil)
	_ IngredientRepository       = (*storage.PostgresRepository)(nil)
	_ DishServiceInterface       = (*DishService)(nil)
	_ IngredientServiceInterface = (*IngredientService)(nil)
)
