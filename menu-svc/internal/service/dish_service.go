package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant-pos/menu-svc/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrDishNotFound      = errors.New("dish not found")
	ErrInvalidDish       = errors.New("invalid dish")
	ErrUnknownIngredient = errors.New("dish references unknown ingredient")
	ErrStaleWrite        = errors.New("record was modified by another client, reload and retry")
)

type DishService struct {
	dishes      DishRepository
	ingredients IngredientRepository
}

func NewDishService(dishes DishRepository, ingredients IngredientRepository) *DishService {
	return &DishService{dishes: dishes, ingredients: ingredients}
}

func (s *DishService) Create(ctx context.Context, dish *domain.Dish) error {
	if err := s.validate(ctx, dish); err != nil {
		return err
	}

	dish.ID = uuid.NewString()
	dish.IsActive = true
	dish.Version = 1
	if dish.Ingredients == nil {
		dish.Ingredients = []domain.DishIngredient{}
	}

	if err := s.dishes.CreateDish(ctx, dish); err != nil {
		return fmt.Errorf("failed to create dish: %w", err)
	}
	return nil
}

func (s *DishService) List(ctx context.Context) ([]domain.Dish, error) {
	dishes, err := s.dishes.ListActiveDishes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	if dishes == nil {
		dishes = []domain.Dish{}
	}
	return dishes, nil
}

func (s *DishService) Get(ctx context.Context, id string) (*domain.Dish, error) {
	dish, err := s.dishes.GetDish(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrDishNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dish: %w", err)
	}
	return dish, nil
}

func (s *DishService) Update(ctx context.Context, id string, patch domain.DishPatch) (*domain.Dish, error) {
	dish, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Version != 0 && patch.Version != dish.Version {
		return nil, ErrStaleWrite
	}

	expected := dish.Version
	patch.Apply(dish)
	if err := s.validate(ctx, dish); err != nil {
		return nil, err
	}

	if err := s.dishes.UpdateDish(ctx, dish, expected); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return nil, ErrStaleWrite
		}
		return nil, fmt.Errorf("failed to update dish: %w", err)
	}
	return dish, nil
}

// Delete deactivates the dish. Orders keep referencing it.
func (s *DishService) Delete(ctx context.Context, id string) error {
	affected, err := s.dishes.DeactivateDish(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	if affected == 0 {
		return ErrDishNotFound
	}
	return nil
}

func (s *DishService) validate(ctx context.Context, dish *domain.Dish) error {
	dish.Name = strings.TrimSpace(dish.Name)
	dish.Category = strings.TrimSpace(dish.Category)

	switch {
	case dish.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidDish)
	case dish.Category == "":
		return fmt.Errorf("%w: category is required", ErrInvalidDish)
	case dish.Price <= 0:
		return fmt.Errorf("%w: price must be greater than zero", ErrInvalidDish)
	case dish.PreparationTime < 0:
		return fmt.Errorf("%w: preparation time cannot be negative", ErrInvalidDish)
	}

	if len(dish.Ingredients) == 0 {
		return nil
	}

	ids := make([]string, 0, len(dish.Ingredients))
	for _, ing := range dish.Ingredients {
		if ing.IngredientID == "" {
			return fmt.Errorf("%w: ingredient id is required", ErrInvalidDish)
		}
		if ing.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for ingredient %s must be greater than zero", ErrInvalidDish, ing.IngredientID)
		}
		ids = append(ids, ing.IngredientID)
	}

	existing, err := s.ingredients.ExistingIngredientIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to validate ingredients: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: %s", ErrUnknownIngredient, id)
		}
	}
	return nil
}
