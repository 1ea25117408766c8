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
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrInvalidIngredient  = errors.New("invalid ingredient")
)

type IngredientService struct {
	repo IngredientRepository
}

func NewIngredientService(repo IngredientRepository) *IngredientService {
	return &IngredientService{repo: repo}
}

func (s *IngredientService) Create(ctx context.Context, ingredient *domain.Ingredient) error {
	if err := validateIngredient(ingredient); err != nil {
		return err
	}

	ingredient.ID = uuid.NewString()
	ingredient.Version = 1
	if err := s.repo.CreateIngredient(ctx, ingredient); err != nil {
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

func (s *IngredientService) List(ctx context.Context) ([]domain.Ingredient, error) {
	ingredients, err := s.repo.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}
	return ingredients, nil
}

// LowStock returns ingredients at or below their minimum threshold.
func (s *IngredientService) LowStock(ctx context.Context) ([]domain.Ingredient, error) {
	ingredients, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]domain.Ingredient, 0)
	for _, ing := range ingredients {
		if ing.QuantityToday <= ing.MinThreshold {
			low = append(low, ing)
		}
	}
	return low, nil
}

func (s *IngredientService) Update(ctx context.Context, id string, patch domain.IngredientPatch) (*domain.Ingredient, error) {
	ingredient, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Version != 0 && patch.Version != ingredient.Version {
		return nil, ErrStaleWrite
	}

	before := ingredient.QuantityToday
	patch.Apply(ingredient)
	if err := validateIngredient(ingredient); err != nil {
		return nil, err
	}

	var change *domain.InventoryTransaction
	if ingredient.QuantityToday != before {
		change = &domain.InventoryTransaction{
			IngredientID:   id,
			Type:           domain.TransactionAdjustment,
			QuantityChange: ingredient.QuantityToday - before,
			Notes:          "Ingredient update",
		}
	}
	return s.save(ctx, ingredient, change)
}

// SetQuantity overwrites today's on-hand quantity and records the delta as an adjustment.
func (s *IngredientService) SetQuantity(ctx context.Context, id string, quantity float64) (*domain.Ingredient, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidIngredient)
	}
	ingredient, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	change := &domain.InventoryTransaction{
		IngredientID:   id,
		Type:           domain.TransactionAdjustment,
		QuantityChange: quantity - ingredient.QuantityToday,
		Notes:          "Manual quantity update",
	}
	ingredient.QuantityToday = quantity
	return s.save(ctx, ingredient, change)
}

func (s *IngredientService) Restock(ctx context.Context, id string, amount float64, supplier string) (*domain.Ingredient, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: restock amount must be greater than zero", ErrInvalidIngredient)
	}
	ingredient, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if supplier == "" {
		supplier = ingredient.Supplier
	}
	change := &domain.InventoryTransaction{
		IngredientID:   id,
		Type:           domain.TransactionRestock,
		QuantityChange: amount,
		ReferenceID:    supplier,
	}
	ingredient.QuantityToday += amount
	return s.save(ctx, ingredient, change)
}

func (s *IngredientService) get(ctx context.Context, id string) (*domain.Ingredient, error) {
	ingredient, err := s.repo.GetIngredient(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	return ingredient, nil
}

func (s *IngredientService) save(ctx context.Context, ingredient *domain.Ingredient, change *domain.InventoryTransaction) (*domain.Ingredient, error) {
	if err := s.repo.UpdateIngredient(ctx, ingredient, ingredient.Version, change); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return nil, ErrStaleWrite
		}
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return ingredient, nil
}

func validateIngredient(ingredient *domain.Ingredient) error {
	ingredient.Name = strings.TrimSpace(ingredient.Name)
	ingredient.Unit = strings.TrimSpace(ingredient.Unit)

	switch {
	case ingredient.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidIngredient)
	case ingredient.Unit == "":
		return fmt.Errorf("%w: unit is required", ErrInvalidIngredient)
	case ingredient.QuantityToday < 0:
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidIngredient)
	case ingredient.MinThreshold < 0:
		return fmt.Errorf("%w: minimum threshold cannot be negative", ErrInvalidIngredient)
	case ingredient.CostPerUnit < 0:
		return fmt.Errorf("%w: cost per unit cannot be negative", ErrInvalidIngredient)
	}
	return nil
}
