package domain

import "time"

type TransactionType string

const (
	TransactionUsage      TransactionType = "usage"
	TransactionRestock    TransactionType = "restock"
	TransactionAdjustment TransactionType = "adjustment"
)

type Ingredient struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Unit          string    `json:"unit"`
	QuantityToday float64   `json:"quantity_today"`
	MinThreshold  float64   `json:"min_threshold"`
	CostPerUnit   float64   `json:"cost_per_unit"`
	Supplier      string    `json:"supplier,omitempty"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IngredientPatch carries only the fields a caller wants to change.
// A non-zero Version must match the stored version.
type IngredientPatch struct {
	Name          *string  `json:"name,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	QuantityToday *float64 `json:"quantity_today,omitempty"`
	MinThreshold  *float64 `json:"min_threshold,omitempty"`
	CostPerUnit   *float64 `json:"cost_per_unit,omitempty"`
	Supplier      *string  `json:"supplier,omitempty"`
	Version       int      `json:"version,omitempty"`
}

type InventoryTransaction struct {
	IngredientID   string          `json:"ingredient_id"`
	Type           TransactionType `json:"transaction_type"`
	QuantityChange float64         `json:"quantity_change"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

type SubIngredient struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	PreparationMethod string `json:"preparation_method,omitempty"`
	CookingTime       int    `json:"cooking_time,omitempty"`
	Temperature       string `json:"temperature,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

type DishIngredient struct {
	IngredientID  string         `json:"ingredient_id"`
	Quantity      float64        `json:"quantity"`
	Unit          string         `json:"unit"`
	SubIngredient *SubIngredient `json:"sub_ingredient,omitempty"`
}

type Dish struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Price           float64          `json:"price"`
	Category        string           `json:"category"`
	Description     string           `json:"description,omitempty"`
	PreparationTime int              `json:"preparation_time,omitempty"`
	DifficultyLevel string           `json:"difficulty_level,omitempty"`
	Ingredients     []DishIngredient `json:"ingredients"`
	IsActive        bool             `json:"is_active"`
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type DishPatch struct {
	Name            *string           `json:"name,omitempty"`
	Price           *float64          `json:"price,omitempty"`
	Category        *string           `json:"category,omitempty"`
	Description     *string           `json:"description,omitempty"`
	PreparationTime *int              `json:"preparation_time,omitempty"`
	DifficultyLevel *string           `json:"difficulty_level,omitempty"`
	Ingredients     *[]DishIngredient `json:"ingredients,omitempty"`
	IsActive        *bool             `json:"is_active,omitempty"`
	Version         int               `json:"version,omitempty"`
}

func (p DishPatch) Apply(d *Dish) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.PreparationTime != nil {
		d.PreparationTime = *p.PreparationTime
	}
	if p.DifficultyLevel != nil {
		d.DifficultyLevel = *p.DifficultyLevel
	}
	if p.Ingredients != nil {
		d.Ingredients = *p.Ingredients
	}
	if p.IsActive != nil {
		d.IsActive = *p.IsActive
	}
}

func (p IngredientPatch) Apply(i *Ingredient) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Unit != nil {
		i.Unit = *p.Unit
	}
	if p.QuantityToday != nil {
		i.QuantityToday = *p.QuantityToday
	}
	if p.MinThreshold != nil {
		i.MinThreshold = *p.MinThreshold
	}
	if p.CostPerUnit != nil {
		i.CostPerUnit = *p.CostPerUnit
	}
	if p.Supplier != nil {
		i.Supplier = *p.Supplier
	}
}
