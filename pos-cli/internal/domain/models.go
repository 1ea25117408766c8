// Package domain holds the client-side copies of the records the restaurant API serves.
package domain

import "time"

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

type IngredientPatch struct {
	Name          *string  `json:"name,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	QuantityToday *float64 `json:"quantity_today,omitempty"`
	MinThreshold  *float64 `json:"min_threshold,omitempty"`
	CostPerUnit   *float64 `json:"cost_per_unit,omitempty"`
	Supplier      *string  `json:"supplier,omitempty"`
	Version       int      `json:"version,omitempty"`
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
	ID              string           `json:"id,omitempty"`
	Name            string           `json:"name"`
	Price           float64          `json:"price"`
	Category        string           `json:"category"`
	Description     string           `json:"description,omitempty"`
	PreparationTime int              `json:"preparation_time,omitempty"`
	DifficultyLevel string           `json:"difficulty_level,omitempty"`
	Ingredients     []DishIngredient `json:"ingredients"`
	IsActive        bool             `json:"is_active"`
	Version         int              `json:"version,omitempty"`
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

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type OrderItem struct {
	DishID   string  `json:"dish_id"`
	DishName string  `json:"dish_name,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes,omitempty"`
}

type Order struct {
	ID            string      `json:"id,omitempty"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status,omitempty"`
	PaymentMethod string      `json:"payment_method"`
	CustomerID    string      `json:"customer_id,omitempty"`
	CashierID     string      `json:"cashier_id"`
	Timestamp     time.Time   `json:"timestamp"`
	Version       int         `json:"version,omitempty"`
}

// OrderFilter bounds are inclusive YYYY-MM-DD dates; empty means open.
type OrderFilter struct {
	StartDate string
	EndDate   string
}

type StatusChange struct {
	Status  OrderStatus `json:"status"`
	Version int         `json:"version,omitempty"`
}

type PeriodMetric struct {
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
	AvgOrder float64 `json:"avgOrder"`
}

type DailySales struct {
	Date      string       `json:"date"`
	Morning   PeriodMetric `json:"morning"`
	Afternoon PeriodMetric `json:"afternoon"`
	Evening   PeriodMetric `json:"evening"`
	Total     PeriodMetric `json:"total"`
}

type RecordsSynced struct {
	Dishes      int `json:"dishes"`
	Ingredients int `json:"ingredients"`
	Orders      int `json:"orders"`
	Analytics   int `json:"analytics"`
	Predictions int `json:"predictions,omitempty"`
	Cleanup     int `json:"cleanup,omitempty"`
}

type SyncResult struct {
	LastSync      time.Time     `json:"lastSync"`
	RecordsSynced RecordsSynced `json:"recordsSynced"`
}
