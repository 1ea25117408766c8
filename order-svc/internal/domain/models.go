package domain

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")
)

type OrderItem struct {
	DishID   string  `json:"dish_id"`
	DishName string  `json:"dish_name,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes,omitempty"`
}

type Order struct {
	ID            string      `json:"id"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status"`
	PaymentMethod string      `json:"payment_method"`
	CustomerID    string      `json:"customer_id,omitempty"`
	CashierID     string      `json:"cashier_id"`
	Timestamp     time.Time   `json:"timestamp"`
	Version       int         `json:"version"`
}

// OrderFilter selects orders with From <= timestamp < Until; a nil bound is open.
type OrderFilter struct {
	From  *time.Time
	Until *time.Time
}

type StatusChange struct {
	Status  OrderStatus `json:"status"`
	Version int         `json:"version"`
}

// OrderEvent is published on the orders topic after a write commits.
type OrderEvent struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id"`
	OrderDate string      `json:"order_date"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusCompleted || to == StatusCancelled
	case StatusCompleted:
		return to == StatusCancelled
	}
	return false
}
