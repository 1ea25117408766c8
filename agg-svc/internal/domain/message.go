package domain

import "time"

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

// OrderEvent is the message order-svc publishes on the orders topic. OrderDate is the
// business date of the order in the restaurant's time zone.
type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	OrderDate string    `json:"order_date"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
