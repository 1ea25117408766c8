package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"restaurant-pos/agg-svc/internal/domain"
)

var ErrMissingOrderDate = errors.New("order event has no order_date")

const DefaultRetryDelay = time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	// RetryDelay is the pause after a failed read before reading again.
	RetryDelay time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		RetryDelay: DefaultRetryDelay,
	}
}

// Start reads the orders topic until ctx is cancelled or the reader is closed.
func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting Aggregation Service consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Aggregation Service consumer stopped")
				return
			}
			if errors.Is(err, io.EOF) {
				log.Println("Aggregation Service reader closed, consumer stopped")
				return
			}
			log.Printf("Error reading message: %v", err)
			select {
			case <-ctx.Done():
				log.Println("Aggregation Service consumer stopped")
				return
			case <-time.After(c.RetryDelay):
			}
			continue
		}
		c.HandleMessage(ctx, message.Value)
	}
}

// HandleMessage decodes one raw message and processes it. Malformed messages are logged and dropped.
func (c *Consumer) HandleMessage(ctx context.Context, value []byte) {
	var event domain.OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}
	if err := c.ProcessEvent(ctx, event); err != nil {
		log.Printf("ERROR: failed to process %s for order %s: %v", event.Type, event.OrderID, err)
	}
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) error {
	switch event.Type {
	case domain.EventOrderCreated, domain.EventOrderStatusChanged:
	default:
		return nil
	}
	if event.OrderDate == "" {
		return ErrMissingOrderDate
	}

	if err := c.Store.InvalidateDailySales(ctx, event.OrderDate); err != nil {
		return fmt.Errorf("failed to invalidate daily sales for %s: %w", event.OrderDate, err)
	}
	log.Printf("Invalidated daily sales for %s after %s on order %s", event.OrderDate, event.Type, event.OrderID)
	return nil
}
