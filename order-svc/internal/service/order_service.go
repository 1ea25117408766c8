package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"restaurant-pos/order-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidOrder      = errors.New("invalid order")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrUnknownDish       = errors.New("unknown dish")
	ErrOrderNotFound     = errors.New("order not found")
	ErrDuplicateOrder    = errors.New("order already submitted with this idempotency key")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrStaleWrite        = errors.New("order was modified by another request")
)

const dateLayout = "2006-01-02"

type OrderService struct {
	repository OrderRepository
	cache      IdempotencyCache
	publisher  OrderPublisher
	qr         QRGenerator
	location   *time.Location
}

func NewOrderService(repository OrderRepository, cache IdempotencyCache, publisher OrderPublisher, qr QRGenerator, location *time.Location) *OrderService {
	if location == nil {
		location = time.UTC
	}
	return &OrderService{
		repository: repository,
		cache:      cache,
		publisher:  publisher,
		qr:         qr,
		location:   location,
	}
}

// Create records a completed sale. A non-empty idempotencyKey may be used only once while its marker lives.
func (s *OrderService) Create(ctx context.Context, order *domain.Order, idempotencyKey string) error {
	if err := s.validate(ctx, order); err != nil {
		return err
	}

	var marker string
	if idempotencyKey != "" && s.cache != nil {
		marker = s.cache.IdempotencyKey(idempotencyKey)
		claimed, err := s.cache.Claim(ctx, marker)
		switch {
		case err != nil:
			log.Printf("Warning: idempotency check unavailable: %v", err)
			marker = ""
		case !claimed:
			return ErrDuplicateOrder
		}
	}

	order.ID = uuid.NewString()
	order.Status = domain.StatusCompleted
	order.Version = 1
	if err := s.repository.CreateOrder(ctx, order); err != nil {
		if marker != "" {
			if relErr := s.cache.Release(ctx, marker); relErr != nil {
				log.Printf("Warning: failed to release idempotency marker: %v", relErr)
			}
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	s.publish(ctx, domain.EventOrderCreated, order)
	return nil
}

func (s *OrderService) List(ctx context.Context, startDate, endDate string) ([]domain.Order, error) {
	var filter domain.OrderFilter
	if startDate != "" {
		start, err := time.ParseInLocation(dateLayout, startDate, s.location)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.From = &start
	}
	if endDate != "" {
		end, err := time.ParseInLocation(dateLayout, endDate, s.location)
		if err != nil {
			return nil, ErrInvalidDate
		}
		until := end.AddDate(0, 0, 1)
		filter.Until = &until
	}
	if filter.From != nil && filter.Until != nil && !filter.From.Before(*filter.Until) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidOrder)
	}

	orders, err := s.repository.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repository.GetOrder(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.Order, error) {
	switch change.Status {
	case domain.StatusPending, domain.StatusCompleted, domain.StatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, change.Status)
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if change.Version != 0 && change.Version != order.Version {
		return nil, ErrStaleWrite
	}
	if order.Status == change.Status {
		return order, nil
	}
	if !domain.CanTransition(order.Status, change.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, change.Status)
	}

	expected := order.Version
	order.Status = change.Status
	if err := s.repository.UpdateOrderStatus(ctx, order, expected); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return nil, ErrStaleWrite
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.publish(ctx, domain.EventOrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) QRCode(ctx context.Context, id string) ([]byte, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.Generate(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}
	return png, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.publisher == nil {
		log.Printf("Warning: order publisher is not configured, skipping %s", eventType)
		return
	}
	event := domain.OrderEvent{
		Type:      eventType,
		OrderID:   order.ID,
		OrderDate: order.Timestamp.In(s.location).Format(dateLayout),
		Total:     order.Total,
		Status:    order.Status,
		Timestamp: time.Now(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("Warning: failed to publish %s for order %s: %v", eventType, order.ID, err)
	}
}

func (s *OrderService) validate(ctx context.Context, order *domain.Order) error {
	order.PaymentMethod = strings.TrimSpace(order.PaymentMethod)
	order.CashierID = strings.TrimSpace(order.CashierID)

	switch {
	case len(order.Items) == 0:
		return fmt.Errorf("%w: at least one item is required", ErrInvalidOrder)
	case order.PaymentMethod == "":
		return fmt.Errorf("%w: payment method is required", ErrInvalidOrder)
	case order.CashierID == "":
		return fmt.Errorf("%w: cashier is required", ErrInvalidOrder)
	case order.Subtotal < 0 || order.Tax < 0:
		return fmt.Errorf("%w: amounts cannot be negative", ErrInvalidOrder)
	}

	expected := decimal.NewFromFloat(order.Subtotal).Add(decimal.NewFromFloat(order.Tax)).Round(2)
	if !decimal.NewFromFloat(order.Total).Round(2).Equal(expected) {
		return fmt.Errorf("%w: total %.2f does not equal subtotal plus tax %s", ErrInvalidOrder, order.Total, expected.StringFixed(2))
	}

	ids := make([]string, 0, len(order.Items))
	seen := map[string]bool{}
	for _, item := range order.Items {
		switch {
		case item.DishID == "":
			return fmt.Errorf("%w: dish id is required", ErrInvalidOrder)
		case item.Quantity <= 0:
			return fmt.Errorf("%w: quantity for dish %s must be greater than zero", ErrInvalidOrder, item.DishID)
		case item.Price < 0:
			return fmt.Errorf("%w: price for dish %s cannot be negative", ErrInvalidOrder, item.DishID)
		}
		if !seen[item.DishID] {
			seen[item.DishID] = true
			ids = append(ids, item.DishID)
		}
	}

	existing, err := s.repository.ActiveDishIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to validate dishes: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: %s", ErrUnknownDish, id)
		}
	}
	return nil
}
