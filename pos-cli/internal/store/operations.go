package store

import (
	"context"
	"errors"
	"time"

	"restaurant-pos/pos-cli/internal/domain"

	"github.com/google/uuid"
)

func (s *Store) LoadDishes(ctx context.Context) error {
	gen := s.begin(ctx, Dishes)
	res := s.api.ListDishes(ctx)
	if !res.Success {
		return s.fail(ctx, Dishes, gen, resultError(res))
	}
	dishes := res.Data
	if dishes == nil {
		dishes = []domain.Dish{}
	}
	s.finish(ctx, Dishes, gen, true, func() { s.dishes = dishes })
	return nil
}

func (s *Store) AddDish(ctx context.Context, dish domain.Dish) (*domain.Dish, error) {
	gen := s.begin(ctx, Dishes)
	res := s.api.CreateDish(ctx, dish)
	if !res.Success {
		return nil, s.fail(ctx, Dishes, gen, resultError(res))
	}
	created := res.Data
	s.finish(ctx, Dishes, gen, false, func() {
		s.dishes = append(append([]domain.Dish(nil), s.dishes...), created)
	})
	return &created, nil
}

// UpdateDish sends the locally known version unless patch carries one. A stale version is
// rejected by the server and the local dish is left as it was.
func (s *Store) UpdateDish(ctx context.Context, id string, patch domain.DishPatch) (*domain.Dish, error) {
	if patch.Version == 0 {
		s.mu.Lock()
		if i := indexOf(s.dishes, id, func(d domain.Dish) string { return d.ID }); i >= 0 {
			patch.Version = s.dishes[i].Version
		}
		s.mu.Unlock()
	}

	gen := s.begin(ctx, Dishes)
	res := s.api.UpdateDish(ctx, id, patch)
	if !res.Success {
		return nil, s.fail(ctx, Dishes, gen, resultError(res))
	}
	updated := res.Data
	s.finish(ctx, Dishes, gen, false, func() {
		s.dishes = replaceByID(s.dishes, updated, func(d domain.Dish) string { return d.ID })
	})
	return &updated, nil
}

// DeleteDish removes the dish once the server confirms. An id that is not in the local
// collection fails with ErrDishNotFound without contacting the server.
func (s *Store) DeleteDish(ctx context.Context, id string) error {
	s.mu.Lock()
	known := indexOf(s.dishes, id, func(d domain.Dish) string { return d.ID }) >= 0
	s.mu.Unlock()

	gen := s.begin(ctx, Dishes)
	if !known {
		return s.fail(ctx, Dishes, gen, ErrDishNotFound)
	}
	res := s.api.DeleteDish(ctx, id)
	if !res.Success {
		return s.fail(ctx, Dishes, gen, resultError(res))
	}
	s.finish(ctx, Dishes, gen, false, func() {
		s.dishes = removeByID(s.dishes, id, func(d domain.Dish) string { return d.ID })
	})
	return nil
}

func (s *Store) LoadIngredients(ctx context.Context) error {
	gen := s.begin(ctx, Ingredients)
	res := s.api.ListIngredients(ctx)
	if !res.Success {
		return s.fail(ctx, Ingredients, gen, resultError(res))
	}
	ingredients := res.Data
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}
	s.finish(ctx, Ingredients, gen, true, func() { s.ingredients = ingredients })
	return nil
}

func (s *Store) AddIngredient(ctx context.Context, ingredient domain.Ingredient) (*domain.Ingredient, error) {
	gen := s.begin(ctx, Ingredients)
	res := s.api.CreateIngredient(ctx, ingredient)
	if !res.Success {
		return nil, s.fail(ctx, Ingredients, gen, resultError(res))
	}
	created := res.Data
	s.finish(ctx, Ingredients, gen, false, func() {
		s.ingredients = append(append([]domain.Ingredient(nil), s.ingredients...), created)
	})
	return &created, nil
}

func (s *Store) UpdateIngredient(ctx context.Context, id string, patch domain.IngredientPatch) (*domain.Ingredient, error) {
	if patch.Version == 0 {
		s.mu.Lock()
		if i := indexOf(s.ingredients, id, func(in domain.Ingredient) string { return in.ID }); i >= 0 {
			patch.Version = s.ingredients[i].Version
		}
		s.mu.Unlock()
	}

	gen := s.begin(ctx, Ingredients)
	res := s.api.UpdateIngredient(ctx, id, patch)
	if !res.Success {
		return nil, s.fail(ctx, Ingredients, gen, resultError(res))
	}
	return s.applyIngredient(ctx, gen, res.Data), nil
}

// SetIngredientQuantity sets today's on-hand quantity to an absolute value.
func (s *Store) SetIngredientQuantity(ctx context.Context, id string, quantity float64) (*domain.Ingredient, error) {
	gen := s.begin(ctx, Ingredients)
	res := s.api.SetIngredientQuantity(ctx, id, quantity)
	if !res.Success {
		return nil, s.fail(ctx, Ingredients, gen, resultError(res))
	}
	return s.applyIngredient(ctx, gen, res.Data), nil
}

func (s *Store) applyIngredient(ctx context.Context, gen uint64, updated domain.Ingredient) *domain.Ingredient {
	s.finish(ctx, Ingredients, gen, false, func() {
		s.ingredients = replaceByID(s.ingredients, updated, func(in domain.Ingredient) string { return in.ID })
	})
	return &updated
}

func (s *Store) LoadOrders(ctx context.Context, filter domain.OrderFilter) error {
	gen := s.begin(ctx, Orders)
	res := s.api.ListOrders(ctx, filter)
	if !res.Success {
		return s.fail(ctx, Orders, gen, resultError(res))
	}
	orders := res.Data
	if orders == nil {
		orders = []domain.Order{}
	}
	s.finish(ctx, Orders, gen, true, func() { s.orders = orders })
	return nil
}

// AddOrder submits order under idempotencyKey, generating one when empty.
func (s *Store) AddOrder(ctx context.Context, order domain.Order, idempotencyKey string) (*domain.Order, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	gen := s.begin(ctx, Orders)
	res := s.api.CreateOrder(ctx, order, idempotencyKey)
	if !res.Success {
		return nil, s.fail(ctx, Orders, gen, resultError(res))
	}
	created := res.Data
	s.finish(ctx, Orders, gen, false, func() {
		s.orders = append(append([]domain.Order(nil), s.orders...), created)
	})
	return &created, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	change := domain.StatusChange{Status: status}
	s.mu.Lock()
	if i := indexOf(s.orders, id, func(o domain.Order) string { return o.ID }); i >= 0 {
		change.Version = s.orders[i].Version
	}
	s.mu.Unlock()

	gen := s.begin(ctx, Orders)
	res := s.api.UpdateOrderStatus(ctx, id, change)
	if !res.Success {
		return nil, s.fail(ctx, Orders, gen, resultError(res))
	}
	updated := res.Data
	s.finish(ctx, Orders, gen, false, func() {
		s.orders = replaceByID(s.orders, updated, func(o domain.Order) string { return o.ID })
	})
	return &updated, nil
}

func (s *Store) LoadSales(ctx context.Context, startDate, endDate string) error {
	gen := s.begin(ctx, Sales)
	res := s.api.Sales(ctx, startDate, endDate)
	if !res.Success {
		return s.fail(ctx, Sales, gen, resultError(res))
	}
	sales := res.Data
	if sales == nil {
		sales = []domain.DailySales{}
	}
	s.finish(ctx, Sales, gen, true, func() { s.sales = sales })
	return nil
}

func (s *Store) LoadDailySales(ctx context.Context, date string) error {
	gen := s.begin(ctx, DailySalesRun)
	res := s.api.DailySales(ctx, date)
	if !res.Success {
		return s.fail(ctx, DailySalesRun, gen, resultError(res))
	}
	daily := res.Data
	s.finish(ctx, DailySalesRun, gen, true, func() { s.daily = &daily })
	return nil
}

// SyncWithDatabase runs the server sync, records its timestamp and then reloads dishes,
// ingredients and orders one after another. The reloads run even when the sync fails.
func (s *Store) SyncWithDatabase(ctx context.Context) error {
	var errs []error

	gen := s.begin(ctx, SyncRun)
	res := s.api.Sync(ctx)
	if res.Success {
		reported := res.Data.LastSync
		s.finish(ctx, SyncRun, gen, false, func() { s.lastSync = nextSync(s.lastSync, reported) })
	} else {
		errs = append(errs, s.fail(ctx, SyncRun, gen, resultError(res)))
	}

	if err := s.LoadDishes(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.LoadIngredients(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.LoadOrders(ctx, domain.OrderFilter{}); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// nextSync keeps lastSync strictly increasing even when the server clock lags the previous value.
func nextSync(prev *time.Time, reported time.Time) *time.Time {
	next := reported
	if next.IsZero() {
		next = time.Now()
	}
	if prev != nil && !next.After(*prev) {
		next = prev.Add(time.Millisecond)
	}
	return &next
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}

// replaceByID returns a copy of items with the entry matching updated swapped in, or
// updated appended when no entry matches.
func replaceByID[T any](items []T, updated T, key func(T) string) []T {
	out := append([]T(nil), items...)
	if i := indexOf(out, key(updated), key); i >= 0 {
		out[i] = updated
		return out
	}
	return append(out, updated)
}

func removeByID[T any](items []T, id string, key func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if key(item) != id {
			out = append(out, item)
		}
	}
	return out
}
