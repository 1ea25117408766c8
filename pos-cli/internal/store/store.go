// Package store is the client-side Data Store: the single in-memory view of dishes, ingredients,
// orders and sales data. Every read and write goes through the API, and the durable part of the
// state is mirrored through a Persister after every transition.
//
// Store methods never panic on remote failures. A failed operation keeps the previous data,
// marks the collection as errored and returns the same error to the caller.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"restaurant-pos/pos-cli/internal/apiclient"
	"restaurant-pos/pos-cli/internal/domain"
	"restaurant-pos/pos-cli/internal/persist"
)

var (
	ErrDishNotFound = errors.New("dish not found")
	ErrStale        = errors.New("record was changed by someone else, reload and retry")
)

type API interface {
	ListDishes(ctx context.Context) apiclient.Result[[]domain.Dish]
	CreateDish(ctx context.Context, dish domain.Dish) apiclient.Result[domain.Dish]
	UpdateDish(ctx context.Context, id string, patch domain.DishPatch) apiclient.Result[domain.Dish]
	DeleteDish(ctx context.Context, id string) apiclient.Result[json.RawMessage]

	ListIngredients(ctx context.Context) apiclient.Result[[]domain.Ingredient]
	CreateIngredient(ctx context.Context, ingredient domain.Ingredient) apiclient.Result[domain.Ingredient]
	UpdateIngredient(ctx context.Context, id string, patch domain.IngredientPatch) apiclient.Result[domain.Ingredient]
	SetIngredientQuantity(ctx context.Context, id string, quantity float64) apiclient.Result[domain.Ingredient]

	ListOrders(ctx context.Context, filter domain.OrderFilter) apiclient.Result[[]domain.Order]
	CreateOrder(ctx context.Context, order domain.Order, idempotencyKey string) apiclient.Result[domain.Order]
	UpdateOrderStatus(ctx context.Context, id string, change domain.StatusChange) apiclient.Result[domain.Order]

	Sync(ctx context.Context) apiclient.Result[domain.SyncResult]
	Sales(ctx context.Context, startDate, endDate string) apiclient.Result[[]domain.DailySales]
	DailySales(ctx context.Context, date string) apiclient.Result[domain.DailySales]
}

type Persister interface {
	Load(ctx context.Context) (persist.State, error)
	Save(ctx context.Context, state persist.State) error
}

var (
	_ API       = (*apiclient.Client)(nil)
	_ Persister = (*persist.FilePersister)(nil)
	_ Persister = (*persist.RedisPersister)(nil)
)

type Collection string

const (
	Dishes      Collection = "dishes"
	Ingredients Collection = "ingredients"
	Orders      Collection = "orders"
	Sales       Collection = "sales"

	// DailySalesRun tracks the single-date sales record apart from the date range in Sales.
	DailySalesRun Collection = "daily-sales"

	// SyncRun tracks the sync action itself, apart from the reloads it triggers.
	SyncRun Collection = "sync"
)

var Collections = []Collection{Dishes, Ingredients, Orders, Sales, DailySalesRun, SyncRun}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusErrored Status = "errored"
)

type CollectionStatus struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

type Store struct {
	api       API
	persister Persister

	// saveMu keeps mirror writes in the order the states were produced.
	saveMu sync.Mutex

	mu          sync.Mutex
	dishes      []domain.Dish
	ingredients []domain.Ingredient
	orders      []domain.Order
	sales       []domain.DailySales
	daily       *domain.DailySales
	lastSync    *time.Time
	status      map[Collection]CollectionStatus
	// generation counts the operations started per collection; a load only applies its
	// response when no newer operation on the same collection has started since.
	generation map[Collection]uint64
}

// New seeds the store from the persisted mirror before any request is made. A mirror that
// cannot be read is logged and the store starts empty.
func New(ctx context.Context, api API, persister Persister) *Store {
	s := &Store{
		api:         api,
		persister:   persister,
		dishes:      []domain.Dish{},
		ingredients: []domain.Ingredient{},
		orders:      []domain.Order{},
		sales:       []domain.DailySales{},
		status:      map[Collection]CollectionStatus{},
		generation:  map[Collection]uint64{},
	}
	for _, c := range Collections {
		s.status[c] = CollectionStatus{Status: StatusIdle}
	}

	if persister == nil {
		return s
	}
	state, err := persister.Load(ctx)
	if err != nil {
		log.Printf("Warning: failed to load %s, starting empty: %v", persist.StoreKey, err)
		return s
	}
	if state.Dishes != nil {
		s.dishes = state.Dishes
	}
	if state.Ingredients != nil {
		s.ingredients = state.Ingredients
	}
	if state.Orders != nil {
		s.orders = state.Orders
	}
	s.lastSync = state.LastSync
	return s
}

func (s *Store) Dishes() []domain.Dish {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Dish(nil), s.dishes...)
}

func (s *Store) Ingredients() []domain.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Ingredient(nil), s.ingredients...)
}

func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...)
}

func (s *Store) SalesData() []domain.DailySales {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.DailySales(nil), s.sales...)
}

func (s *Store) DailySales() *domain.DailySales {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.daily == nil {
		return nil
	}
	daily := *s.daily
	return &daily
}

func (s *Store) LastSync() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSync == nil {
		return nil
	}
	last := *s.lastSync
	return &last
}

func (s *Store) Status(c Collection) CollectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status[c]
}

func (s *Store) Statuses() map[Collection]CollectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	statuses := make(map[Collection]CollectionStatus, len(s.status))
	for c, st := range s.status {
		statuses[c] = st
	}
	return statuses
}

// begin moves c to loading and returns the generation that owns the outcome.
func (s *Store) begin(ctx context.Context, c Collection) uint64 {
	s.mu.Lock()
	s.generation[c]++
	gen := s.generation[c]
	s.status[c] = CollectionStatus{Status: StatusLoading}
	s.unlockAndPersist(ctx)
	return gen
}

// finish applies a successful outcome through apply and marks c loaded. When a newer operation
// on c started in the meantime and replace is set, the outcome is stale and dropped.
func (s *Store) finish(ctx context.Context, c Collection, gen uint64, replace bool, apply func()) bool {
	s.mu.Lock()
	if replace && gen != s.generation[c] {
		s.mu.Unlock()
		return false
	}
	apply()
	if gen == s.generation[c] {
		s.status[c] = CollectionStatus{Status: StatusLoaded}
	}
	s.unlockAndPersist(ctx)
	return true
}

// fail records message on c, unless a newer operation now owns its status, and returns it as an error.
func (s *Store) fail(ctx context.Context, c Collection, gen uint64, err error) error {
	s.mu.Lock()
	if gen == s.generation[c] {
		s.status[c] = CollectionStatus{Status: StatusErrored, Error: err.Error()}
	}
	s.unlockAndPersist(ctx)
	return err
}

func resultError[T any](result apiclient.Result[T]) error {
	if result.StatusCode == http.StatusConflict {
		return fmt.Errorf("%w: %s", ErrStale, result.Error)
	}
	return errors.New(result.Error)
}

func (s *Store) snapshotLocked() persist.State {
	state := persist.State{
		Dishes:      append([]domain.Dish(nil), s.dishes...),
		Ingredients: append([]domain.Ingredient(nil), s.ingredients...),
		Orders:      append([]domain.Order(nil), s.orders...),
	}
	if s.lastSync != nil {
		last := *s.lastSync
		state.LastSync = &last
	}
	return state
}

// unlockAndPersist releases mu and writes the state it guarded to the mirror.
func (s *Store) unlockAndPersist(ctx context.Context) {
	state := s.snapshotLocked()
	s.saveMu.Lock()
	s.mu.Unlock()
	defer s.saveMu.Unlock()

	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, state); err != nil {
		log.Printf("Warning: failed to save %s: %v", persist.StoreKey, err)
	}
}
