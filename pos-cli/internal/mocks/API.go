package mocks

import (
	"context"
	"encoding/json"

	"restaurant-pos/pos-cli/internal/apiclient"
	"restaurant-pos/pos-cli/internal/domain"

	"github.com/stretchr/testify/mock"
)

type API struct {
	mock.Mock
}

func (m *API) ListDishes(ctx context.Context) apiclient.Result[[]domain.Dish] {
	return m.Called(ctx).Get(0).(apiclient.Result[[]domain.Dish])
}

func (m *API) CreateDish(ctx context.Context, dish domain.Dish) apiclient.Result[domain.Dish] {
	return m.Called(ctx, dish).Get(0).(apiclient.Result[domain.Dish])
}

func (m *API) UpdateDish(ctx context.Context, id string, patch domain.DishPatch) apiclient.Result[domain.Dish] {
	return m.Called(ctx, id, patch).Get(0).(apiclient.Result[domain.Dish])
}

func (m *API) DeleteDish(ctx context.Context, id string) apiclient.Result[json.RawMessage] {
	return m.Called(ctx, id).Get(0).(apiclient.Result[json.RawMessage])
}

func (m *API) ListIngredients(ctx context.Context) apiclient.Result[[]domain.Ingredient] {
	return m.Called(ctx).Get(0).(apiclient.Result[[]domain.Ingredient])
}

func (m *API) CreateIngredient(ctx context.Context, ingredient domain.Ingredient) apiclient.Result[domain.Ingredient] {
	return m.Called(ctx, ingredient).Get(0).(apiclient.Result[domain.Ingredient])
}

func (m *API) UpdateIngredient(ctx context.Context, id string, patch domain.IngredientPatch) apiclient.Result[domain.Ingredient] {
	return m.Called(ctx, id, patch).Get(0).(apiclient.Result[domain.Ingredient])
}

func (m *API) SetIngredientQuantity(ctx context.Context, id string, quantity float64) apiclient.Result[domain.Ingredient] {
	return m.Called(ctx, id, quantity).Get(0).(apiclient.Result[domain.Ingredient])
}

func (m *API) ListOrders(ctx context.Context, filter domain.OrderFilter) apiclient.Result[[]domain.Order] {
	return m.Called(ctx, filter).Get(0).(apiclient.Result[[]domain.Order])
}

func (m *API) CreateOrder(ctx context.Context, order domain.Order, idempotencyKey string) apiclient.Result[domain.Order] {
	return m.Called(ctx, order, idempotencyKey).Get(0).(apiclient.Result[domain.Order])
}

func (m *API) UpdateOrderStatus(ctx context.Context, id string, change domain.StatusChange) apiclient.Result[domain.Order] {
	return m.Called(ctx, id, change).Get(0).(apiclient.Result[domain.Order])
}

func (m *API) Sync(ctx context.Context) apiclient.Result[domain.SyncResult] {
	return m.Called(ctx).Get(0).(apiclient.Result[domain.SyncResult])
}

func (m *API) Sales(ctx context.Context, startDate, endDate string) apiclient.Result[[]domain.DailySales] {
	return m.Called(ctx, startDate, endDate).Get(0).(apiclient.Result[[]domain.DailySales])
}

func (m *API) DailySales(ctx context.Context, date string) apiclient.Result[domain.DailySales] {
	return m.Called(ctx, date).Get(0).(apiclient.Result[domain.DailySales])
}

func NewAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *API {
	m := &API{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
