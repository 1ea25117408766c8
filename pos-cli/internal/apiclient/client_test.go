package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-pos/pos-cli/internal/apiclient"
	"restaurant-pos/pos-cli/internal/domain"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newClient(t *testing.T, router *mux.Router) *apiclient.Client {
	t.Helper()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return apiclient.New(server.URL+"/", server.Client())
}

func TestListDishes_DecodesEnvelope(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/dishes", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":[{"id":"d1","name":"Soup","price":6.5,"category":"Starters","version":2}]}`)
	}).Methods(http.MethodGet)

	res := newClient(t, router).ListDishes(context.Background())

	require.True(t, res.Success)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Soup", res.Data[0].Name)
	assert.Equal(t, 6.5, res.Data[0].Price)
	assert.Equal(t, 2, res.Data[0].Version)
}

func TestDo_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantError  string
		wantStatus int
	}{
		{
			name:       "envelope error is passed through",
			status:     http.StatusConflict,
			body:       `{"success":false,"error":"Dish was modified by another client"}`,
			wantError:  "Dish was modified by another client",
			wantStatus: http.StatusConflict,
		},
		{
			name:       "failed envelope without message",
			status:     http.StatusInternalServerError,
			body:       `{"success":false}`,
			wantError:  "Request failed with status 500",
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "html error page",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantError:  apiclient.UnreachableMessage,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "json without success field",
			status:     http.StatusOK,
			body:       `{"dishes":[]}`,
			wantError:  apiclient.UnreachableMessage,
			wantStatus: http.StatusOK,
		},
		{
			name:       "data of the wrong shape",
			status:     http.StatusOK,
			body:       `{"success":true,"data":{"id":"d1"}}`,
			wantError:  apiclient.UnreachableMessage,
			wantStatus: http.StatusOK,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			router := mux.NewRouter()
			router.HandleFunc("/api/dishes", func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, testCase.status, testCase.body)
			})

			res := newClient(t, router).ListDishes(context.Background())

			assert.False(t, res.Success)
			assert.Equal(t, testCase.wantError, res.Error)
			assert.Equal(t, testCase.wantStatus, res.StatusCode)
		})
	}
}

func TestDo_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := apiclient.New(server.URL, nil)
	server.Close()

	res := client.Sync(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, apiclient.UnreachableMessage, res.Error)
	assert.Zero(t, res.StatusCode)
}

func TestCreateOrder_SendsIdempotencyKeyAndBody(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var order domain.Order
		require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		assert.Equal(t, "d1", order.Items[0].DishID)
		assert.Equal(t, "card", order.PaymentMethod)

		writeEnvelope(w, http.StatusCreated, `{"success":true,"data":{"id":"o1","status":"completed","version":1,"items":[]}}`)
	}).Methods(http.MethodPost)

	res := newClient(t, router).CreateOrder(context.Background(), domain.Order{
		Items:         []domain.OrderItem{{DishID: "d1", Quantity: 2, Price: 4}},
		PaymentMethod: "card",
		CashierID:     "c1",
	}, "key-1")

	require.True(t, res.Success)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, domain.OrderCompleted, res.Data.Status)
}

func TestQueryParameters(t *testing.T) {
	t.Run("orders filter", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2024-03-01", r.URL.Query().Get("startDate"))
			assert.Equal(t, "2024-03-02", r.URL.Query().Get("endDate"))
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":[]}`)
		}).Methods(http.MethodGet)

		res := newClient(t, router).ListOrders(context.Background(), domain.OrderFilter{StartDate: "2024-03-01", EndDate: "2024-03-02"})
		require.True(t, res.Success)
		assert.Empty(t, res.Data)
	})

	t.Run("sales omits empty bounds", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/api/analytics/sales", func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":[{"date":"2024-03-01","total":{"orders":2,"revenue":20,"avgOrder":10}}]}`)
		}).Methods(http.MethodGet)

		res := newClient(t, router).Sales(context.Background(), "", "")
		require.True(t, res.Success)
		require.Len(t, res.Data, 1)
		assert.Equal(t, 10.0, res.Data[0].Total.AvgOrder)
	})

	t.Run("daily sales date", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/api/analytics/daily-sales", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2024-03-01", r.URL.Query().Get("date"))
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"date":"2024-03-01","morning":{"orders":1,"revenue":5,"avgOrder":5}}}`)
		}).Methods(http.MethodGet)

		res := newClient(t, router).DailySales(context.Background(), "2024-03-01")
		require.True(t, res.Success)
		assert.Equal(t, 1, res.Data.Morning.Orders)
	})
}

func TestPathOperations(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/dishes/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "d1", mux.Vars(r)["id"])
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"id":"d1"}}`)
	}).Methods(http.MethodDelete)
	router.HandleFunc("/api/ingredients/{id}/quantity", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3.5, body["quantity"])
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"id":"i1","quantity_today":3.5,"version":2}}`)
	}).Methods(http.MethodPut)
	router.HandleFunc("/api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var change domain.StatusChange
		require.NoError(t, json.NewDecoder(r.Body).Decode(&change))
		assert.Equal(t, domain.StatusChange{Status: domain.OrderCancelled, Version: 3}, change)
		writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"id":"o1","status":"cancelled","version":4}}`)
	}).Methods(http.MethodPut)

	client := newClient(t, router)

	deleted := client.DeleteDish(context.Background(), "d1")
	require.True(t, deleted.Success)
	assert.JSONEq(t, `{"id":"d1"}`, string(deleted.Data))

	quantity := client.SetIngredientQuantity(context.Background(), "i1", 3.5)
	require.True(t, quantity.Success)
	assert.Equal(t, 3.5, quantity.Data.QuantityToday)

	status := client.UpdateOrderStatus(context.Background(), "o1", domain.StatusChange{Status: domain.OrderCancelled, Version: 3})
	require.True(t, status.Success)
	assert.Equal(t, 4, status.Data.Version)
}
