// Package apiclient maps each Data Store operation to one request against the restaurant API.
//
// No method returns a Go error. Transport failures, responses without an envelope and
// undecodable bodies all come back as a failed Result carrying UnreachableMessage.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"restaurant-pos/pos-cli/internal/domain"
)

const UnreachableMessage = "Unable to reach the restaurant API"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is the {success, data?, error?} envelope. StatusCode is the HTTP status, or 0 when
// no response was received.
type Result[T any] struct {
	Success    bool   `json:"success"`
	Data       T      `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"-"`
}

func unreachable[T any](statusCode int) Result[T] {
	return Result[T]{Success: false, Error: UnreachableMessage, StatusCode: statusCode}
}

type Client struct {
	BaseURL string
	HTTP    HTTPClient
}

func New(baseURL string, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: strings.TrimSuffix(baseURL, "/"), HTTP: httpClient}
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    interface{}
	headers map[string]string
}

func do[T any](ctx context.Context, c *Client, r request) Result[T] {
	target := c.BaseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			log.Printf("ERROR: failed to encode %s %s: %v", r.method, r.path, err)
			return unreachable[T](0)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		log.Printf("ERROR: failed to build %s %s: %v", r.method, r.path, err)
		return unreachable[T](0)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("Warning: %s %s failed: %v", r.method, r.path, err)
		return unreachable[T](0)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Success == nil {
		log.Printf("Warning: %s %s returned %d without an envelope", r.method, r.path, resp.StatusCode)
		return unreachable[T](resp.StatusCode)
	}

	result := Result[T]{Success: *envelope.Success, Error: envelope.Error, StatusCode: resp.StatusCode}
	if !result.Success {
		if result.Error == "" {
			result.Error = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}
		return result
	}
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, &result.Data); err != nil {
			log.Printf("Warning: %s %s returned undecodable data: %v", r.method, r.path, err)
			return unreachable[T](resp.StatusCode)
		}
	}
	return result
}

func (c *Client) ListDishes(ctx context.Context) Result[[]domain.Dish] {
	return do[[]domain.Dish](ctx, c, request{method: http.MethodGet, path: "/api/dishes"})
}

func (c *Client) CreateDish(ctx context.Context, dish domain.Dish) Result[domain.Dish] {
	return do[domain.Dish](ctx, c, request{method: http.MethodPost, path: "/api/dishes", body: dish})
}

func (c *Client) UpdateDish(ctx context.Context, id string, patch domain.DishPatch) Result[domain.Dish] {
	return do[domain.Dish](ctx, c, request{method: http.MethodPut, path: "/api/dishes/" + url.PathEscape(id), body: patch})
}

func (c *Client) DeleteDish(ctx context.Context, id string) Result[json.RawMessage] {
	return do[json.RawMessage](ctx, c, request{method: http.MethodDelete, path: "/api/dishes/" + url.PathEscape(id)})
}

func (c *Client) ListIngredients(ctx context.Context) Result[[]domain.Ingredient] {
	return do[[]domain.Ingredient](ctx, c, request{method: http.MethodGet, path: "/api/ingredients"})
}

func (c *Client) CreateIngredient(ctx context.Context, ingredient domain.Ingredient) Result[domain.Ingredient] {
	return do[domain.Ingredient](ctx, c, request{method: http.MethodPost, path: "/api/ingredients", body: ingredient})
}

func (c *Client) UpdateIngredient(ctx context.Context, id string, patch domain.IngredientPatch) Result[domain.Ingredient] {
	return do[domain.Ingredient](ctx, c, request{method: http.MethodPut, path: "/api/ingredients/" + url.PathEscape(id), body: patch})
}

func (c *Client) SetIngredientQuantity(ctx context.Context, id string, quantity float64) Result[domain.Ingredient] {
	return do[domain.Ingredient](ctx, c, request{
		method: http.MethodPut,
		path:   "/api/ingredients/" + url.PathEscape(id) + "/quantity",
		body:   map[string]float64{"quantity": quantity},
	})
}

func (c *Client) ListOrders(ctx context.Context, filter domain.OrderFilter) Result[[]domain.Order] {
	query := url.Values{}
	if filter.StartDate != "" {
		query.Set("startDate", filter.StartDate)
	}
	if filter.EndDate != "" {
		query.Set("endDate", filter.EndDate)
	}
	return do[[]domain.Order](ctx, c, request{method: http.MethodGet, path: "/api/orders", query: query})
}

// CreateOrder sends idempotencyKey so a retried submission is rejected instead of recorded twice.
func (c *Client) CreateOrder(ctx context.Context, order domain.Order, idempotencyKey string) Result[domain.Order] {
	r := request{method: http.MethodPost, path: "/api/orders", body: order}
	if idempotencyKey != "" {
		r.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	return do[domain.Order](ctx, c, r)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, change domain.StatusChange) Result[domain.Order] {
	return do[domain.Order](ctx, c, request{method: http.MethodPut, path: "/api/orders/" + url.PathEscape(id) + "/status", body: change})
}

func (c *Client) Sync(ctx context.Context) Result[domain.SyncResult] {
	return do[domain.SyncResult](ctx, c, request{method: http.MethodPost, path: "/api/sync"})
}

func (c *Client) Sales(ctx context.Context, startDate, endDate string) Result[[]domain.DailySales] {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	return do[[]domain.DailySales](ctx, c, request{method: http.MethodGet, path: "/api/analytics/sales", query: query})
}

func (c *Client) DailySales(ctx context.Context, date string) Result[domain.DailySales] {
	query := url.Values{}
	query.Set("date", date)
	return do[domain.DailySales](ctx, c, request{method: http.MethodGet, path: "/api/analytics/daily-sales", query: query})
}
