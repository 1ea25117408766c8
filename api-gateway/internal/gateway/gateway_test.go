package gateway_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restaurant-pos/api-gateway/internal/gateway"
	"restaurant-pos/api-gateway/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testConfig = gateway.Config{
	MenuSvcURL:      "http://menu-svc",
	OrderSvcURL:     "http://order-svc",
	AnalyticsSvcURL: "http://analytics-svc/",
}

type envelopeBody struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func okResponse(status int, body string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil)

	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body envelopeBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Contains(t, string(body.Data), `"service":"api-gateway"`)
}

func TestGateway_Target(t *testing.T) {
	gw := gateway.NewGateway(testConfig, nil)

	tests := []struct {
		path   string
		want   string
		routed bool
	}{
		{path: "/api/dishes", want: "http://menu-svc", routed: true},
		{path: "/api/dishes/d1", want: "http://menu-svc", routed: true},
		{path: "/api/ingredients/low-stock", want: "http://menu-svc", routed: true},
		{path: "/api/orders/o1/qrcode", want: "http://order-svc", routed: true},
		{path: "/api/analytics/daily-sales", want: "http://analytics-svc/", routed: true},
		{path: "/api/predictions/generate", want: "http://analytics-svc/", routed: true},
		{path: "/api/sync/status", want: "http://analytics-svc/", routed: true},
		{path: "/api/dishesx", routed: false},
		{path: "/api/reviews", routed: false},
		{path: "/api", routed: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.path, func(t *testing.T) {
			target, ok := gw.Target(testCase.path)
			assert.Equal(t, testCase.routed, ok)
			assert.Equal(t, testCase.want, target)
		})
	}
}

func TestGateway_ProxiesPathQueryAndHeaders(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "http://analytics-svc/api/analytics/sales?startDate=2024-03-01" &&
			req.Header.Get("X-Request-Id") == "r1" &&
			req.Header.Get("Connection") == ""
	})).Return(okResponse(http.StatusOK, `{"success":true,"data":[]}`), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/sales?startDate=2024-03-01", nil)
	req.Header.Set("X-Request-Id", "r1")
	req.Header.Set("Connection", "keep-alive")
	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":[]}`, rr.Body.String())
}

func TestGateway_PassesUpstreamStatusThrough(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body, _ := io.ReadAll(req.Body)
		return req.Method == http.MethodPost && string(body) == `{"name":"Soup"}`
	})).Return(okResponse(http.StatusConflict, `{"success":false,"error":"Version conflict"}`), nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/dishes", strings.NewReader(`{"name":"Soup"}`))
	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Version conflict")
}

func TestGateway_UnknownAPI(t *testing.T) {
	gw := gateway.NewGateway(testConfig, mocks.NewHTTPClient(t))

	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var body envelopeBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "API route not found", body.Error)
}

func TestGateway_ProxyError(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, mockClient)

	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection failed")).Once()

	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	var body envelopeBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}
