package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-pos/analytics-svc/internal/aggregator"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildServices_Health(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr := miniredis.RunT(t)

	handler, syncer := buildServices(db, redis.NewClient(&redis.Options{Addr: mr.Addr()}), aggregator.DefaultPolicy())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"service":"analytics-svc"`)
	assert.Equal(t, 60, syncer.Status().SyncIntervalMinutes)
}

func TestBuildServices_DailySalesServedFromCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("sales:daily:2024-03-01",
		`{"date":"2024-03-01","morning":{"orders":1,"revenue":9.5,"avgOrder":9.5},`+
			`"afternoon":{"orders":0,"revenue":0,"avgOrder":0},"evening":{"orders":0,"revenue":0,"avgOrder":0},`+
			`"total":{"orders":1,"revenue":9.5,"avgOrder":9.5}}`))

	handler, _ := buildServices(db, redis.NewClient(&redis.Options{Addr: mr.Addr()}), aggregator.DefaultPolicy())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/analytics/daily-sales?date=2024-03-01", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"revenue":9.5`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
