package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-pos/analytics-svc/internal/aggregator"
	"restaurant-pos/analytics-svc/internal/mocks"
	"restaurant-pos/analytics-svc/internal/service"
	"restaurant-pos/analytics-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func instant(want time.Time) interface{} {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func newSalesCache(t *testing.T) (*storage.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return storage.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 10*time.Minute), mr
}

func TestAnalyticsService_DailySales_CachesResult(t *testing.T) {
	repo := mocks.NewSalesRepository(t)
	cache, mr := newSalesCache(t)
	svc := service.NewAnalyticsService(repo, cache, aggregator.DefaultPolicy())

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.On("ListSales", mock.Anything, instant(from), instant(from.AddDate(0, 0, 1))).Return([]aggregator.Sale{
		{Timestamp: from.Add(9 * time.Hour), Total: 12.5, Status: aggregator.StatusCompleted},
		{Timestamp: from.Add(19 * time.Hour), Total: 7.5, Status: aggregator.StatusCompleted},
	}, nil).Once()

	first, err := svc.DailySales(context.Background(), "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Total.Orders)
	assert.Equal(t, 20.0, first.Total.Revenue)
	assert.Equal(t, 1, first.Morning.Orders)
	assert.Equal(t, 1, first.Evening.Orders)
	assert.True(t, mr.Exists("sales:daily:2024-03-01"))

	second, err := svc.DailySales(context.Background(), "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyticsService_DailySales_InvalidatedEntryIsRecomputed(t *testing.T) {
	repo := mocks.NewSalesRepository(t)
	cache, mr := newSalesCache(t)
	svc := service.NewAnalyticsService(repo, cache, aggregator.DefaultPolicy())

	repo.On("ListSales", mock.Anything, mock.Anything, mock.Anything).Return([]aggregator.Sale{}, nil).Twice()

	_, err := svc.DailySales(context.Background(), "2024-03-01")
	require.NoError(t, err)
	mr.Del("sales:daily:2024-03-01")
	_, err = svc.DailySales(context.Background(), "2024-03-01")
	require.NoError(t, err)
}

func TestAnalyticsService_DailySales_WorksWithoutCache(t *testing.T) {
	repo := mocks.NewSalesRepository(t)
	svc := service.NewAnalyticsService(repo, nil, aggregator.DefaultPolicy())

	repo.On("ListSales", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()

	daily, err := svc.DailySales(context.Background(), "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", daily.Date)
	assert.Zero(t, daily.Total.Orders)
	assert.Zero(t, daily.Total.AvgOrder)
}

func TestAnalyticsService_DailySales_Errors(t *testing.T) {
	tests := []struct {
		name         string
		date         string
		prepareMocks func(repo *mocks.SalesRepository)
		wantErr      error
	}{
		{
			name:         "missing date",
			date:         "",
			prepareMocks: func(repo *mocks.SalesRepository) {},
			wantErr:      service.ErrMissingDate,
		},
		{
			name:         "malformed date",
			date:         "03/01/2024",
			prepareMocks: func(repo *mocks.SalesRepository) {},
			wantErr:      aggregator.ErrInvalidDate,
		},
		{
			name:         "impossible date",
			date:         "2024-02-30",
			prepareMocks: func(repo *mocks.SalesRepository) {},
			wantErr:      aggregator.ErrInvalidDate,
		},
		{
			name: "repository failure",
			date: "2024-03-01",
			prepareMocks: func(repo *mocks.SalesRepository) {
				repo.On("ListSales", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewSalesRepository(t)
			testCase.prepareMocks(repo)
			svc := service.NewAnalyticsService(repo, nil, aggregator.DefaultPolicy())

			_, err := svc.DailySales(context.Background(), testCase.date)
			require.Error(t, err)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			}
		})
	}
}

func TestAnalyticsService_Sales_DefaultWindow(t *testing.T) {
	repo := mocks.NewSalesRepository(t)
	svc := service.NewAnalyticsService(repo, nil, aggregator.DefaultPolicy())
	svc.Clock = fixedClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	from := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	repo.On("ListSales", mock.Anything, instant(from), instant(until)).Return([]aggregator.Sale{
		{Timestamp: time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC), Total: 10, Status: aggregator.StatusCompleted},
	}, nil).Once()

	days, err := svc.Sales(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, days, service.DefaultRangeDays)
	assert.Equal(t, "2024-02-15", days[0].Date)
	assert.Equal(t, "2024-03-15", days[len(days)-1].Date)
	assert.Equal(t, 1, days[len(days)-1].Afternoon.Orders)
}

func TestAnalyticsService_Sales_AnchoredWindows(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantFirst string
		wantLast  string
	}{
		{name: "start only", start: "2024-01-01", wantFirst: "2024-01-01", wantLast: "2024-01-30"},
		{name: "end only", end: "2024-01-30", wantFirst: "2024-01-01", wantLast: "2024-01-30"},
		{name: "single day", start: "2024-01-05", end: "2024-01-05", wantFirst: "2024-01-05", wantLast: "2024-01-05"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewSalesRepository(t)
			repo.On("ListSales", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()
			svc := service.NewAnalyticsService(repo, nil, aggregator.DefaultPolicy())

			days, err := svc.Sales(context.Background(), testCase.start, testCase.end)
			require.NoError(t, err)
			require.NotEmpty(t, days)
			assert.Equal(t, testCase.wantFirst, days[0].Date)
			assert.Equal(t, testCase.wantLast, days[len(days)-1].Date)
		})
	}
}

func TestAnalyticsService_Sales_RejectsBadRangesBeforeQuerying(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{name: "reversed", start: "2024-03-10", end: "2024-03-01", wantErr: aggregator.ErrInvalidRange},
		{name: "too large", start: "2022-01-01", end: "2024-01-01", wantErr: aggregator.ErrRangeTooLarge},
		{name: "bad start", start: "yesterday", end: "2024-01-01", wantErr: aggregator.ErrInvalidDate},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewSalesRepository(t)
			svc := service.NewAnalyticsService(repo, nil, aggregator.DefaultPolicy())

			_, err := svc.Sales(context.Background(), testCase.start, testCase.end)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}
