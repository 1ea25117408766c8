package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"restaurant-pos/analytics-svc/internal/aggregator"
)

var ErrMissingDate = errors.New("date parameter is required")

// DefaultRangeDays is the window used when a sales query gives at most one bound.
const DefaultRangeDays = 30

type AnalyticsService struct {
	repository SalesRepository
	cache      SalesCache
	policy     aggregator.BucketPolicy

	Clock func() time.Time
}

func NewAnalyticsService(repository SalesRepository, cache SalesCache, policy aggregator.BucketPolicy) *AnalyticsService {
	return &AnalyticsService{
		repository: repository,
		cache:      cache,
		policy:     policy,
		Clock:      time.Now,
	}
}

func (s *AnalyticsService) DailySales(ctx context.Context, date string) (*aggregator.DailySales, error) {
	if date == "" {
		return nil, ErrMissingDate
	}
	day, err := aggregator.ParseDate(date, s.policy.Location)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetDailySales(ctx, day.Format(aggregator.DateLayout))
		if err != nil {
			log.Printf("Warning: daily sales cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}
	return s.RefreshDailySales(ctx, day)
}

func (s *AnalyticsService) RefreshDailySales(ctx context.Context, day time.Time) (*aggregator.DailySales, error) {
	from, until := s.policy.DayBounds(day)
	sales, err := s.repository.ListSales(ctx, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	daily := aggregator.Daily(day, sales, s.policy)
	if s.cache != nil {
		if err := s.cache.SetDailySales(ctx, daily); err != nil {
			log.Printf("Warning: failed to cache daily sales for %s: %v", daily.Date, err)
		}
	}
	return &daily, nil
}

// Sales aggregates every day of the inclusive range. Without bounds it covers the last
// DefaultRangeDays days ending today; with one bound the window is anchored on it.
func (s *AnalyticsService) Sales(ctx context.Context, startDate, endDate string) ([]aggregator.DailySales, error) {
	start, end, err := s.resolveRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if _, err := aggregator.RangeDays(start, end); err != nil {
		return nil, err
	}

	from, _ := s.policy.DayBounds(start)
	_, until := s.policy.DayBounds(end)
	sales, err := s.repository.ListSales(ctx, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return aggregator.Range(start, end, sales, s.policy)
}

func (s *AnalyticsService) resolveRange(startDate, endDate string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if startDate != "" {
		if start, err = aggregator.ParseDate(startDate, s.policy.Location); err != nil {
			return start, end, err
		}
	}
	if endDate != "" {
		if end, err = aggregator.ParseDate(endDate, s.policy.Location); err != nil {
			return start, end, err
		}
	}

	span := DefaultRangeDays - 1
	switch {
	case startDate == "" && endDate == "":
		end = today(s.Clock, s.policy.Location)
		start = end.AddDate(0, 0, -span)
	case startDate == "":
		start = end.AddDate(0, 0, -span)
	case endDate == "":
		end = start.AddDate(0, 0, span)
	}
	return start, end, nil
}

// today is midnight of the current calendar day in loc.
func today(clock func() time.Time, loc *time.Location) time.Time {
	now := clock()
	if loc != nil {
		now = now.In(loc)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
