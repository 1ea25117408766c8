package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"restaurant-pos/analytics-svc/internal/aggregator"
	"restaurant-pos/analytics-svc/internal/domain"
)

const (
	historyDays   = 60
	minDataPoints = 5

	fallbackDemand     = 5.0
	fallbackConfidence = 60.0
	averageConfidence  = 75.0
)

type PredictionService struct {
	repository PredictionRepository
	policy     aggregator.BucketPolicy

	Clock func() time.Time
}

func NewPredictionService(repository PredictionRepository, policy aggregator.BucketPolicy) *PredictionService {
	return &PredictionService{
		repository: repository,
		policy:     policy,
		Clock:      time.Now,
	}
}

// Predictions returns the stored predictions for date, tomorrow when date is empty.
func (s *PredictionService) Predictions(ctx context.Context, date string) ([]domain.Prediction, error) {
	target, err := s.targetDate(date)
	if err != nil {
		return nil, err
	}
	predictions, err := s.repository.ListPredictions(ctx, target.Format(aggregator.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to load predictions: %w", err)
	}
	if predictions == nil {
		predictions = []domain.Prediction{}
	}
	return predictions, nil
}

func (s *PredictionService) Generate(ctx context.Context, date string) (*domain.GenerationResult, error) {
	target, err := s.targetDate(date)
	if err != nil {
		return nil, err
	}
	return s.GenerateFor(ctx, target)
}

// GenerateFor predicts per-period demand on target for every dish sold in the last historyDays days.
func (s *PredictionService) GenerateFor(ctx context.Context, target time.Time) (*domain.GenerationResult, error) {
	targetDate := target.Format(aggregator.DateLayout)
	since, _ := s.policy.DayBounds(today(s.Clock, s.policy.Location).AddDate(0, 0, -historyDays))

	lines, err := s.repository.OrderLines(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}
	if len(lines) == 0 {
		return &domain.GenerationResult{TargetDate: targetDate, Message: "No historical data available"}, nil
	}

	history := s.demandHistory(lines)
	dishIDs := make([]string, 0, len(history))
	for id := range history {
		dishIDs = append(dishIDs, id)
	}
	sort.Strings(dishIDs)

	predictions := make([]domain.Prediction, 0, len(dishIDs)*len(aggregator.Periods))
	for _, id := range dishIDs {
		dish := history[id]
		for _, period := range aggregator.Periods {
			p := predict(dish.byPeriod[period])
			p.DishID = id
			p.DishName = dish.name
			p.Period = string(period)
			p.PredictionDate = targetDate
			predictions = append(predictions, p)
		}
	}

	if err := s.repository.SavePredictions(ctx, predictions); err != nil {
		return nil, fmt.Errorf("failed to save predictions: %w", err)
	}
	return &domain.GenerationResult{
		PredictionsGenerated: len(predictions),
		DishesProcessed:      len(dishIDs),
		TargetDate:           targetDate,
		Message:              "Predictions generated successfully",
	}, nil
}

type dishHistory struct {
	name string
	// quantity sold per period per calendar day
	byPeriod map[aggregator.Period]map[string]int
}

func (s *PredictionService) demandHistory(lines []domain.OrderLine) map[string]*dishHistory {
	history := map[string]*dishHistory{}
	for _, line := range lines {
		period, ok := s.policy.PeriodOf(line.Timestamp)
		if !ok {
			continue
		}
		dish, found := history[line.DishID]
		if !found {
			dish = &dishHistory{name: line.DishName, byPeriod: map[aggregator.Period]map[string]int{}}
			history[line.DishID] = dish
		}
		if dish.byPeriod[period] == nil {
			dish.byPeriod[period] = map[string]int{}
		}
		dish.byPeriod[period][s.policy.DateOf(line.Timestamp)] += line.Quantity
	}
	return history
}

// predict turns one day-by-day demand series into a prediction. Fewer than minDataPoints
// days fall back to a conservative average.
func predict(daily map[string]int) domain.Prediction {
	total := 0
	for _, qty := range daily {
		total += qty
	}
	points := len(daily)

	if points < minDataPoints {
		avg := fallbackDemand
		if points > 0 {
			avg = float64(total) / float64(points)
		}
		return domain.Prediction{
			PredictedDemand: max(1, int(avg)),
			Confidence:      fallbackConfidence,
			RecommendedPrep: max(2, int(avg*1.2)),
			Factors:         []string{"Limited historical data", "Fallback average"},
		}
	}

	avg := float64(total) / float64(points)
	return domain.Prediction{
		PredictedDemand: max(1, int(math.Round(avg))),
		Confidence:      averageConfidence,
		RecommendedPrep: max(2, int(math.Ceil(avg*1.2))),
		Factors:         []string{"Historical average", fmt.Sprintf("%d days of history", points)},
	}
}

func (s *PredictionService) targetDate(date string) (time.Time, error) {
	if date == "" {
		return today(s.Clock, s.policy.Location).AddDate(0, 0, 1), nil
	}
	return aggregator.ParseDate(date, s.policy.Location)
}
