package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"restaurant-pos/analytics-svc/internal/domain"
)

var ErrInvalidInterval = errors.New("sync interval must be at least 1 minute")

const (
	recentErrorLimit    = 5
	predictionDaysAhead = 3
	retryDelay          = time.Minute
)

// SyncService refreshes derived data: it warms yesterday's sales in the cache, regenerates
// predictions for the coming days and prunes old rows. It runs on demand and on a schedule.
type SyncService struct {
	repository  SyncRepository
	sales       DailySalesRefresher
	predictions PredictionGenerator
	location    *time.Location

	Clock func() time.Time

	runMu sync.Mutex // serializes Sync

	mu           sync.Mutex
	interval     time.Duration
	running      bool
	lastSync     time.Time
	recentErrors []string
	totalErrors  int
	reschedule   chan struct{}
}

func NewSyncService(repository SyncRepository, sales DailySalesRefresher, predictions PredictionGenerator, location *time.Location, intervalMinutes int) *SyncService {
	if intervalMinutes < 1 {
		intervalMinutes = 60
	}
	return &SyncService{
		repository:  repository,
		sales:       sales,
		predictions: predictions,
		location:    location,
		Clock:       time.Now,
		interval:    time.Duration(intervalMinutes) * time.Minute,
		reschedule:  make(chan struct{}, 1),
	}
}

func (s *SyncService) Sync(ctx context.Context) (*domain.SyncResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := s.Clock()
	log.Println("Starting sync")

	counts, err := s.repository.CountRecords(ctx)
	if err != nil {
		return nil, s.fail(ctx, fmt.Errorf("failed to count records: %w", err))
	}

	day := today(s.Clock, s.location)
	analytics := 0
	yesterday := day.AddDate(0, 0, -1)
	daily, err := s.sales.RefreshDailySales(ctx, yesterday)
	if err != nil {
		return nil, s.fail(ctx, fmt.Errorf("failed to refresh analytics: %w", err))
	}
	if daily.Total.Orders > 0 {
		analytics = 1
	}

	predictions := 0
	for ahead := 1; ahead <= predictionDaysAhead; ahead++ {
		target := day.AddDate(0, 0, ahead)
		result, err := s.predictions.GenerateFor(ctx, target)
		if err != nil {
			log.Printf("ERROR: failed to generate predictions for %s: %v", target.Format("2006-01-02"), err)
			continue
		}
		predictions += result.PredictionsGenerated
	}

	cleaned, err := s.repository.Cleanup(ctx, started)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	lastSync := s.markSynced()
	records := domain.RecordsSynced{
		Dishes:      counts.Dishes,
		Ingredients: counts.Ingredients,
		Orders:      counts.Orders,
		Analytics:   analytics,
		Predictions: predictions,
		Cleanup:     cleaned,
	}
	if err := s.repository.LogSync(ctx, domain.SyncLogEntry{
		SyncType:        "full",
		Status:          "success",
		RecordsAffected: analytics + predictions + cleaned,
	}); err != nil {
		log.Printf("Warning: failed to write sync log: %v", err)
	}

	result := &domain.SyncResult{
		LastSync:        lastSync,
		DurationSeconds: math.Round(s.Clock().Sub(started).Seconds()*100) / 100,
		RecordsSynced:   records,
		Status:          "success",
	}
	log.Printf("Sync completed: %+v", records)
	return result, nil
}

// markSynced records the completion time, keeping lastSync strictly increasing even when the
// clock has not advanced since the previous sync.
func (s *SyncService) markSynced() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Clock()
	if !now.After(s.lastSync) {
		now = s.lastSync.Add(time.Millisecond)
	}
	s.lastSync = now
	return now
}

func (s *SyncService) fail(ctx context.Context, err error) error {
	message := "Sync failed: " + err.Error()
	log.Printf("ERROR: %s", message)

	s.mu.Lock()
	s.recentErrors = append(s.recentErrors, s.Clock().Format(time.RFC3339)+": "+message)
	if len(s.recentErrors) > recentErrorLimit {
		s.recentErrors = s.recentErrors[len(s.recentErrors)-recentErrorLimit:]
	}
	s.totalErrors++
	s.mu.Unlock()

	if logErr := s.repository.LogSync(ctx, domain.SyncLogEntry{
		SyncType:     "full",
		Status:       "error",
		ErrorMessage: message,
	}); logErr != nil {
		log.Printf("Warning: failed to write sync log: %v", logErr)
	}
	return err
}

func (s *SyncService) Status() domain.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := domain.SyncStatus{
		IsRunning:           s.running,
		SyncIntervalMinutes: int(s.interval / time.Minute),
		RecentErrors:        append([]string{}, s.recentErrors...),
		TotalErrors:         s.totalErrors,
	}
	if !s.lastSync.IsZero() {
		last := s.lastSync
		status.LastSync = &last
	}
	return status
}

func (s *SyncService) SetInterval(minutes int) error {
	if minutes < 1 {
		return ErrInvalidInterval
	}
	s.mu.Lock()
	s.interval = time.Duration(minutes) * time.Minute
	s.mu.Unlock()

	select {
	case s.reschedule <- struct{}{}:
	default:
	}
	log.Printf("Sync interval set to %d minutes", minutes)
	return nil
}

// Start syncs immediately and then once per interval until ctx is cancelled. A failed run is
// retried after a minute. Changing the interval reschedules the pending run.
func (s *SyncService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("Warning: sync service is already running")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		log.Println("Auto-sync stopped")
	}()

	log.Println("Auto-sync started")
	for {
		lastRun := time.Now()
		delay := s.currentInterval()
		if _, err := s.Sync(ctx); err != nil {
			delay = min(delay, retryDelay)
		}

		if !s.wait(ctx, lastRun, delay) {
			return
		}
	}
}

// wait blocks until lastRun+delay, recomputing the deadline when the interval changes.
// It reports false when ctx is cancelled.
func (s *SyncService) wait(ctx context.Context, lastRun time.Time, delay time.Duration) bool {
	for {
		timer := time.NewTimer(time.Until(lastRun.Add(delay)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
			return true
		case <-s.reschedule:
			timer.Stop()
			delay = s.currentInterval()
		}
	}
}

func (s *SyncService) currentInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}
