package mocks

import (
	"context"
	"time"

	"restaurant-pos/analytics-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type SyncRepository struct {
	mock.Mock
}

func (m *SyncRepository) CountRecords(ctx context.Context) (domain.RecordCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.RecordCounts), args.Error(1)
}

func (m *SyncRepository) Cleanup(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *SyncRepository) LogSync(ctx context.Context, entry domain.SyncLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func NewSyncRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *SyncRepository {
	m := &SyncRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
