package mocks

import (
	"context"

	"restaurant-pos/analytics-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type SyncInterface struct {
	mock.Mock
}

func (m *SyncInterface) Sync(ctx context.Context) (*domain.SyncResult, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*domain.SyncResult)
	return result, args.Error(1)
}

func (m *SyncInterface) Status() domain.SyncStatus {
	args := m.Called()
	return args.Get(0).(domain.SyncStatus)
}

func (m *SyncInterface) SetInterval(minutes int) error {
	args := m.Called(minutes)
	return args.Error(0)
}

func NewSyncInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *SyncInterface {
	m := &SyncInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
