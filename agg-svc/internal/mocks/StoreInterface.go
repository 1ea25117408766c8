package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func (m *StoreInterface) InvalidateDailySales(ctx context.Context, date string) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
