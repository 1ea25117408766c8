package mocks

import (
	"context"

	"restaurant-pos/pos-cli/internal/persist"

	"github.com/stretchr/testify/mock"
)

type Persister struct {
	mock.Mock
}

func (m *Persister) Load(ctx context.Context) (persist.State, error) {
	args := m.Called(ctx)
	return args.Get(0).(persist.State), args.Error(1)
}

func (m *Persister) Save(ctx context.Context, state persist.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func NewPersister(t interface {
	mock.TestingT
	Cleanup(func())
}) *Persister {
	m := &Persister{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
