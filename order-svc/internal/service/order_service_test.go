package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-pos/order-svc/internal/domain"
	"restaurant-pos/order-svc/internal/mocks"
	"restaurant-pos/order-svc/internal/service"
	"restaurant-pos/order-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validOrder() *domain.Order {
	return &domain.Order{
		Items:         []domain.OrderItem{{DishID: "d1", Quantity: 2, Price: 5}},
		Subtotal:      10,
		Tax:           0.8,
		Total:         10.8,
		PaymentMethod: "card",
		CashierID:     "c1",
	}
}

func newRedisCache(t *testing.T) *storage.RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	return storage.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
}

func TestOrderService_Create(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(o *domain.Order)
		prepareMocks func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher)
		wantErr      error
	}{
		{
			name:   "success forces completed status",
			mutate: func(o *domain.Order) { o.Status = domain.StatusPending },
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {
				repo.On("ActiveDishIDs", mock.Anything, []string{"d1"}).Return([]string{"d1"}, nil).Once()
				repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
					return o.Status == domain.StatusCompleted && o.Version == 1 && o.ID != ""
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Order).Timestamp = time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
				}).Return(nil).Once()
				pub.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
					return e.Type == domain.EventOrderCreated && e.OrderDate == "2024-03-01" && e.Total == 10.8
				})).Return(nil).Once()
			},
		},
		{
			name:         "no items",
			mutate:       func(o *domain.Order) { o.Items = nil },
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {},
			wantErr:      service.ErrInvalidOrder,
		},
		{
			name:         "total mismatch",
			mutate:       func(o *domain.Order) { o.Total = 11 },
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {},
			wantErr:      service.ErrInvalidOrder,
		},
		{
			name:         "zero quantity",
			mutate:       func(o *domain.Order) { o.Items[0].Quantity = 0 },
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {},
			wantErr:      service.ErrInvalidOrder,
		},
		{
			name:         "missing cashier",
			mutate:       func(o *domain.Order) { o.CashierID = "  " },
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {},
			wantErr:      service.ErrInvalidOrder,
		},
		{
			name:   "unknown dish",
			mutate: func(o *domain.Order) {},
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {
				repo.On("ActiveDishIDs", mock.Anything, []string{"d1"}).Return([]string{}, nil).Once()
			},
			wantErr: service.ErrUnknownDish,
		},
		{
			name:   "publish failure does not fail the order",
			mutate: func(o *domain.Order) {},
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {
				repo.On("ActiveDishIDs", mock.Anything, mock.Anything).Return([]string{"d1"}, nil).Once()
				repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()
				pub.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewOrderRepository(t)
			pub := mocks.NewOrderPublisher(t)
			testCase.prepareMocks(repo, pub)
			svc := service.NewOrderService(repo, nil, pub, nil, time.UTC)

			order := validOrder()
			testCase.mutate(order)
			err := svc.Create(context.Background(), order, "")

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCompleted, order.Status)
		})
	}
}

func TestOrderService_Create_IdempotencyReplay(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	repo.On("ActiveDishIDs", mock.Anything, mock.Anything).Return([]string{"d1"}, nil).Twice()
	repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()
	svc := service.NewOrderService(repo, newRedisCache(t), nil, nil, time.UTC)

	require.NoError(t, svc.Create(context.Background(), validOrder(), "key-1"))
	err := svc.Create(context.Background(), validOrder(), "key-1")

	assert.ErrorIs(t, err, service.ErrDuplicateOrder)
}

func TestOrderService_Create_ReleasesKeyOnFailure(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	repo.On("ActiveDishIDs", mock.Anything, mock.Anything).Return([]string{"d1"}, nil).Twice()
	repo.On("CreateOrder", mock.Anything, mock.Anything).Return(errors.New("db error")).Once()
	repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()
	svc := service.NewOrderService(repo, newRedisCache(t), nil, nil, time.UTC)

	require.Error(t, svc.Create(context.Background(), validOrder(), "key-1"))
	assert.NoError(t, svc.Create(context.Background(), validOrder(), "key-1"))
}

func TestOrderService_List(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	t.Run("inclusive day bounds in the business time zone", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		repo.On("ListOrders", mock.Anything, mock.MatchedBy(func(f domain.OrderFilter) bool {
			return f.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, loc)) &&
				f.Until.Equal(time.Date(2024, 3, 3, 0, 0, 0, 0, loc))
		})).Return(nil, nil).Once()
		svc := service.NewOrderService(repo, nil, nil, nil, loc)

		orders, err := svc.List(context.Background(), "2024-03-01", "2024-03-02")
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})

	t.Run("open bounds", func(t *testing.T) {
		repo := mocks.NewOrderRepository(t)
		repo.On("ListOrders", mock.Anything, domain.OrderFilter{}).Return([]domain.Order{{ID: "o1"}}, nil).Once()
		svc := service.NewOrderService(repo, nil, nil, nil, loc)

		orders, err := svc.List(context.Background(), "", "")
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("malformed date", func(t *testing.T) {
		svc := service.NewOrderService(mocks.NewOrderRepository(t), nil, nil, nil, loc)
		_, err := svc.List(context.Background(), "03/01/2024", "")
		assert.ErrorIs(t, err, service.ErrInvalidDate)
	})

	t.Run("end before start", func(t *testing.T) {
		svc := service.NewOrderService(mocks.NewOrderRepository(t), nil, nil, nil, loc)
		_, err := svc.List(context.Background(), "2024-03-05", "2024-03-01")
		assert.ErrorIs(t, err, service.ErrInvalidOrder)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name         string
		current      domain.OrderStatus
		change       domain.StatusChange
		prepareMocks func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher)
		wantErr      error
	}{
		{
			name:    "completed to cancelled",
			current: domain.StatusCompleted,
			change:  domain.StatusChange{Status: domain.StatusCancelled, Version: 2},
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {
				repo.On("UpdateOrderStatus", mock.Anything, mock.Anything, 2).Return(nil).Once()
				pub.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
					return e.Type == domain.EventOrderStatusChanged && e.Status == domain.StatusCancelled
				})).Return(nil).Once()
			},
		},
		{
			name:         "cancelled is final",
			current:      domain.StatusCancelled,
			change:       domain.StatusChange{Status: domain.StatusCompleted},
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {},
			wantErr:      service.ErrInvalidTransition,
		},
		{
			name:         "stale version",
			current:      domain.StatusPending,
			change:       domain.StatusChange{Status: domain.StatusCompleted, Version: 1},
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {},
			wantErr:      service.ErrStaleWrite,
		},
		{
			name:    "concurrent write",
			current: domain.StatusPending,
			change:  domain.StatusChange{Status: domain.StatusCompleted},
			prepareMocks: func(repo *mocks.OrderRepository, pub *mocks.OrderPublisher) {
				repo.On("UpdateOrderStatus", mock.Anything, mock.Anything, 2).Return(domain.ErrVersionConflict).Once()
			},
			wantErr: service.ErrStaleWrite,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewOrderRepository(t)
			pub := mocks.NewOrderPublisher(t)
			repo.On("GetOrder", mock.Anything, "o1").
				Return(&domain.Order{ID: "o1", Status: testCase.current, Version: 2}, nil).Once()
			testCase.prepareMocks(repo, pub)
			svc := service.NewOrderService(repo, nil, pub, nil, time.UTC)

			order, err := svc.UpdateStatus(context.Background(), "o1", testCase.change)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.change.Status, order.Status)
		})
	}
}

func TestOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc := service.NewOrderService(mocks.NewOrderRepository(t), nil, nil, nil, time.UTC)
	_, err := svc.UpdateStatus(context.Background(), "o1", domain.StatusChange{Status: "refunded"})
	assert.ErrorIs(t, err, service.ErrInvalidOrder)
}

func TestOrderService_QRCode(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	qr := mocks.NewQRGenerator(t)
	repo.On("GetOrder", mock.Anything, "o1").Return(&domain.Order{ID: "o1"}, nil).Once()
	repo.On("GetOrder", mock.Anything, "missing").Return(nil, domain.ErrNotFound).Once()
	qr.On("Generate", "o1").Return([]byte{0x89, 'P', 'N', 'G'}, nil).Once()
	svc := service.NewOrderService(repo, nil, nil, qr, time.UTC)

	png, err := svc.QRCode(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png)

	_, err = svc.QRCode(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestDefaultQRGenerator_Generate(t *testing.T) {
	png, err := service.DefaultQRGenerator{BaseURL: "http://pos.local/"}.Generate("o1")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
