package repository

import (
	"context"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a testify mock of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) CreateOrderItem(ctx context.Context, item *entity.OrderItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockOrderRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if order, ok := args.Get(0).(*entity.Order); ok {
		return order, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockOrderRepository) FindOrderItemByID(ctx context.Context, id uuid.UUID) (*entity.OrderItem, error) {
	args := m.Called(ctx, id)
	if item, ok := args.Get(0).(*entity.OrderItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	args := m.Called(ctx, userID)
	if orders, ok := args.Get(0).([]*entity.Order); ok {
		return orders, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	args := m.Called(ctx)
	if orders, ok := args.Get(0).([]*entity.Order); ok {
		return orders, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockOrderRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)

	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkDelivered(ctx context.Context, id uuid.UUID, from entity.OrderStatus, deliveredAt time.Time, notes string) (bool, error) {
	args := m.Called(ctx, id, from, deliveredAt, notes)

	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	return m.Called(ctx, id, approved).Error(0)
}
