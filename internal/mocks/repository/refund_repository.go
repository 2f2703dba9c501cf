package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRefundRepository is a testify mock of repository.RefundRepository.
type MockRefundRepository struct {
	mock.Mock
}

func (m *MockRefundRepository) CreateRefund(ctx context.Context, refund *entity.RefundRequest) error {
	return m.Called(ctx, refund).Error(0)
}

func (m *MockRefundRepository) FindRefundByID(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error) {
	args := m.Called(ctx, id)
	if refund, ok := args.Get(0).(*entity.RefundRequest); ok {
		return refund, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRefundRepository) HasBlockingRefundForItem(ctx context.Context, orderItemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderItemID)

	return args.Bool(0), args.Error(1)
}

func (m *MockRefundRepository) UpdateReason(ctx context.Context, id uuid.UUID, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockRefundRepository) DeleteRefund(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRefundRepository) ResolveIf(ctx context.Context, id uuid.UUID, from, to entity.RefundStatus, res repository.RefundResolution) (bool, error) {
	args := m.Called(ctx, id, from, to, res)

	return args.Bool(0), args.Error(1)
}

func (m *MockRefundRepository) ListRefundsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RefundRequest, error) {
	args := m.Called(ctx, userID)
	if refunds, ok := args.Get(0).([]*entity.RefundRequest); ok {
		return refunds, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRefundRepository) ListRefunds(ctx context.Context) ([]*entity.RefundRequest, error) {
	args := m.Called(ctx)
	if refunds, ok := args.Get(0).([]*entity.RefundRequest); ok {
		return refunds, args.Error(1)
	}

	return nil, args.Error(1)
}
