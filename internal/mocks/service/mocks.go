// Package service provides hand-written test doubles for the domain service
// interfaces.
package service

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a testify mock of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// MockTokenService is a testify mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID uuid.UUID, role entity.Role) (string, error) {
	args := m.Called(userID, role)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*service.Claims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

// MockSnapshotCache is a testify mock of service.SnapshotCache.
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if raw, ok := args.Get(0).([]byte); ok {
		return raw, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockSnapshotCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockSnapshotCache) Invalidate(ctx context.Context, keys ...string) error {
	callArgs := make([]any, 0, len(keys)+1)
	callArgs = append(callArgs, ctx)
	for _, key := range keys {
		callArgs = append(callArgs, key)
	}

	return m.Called(callArgs...).Error(0)
}

// MockTaskPublisher is a testify mock of service.TaskPublisher.
type MockTaskPublisher struct {
	mock.Mock
}

func (m *MockTaskPublisher) PublishOrderPlaced(ctx context.Context, task *service.OrderPlacedTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskPublisher) PublishOrderStatusChanged(ctx context.Context, task *service.OrderStatusChangedTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskPublisher) PublishRefundResolved(ctx context.Context, task *service.RefundResolvedTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskPublisher) Close() error {
	return m.Called().Error(0)
}
