package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a testify mock of repository.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByOwner(ctx context.Context, owner entity.CartOwner) (*entity.Cart, error) {
	args := m.Called(ctx, owner)
	if cart, ok := args.Get(0).(*entity.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCartRepository) FindOrCreateByOwner(ctx context.Context, owner entity.CartOwner) (*entity.Cart, error) {
	args := m.Called(ctx, owner)
	if cart, ok := args.Get(0).(*entity.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockCartRepository) CreateItem(ctx context.Context, item *entity.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return m.Called(ctx, itemID, quantity).Error(0)
}

func (m *MockCartRepository) DeleteItemByProduct(ctx context.Context, cartID uuid.UUID, productID uuid.UUID) error {
	return m.Called(ctx, cartID, productID).Error(0)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}
