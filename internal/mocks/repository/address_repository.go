package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAddressRepository is a testify mock of repository.AddressRepository.
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) CreateAddress(ctx context.Context, address *entity.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *MockAddressRepository) FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	args := m.Called(ctx, id)
	if address, ok := args.Get(0).(*entity.Address); ok {
		return address, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockAddressRepository) FindAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	args := m.Called(ctx, userID)
	if addresses, ok := args.Get(0).([]*entity.Address); ok {
		return addresses, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockAddressRepository) FindMainAddressByUser(ctx context.Context, userID uuid.UUID) (*entity.Address, error) {
	args := m.Called(ctx, userID)
	if address, ok := args.Get(0).(*entity.Address); ok {
		return address, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockAddressRepository) UpdateAddress(ctx context.Context, address *entity.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *MockAddressRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAddressRepository) DemoteMainAddresses(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error {
	return m.Called(ctx, userID, exceptID).Error(0)
}

func (m *MockAddressRepository) CountAddressesByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)

	return args.Get(0).(int64), args.Error(1)
}
