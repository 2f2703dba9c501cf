package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// addressServiceFixtures holds all test dependencies for address service tests.
type addressServiceFixtures struct {
	service   usecase.AddressUsecase
	addresses *mockRepo.MockAddressRepository
	cache     *mockSvc.MockSnapshotCache
}

func createTestAddressService(t *testing.T) addressServiceFixtures {
	t.Helper()

	addresses := &mockRepo.MockAddressRepository{}
	cache := &mockSvc.MockSnapshotCache{}
	factory := &mockRepo.MockRepositoryFactory{Addresses: addresses}
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return addressServiceFixtures{
		service:   NewAddressService(txManager, cache, logger),
		addresses: addresses,
		cache:     cache,
	}
}

func TestAddressService_CreateAddress_MainDemotesSiblings(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.addresses.On("DemoteMainAddresses", ctx, userID, uuid.Nil).Return(nil)
	fx.addresses.On("CreateAddress", ctx, mock.AnythingOfType("*entity.Address")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Address).ID = uuid.New()
		}).
		Return(nil)
	fx.addresses.On("FindMainAddressByUser", ctx, userID).Return(&entity.Address{IsMain: true}, nil)
	fx.cache.On("Invalidate", ctx, entity.ProfileCacheKey(userID)).Return(nil)

	address, err := fx.service.CreateAddress(ctx, userID, usecase.CreateAddressInput{
		Name:          "Home",
		StreetAddress: "123 Test Street",
		City:          "Test City",
		IsMain:        true,
	})
	require.NoError(t, err)
	assert.True(t, address.IsMain)
	fx.addresses.AssertExpectations(t)
	fx.cache.AssertExpectations(t)
}

func TestAddressService_CreateAddress_FirstBecomesMain(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	// The slice is populated once the service has built the address, so the
	// post-save promotion pass sees the just-created row as the sole survivor.
	survivors := make([]*entity.Address, 1)
	fx.addresses.On("CreateAddress", ctx, mock.AnythingOfType("*entity.Address")).
		Run(func(args mock.Arguments) {
			created := args.Get(1).(*entity.Address)
			created.ID = uuid.New()
			survivors[0] = created
		}).
		Return(nil)
	fx.addresses.On("FindMainAddressByUser", ctx, userID).Return(nil, repository.ErrAddressNotFound)
	fx.addresses.On("FindAddressesByUser", ctx, userID).Return(survivors, nil)
	fx.addresses.On("UpdateAddress", ctx, mock.MatchedBy(func(a *entity.Address) bool { return a.IsMain })).Return(nil)
	fx.cache.On("Invalidate", ctx, entity.ProfileCacheKey(userID)).Return(nil)

	address, err := fx.service.CreateAddress(ctx, userID, usecase.CreateAddressInput{
		Name:          "Home",
		StreetAddress: "123 Test Street",
		IsMain:        false,
	})
	require.NoError(t, err)
	assert.True(t, address.IsMain)
}

func TestAddressService_UpdateAddress_ForeignAddressNotFound(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()

	address := &entity.Address{ID: uuid.New(), UserID: uuid.New()}
	fx.addresses.On("FindAddressByID", ctx, address.ID).Return(address, nil)

	name := "Work"
	_, err := fx.service.UpdateAddress(ctx, uuid.New(), address.ID, usecase.UpdateAddressInput{Name: &name})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAddressNotFound))
}

func TestAddressService_DeleteAddress_MainPromotesOldestSurvivor(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	main := &entity.Address{ID: uuid.New(), UserID: userID, IsMain: true}
	other := &entity.Address{ID: uuid.New(), UserID: userID}

	fx.addresses.On("FindAddressByID", ctx, main.ID).Return(main, nil)
	fx.addresses.On("FindAddressesByUser", ctx, userID).Return([]*entity.Address{main, other}, nil)
	fx.addresses.On("UpdateAddress", ctx, mock.MatchedBy(func(a *entity.Address) bool {
		return a.ID == other.ID && a.IsMain
	})).Return(nil)
	fx.addresses.On("DeleteAddress", ctx, main.ID).Return(nil)
	fx.cache.On("Invalidate", ctx, entity.ProfileCacheKey(userID)).Return(nil)

	require.NoError(t, fx.service.DeleteAddress(ctx, userID, main.ID))
	fx.addresses.AssertExpectations(t)
}

func TestAddressService_DeleteAddress_SoleAddressNoPromotion(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	sole := &entity.Address{ID: uuid.New(), UserID: userID, IsMain: true}
	fx.addresses.On("FindAddressByID", ctx, sole.ID).Return(sole, nil)
	fx.addresses.On("FindAddressesByUser", ctx, userID).Return([]*entity.Address{sole}, nil)
	fx.addresses.On("DeleteAddress", ctx, sole.ID).Return(nil)
	fx.cache.On("Invalidate", ctx, entity.ProfileCacheKey(userID)).Return(nil)

	require.NoError(t, fx.service.DeleteAddress(ctx, userID, sole.ID))
	fx.addresses.AssertNotCalled(t, "UpdateAddress", mock.Anything, mock.Anything)
}

func TestAddressService_UpdateAddress_DemoteSoleMainPromotesSibling(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	main := &entity.Address{ID: uuid.New(), UserID: userID, IsMain: true}
	sibling := &entity.Address{ID: uuid.New(), UserID: userID}

	fx.addresses.On("FindAddressByID", ctx, main.ID).Return(main, nil)
	fx.addresses.On("UpdateAddress", ctx, main).Return(nil)
	fx.addresses.On("FindMainAddressByUser", ctx, userID).Return(nil, repository.ErrAddressNotFound)
	fx.addresses.On("FindAddressesByUser", ctx, userID).Return([]*entity.Address{main, sibling}, nil)
	fx.addresses.On("UpdateAddress", ctx, mock.MatchedBy(func(a *entity.Address) bool {
		return a.ID == sibling.ID && a.IsMain
	})).Return(nil)
	fx.cache.On("Invalidate", ctx, entity.ProfileCacheKey(userID)).Return(nil)

	demote := false
	updated, err := fx.service.UpdateAddress(ctx, userID, main.ID, usecase.UpdateAddressInput{IsMain: &demote})
	require.NoError(t, err)
	assert.False(t, updated.IsMain)
}

func TestAddressService_WritesInvalidateProfileCache(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	address := &entity.Address{ID: uuid.New(), UserID: userID}
	fx.addresses.On("FindAddressByID", ctx, address.ID).Return(address, nil)
	fx.addresses.On("FindAddressesByUser", ctx, userID).Return([]*entity.Address{address}, nil)
	fx.addresses.On("DeleteAddress", ctx, address.ID).Return(nil)
	fx.cache.On("Invalidate", ctx, entity.ProfileCacheKey(userID)).Return(errors.New("redis down"))

	// Cache failure is swallowed.
	require.NoError(t, fx.service.DeleteAddress(ctx, userID, address.ID))
	fx.cache.AssertCalled(t, "Invalidate", ctx, entity.ProfileCacheKey(userID))
}
