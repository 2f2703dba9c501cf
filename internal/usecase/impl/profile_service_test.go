package impl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// profileServiceFixtures holds all test dependencies for profile service tests.
type profileServiceFixtures struct {
	service   usecase.ProfileUsecase
	users     *mockRepo.MockUserRepository
	addresses *mockRepo.MockAddressRepository
	cache     *mockSvc.MockSnapshotCache
}

func createTestProfileService(t *testing.T) profileServiceFixtures {
	t.Helper()

	users := &mockRepo.MockUserRepository{}
	addresses := &mockRepo.MockAddressRepository{}
	cache := &mockSvc.MockSnapshotCache{}
	factory := &mockRepo.MockRepositoryFactory{Users: users, Addresses: addresses}
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return profileServiceFixtures{
		service:   NewProfileService(txManager, cache, logger),
		users:     users,
		addresses: addresses,
		cache:     cache,
	}
}

func TestProfileService_GetProfile_CacheHitSkipsStore(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	cached := entity.ProfileSnapshot{UserID: userID, Username: "cacheduser"}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)
	fx.cache.On("Get", ctx, entity.ProfileCacheKey(userID)).Return(raw, nil)

	snapshot, err := fx.service.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "cacheduser", snapshot.Username)
	fx.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestProfileService_GetProfile_MissRebuildsAndStores(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.cache.On("Get", ctx, entity.ProfileCacheKey(userID)).Return(nil, service.ErrCacheMiss)

	user := &entity.User{ID: userID, Username: "testuser", Email: "test@example.com", Role: entity.RoleCustomer}
	main := &entity.Address{ID: uuid.New(), UserID: userID, IsMain: true}
	other := &entity.Address{ID: uuid.New(), UserID: userID}
	fx.users.On("FindByID", ctx, userID).Return(user, nil)
	fx.addresses.On("FindAddressesByUser", ctx, userID).Return([]*entity.Address{other, main}, nil)
	fx.cache.On("Set", ctx, entity.ProfileCacheKey(userID), mock.AnythingOfType("[]uint8"), mock.AnythingOfType("time.Duration")).
		Return(nil)

	snapshot, err := fx.service.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "testuser", snapshot.Username)
	require.NotNil(t, snapshot.MainAddress)
	assert.Equal(t, main.ID, snapshot.MainAddress.ID)
	assert.Len(t, snapshot.Addresses, 2)
	fx.cache.AssertExpectations(t)
}

func TestProfileService_GetProfile_CacheFailureIsNonFatal(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.cache.On("Get", ctx, entity.ProfileCacheKey(userID)).Return(nil, assert.AnError)
	fx.cache.On("Set", ctx, mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("time.Duration")).
		Return(assert.AnError)
	fx.users.On("FindByID", ctx, userID).Return(&entity.User{ID: userID, Username: "u"}, nil)
	fx.addresses.On("FindAddressesByUser", ctx, userID).Return([]*entity.Address{}, nil)

	snapshot, err := fx.service.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "u", snapshot.Username)
}

func TestProfileService_UpdateProfile_InvalidatesBeforeRebuild(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	user := &entity.User{ID: userID, Username: "old", Email: "old@example.com"}
	fx.users.On("FindByID", ctx, userID).Return(user, nil)
	fx.users.On("FindByUsername", ctx, "newname").Return(nil, repository.ErrUserNotFound)
	fx.users.On("Update", ctx, user).Return(nil)
	fx.cache.On("Invalidate", ctx, entity.ProfileCacheKey(userID)).Return(nil)
	fx.cache.On("Get", ctx, entity.ProfileCacheKey(userID)).Return(nil, service.ErrCacheMiss)
	fx.addresses.On("FindAddressesByUser", ctx, userID).Return([]*entity.Address{}, nil)
	fx.cache.On("Set", ctx, entity.ProfileCacheKey(userID), mock.Anything, profileSnapshotTTL).Return(nil)

	newName := "newname"
	snapshot, err := fx.service.UpdateProfile(ctx, userID, usecase.UpdateProfileInput{Username: &newName})
	require.NoError(t, err)
	assert.Equal(t, "newname", snapshot.Username)
	fx.cache.AssertCalled(t, "Invalidate", ctx, entity.ProfileCacheKey(userID))
}
