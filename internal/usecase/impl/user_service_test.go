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

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service      usecase.UserUsecase
	users        *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	t.Helper()

	users := &mockRepo.MockUserRepository{}
	hasher := &mockSvc.MockPasswordHasher{}
	tokenService := &mockSvc.MockTokenService{}
	factory := &mockRepo.MockRepositoryFactory{Users: users}
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return userServiceFixtures{
		service:      NewUserService(txManager, hasher, tokenService, logger),
		users:        users,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	input := usecase.RegisterInput{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fx.users.On("FindByUsername", ctx, input.Username).Return(nil, repository.ErrUserNotFound)
	fx.users.On("FindByEmail", ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	fx.users.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = uuid.New()
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, output.User.Role)
	assert.Equal(t, "hashed_password", output.User.PasswordHash)
	assert.NotEqual(t, uuid.Nil, output.User.ID)
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.hasher.On("Hash", mock.AnythingOfType("string")).Return("hashed", nil)
	fx.users.On("FindByUsername", ctx, "taken").Return(&entity.User{ID: uuid.New()}, nil)

	_, err := fx.service.Register(ctx, usecase.RegisterInput{Username: "taken", Email: "a@b.c", Password: "pw"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
	fx.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Username: "testuser", PasswordHash: "hashed", Role: entity.RoleCustomer}
	fx.users.On("FindByUsername", ctx, user.Username).Return(user, nil)
	fx.hasher.On("Check", "Password123!", "hashed").Return(true)
	fx.tokenService.On("GenerateToken", user.ID, entity.RoleCustomer).Return("jwt-token", nil)

	output, err := fx.service.Login(ctx, usecase.LoginInput{Username: user.Username, Password: "Password123!"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", output.AccessToken)
	assert.Equal(t, user.ID, output.User.ID)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Username: "testuser", PasswordHash: "hashed"}
	fx.users.On("FindByUsername", ctx, user.Username).Return(user, nil)
	fx.hasher.On("Check", "wrong", "hashed").Return(false)

	_, err := fx.service.Login(ctx, usecase.LoginInput{Username: user.Username, Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	fx.tokenService.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

func TestUserService_Login_UnknownUserSameError(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.users.On("FindByUsername", ctx, "ghost").Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Login(ctx, usecase.LoginInput{Username: "ghost", Password: "pw"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}
