package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// profileSnapshotTTL bounds staleness of a cached profile; address and
// profile writes invalidate the key anyway, the TTL is a backstop.
const profileSnapshotTTL = time.Hour

// profileService implements the ProfileUsecase interface.
// Reads are cache-aside: a hit serves the stored snapshot, a miss rebuilds
// from the user record and address book and stores the result best-effort.
type profileService struct {
	txManager repository.TransactionManager
	cache     service.SnapshotCache
	logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(
	txManager repository.TransactionManager,
	cache service.SnapshotCache,
	logger *slog.Logger,
) usecase.ProfileUsecase {
	return &profileService{
		txManager: txManager,
		cache:     cache,
		logger:    logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the user's denormalized profile snapshot.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.ProfileSnapshot, error) {
	key := entity.ProfileCacheKey(userID)

	if raw, err := srv.cache.Get(ctx, key); err == nil {
		var snapshot entity.ProfileSnapshot
		if err := json.Unmarshal(raw, &snapshot); err == nil {
			return &snapshot, nil
		}
		// A corrupt entry is treated as a miss and overwritten below.
		srv.log(ctx).Warn("Discarding unreadable profile snapshot", slog.String("key", key))
	} else if !errors.Is(err, service.ErrCacheMiss) {
		srv.log(ctx).Warn("Profile cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	snapshot, err := srv.buildSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(snapshot); err == nil {
		if err := srv.cache.Set(ctx, key, raw, profileSnapshotTTL); err != nil {
			srv.log(ctx).Warn("Failed to cache profile snapshot", slog.String("key", key), slog.Any("error", err))
		}
	}

	return snapshot, nil
}

// UpdateProfile applies a partial update to the user record and drops the
// cached snapshot before rebuilding it.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usecase.UpdateProfileInput) (*entity.ProfileSnapshot, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.Username != nil && *input.Username != user.Username {
			if _, err := userRepo.FindByUsername(ctx, *input.Username); err == nil {
				return errors.Wrap(domainerrors.ErrUserAlreadyExists, "username already taken")
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(err, "failed to check username")
			}
			user.Username = *input.Username
		}
		if input.Email != nil && *input.Email != user.Email {
			if _, err := userRepo.FindByEmail(ctx, *input.Email); err == nil {
				return errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(err, "failed to check email")
			}
			user.Email = *input.Email
		}
		if input.Phone != nil {
			user.Phone = *input.Phone
		}

		return errors.Wrap(userRepo.Update(ctx, user), "failed to update user")
	})
	if err != nil {
		return nil, err
	}

	key := entity.ProfileCacheKey(userID)
	if err := srv.cache.Invalidate(ctx, key); err != nil {
		srv.log(ctx).Warn("Failed to invalidate profile cache", slog.String("key", key), slog.Any("error", err))
	}

	return srv.GetProfile(ctx, userID)
}

// buildSnapshot assembles the profile projection from its sources of truth.
func (srv *profileService) buildSnapshot(ctx context.Context, userID uuid.UUID) (*entity.ProfileSnapshot, error) {
	var snapshot *entity.ProfileSnapshot

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		addressRepo := repoFactory.NewAddressRepository()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}

		addresses, err := addressRepo.FindAddressesByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list addresses")
		}

		snapshot = &entity.ProfileSnapshot{
			UserID:    user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Role:      user.Role,
			Phone:     user.Phone,
			Addresses: addresses,
		}
		for _, address := range addresses {
			if address.IsMain {
				snapshot.MainAddress = address

				break
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}
