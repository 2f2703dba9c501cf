package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// addressService implements the AddressUsecase interface.
//
// Invariant maintained here: a user with at least one address has exactly
// one main address after any mutation commits. Demotions and promotions
// run inside the same transaction as the triggering write.
type addressService struct {
	txManager repository.TransactionManager
	cache     service.SnapshotCache
	logger    *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(
	txManager repository.TransactionManager,
	cache service.SnapshotCache,
	logger *slog.Logger,
) usecase.AddressUsecase {
	return &addressService{
		txManager: txManager,
		cache:     cache,
		logger:    logger,
	}
}

func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// invalidateProfile drops the user's cached profile snapshot after an
// address-book write. Cache failures are logged and swallowed.
func (srv *addressService) invalidateProfile(ctx context.Context, userID uuid.UUID) {
	key := entity.ProfileCacheKey(userID)
	if err := srv.cache.Invalidate(ctx, key); err != nil {
		srv.log(ctx).Warn("Failed to invalidate profile cache", slog.String("key", key), slog.Any("error", err))
	}
}

// ensureSingleMain restores the invariant after a write: when the user has
// addresses but none is main, one is promoted deterministically. The address
// just saved is skipped when picking, unless it is the only one left.
func ensureSingleMain(ctx context.Context, addressRepo repository.AddressRepository, userID uuid.UUID, justSaved uuid.UUID) error {
	_, err := addressRepo.FindMainAddressByUser(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrAddressNotFound) {
		return errors.Wrap(err, "failed to look up main address")
	}

	addresses, err := addressRepo.FindAddressesByUser(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to list addresses")
	}
	if len(addresses) == 0 {
		return nil
	}

	candidate := addresses[0]
	if len(addresses) > 1 && candidate.ID == justSaved {
		candidate = addresses[1]
	}

	candidate.IsMain = true
	if err := addressRepo.UpdateAddress(ctx, candidate); err != nil {
		return errors.Wrap(err, "failed to promote address")
	}

	return nil
}

// findOwned loads an address and verifies it belongs to the user.
// Another user's address reads as not found.
func findOwned(ctx context.Context, addressRepo repository.AddressRepository, userID uuid.UUID, addressID uuid.UUID) (*entity.Address, error) {
	address, err := addressRepo.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
		}

		return nil, errors.Wrap(err, "failed to load address")
	}
	if address.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrAddressNotFound, "address belongs to another user")
	}

	return address, nil
}

// CreateAddress adds an address. Creating with the main flag demotes
// every sibling first; a user's first address always ends up main.
func (srv *addressService) CreateAddress(ctx context.Context, userID uuid.UUID, input usecase.CreateAddressInput) (*entity.Address, error) {
	address := &entity.Address{
		UserID:        userID,
		Name:          input.Name,
		StreetAddress: input.StreetAddress,
		City:          input.City,
		State:         input.State,
		PostalCode:    input.PostalCode,
		Country:       input.Country,
		IsMain:        input.IsMain,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		if input.IsMain {
			if err := addressRepo.DemoteMainAddresses(ctx, userID, uuid.Nil); err != nil {
				return errors.Wrap(err, "failed to demote sibling addresses")
			}
		}

		if err := addressRepo.CreateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to create address")
		}

		return ensureSingleMain(ctx, addressRepo, userID, address.ID)
	})
	if err != nil {
		return nil, err
	}

	srv.invalidateProfile(ctx, userID)

	return address, nil
}

// UpdateAddress applies a partial update. Promoting to main demotes siblings
// in the same transaction; demoting the sole main promotes the oldest sibling.
func (srv *addressService) UpdateAddress(ctx context.Context, userID uuid.UUID, addressID uuid.UUID, input usecase.UpdateAddressInput) (*entity.Address, error) {
	var address *entity.Address

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		found, err := findOwned(ctx, addressRepo, userID, addressID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			found.Name = *input.Name
		}
		if input.StreetAddress != nil {
			found.StreetAddress = *input.StreetAddress
		}
		if input.City != nil {
			found.City = *input.City
		}
		if input.State != nil {
			found.State = *input.State
		}
		if input.PostalCode != nil {
			found.PostalCode = *input.PostalCode
		}
		if input.Country != nil {
			found.Country = *input.Country
		}
		if input.IsMain != nil {
			found.IsMain = *input.IsMain
		}

		if found.IsMain {
			if err := addressRepo.DemoteMainAddresses(ctx, userID, found.ID); err != nil {
				return errors.Wrap(err, "failed to demote sibling addresses")
			}
		}

		if err := addressRepo.UpdateAddress(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update address")
		}

		if err := ensureSingleMain(ctx, addressRepo, userID, found.ID); err != nil {
			return err
		}
		address = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.invalidateProfile(ctx, userID)

	return address, nil
}

// DeleteAddress removes an address. Deleting the main address promotes the
// oldest survivor before the delete is finalized, so the user is never left
// with addresses but no main.
func (srv *addressService) DeleteAddress(ctx context.Context, userID uuid.UUID, addressID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		found, err := findOwned(ctx, addressRepo, userID, addressID)
		if err != nil {
			return err
		}

		if found.IsMain {
			addresses, err := addressRepo.FindAddressesByUser(ctx, userID)
			if err != nil {
				return errors.Wrap(err, "failed to list addresses")
			}
			for _, sibling := range addresses {
				if sibling.ID == found.ID {
					continue
				}
				sibling.IsMain = true
				if err := addressRepo.UpdateAddress(ctx, sibling); err != nil {
					return errors.Wrap(err, "failed to promote address")
				}

				break
			}
		}

		return errors.Wrap(addressRepo.DeleteAddress(ctx, addressID), "failed to delete address")
	})
	if err != nil {
		return err
	}

	srv.invalidateProfile(ctx, userID)

	return nil
}

// ListAddresses returns all of the user's addresses, oldest first.
func (srv *addressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	var addresses []*entity.Address

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewAddressRepository().FindAddressesByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list addresses")
		}
		addresses = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return addresses, nil
}

// GetAddress returns a single address owned by the user.
func (srv *addressService) GetAddress(ctx context.Context, userID uuid.UUID, addressID uuid.UUID) (*entity.Address, error) {
	var address *entity.Address

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := findOwned(ctx, repoFactory.NewAddressRepository(), userID, addressID)
		if err != nil {
			return err
		}
		address = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return address, nil
}
