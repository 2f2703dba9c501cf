package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for address persistence.
var (
	// ErrAddressNotFound is returned when an address is not found.
	ErrAddressNotFound = errors.New("address not found")
)

// AddressRepository defines the interface for address-book database operations.
// Each address belongs to exactly one user; at most one address per user is main.
type AddressRepository interface {
	// CreateAddress persists a new address for a user.
	CreateAddress(ctx context.Context, address *entity.Address) error

	// FindAddressByID retrieves an address by its unique ID.
	FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)

	// FindAddressesByUser retrieves all addresses for a user, oldest first.
	FindAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)

	// FindMainAddressByUser retrieves the main address for a user.
	// Returns ErrAddressNotFound if no main address exists.
	FindMainAddressByUser(ctx context.Context, userID uuid.UUID) (*entity.Address, error)

	// UpdateAddress updates an existing address record.
	UpdateAddress(ctx context.Context, address *entity.Address) error

	// DeleteAddress removes an address by its ID.
	DeleteAddress(ctx context.Context, id uuid.UUID) error

	// DemoteMainAddresses clears the main flag on every address of the user
	// except the one identified by exceptID. Pass uuid.Nil to demote all.
	DemoteMainAddresses(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error

	// CountAddressesByUser returns the total count of addresses for a user.
	CountAddressesByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
