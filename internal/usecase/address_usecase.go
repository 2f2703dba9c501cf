package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateAddressInput defines the data required to add an address.
type CreateAddressInput struct {
	Name          string
	StreetAddress string
	City          string
	State         string
	PostalCode    string
	Country       string
	IsMain        bool
}

// UpdateAddressInput defines the data for a partial address update.
// Nil fields are left unchanged.
type UpdateAddressInput struct {
	Name          *string
	StreetAddress *string
	City          *string
	State         *string
	PostalCode    *string
	Country       *string
	IsMain        *bool
}

// AddressUsecase defines the interface for address-book business operations.
// The single-main invariant is enforced here: promoting one address demotes
// the others in the same transaction, and deleting the main address promotes
// the oldest survivor.
type AddressUsecase interface {
	CreateAddress(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*entity.Address, error)
	UpdateAddress(ctx context.Context, userID uuid.UUID, addressID uuid.UUID, input UpdateAddressInput) (*entity.Address, error)
	DeleteAddress(ctx context.Context, userID uuid.UUID, addressID uuid.UUID) error
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)
	GetAddress(ctx context.Context, userID uuid.UUID, addressID uuid.UUID) (*entity.Address, error)
}
