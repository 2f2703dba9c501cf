package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for product persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a conditional stock decrement
	// fails because the remaining quantity is lower than the requested amount.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines the interface for product catalog and stock operations.
type ProductRepository interface {
	// FindByID retrieves a product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByIDs retrieves the products matching the given IDs.
	// Missing IDs are simply absent from the result; no error is returned for them.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error)

	// DecrementStock atomically subtracts quantity from the product's stock,
	// guarded so the stored value never goes below zero. Returns
	// ErrInsufficientStock when the guard rejects the decrement and
	// ErrProductNotFound when no such product exists.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
