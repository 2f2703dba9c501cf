package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for cart persistence.
var (
	// ErrCartNotFound is returned when a cart is not found.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound is returned when a cart item is not found.
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for cart persistence.
// A cart belongs to either a registered user or an anonymous session,
// never both; the owner union is resolved by entity.CartOwner.
type CartRepository interface {
	// FindByOwner retrieves the owner's cart with items and their products
	// preloaded. Returns ErrCartNotFound when the owner has no cart yet.
	FindByOwner(ctx context.Context, owner entity.CartOwner) (*entity.Cart, error)

	// FindOrCreateByOwner retrieves the owner's cart, creating an empty one
	// when none exists. Items and their products are preloaded.
	FindOrCreateByOwner(ctx context.Context, owner entity.CartOwner) (*entity.Cart, error)

	// CreateItem persists a new cart line.
	CreateItem(ctx context.Context, item *entity.CartItem) error

	// UpdateItemQuantity overwrites the quantity of an existing cart line.
	// Returns ErrCartItemNotFound when the line does not exist.
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error

	// DeleteItemByProduct removes the cart line for the given product.
	// Deleting a line that does not exist is a no-op.
	DeleteItemByProduct(ctx context.Context, cartID uuid.UUID, productID uuid.UUID) error

	// ClearItems removes every line from the cart. The cart row survives.
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}
