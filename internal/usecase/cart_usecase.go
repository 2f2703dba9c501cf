package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// AddCartItemInput defines the data required to add a product to a cart.
type AddCartItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// UpdateCartItemInput defines the data required to overwrite a cart line's quantity.
type UpdateCartItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutInput defines the data required to convert a cart into an order.
// Exactly one shipping source is used: an owned address referenced by
// AddressID, a free-form ShippingAddress, or the buyer's main address.
type CheckoutInput struct {
	AddressID       *uuid.UUID
	ShippingAddress *string
	Payment         entity.PaymentInfo
	TotalAmount     decimal.Decimal
}

// --- Output DTOs ---

// CartView is the cart snapshot returned to the delivery layer.
type CartView struct {
	Cart  *entity.Cart
	Total decimal.Decimal
}

// CartUsecase defines the interface for cart and checkout business operations.
// The owner union distinguishes signed-in users from anonymous sessions; the
// delivery layer resolves it before calling in.
type CartUsecase interface {
	// GetCart returns the owner's cart, creating an empty one when absent.
	GetCart(ctx context.Context, owner entity.CartOwner) (*CartView, error)

	// AddItem adds a product to the cart, summing quantities when the
	// product is already present.
	AddItem(ctx context.Context, owner entity.CartOwner, input AddCartItemInput) (*CartView, error)

	// UpdateItem overwrites the quantity of an existing cart line.
	UpdateItem(ctx context.Context, owner entity.CartOwner, input UpdateCartItemInput) (*CartView, error)

	// RemoveItem deletes a cart line. Removing an absent product is a no-op.
	RemoveItem(ctx context.Context, owner entity.CartOwner, productID uuid.UUID) (*CartView, error)

	// ClearCart removes every line from the owner's cart.
	ClearCart(ctx context.Context, owner entity.CartOwner) error

	// Checkout converts the signed-in buyer's cart into an order, decrementing
	// stock per line and emptying the cart in the same transaction.
	Checkout(ctx context.Context, buyer entity.Principal, input CheckoutInput) (*entity.Order, error)
}
