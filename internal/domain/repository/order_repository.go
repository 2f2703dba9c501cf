package repository

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderItemNotFound is returned when an order item is not found.
	ErrOrderItemNotFound = errors.New("order item not found")
)

// OrderRepository defines the interface for order persistence.
// Status transitions are compare-and-swap updates so concurrent writers
// cannot both move the same order; the caller decides what a lost race means.
type OrderRepository interface {
	// CreateOrder persists a new order header.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// CreateOrderItem persists a single order line.
	CreateOrderItem(ctx context.Context, item *entity.OrderItem) error

	// FindOrderByID retrieves an order with its items and products preloaded.
	FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindOrderItemByID retrieves a single order line with its parent order preloaded.
	FindOrderItemByID(ctx context.Context, id uuid.UUID) (*entity.OrderItem, error)

	// ListOrdersByUser retrieves all orders placed by a user, newest first.
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// ListOrders retrieves all orders, newest first. Manager views only.
	ListOrders(ctx context.Context) ([]*entity.Order, error)

	// UpdateStatusIf moves the order from one status to another only if it is
	// still in the expected status. Returns false when the guard did not match.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) (bool, error)

	// MarkDelivered moves the order from `from` to DELIVERED and stamps the
	// delivery time and notes in the same guarded update. Returns false when
	// the guard did not match.
	MarkDelivered(ctx context.Context, id uuid.UUID, from entity.OrderStatus, deliveredAt time.Time, notes string) (bool, error)

	// SetApproved flips the approval flag on an order.
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
}
