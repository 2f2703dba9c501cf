package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// AdvanceOrderInput defines the data for a manager-side delivery transition.
type AdvanceOrderInput struct {
	OrderID       uuid.UUID
	ToStatus      entity.OrderStatus
	DeliveryNotes string
}

// OrderUsecase defines the interface for order lifecycle business operations.
// Every operation takes the acting principal so ownership and capability
// checks happen here, not in the delivery layer.
type OrderUsecase interface {
	// GetOrder returns a single order. Customers see only their own orders;
	// principals with the view-all capability see any order.
	GetOrder(ctx context.Context, actor entity.Principal, orderID uuid.UUID) (*entity.Order, error)

	// ListOrders returns the actor's own orders, or all orders for
	// principals with the view-all capability.
	ListOrders(ctx context.Context, actor entity.Principal) ([]*entity.Order, error)

	// CancelOrder moves the actor's own PROCESSING order to CANCELLED.
	CancelOrder(ctx context.Context, actor entity.Principal, orderID uuid.UUID) (*entity.Order, error)

	// AdvanceOrder performs a manager-side forward transition
	// (PROCESSING to IN_TRANSIT, or IN_TRANSIT to DELIVERED).
	AdvanceOrder(ctx context.Context, actor entity.Principal, input AdvanceOrderInput) (*entity.Order, error)

	// ApproveOrder flags an order as reviewed by a sales manager.
	ApproveOrder(ctx context.Context, actor entity.Principal, orderID uuid.UUID) (*entity.Order, error)
}
