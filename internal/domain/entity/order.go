// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the delivery state of an order.
type OrderStatus string

const (
	// OrderProcessing is the initial state of every order.
	OrderProcessing OrderStatus = "PROCESSING"
	// OrderInTransit means the order has been handed to the carrier.
	OrderInTransit OrderStatus = "IN_TRANSIT"
	// OrderDelivered is terminal and opens the refund eligibility window.
	OrderDelivered OrderStatus = "DELIVERED"
	// OrderCancelled is terminal and reachable only from PROCESSING.
	OrderCancelled OrderStatus = "CANCELLED"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderProcessing, OrderInTransit, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition may leave this state.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo validates a transition against the delivery state machine:
// PROCESSING -> {IN_TRANSIT, CANCELLED}, IN_TRANSIT -> DELIVERED. Nothing
// moves backward and terminal states admit no successors.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderProcessing:
		return next == OrderInTransit || next == OrderCancelled
	case OrderInTransit:
		return next == OrderDelivered
	default:
		return false
	}
}

// PaymentInfo is opaque pass-through payment metadata captured at checkout.
// The core stores it as provided and never validates beyond shape.
type PaymentInfo struct {
	CardLastFour string
	CardHolder   string
	ExpiryDate   string
}

// Order is the immutable-at-creation snapshot of a cart plus payment and
// shipping metadata. Only the delivery status, approval flag, delivery
// timestamp, and notes ever change after creation; items and amounts are
// frozen forever. Orders are never deleted.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID       // Owner; immutable.
	Status          OrderStatus     // Delivery state machine position.
	TotalAmount     decimal.Decimal // Caller-supplied at creation; never recomputed.
	ShippingAddress string          // Resolved shipping text snapshot.
	AddressID       *uuid.UUID      // Optional address-book reference, traceability only.
	Payment         PaymentInfo
	DeliveredAt     *time.Time // Set when the order reaches DELIVERED.
	DeliveryNotes   string
	IsApproved      bool // Manager sign-off flag; idempotent, one-way.
	Items           []*OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is a frozen order line. PriceAtTime is the product's price at the
// moment of order creation and is never recomputed, regardless of later
// catalog price changes.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	Quantity    int
	PriceAtTime decimal.Decimal
	Product     *Product // Enriched on read; nil when the catalog row has vanished.
	Order       *Order   // Parent order; preloaded by single-item lookups.
}

// LineTotal returns quantity times the frozen unit price.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums the frozen line totals. It exists for reconciliation
// logging only: Order.TotalAmount remains authoritative by design.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}

	return total
}
