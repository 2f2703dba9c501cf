// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefundEligibilityWindow is the period after delivery during which a refund
// may be requested for an order line.
const RefundEligibilityWindow = 30 * 24 * time.Hour

// RefundStatus is the approval state of a refund request.
type RefundStatus string

const (
	// RefundPending is the initial state of every refund request.
	RefundPending RefundStatus = "PENDING"
	// RefundApproved is terminal; the request can never change again.
	RefundApproved RefundStatus = "APPROVED"
	// RefundRejected is terminal; the request can never change again.
	RefundRejected RefundStatus = "REJECTED"
)

// String returns the string representation of the RefundStatus.
func (s RefundStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status admits no further transition.
func (s RefundStatus) IsTerminal() bool {
	return s == RefundApproved || s == RefundRejected
}

// Blocks reports whether a request in this status prevents a new request for
// the same order line. PENDING and APPROVED block; REJECTED does not.
func (s RefundStatus) Blocks() bool {
	return s == RefundPending || s == RefundApproved
}

// RefundRequest is a per-order-line request to return goods, gated by the
// order's delivery state and the eligibility window.
type RefundRequest struct {
	ID              uuid.UUID
	OrderItemID     uuid.UUID
	UserID          uuid.UUID // Must equal the owning order's user.
	Reason          string    // Mutable by the owner while PENDING.
	Status          RefundStatus
	ApprovedBy      *uuid.UUID // Manager who resolved the request.
	ApprovalDate    *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	OrderItem *OrderItem // Enriched on read.
}

// RefundEligible reports whether a refund may still be requested for an order
// delivered at deliveredAt, evaluated at now.
func RefundEligible(deliveredAt time.Time, now time.Time) bool {
	return now.Sub(deliveredAt) < RefundEligibilityWindow
}
