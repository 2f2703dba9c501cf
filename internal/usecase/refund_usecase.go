package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RequestRefundInput defines the data required to open a refund request.
type RequestRefundInput struct {
	OrderItemID uuid.UUID
	Reason      string
}

// RejectRefundInput defines the data required to reject a pending refund request.
type RejectRefundInput struct {
	RefundID        uuid.UUID
	RejectionReason string
}

// RefundUsecase defines the interface for refund request business operations.
type RefundUsecase interface {
	// RequestRefund opens a PENDING refund request for one of the actor's
	// delivered order items, subject to the eligibility window.
	RequestRefund(ctx context.Context, actor entity.Principal, input RequestRefundInput) (*entity.RefundRequest, error)

	// UpdateReason rewrites the reason of the actor's own pending request.
	UpdateReason(ctx context.Context, actor entity.Principal, refundID uuid.UUID, reason string) (*entity.RefundRequest, error)

	// CancelRequest withdraws the actor's own pending request.
	CancelRequest(ctx context.Context, actor entity.Principal, refundID uuid.UUID) error

	// ApproveRefund moves a pending request to APPROVED, recording the approver.
	ApproveRefund(ctx context.Context, actor entity.Principal, refundID uuid.UUID) (*entity.RefundRequest, error)

	// RejectRefund moves a pending request to REJECTED with a reason.
	RejectRefund(ctx context.Context, actor entity.Principal, input RejectRefundInput) (*entity.RefundRequest, error)

	// ListRefunds returns the actor's own requests, or all requests for
	// principals with the resolve capability.
	ListRefunds(ctx context.Context, actor entity.Principal) ([]*entity.RefundRequest, error)
}
