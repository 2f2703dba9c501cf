package repository

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for refund persistence.
var (
	// ErrRefundNotFound is returned when a refund request is not found.
	ErrRefundNotFound = errors.New("refund request not found")
)

// RefundResolution carries the manager-side fields written when a pending
// refund request is approved or rejected.
type RefundResolution struct {
	ResolvedBy      uuid.UUID
	ResolvedAt      time.Time
	RejectionReason string
}

// RefundRepository defines the interface for refund request persistence.
type RefundRepository interface {
	// CreateRefund persists a new refund request.
	CreateRefund(ctx context.Context, refund *entity.RefundRequest) error

	// FindRefundByID retrieves a refund request with its order item preloaded.
	FindRefundByID(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error)

	// HasBlockingRefundForItem reports whether the order item already has a
	// refund request in a state that blocks a new one (pending or approved).
	HasBlockingRefundForItem(ctx context.Context, orderItemID uuid.UUID) (bool, error)

	// UpdateReason overwrites the reason of a refund request.
	UpdateReason(ctx context.Context, id uuid.UUID, reason string) error

	// DeleteRefund removes a refund request by its ID.
	DeleteRefund(ctx context.Context, id uuid.UUID) error

	// ResolveIf moves the refund request from one status to another only if it
	// is still in the expected status, stamping the resolution fields in the
	// same guarded update. Returns false when the guard did not match.
	ResolveIf(ctx context.Context, id uuid.UUID, from, to entity.RefundStatus, res RefundResolution) (bool, error)

	// ListRefundsByUser retrieves all refund requests filed by a user, newest first.
	ListRefundsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RefundRequest, error)

	// ListRefunds retrieves all refund requests, newest first. Manager views only.
	ListRefunds(ctx context.Context) ([]*entity.RefundRequest, error)
}
