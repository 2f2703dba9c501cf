package service

import (
	"context"
)

// OrderPlacedTask is published after checkout commits, for async fulfillment
// work such as confirmation mail and warehouse picking.
type OrderPlacedTask struct {
	RequestID   string `json:"request_id,omitempty"` // For distributed tracing
	OrderID     string `json:"order_id"`
	UserID      string `json:"user_id"`
	TotalAmount string `json:"total_amount"`
	ItemCount   int    `json:"item_count"`
}

// OrderStatusChangedTask is published after a delivery-state transition commits.
type OrderStatusChangedTask struct {
	RequestID  string `json:"request_id,omitempty"`
	OrderID    string `json:"order_id"`
	UserID     string `json:"user_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// RefundResolvedTask is published after a refund request reaches a terminal state.
type RefundResolvedTask struct {
	RequestID string `json:"request_id,omitempty"`
	RefundID  string `json:"refund_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
}

// TaskPublisher defines the interface for publishing tasks to a message queue.
// Publishing is best-effort from the caller's point of view: the state change
// has already committed, so a failed publish is logged and never rolls it back.
type TaskPublisher interface {
	// PublishOrderPlaced publishes a checkout task for async processing.
	PublishOrderPlaced(ctx context.Context, task *OrderPlacedTask) error

	// PublishOrderStatusChanged publishes a delivery transition task.
	PublishOrderStatusChanged(ctx context.Context, task *OrderStatusChangedTask) error

	// PublishRefundResolved publishes a refund resolution task.
	PublishRefundResolved(ctx context.Context, task *RefundResolvedTask) error

	// Close releases any resources held by the publisher
	Close() error
}
