package model

import (
	"time"

	"github.com/google/uuid"
)

// RefundRequestModel mirrors the 'refund_requests' table.
type RefundRequestModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderItemID     uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Reason          string    `gorm:"type:text;not null"`
	Status          string    `gorm:"type:varchar(32);not null;default:'PENDING';index"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovalDate    *time.Time
	RejectionReason string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	OrderItem *OrderItemModel `gorm:"foreignKey:OrderItemID"`
}

// TableName explicitly sets the table name for GORM.
func (RefundRequestModel) TableName() string {
	return "refund_requests"
}
