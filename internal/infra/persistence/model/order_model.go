package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table. Rows are never deleted; they are
// the audit trail of every sale.
type OrderModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          string          `gorm:"type:varchar(32);not null;default:'PROCESSING';index"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingAddress string          `gorm:"type:text;not null"`
	AddressID       *uuid.UUID      `gorm:"type:uuid"`
	CardLastFour    string          `gorm:"type:varchar(4)"`
	CardHolder      string          `gorm:"type:varchar(255)"`
	CardExpiry      string          `gorm:"type:varchar(7)"`
	DeliveredAt     *time.Time
	DeliveryNotes   string `gorm:"type:text"`
	IsApproved      bool   `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []*OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. PriceAtTime is written
// once at order creation and never updated.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity    int             `gorm:"not null;check:quantity >= 1"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time

	Order   *OrderModel   `gorm:"foreignKey:OrderID"`
	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
