package model

import (
	"time"

	"github.com/google/uuid"
)

// CartModel mirrors the 'carts' table. Exactly one of UserID and
// SessionToken is set; a partial unique index on each keeps one cart per
// owner. The check constraint enforces the exclusive-or at the store level.
type CartModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID       *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_carts_user,where:user_id IS NOT NULL"`
	SessionToken *string    `gorm:"type:varchar(128);uniqueIndex:idx_carts_session,where:session_token IS NOT NULL"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []*CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel mirrors the 'cart_items' table. A product appears at most
// once per cart.
type CartItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity  int       `gorm:"not null;check:quantity >= 1"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
