package model

import (
	"time"

	"github.com/google/uuid"
)

// AddressModel is the GORM-specific struct for the 'addresses' table.
// Deleting a user cascades to their addresses.
type AddressModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(100)"`
	StreetAddress string    `gorm:"type:varchar(255);not null"`
	City          string    `gorm:"type:varchar(100)"`
	State         string    `gorm:"type:varchar(100)"`
	PostalCode    string    `gorm:"type:varchar(20)"`
	Country       string    `gorm:"type:varchar(100)"`
	IsMain        bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (AddressModel) TableName() string {
	return "addresses"
}
