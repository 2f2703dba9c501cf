package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel mirrors the 'products' table. The catalog side of the
// platform owns most columns; this service reads them and owns only the
// stock counter, which is never written outside a guarded decrement.
type ProductModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name            string          `gorm:"type:varchar(255);not null"`
	Model           string          `gorm:"type:varchar(100)"`
	SerialNumber    string          `gorm:"type:varchar(100);unique"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(12,2)"`
	StockQuantity   int             `gorm:"not null;default:0;check:stock_quantity >= 0"`
	WarrantyMonths  int             `gorm:"not null;default:0"`
	DistributorInfo string          `gorm:"type:text"`
	IsVisible       bool            `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
