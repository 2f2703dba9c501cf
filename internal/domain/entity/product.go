// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. The transactional core treats products as
// read-mostly: the only field it ever writes is StockQuantity, and that write
// always goes through the repository's atomic conditional decrement.
type Product struct {
	ID              uuid.UUID       // The Global Unique Identifier (GUID) for the product.
	Name            string          // Display name.
	Model           string          // Manufacturer model designation.
	SerialNumber    string          // Unique serial number.
	Description     string          // Free-text description.
	Price           decimal.Decimal // Current sell price; snapshotted onto order items at checkout.
	CostPrice       decimal.Decimal // Purchase cost, visible to managers only.
	StockQuantity   int             // Units on hand. Never negative after a committed operation.
	WarrantyMonths  int             // Warranty period in months.
	DistributorInfo string          // Supplier contact details.
	IsVisible       bool            // Sales-manager approval gate for the storefront.
	CreatedAt       time.Time       // Timestamp of when this product was created.
	UpdatedAt       time.Time       // Timestamp of the last modification.
}
