// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartOwner is a tagged union: a cart belongs to either a registered user or
// an anonymous session, never both. Construct values only through OwnerForUser
// and OwnerForSession so the mutual exclusion holds at the type level.
type CartOwner struct {
	userID       uuid.UUID
	sessionToken string
	isUser       bool
}

// OwnerForUser builds a cart owner for a registered user.
func OwnerForUser(userID uuid.UUID) CartOwner {
	return CartOwner{userID: userID, isUser: true}
}

// OwnerForSession builds a cart owner for an anonymous session token.
func OwnerForSession(token string) CartOwner {
	return CartOwner{sessionToken: token}
}

// IsUser reports whether the owner is a registered user.
func (o CartOwner) IsUser() bool {
	return o.isUser
}

// UserID returns the owning user's ID and whether the owner is a user.
func (o CartOwner) UserID() (uuid.UUID, bool) {
	return o.userID, o.isUser
}

// SessionToken returns the anonymous session token and whether the owner is a session.
func (o CartOwner) SessionToken() (string, bool) {
	return o.sessionToken, !o.isUser
}

// IsZero reports whether the owner is uninitialized.
func (o CartOwner) IsZero() bool {
	return !o.isUser && o.sessionToken == ""
}

// CacheKey derives the cache key under which this owner's cart view is stored.
func (o CartOwner) CacheKey() string {
	if o.isUser {
		return "cart:user:" + o.userID.String()
	}

	return "cart:session:" + o.sessionToken
}

// Cart is the mutable bag of product lines an owner accumulates before
// checkout. It is the source of truth for intent-to-buy until the checkout
// transaction converts it into an immutable order.
type Cart struct {
	ID        uuid.UUID
	Owner     CartOwner
	Items     []*CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is a single (product, quantity) line. Quantity is always >= 1;
// a line is removed rather than zeroed.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Product   *Product // Enriched on read; nil when the catalog row has vanished.
}

// FindItem returns the line for the given product, or nil if absent.
func (c *Cart) FindItem(productID uuid.UUID) *CartItem {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item
		}
	}

	return nil
}

// Total computes the cart total from the current product prices of enriched
// lines. Lines whose product is missing contribute nothing. The total is
// always computed, never stored.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		if item.Product == nil {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total
}
