// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address is a shipping destination in a user's address book.
// Each user has at most one main address; when the user holds at least one
// address, exactly one of them is main after any mutation completes.
type Address struct {
	ID            uuid.UUID // The Global Unique Identifier (GUID) for the address.
	UserID        uuid.UUID // The ID of the user that owns this address.
	Name          string    // A user-defined label, e.g., "Home", "Office".
	StreetAddress string    // Street and number.
	City          string
	State         string
	PostalCode    string
	Country       string
	IsMain        bool      // Indicates if this is the user's main shipping address.
	CreatedAt     time.Time // Timestamp of when this address was created.
	UpdatedAt     time.Time // Timestamp of the last modification.
}

// ShippingText renders the address as the single-line shipping string that is
// snapshotted onto an order at checkout.
func (a *Address) ShippingText() string {
	parts := []string{a.StreetAddress, a.City, a.State, a.PostalCode, a.Country}
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return strings.Join(nonEmpty, ", ")
}
