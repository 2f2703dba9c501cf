// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity in the system. Every order, cart, address, and
// refund request is ultimately owned by exactly one User.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Username     string    // The user's display name.
	Email        string    // The user's primary contact email, used as the login identifier.
	PasswordHash string    // Bcrypt hash of the user's password. Never serialized out.
	Role         Role      // The user's role: customer, sales manager, or product manager.
	Phone        string    // Optional contact phone number.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}

// Principal is the authenticated caller of an operation, extracted from the
// access token. It is deliberately smaller than User: operations decide on
// identity and role alone.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// Can evaluates a capability against the principal's role.
func (p Principal) Can(c Capability) Decision {
	return p.Role.Can(c)
}
