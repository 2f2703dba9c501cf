// Package entity contains the core business objects of the project.
package entity

import "github.com/google/uuid"

// ProfileSnapshot is a denormalized, cache-friendly projection of a user and
// their address book. It is never authoritative: any write to the underlying
// data invalidates the snapshot, and a read miss rebuilds it.
type ProfileSnapshot struct {
	UserID      uuid.UUID  `json:"user_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	Phone       string     `json:"phone,omitempty"`
	Addresses   []*Address `json:"addresses"`
	MainAddress *Address   `json:"main_address,omitempty"`
}

// ProfileCacheKey derives the cache key for a user's profile snapshot.
func ProfileCacheKey(userID uuid.UUID) string {
	return "profile:user:" + userID.String()
}
