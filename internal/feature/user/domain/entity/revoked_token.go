package entity

import (
	"time"

	"github.com/google/uuid"
)

// RevokedToken records an access token invalidated by logout.
// It only needs to be kept until the token would have expired anyway.
type RevokedToken struct {
	ID           string    // Token jti
	UserPublicID uuid.UUID // Owner of the token
	ExpiresAt    time.Time // Original token expiry
	RevokedAt    time.Time
}

// IsExpired returns true if the underlying token has passed its expiration time.
func (r *RevokedToken) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}
