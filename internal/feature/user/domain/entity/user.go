// Package entity defines the domain entities for the user feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account.
// Equality is by PublicID; ID never leaves the service.
type User struct {
	ID       uint      `gorm:"primaryKey"`
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	// Email must be unique across all users.
	Email     string `gorm:"uniqueIndex;size:255;not null"`
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`
	ImageURL  string `gorm:"size:500"`

	// PasswordHash is nil for accounts created through the identity provider.
	PasswordHash *string `gorm:"size:255"`
	Verified     bool    `gorm:"not null;default:false"`

	// TokensValidAfter rejects access tokens issued before it. Set when an
	// unverified account is claimed through the identity provider.
	TokensValidAfter *time.Time

	Authorities []UserAuthority `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a public id on first persist.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.PublicID == uuid.Nil {
		u.PublicID = uuid.New()
	}
	return nil
}

// RoleNames returns the granted authority names.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Authorities))
	for _, a := range u.Authorities {
		names = append(names, a.AuthorityName)
	}
	return names
}

// AcceptsTokenIssuedAt reports whether a token issued at iat is still honoured.
func (u *User) AcceptsTokenIssuedAt(iat time.Time) bool {
	return u.TokensValidAfter == nil || !iat.Before(*u.TokensValidAfter)
}

// HasPassword reports whether the user can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Authority is a named role. The name is the primary key.
type Authority struct {
	Name        string `gorm:"primaryKey;size:50"`
	Description string `gorm:"size:255"`
}

// UserAuthority grants an Authority to a User.
type UserAuthority struct {
	UserID        uint       `gorm:"primaryKey"`
	AuthorityName string     `gorm:"primaryKey;size:50"`
	Authority     *Authority `gorm:"foreignKey:AuthorityName;references:Name"`
	AssignedAt    time.Time  `gorm:"autoCreateTime"`
}

// ExternalIdentity holds the profile claims of a verified identity-provider token.
type ExternalIdentity struct {
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
}
