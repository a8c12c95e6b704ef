// Package identity carries the authenticated caller from the HTTP boundary
// into usecases as an explicit value.
package identity

import (
	"slices"

	"github.com/google/uuid"
)

// Role names stored in the authorities table.
const (
	RoleTenant          = "ROLE_TENANT"
	RoleLandlord        = "ROLE_LANDLORD"
	RoleAdmin           = "ROLE_ADMIN"
	RoleServiceProvider = "ROLE_SERVICE_PROVIDER"
)

// AllRoles lists every authority seeded at migration time.
var AllRoles = []string{RoleTenant, RoleLandlord, RoleAdmin, RoleServiceProvider}

// Caller is the resolved principal of a request. The zero value is anonymous.
type Caller struct {
	PublicID uuid.UUID
	Email    string
	Roles    []string
}

// Anonymous returns the unauthenticated caller.
func Anonymous() Caller { return Caller{} }

// IsAuthenticated reports whether the caller was resolved from a credential.
func (c Caller) IsAuthenticated() bool {
	return c.PublicID != uuid.Nil
}

// HasRole reports whether the caller holds role.
func (c Caller) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the caller holds at least one of roles.
func (c Caller) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// IsAdmin is HasRole(RoleAdmin).
func (c Caller) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// IsSelfOrAdmin reports whether the caller is the given user or an admin.
func (c Caller) IsSelfOrAdmin(publicID uuid.UUID) bool {
	if !c.IsAuthenticated() {
		return false
	}
	return c.PublicID == publicID || c.IsAdmin()
}

// IsKnownRole reports whether name is one of AllRoles.
func IsKnownRole(name string) bool {
	return slices.Contains(AllRoles, name)
}
