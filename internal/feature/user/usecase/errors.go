// Package usecase implements the business logic for users and authentication.
package usecase

import "stayease_backend/internal/shared/apperr"

var (
	// ErrUserNotFound is returned when a user cannot be found by public id or email.
	ErrUserNotFound = apperr.NotFound("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = apperr.Conflict("email already exists")

	// ErrAuthorityNotFound is returned when a role name is not in the authorities table.
	ErrAuthorityNotFound = apperr.NotFound("authority not found")

	// ErrInvalidCredentials is returned by Login for an unknown email or wrong password.
	ErrInvalidCredentials = apperr.Unauthorized("invalid email or password")

	// ErrInvalidIDToken is returned when the identity provider token fails verification.
	ErrInvalidIDToken = apperr.Unauthorized("invalid identity token")

	// ErrUnauthenticated is returned when an operation requires a caller.
	ErrUnauthenticated = apperr.Unauthorized("authentication required")

	// ErrForbidden is returned when the caller is neither the target user nor an admin.
	ErrForbidden = apperr.Forbidden("access denied")

	// ErrRoleNotSelfAssignable is returned when registration requests a privileged role.
	ErrRoleNotSelfAssignable = apperr.Forbidden("role cannot be requested at registration")

	// ErrWeakPassword is returned when a password is shorter than minPasswordLength.
	ErrWeakPassword = apperr.BadRequest("password must be at least 8 characters long")
)
