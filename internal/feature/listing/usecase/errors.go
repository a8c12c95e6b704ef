package usecase

import "stayease_backend/internal/shared/apperr"

var (
	// ErrListingNotFound is returned when no listing has the requested public id.
	ErrListingNotFound = apperr.NotFound("listing not found")

	// ErrForbidden is returned when the caller neither owns the listing nor is an administrator.
	ErrForbidden = apperr.Forbidden("you don't have permission to modify this listing")

	// ErrNotLandlord is returned when a caller without the landlord or admin role creates a listing.
	ErrNotLandlord = apperr.Forbidden("only landlords can create listings")

	// ErrUnauthenticated is returned when an operation needs a signed-in caller.
	ErrUnauthenticated = apperr.Unauthorized("authentication required")

	ErrAlreadyPublished = apperr.BadRequest("listing is already active")
	ErrNotPublished     = apperr.BadRequest("only active listings can be unpublished")

	// ErrAlreadyFavorited surfaces a duplicate favorite insert.
	ErrAlreadyFavorited = apperr.Conflict("listing is already in favorites")
)
