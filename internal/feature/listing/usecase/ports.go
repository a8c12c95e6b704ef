package usecase

import (
	"context"

	"github.com/google/uuid"

	"stayease_backend/internal/feature/listing/domain/entity"
)

// ListingRepository abstracts the persistence layer for listings and their images.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type ListingRepository interface {
	// Create persists the listing and its images, assigning IDs and timestamps.
	Create(ctx context.Context, listing *entity.Listing) error

	// FindByPublicID returns the listing with its images ordered by display order.
	// Returns ErrListingNotFound when absent.
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Listing, error)

	// Update writes every mutable scalar field of listing. Counters and images are untouched.
	Update(ctx context.Context, listing *entity.Listing) error

	// ReplaceImages deletes the stored images and inserts listing.Images.
	ReplaceImages(ctx context.Context, listing *entity.Listing) error

	// Delete removes the listing and its images.
	Delete(ctx context.Context, listing *entity.Listing) error

	Search(ctx context.Context, criteria entity.SearchCriteria, page entity.PageRequest) (entity.Page[entity.Listing], error)

	// Categories returns the distinct categories in use, sorted.
	Categories(ctx context.Context) ([]string, error)

	// IncrementViewCount returns ErrListingNotFound when absent.
	IncrementViewCount(ctx context.Context, publicID uuid.UUID) error

	// AdjustFavoriteCount adds delta to the counter, never going below zero.
	AdjustFavoriteCount(ctx context.Context, publicID uuid.UUID, delta int) error
}

// FavoriteRepository stores user bookmarks.
type FavoriteRepository interface {
	Exists(ctx context.Context, userPublicID, listingPublicID uuid.UUID) (bool, error)

	// Add returns ErrAlreadyFavorited when the pair exists.
	Add(ctx context.Context, favorite *entity.Favorite) error

	// Remove reports whether a row was deleted.
	Remove(ctx context.Context, userPublicID, listingPublicID uuid.UUID) (bool, error)

	DeleteByListing(ctx context.Context, listingPublicID uuid.UUID) error
}

// TxManager runs fn inside a single database transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
