package adapters

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/feature/listing/usecase"
	platformdb "stayease_backend/internal/platform/db"
)

type favoriteGorm struct {
	db *gorm.DB
}

var _ usecase.FavoriteRepository = (*favoriteGorm)(nil)

// NewFavoriteGorm creates a favorite repository.
func NewFavoriteGorm(db *gorm.DB) *favoriteGorm {
	return &favoriteGorm{db: db}
}

func (r *favoriteGorm) Exists(ctx context.Context, userPublicID, listingPublicID uuid.UUID) (bool, error) {
	var count int64
	err := platformdb.Conn(ctx, r.db).
		Model(&FavoriteModel{}).
		Where("user_public_id = ? AND listing_public_id = ?", userPublicID, listingPublicID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts the pair; a duplicate maps to usecase.ErrAlreadyFavorited.
func (r *favoriteGorm) Add(ctx context.Context, f *entity.Favorite) error {
	m := &FavoriteModel{
		UserPublicID:    f.UserPublicID,
		ListingPublicID: f.ListingPublicID,
		CreatedAt:       f.CreatedAt,
	}
	if err := platformdb.Conn(ctx, r.db).Create(m).Error; err != nil {
		if platformdb.IsDuplicateKey(err) {
			return usecase.ErrAlreadyFavorited
		}
		return err
	}
	f.ID = m.ID
	f.CreatedAt = m.CreatedAt
	return nil
}

func (r *favoriteGorm) Remove(ctx context.Context, userPublicID, listingPublicID uuid.UUID) (bool, error) {
	result := platformdb.Conn(ctx, r.db).
		Where("user_public_id = ? AND listing_public_id = ?", userPublicID, listingPublicID).
		Delete(&FavoriteModel{})
	return result.RowsAffected > 0, result.Error
}

func (r *favoriteGorm) DeleteByListing(ctx context.Context, listingPublicID uuid.UUID) error {
	return platformdb.Conn(ctx, r.db).
		Where("listing_public_id = ?", listingPublicID).
		Delete(&FavoriteModel{}).Error
}
