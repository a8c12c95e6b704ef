package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/shared/identity"
)

// favoriteUsecase manages the caller's bookmarks.
type favoriteUsecase struct {
	listings  ListingRepository
	favorites FavoriteRepository
	tx        TxManager
	now       func() time.Time
}

// NewFavoriteUsecase creates a favoriteUsecase.
func NewFavoriteUsecase(listings ListingRepository, favorites FavoriteRepository, tx TxManager) *favoriteUsecase {
	return &favoriteUsecase{
		listings:  listings,
		favorites: favorites,
		tx:        tx,
		now:       time.Now,
	}
}

// ToggleFavorite adds the listing to the caller's favorites if absent and
// removes it if present. It returns the new membership.
func (u *favoriteUsecase) ToggleFavorite(ctx context.Context, caller identity.Caller, listingPublicID uuid.UUID) (bool, error) {
	if !caller.IsAuthenticated() {
		return false, ErrUnauthenticated
	}

	var favorited bool
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := u.listings.FindByPublicID(ctx, listingPublicID); err != nil {
			return err
		}

		removed, err := u.favorites.Remove(ctx, caller.PublicID, listingPublicID)
		if err != nil {
			return err
		}
		if removed {
			favorited = false
			return u.listings.AdjustFavoriteCount(ctx, listingPublicID, -1)
		}

		err = u.favorites.Add(ctx, &entity.Favorite{
			UserPublicID:    caller.PublicID,
			ListingPublicID: listingPublicID,
			CreatedAt:       u.now(),
		})
		if err != nil {
			return err
		}
		favorited = true
		return u.listings.AdjustFavoriteCount(ctx, listingPublicID, 1)
	})
	if err != nil {
		return false, err
	}

	slog.InfoContext(ctx, "favorite toggled", "listing", listingPublicID, "user", caller.PublicID, "favorited", favorited)
	return favorited, nil
}

// IsFavorited reports whether the caller has bookmarked the listing.
func (u *favoriteUsecase) IsFavorited(ctx context.Context, caller identity.Caller, listingPublicID uuid.UUID) (bool, error) {
	if !caller.IsAuthenticated() {
		return false, ErrUnauthenticated
	}
	return u.favorites.Exists(ctx, caller.PublicID, listingPublicID)
}

// ListFavorites pages through the listings the caller has bookmarked.
func (u *favoriteUsecase) ListFavorites(ctx context.Context, caller identity.Caller, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	if !caller.IsAuthenticated() {
		return entity.Page[entity.Listing]{}, ErrUnauthenticated
	}
	userID := caller.PublicID
	return u.listings.Search(ctx, entity.SearchCriteria{FavoritedBy: &userID}, page)
}
