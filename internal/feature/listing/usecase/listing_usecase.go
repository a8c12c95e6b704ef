package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/shared/apperr"
	"stayease_backend/internal/shared/identity"
)

// ImageInput describes one image in a create or update request.
type ImageInput struct {
	URL       string
	Caption   string
	IsPrimary bool
}

// CreateListingInput carries the fields accepted when creating a listing.
type CreateListingInput struct {
	Title        string
	Description  string
	PropertyType string
	RoomType     string
	Category     string

	Location   string
	Address    string
	City       string
	State      string
	Country    string
	PostalCode string
	Latitude   *float64
	Longitude  *float64

	Bedrooms   int
	Beds       int
	Bathrooms  float64
	MaxGuests  int
	SquareFeet *int

	Price                float64
	CleaningFee          *float64
	ServiceFeePercentage *float64
	Currency             string

	Amenities          []string
	HouseRules         map[string]bool
	CheckInTime        string
	CheckOutTime       string
	MinNights          *int
	MaxNights          *int
	InstantBook        bool
	CancellationPolicy string

	Images []ImageInput
}

// UpdateListingInput is a partial update. Nil pointers, slices and maps are left unchanged;
// a non-nil Images replaces the whole image collection.
type UpdateListingInput struct {
	Title        *string
	Description  *string
	PropertyType *string
	RoomType     *string
	Category     *string

	Location   *string
	Address    *string
	City       *string
	State      *string
	Country    *string
	PostalCode *string
	Latitude   *float64
	Longitude  *float64

	Bedrooms   *int
	Beds       *int
	Bathrooms  *float64
	MaxGuests  *int
	SquareFeet *int

	Price                *float64
	CleaningFee          *float64
	ServiceFeePercentage *float64
	Currency             *string

	Amenities          []string
	HouseRules         map[string]bool
	CheckInTime        *string
	CheckOutTime       *string
	MinNights          *int
	MaxNights          *int
	InstantBook        *bool
	CancellationPolicy *string

	Images []ImageInput
}

// SearchInput holds the optional filters of a listing search.
type SearchInput struct {
	Location string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Guests   *int
	SortBy   string
	Page     int
	Size     int
}

// listingUsecase implements listing management and browsing.
type listingUsecase struct {
	listings  ListingRepository
	favorites FavoriteRepository
	tx        TxManager
	now       func() time.Time
}

// NewListingUsecase creates a listingUsecase.
func NewListingUsecase(listings ListingRepository, favorites FavoriteRepository, tx TxManager) *listingUsecase {
	return &listingUsecase{
		listings:  listings,
		favorites: favorites,
		tx:        tx,
		now:       time.Now,
	}
}

// CreateListing stores a new DRAFT listing owned by the caller.
func (u *listingUsecase) CreateListing(ctx context.Context, caller identity.Caller, in CreateListingInput) (*entity.Listing, error) {
	if !caller.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if !caller.HasAnyRole(identity.RoleLandlord, identity.RoleAdmin) {
		return nil, ErrNotLandlord
	}

	l := &entity.Listing{
		PublicID:             uuid.New(),
		LandlordPublicID:     caller.PublicID,
		Title:                strings.TrimSpace(in.Title),
		Description:          in.Description,
		PropertyType:         in.PropertyType,
		RoomType:             in.RoomType,
		Category:             strings.TrimSpace(in.Category),
		Location:             strings.TrimSpace(in.Location),
		Address:              in.Address,
		City:                 in.City,
		State:                in.State,
		Country:              in.Country,
		PostalCode:           in.PostalCode,
		Latitude:             in.Latitude,
		Longitude:            in.Longitude,
		Bedrooms:             in.Bedrooms,
		Beds:                 in.Beds,
		Bathrooms:            in.Bathrooms,
		MaxGuests:            in.MaxGuests,
		SquareFeet:           in.SquareFeet,
		Price:                in.Price,
		CleaningFee:          in.CleaningFee,
		ServiceFeePercentage: in.ServiceFeePercentage,
		Currency:             normalizeCurrency(in.Currency),
		Amenities:            in.Amenities,
		HouseRules:           in.HouseRules,
		CheckInTime:          in.CheckInTime,
		CheckOutTime:         in.CheckOutTime,
		MinNights:            entity.DefaultMinNights,
		MaxNights:            entity.DefaultMaxNights,
		InstantBook:          in.InstantBook,
		CancellationPolicy:   in.CancellationPolicy,
		Status:               entity.StatusDraft,
	}
	if in.MinNights != nil {
		l.MinNights = *in.MinNights
	}
	if in.MaxNights != nil {
		l.MaxNights = *in.MaxNights
	}
	if l.Category == "" {
		l.Category = l.PropertyType
	}
	l.RefreshLocation()
	l.SetImages(toImages(in.Images))

	if err := checkConsistency(l); err != nil {
		return nil, err
	}

	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		return u.listings.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "listing created", "public_id", l.PublicID, "landlord", caller.PublicID)
	return l, nil
}

// GetListing returns a listing with its images.
func (u *listingUsecase) GetListing(ctx context.Context, publicID uuid.UUID) (*entity.Listing, error) {
	return u.listings.FindByPublicID(ctx, publicID)
}

// UpdateListing applies in to a listing the caller may manage.
func (u *listingUsecase) UpdateListing(ctx context.Context, caller identity.Caller, publicID uuid.UUID, in UpdateListingInput) (*entity.Listing, error) {
	var updated *entity.Listing
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := u.loadManageable(ctx, caller, publicID)
		if err != nil {
			return err
		}

		applyUpdate(l, in)
		if err := checkConsistency(l); err != nil {
			return err
		}
		if err := u.listings.Update(ctx, l); err != nil {
			return err
		}
		if in.Images != nil {
			l.SetImages(toImages(in.Images))
			if err := u.listings.ReplaceImages(ctx, l); err != nil {
				return err
			}
		}

		updated, err = u.listings.FindByPublicID(ctx, publicID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "listing updated", "public_id", publicID, "caller", caller.PublicID)
	return updated, nil
}

// DeleteListing removes a listing together with its images and favorites.
func (u *listingUsecase) DeleteListing(ctx context.Context, caller identity.Caller, publicID uuid.UUID) error {
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := u.loadManageable(ctx, caller, publicID)
		if err != nil {
			return err
		}
		if err := u.favorites.DeleteByListing(ctx, l.PublicID); err != nil {
			return err
		}
		return u.listings.Delete(ctx, l)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "listing deleted", "public_id", publicID, "caller", caller.PublicID)
	return nil
}

// PublishListing moves a DRAFT or INACTIVE listing to ACTIVE.
func (u *listingUsecase) PublishListing(ctx context.Context, caller identity.Caller, publicID uuid.UUID) (*entity.Listing, error) {
	return u.transition(ctx, caller, publicID, func(l *entity.Listing) error {
		if !l.CanPublish() {
			return ErrAlreadyPublished
		}
		l.Publish(u.now())
		return nil
	})
}

// UnpublishListing moves an ACTIVE listing to INACTIVE.
func (u *listingUsecase) UnpublishListing(ctx context.Context, caller identity.Caller, publicID uuid.UUID) (*entity.Listing, error) {
	return u.transition(ctx, caller, publicID, func(l *entity.Listing) error {
		if !l.CanUnpublish() {
			return ErrNotPublished
		}
		l.Unpublish()
		return nil
	})
}

func (u *listingUsecase) transition(ctx context.Context, caller identity.Caller, publicID uuid.UUID, apply func(*entity.Listing) error) (*entity.Listing, error) {
	var out *entity.Listing
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := u.loadManageable(ctx, caller, publicID)
		if err != nil {
			return err
		}
		if err := apply(l); err != nil {
			return err
		}
		if err := u.listings.Update(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "listing status changed", "public_id", publicID, "status", out.Status)
	return out, nil
}

// SearchListings filters listings; absent criteria impose no constraint.
func (u *listingUsecase) SearchListings(ctx context.Context, in SearchInput) (entity.Page[entity.Listing], error) {
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return entity.Page[entity.Listing]{}, apperr.Validation(map[string]string{
			"minPrice": "must not exceed maxPrice",
		})
	}

	criteria := entity.SearchCriteria{
		Location: strings.TrimSpace(in.Location),
		Category: strings.TrimSpace(in.Category),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Guests:   in.Guests,
	}
	page := entity.NewPageRequest(in.Page, in.Size).WithSortBy(in.SortBy)
	return u.listings.Search(ctx, criteria, page)
}

// ListListings pages through every listing.
func (u *listingUsecase) ListListings(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	return u.listings.Search(ctx, entity.SearchCriteria{}, page)
}

// ListByCategory pages through listings of one category.
func (u *listingUsecase) ListByCategory(ctx context.Context, category string, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	return u.listings.Search(ctx, entity.SearchCriteria{Category: strings.TrimSpace(category)}, page)
}

// ListMine pages through the caller's own listings.
func (u *listingUsecase) ListMine(ctx context.Context, caller identity.Caller, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	if !caller.IsAuthenticated() {
		return entity.Page[entity.Listing]{}, ErrUnauthenticated
	}
	return u.ListByLandlord(ctx, caller.PublicID, page)
}

// ListByLandlord pages through the listings owned by landlordPublicID.
func (u *listingUsecase) ListByLandlord(ctx context.Context, landlordPublicID uuid.UUID, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	return u.listings.Search(ctx, entity.SearchCriteria{LandlordPublicID: &landlordPublicID}, page)
}

// Categories returns the categories currently in use.
func (u *listingUsecase) Categories(ctx context.Context) ([]string, error) {
	return u.listings.Categories(ctx)
}

// IncrementViewCount records one view. No authentication is required.
func (u *listingUsecase) IncrementViewCount(ctx context.Context, publicID uuid.UUID) error {
	return u.listings.IncrementViewCount(ctx, publicID)
}

// loadManageable fetches the listing and applies the ownership predicate.
func (u *listingUsecase) loadManageable(ctx context.Context, caller identity.Caller, publicID uuid.UUID) (*entity.Listing, error) {
	if !caller.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	l, err := u.listings.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !l.ManageableBy(caller) {
		slog.WarnContext(ctx, "listing access denied", "public_id", publicID, "caller", caller.PublicID)
		return nil, ErrForbidden
	}
	return l, nil
}

func applyUpdate(l *entity.Listing, in UpdateListingInput) {
	setString(&l.Title, in.Title)
	setString(&l.Description, in.Description)
	setString(&l.PropertyType, in.PropertyType)
	setString(&l.RoomType, in.RoomType)
	setString(&l.Category, in.Category)
	setString(&l.Address, in.Address)
	setString(&l.PostalCode, in.PostalCode)
	setString(&l.CheckInTime, in.CheckInTime)
	setString(&l.CheckOutTime, in.CheckOutTime)
	setString(&l.CancellationPolicy, in.CancellationPolicy)

	if in.Location != nil {
		l.Location = strings.TrimSpace(*in.Location)
	}
	if in.City != nil || in.State != nil || in.Country != nil {
		setString(&l.City, in.City)
		setString(&l.State, in.State)
		setString(&l.Country, in.Country)
		l.RefreshLocation()
	}
	if in.Latitude != nil {
		l.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		l.Longitude = in.Longitude
	}

	setInt(&l.Bedrooms, in.Bedrooms)
	setInt(&l.Beds, in.Beds)
	setInt(&l.MaxGuests, in.MaxGuests)
	setInt(&l.MinNights, in.MinNights)
	setInt(&l.MaxNights, in.MaxNights)
	if in.Bathrooms != nil {
		l.Bathrooms = *in.Bathrooms
	}
	if in.SquareFeet != nil {
		l.SquareFeet = in.SquareFeet
	}

	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.CleaningFee != nil {
		l.CleaningFee = in.CleaningFee
	}
	if in.ServiceFeePercentage != nil {
		l.ServiceFeePercentage = in.ServiceFeePercentage
	}
	if in.Currency != nil {
		l.Currency = normalizeCurrency(*in.Currency)
	}
	if in.Amenities != nil {
		l.Amenities = in.Amenities
	}
	if in.HouseRules != nil {
		l.HouseRules = in.HouseRules
	}
	if in.InstantBook != nil {
		l.InstantBook = *in.InstantBook
	}
}

// checkConsistency validates rules that span several fields.
func checkConsistency(l *entity.Listing) error {
	fields := map[string]string{}
	if l.Title == "" {
		fields["title"] = "is required"
	}
	if l.Location == "" {
		fields["location"] = "is required when city and country are absent"
	}
	if l.Category == "" {
		fields["category"] = "is required when propertyType is absent"
	}
	if l.MinNights < 1 {
		fields["minNights"] = "must be at least 1"
	}
	if l.MaxNights < l.MinNights {
		fields["maxNights"] = "must not be less than minNights"
	}
	if len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}

func toImages(in []ImageInput) []entity.ListingImage {
	if in == nil {
		return nil
	}
	out := make([]entity.ListingImage, 0, len(in))
	for _, img := range in {
		out = append(out, entity.ListingImage{
			URL:       strings.TrimSpace(img.URL),
			Caption:   img.Caption,
			IsPrimary: img.IsPrimary,
		})
	}
	return out
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return entity.DefaultCurrency
	}
	return c
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
