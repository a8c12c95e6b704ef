// Package entity defines the domain entities for the listing feature.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"stayease_backend/internal/shared/identity"
)

// Status is the publication state of a listing.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Defaults applied when a listing is created without explicit values.
const (
	DefaultCurrency  = "USD"
	DefaultMinNights = 1
	DefaultMaxNights = 365
)

// Listing is a rentable property owned by a landlord.
type Listing struct {
	ID               uint
	PublicID         uuid.UUID
	LandlordPublicID uuid.UUID

	Title        string
	Description  string
	PropertyType string
	RoomType     string
	Category     string

	// Location is the display string derived from City, State and Country.
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
	CheckInTime        string // HH:MM
	CheckOutTime       string // HH:MM
	MinNights          int
	MaxNights          int
	InstantBook        bool
	CancellationPolicy string

	Status Status

	ViewCount     int
	BookingCount  int
	FavoriteCount int
	ReviewCount   int
	AverageRating float64

	Images []ListingImage

	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
}

// ListingImage is a photo attached to a listing, ordered by DisplayOrder.
type ListingImage struct {
	ID           uint
	PublicID     uuid.UUID
	URL          string
	Caption      string
	DisplayOrder int
	IsPrimary    bool
	CreatedAt    time.Time
}

// Favorite is a user's bookmark on a listing. A pair is stored at most once.
type Favorite struct {
	ID              uint
	UserPublicID    uuid.UUID
	ListingPublicID uuid.UUID
	CreatedAt       time.Time
}

// ManageableBy reports whether caller may modify the listing:
// the owning landlord or an administrator.
func (l *Listing) ManageableBy(caller identity.Caller) bool {
	if !caller.IsAuthenticated() {
		return false
	}
	return l.LandlordPublicID == caller.PublicID || caller.IsAdmin()
}

// CanPublish reports whether the listing may move to ACTIVE.
func (l *Listing) CanPublish() bool {
	return l.Status == StatusDraft || l.Status == StatusInactive
}

// CanUnpublish reports whether the listing may move to INACTIVE.
func (l *Listing) CanUnpublish() bool {
	return l.Status == StatusActive
}

// Publish moves the listing to ACTIVE and stamps the publish time.
func (l *Listing) Publish(now time.Time) {
	l.Status = StatusActive
	l.PublishedAt = &now
}

// Unpublish moves the listing to INACTIVE. PublishedAt is kept.
func (l *Listing) Unpublish() {
	l.Status = StatusInactive
}

// SetImages replaces the image list, numbering DisplayOrder from 0 in the
// order given. When no image is flagged primary the first one becomes primary.
func (l *Listing) SetImages(images []ListingImage) {
	out := make([]ListingImage, len(images))
	hasPrimary := false
	for i, img := range images {
		img.ID = 0
		img.DisplayOrder = i
		if img.PublicID == uuid.Nil {
			img.PublicID = uuid.New()
		}
		if img.IsPrimary {
			if hasPrimary {
				img.IsPrimary = false
			}
			hasPrimary = true
		}
		out[i] = img
	}
	if !hasPrimary && len(out) > 0 {
		out[0].IsPrimary = true
	}
	l.Images = out
}

// RefreshLocation rebuilds Location from the address parts.
// An explicit location is kept when no parts are set.
func (l *Listing) RefreshLocation() {
	if loc := DisplayLocation(l.City, l.State, l.Country); loc != "" {
		l.Location = loc
	}
}

// DisplayLocation joins the non-empty parts with ", ".
func DisplayLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
