package dto

import (
	"time"

	"github.com/google/uuid"

	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/platform/http/response"
)

// ImageRes is the public view of a listing image.
type ImageRes struct {
	PublicID     uuid.UUID `json:"publicId"`
	URL          string    `json:"url"`
	Caption      string    `json:"caption"`
	DisplayOrder int       `json:"displayOrder"`
	IsPrimary    bool      `json:"isPrimary"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ListingRes is the public view of a listing.
type ListingRes struct {
	PublicID         uuid.UUID `json:"publicId"`
	LandlordPublicID uuid.UUID `json:"landlordPublicId"`

	Title        string `json:"title"`
	Description  string `json:"description"`
	PropertyType string `json:"propertyType"`
	RoomType     string `json:"roomType"`
	Category     string `json:"category"`

	Location   string   `json:"location"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Country    string   `json:"country"`
	PostalCode string   `json:"postalCode"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`

	Bedrooms   int     `json:"bedrooms"`
	Beds       int     `json:"beds"`
	Bathrooms  float64 `json:"bathrooms"`
	MaxGuests  int     `json:"maxGuests"`
	SquareFeet *int    `json:"squareFeet"`

	Price                float64  `json:"price"`
	CleaningFee          *float64 `json:"cleaningFee"`
	ServiceFeePercentage *float64 `json:"serviceFeePercentage"`
	Currency             string   `json:"currency"`

	Amenities          []string        `json:"amenities"`
	HouseRules         map[string]bool `json:"houseRules"`
	CheckInTime        string          `json:"checkInTime"`
	CheckOutTime       string          `json:"checkOutTime"`
	MinNights          int             `json:"minNights"`
	MaxNights          int             `json:"maxNights"`
	InstantBook        bool            `json:"instantBook"`
	CancellationPolicy string          `json:"cancellationPolicy"`

	Status string `json:"status"`

	ViewCount     int     `json:"viewCount"`
	BookingCount  int     `json:"bookingCount"`
	FavoriteCount int     `json:"favoriteCount"`
	ReviewCount   int     `json:"reviewCount"`
	AverageRating float64 `json:"averageRating"`

	Images []ImageRes `json:"images"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// FavoriteRes reports favorite membership after a toggle or lookup.
type FavoriteRes struct {
	Favorited bool `json:"favorited"`
}

// FromListing maps an entity to its response shape.
func FromListing(l *entity.Listing) ListingRes {
	res := ListingRes{
		PublicID:             l.PublicID,
		LandlordPublicID:     l.LandlordPublicID,
		Title:                l.Title,
		Description:          l.Description,
		PropertyType:         l.PropertyType,
		RoomType:             l.RoomType,
		Category:             l.Category,
		Location:             l.Location,
		Address:              l.Address,
		City:                 l.City,
		State:                l.State,
		Country:              l.Country,
		PostalCode:           l.PostalCode,
		Latitude:             l.Latitude,
		Longitude:            l.Longitude,
		Bedrooms:             l.Bedrooms,
		Beds:                 l.Beds,
		Bathrooms:            l.Bathrooms,
		MaxGuests:            l.MaxGuests,
		SquareFeet:           l.SquareFeet,
		Price:                l.Price,
		CleaningFee:          l.CleaningFee,
		ServiceFeePercentage: l.ServiceFeePercentage,
		Currency:             l.Currency,
		Amenities:            l.Amenities,
		HouseRules:           l.HouseRules,
		CheckInTime:          l.CheckInTime,
		CheckOutTime:         l.CheckOutTime,
		MinNights:            l.MinNights,
		MaxNights:            l.MaxNights,
		InstantBook:          l.InstantBook,
		CancellationPolicy:   l.CancellationPolicy,
		Status:               string(l.Status),
		ViewCount:            l.ViewCount,
		BookingCount:         l.BookingCount,
		FavoriteCount:        l.FavoriteCount,
		ReviewCount:          l.ReviewCount,
		AverageRating:        l.AverageRating,
		Images:               make([]ImageRes, 0, len(l.Images)),
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
		PublishedAt:          l.PublishedAt,
	}
	if res.Amenities == nil {
		res.Amenities = []string{}
	}
	if res.HouseRules == nil {
		res.HouseRules = map[string]bool{}
	}
	for _, img := range l.Images {
		res.Images = append(res.Images, ImageRes{
			PublicID:     img.PublicID,
			URL:          img.URL,
			Caption:      img.Caption,
			DisplayOrder: img.DisplayOrder,
			IsPrimary:    img.IsPrimary,
			CreatedAt:    img.CreatedAt,
		})
	}
	return res
}

// FromPage maps a page of listings to the paginated payload.
func FromPage(p entity.Page[entity.Listing]) response.Page[ListingRes] {
	content := make([]ListingRes, 0, len(p.Items))
	for i := range p.Items {
		content = append(content, FromListing(&p.Items[i]))
	}
	return response.Page[ListingRes]{
		Content:       content,
		TotalElements: p.Total,
		TotalPages:    p.TotalPages(),
		Size:          p.Size,
		Number:        p.Page,
	}
}
