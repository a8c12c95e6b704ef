// Package adapters はlistingフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stayease_backend/internal/feature/listing/domain/entity"
)

// ListingModel is the GORM model for the listings table.
// LandlordPublicID references users.public_id without a database constraint.
type ListingModel struct {
	ID               uint      `gorm:"primaryKey"`
	PublicID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	LandlordPublicID uuid.UUID `gorm:"type:uuid;index;not null"`

	Title        string `gorm:"size:255;not null"`
	Description  string `gorm:"type:text"`
	PropertyType string `gorm:"size:50"`
	RoomType     string `gorm:"size:50"`
	Category     string `gorm:"size:100;index;not null"`

	Location   string `gorm:"size:255;not null"`
	Address    string `gorm:"type:text"`
	City       string `gorm:"size:100"`
	State      string `gorm:"size:100"`
	Country    string `gorm:"size:100"`
	PostalCode string `gorm:"size:20"`
	Latitude   *float64
	Longitude  *float64

	Bedrooms   int     `gorm:"not null;default:0"`
	Beds       int     `gorm:"not null;default:1"`
	Bathrooms  float64 `gorm:"not null;default:0"`
	MaxGuests  int     `gorm:"not null;default:1"`
	SquareFeet *int

	Price                float64 `gorm:"not null;index"`
	CleaningFee          *float64
	ServiceFeePercentage *float64
	Currency             string `gorm:"size:10;not null;default:'USD'"`

	// JSON-encoded columns
	Amenities  string `gorm:"type:text"`
	HouseRules string `gorm:"type:text"`

	CheckInTime        string `gorm:"size:5"`
	CheckOutTime       string `gorm:"size:5"`
	MinNights          int    `gorm:"not null;default:1"`
	MaxNights          int    `gorm:"not null;default:365"`
	InstantBook        bool   `gorm:"not null;default:false"`
	CancellationPolicy string `gorm:"size:50"`

	Status string `gorm:"size:20;index;not null;default:'DRAFT'"`

	ViewCount     int     `gorm:"not null;default:0"`
	BookingCount  int     `gorm:"not null;default:0"`
	FavoriteCount int     `gorm:"not null;default:0"`
	ReviewCount   int     `gorm:"not null;default:0"`
	AverageRating float64 `gorm:"not null;default:0"`

	Images []ListingImageModel `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`

	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
	PublishedAt *time.Time
}

// TableName returns the table name for GORM.
func (ListingModel) TableName() string {
	return "listings"
}

// ListingImageModel is the GORM model for the listing_images table.
type ListingImageModel struct {
	ID           uint      `gorm:"primaryKey"`
	PublicID     uuid.UUID `gorm:"type:uuid;index"`
	ListingID    uint      `gorm:"index;not null"`
	URL          string    `gorm:"size:1000;not null"`
	Caption      string    `gorm:"size:255"`
	DisplayOrder int       `gorm:"not null;default:0"`
	IsPrimary    bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

// TableName returns the table name for GORM.
func (ListingImageModel) TableName() string {
	return "listing_images"
}

// FavoriteModel is the GORM model for the favorite_listings table.
type FavoriteModel struct {
	ID              uint      `gorm:"primaryKey"`
	UserPublicID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_listing"`
	ListingPublicID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_listing;index"`
	CreatedAt       time.Time
}

// TableName returns the table name for GORM.
func (FavoriteModel) TableName() string {
	return "favorite_listings"
}

// Models lists the tables owned by the listing feature, in migration order.
func Models() []any {
	return []any{&ListingModel{}, &ListingImageModel{}, &FavoriteModel{}}
}

// ToEntity converts the GORM model to a domain entity.
func (m *ListingModel) ToEntity() *entity.Listing {
	l := &entity.Listing{
		ID:                   m.ID,
		PublicID:             m.PublicID,
		LandlordPublicID:     m.LandlordPublicID,
		Title:                m.Title,
		Description:          m.Description,
		PropertyType:         m.PropertyType,
		RoomType:             m.RoomType,
		Category:             m.Category,
		Location:             m.Location,
		Address:              m.Address,
		City:                 m.City,
		State:                m.State,
		Country:              m.Country,
		PostalCode:           m.PostalCode,
		Latitude:             m.Latitude,
		Longitude:            m.Longitude,
		Bedrooms:             m.Bedrooms,
		Beds:                 m.Beds,
		Bathrooms:            m.Bathrooms,
		MaxGuests:            m.MaxGuests,
		SquareFeet:           m.SquareFeet,
		Price:                m.Price,
		CleaningFee:          m.CleaningFee,
		ServiceFeePercentage: m.ServiceFeePercentage,
		Currency:             m.Currency,
		Amenities:            decodeAmenities(m.Amenities),
		HouseRules:           decodeHouseRules(m.HouseRules),
		CheckInTime:          m.CheckInTime,
		CheckOutTime:         m.CheckOutTime,
		MinNights:            m.MinNights,
		MaxNights:            m.MaxNights,
		InstantBook:          m.InstantBook,
		CancellationPolicy:   m.CancellationPolicy,
		Status:               entity.Status(m.Status),
		ViewCount:            m.ViewCount,
		BookingCount:         m.BookingCount,
		FavoriteCount:        m.FavoriteCount,
		ReviewCount:          m.ReviewCount,
		AverageRating:        m.AverageRating,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
		PublishedAt:          m.PublishedAt,
		Images:               make([]entity.ListingImage, 0, len(m.Images)),
	}
	for i := range m.Images {
		l.Images = append(l.Images, m.Images[i].ToEntity())
	}
	return l
}

// ListingModelFromEntity converts a domain entity to a GORM model, images included.
func ListingModelFromEntity(l *entity.Listing) *ListingModel {
	m := &ListingModel{
		ID:                   l.ID,
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
		Amenities:            encodeAmenities(l.Amenities),
		HouseRules:           encodeHouseRules(l.HouseRules),
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
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
		PublishedAt:          l.PublishedAt,
	}
	m.Images = imageModels(l.ID, l.Images)
	return m
}

// ToEntity converts the GORM model to a domain entity.
func (m *ListingImageModel) ToEntity() entity.ListingImage {
	return entity.ListingImage{
		ID:           m.ID,
		PublicID:     m.PublicID,
		URL:          m.URL,
		Caption:      m.Caption,
		DisplayOrder: m.DisplayOrder,
		IsPrimary:    m.IsPrimary,
		CreatedAt:    m.CreatedAt,
	}
}

func imageModels(listingID uint, images []entity.ListingImage) []ListingImageModel {
	if len(images) == 0 {
		return nil
	}
	out := make([]ListingImageModel, 0, len(images))
	for _, img := range images {
		out = append(out, ListingImageModel{
			ID:           img.ID,
			PublicID:     img.PublicID,
			ListingID:    listingID,
			URL:          img.URL,
			Caption:      img.Caption,
			DisplayOrder: img.DisplayOrder,
			IsPrimary:    img.IsPrimary,
			CreatedAt:    img.CreatedAt,
		})
	}
	return out
}

// ToEntity converts the GORM model to a domain entity.
func (m *FavoriteModel) ToEntity() entity.Favorite {
	return entity.Favorite{
		ID:              m.ID,
		UserPublicID:    m.UserPublicID,
		ListingPublicID: m.ListingPublicID,
		CreatedAt:       m.CreatedAt,
	}
}

// 不正なJSONは空の値として扱う
func decodeAmenities(s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		slog.Warn("invalid amenities column", "error", err)
		return []string{}
	}
	if out == nil {
		return []string{}
	}
	return out
}

func encodeAmenities(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeHouseRules(s string) map[string]bool {
	out := map[string]bool{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		slog.Warn("invalid house_rules column", "error", err)
		return map[string]bool{}
	}
	if out == nil {
		return map[string]bool{}
	}
	return out
}

func encodeHouseRules(v map[string]bool) string {
	if v == nil {
		v = map[string]bool{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
