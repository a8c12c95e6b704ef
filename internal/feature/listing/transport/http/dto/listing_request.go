// Package dto defines data transfer objects for the listing feature's HTTP transport layer.
package dto

import (
	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/feature/listing/usecase"
)

// ImageReq is one image in a create or update request. Order in the list is display order.
type ImageReq struct {
	URL       string `json:"url" binding:"required,url,max=1000"`
	Caption   string `json:"caption" binding:"max=255"`
	IsPrimary bool   `json:"isPrimary"`
}

// CreateListingReq represents the request body for POST /api/listings.
// Either location or city/country must be given.
type CreateListingReq struct {
	Title        string `json:"title" binding:"required,max=255"`
	Description  string `json:"description" binding:"required"`
	PropertyType string `json:"propertyType" binding:"max=50"`
	RoomType     string `json:"roomType" binding:"max=50"`
	Category     string `json:"category" binding:"max=100"`

	Location   string   `json:"location" binding:"max=255"`
	Address    string   `json:"address"`
	City       string   `json:"city" binding:"max=100"`
	State      string   `json:"state" binding:"max=100"`
	Country    string   `json:"country" binding:"max=100"`
	PostalCode string   `json:"postalCode" binding:"max=20"`
	Latitude   *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`

	Bedrooms   *int     `json:"bedrooms" binding:"required,gte=0"`
	Beds       int      `json:"beds" binding:"required,min=1"`
	Bathrooms  *float64 `json:"bathrooms" binding:"required,gte=0"`
	MaxGuests  int      `json:"maxGuests" binding:"required,min=1"`
	SquareFeet *int     `json:"squareFeet" binding:"omitempty,gte=0"`

	Price                float64  `json:"price" binding:"required,gt=0"`
	CleaningFee          *float64 `json:"cleaningFee" binding:"omitempty,gte=0"`
	ServiceFeePercentage *float64 `json:"serviceFeePercentage" binding:"omitempty,gte=0,lte=100"`
	Currency             string   `json:"currency" binding:"omitempty,len=3,alpha"`

	Amenities          []string        `json:"amenities" binding:"omitempty,dive,required,max=100"`
	HouseRules         map[string]bool `json:"houseRules"`
	CheckInTime        string          `json:"checkInTime" binding:"omitempty,datetime=15:04"`
	CheckOutTime       string          `json:"checkOutTime" binding:"omitempty,datetime=15:04"`
	MinNights          *int            `json:"minNights" binding:"omitempty,min=1"`
	MaxNights          *int            `json:"maxNights" binding:"omitempty,min=1"`
	InstantBook        bool            `json:"instantBook"`
	CancellationPolicy string          `json:"cancellationPolicy" binding:"max=50"`

	Images []ImageReq `json:"images" binding:"omitempty,dive"`
}

// UpdateListingReq is a partial update. Absent fields are left unchanged;
// a present images list replaces every stored image.
type UpdateListingReq struct {
	Title        *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description  *string `json:"description"`
	PropertyType *string `json:"propertyType" binding:"omitempty,max=50"`
	RoomType     *string `json:"roomType" binding:"omitempty,max=50"`
	Category     *string `json:"category" binding:"omitempty,min=1,max=100"`

	Location   *string  `json:"location" binding:"omitempty,max=255"`
	Address    *string  `json:"address"`
	City       *string  `json:"city" binding:"omitempty,max=100"`
	State      *string  `json:"state" binding:"omitempty,max=100"`
	Country    *string  `json:"country" binding:"omitempty,max=100"`
	PostalCode *string  `json:"postalCode" binding:"omitempty,max=20"`
	Latitude   *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`

	Bedrooms   *int     `json:"bedrooms" binding:"omitempty,gte=0"`
	Beds       *int     `json:"beds" binding:"omitempty,min=1"`
	Bathrooms  *float64 `json:"bathrooms" binding:"omitempty,gte=0"`
	MaxGuests  *int     `json:"maxGuests" binding:"omitempty,min=1"`
	SquareFeet *int     `json:"squareFeet" binding:"omitempty,gte=0"`

	Price                *float64 `json:"price" binding:"omitempty,gt=0"`
	CleaningFee          *float64 `json:"cleaningFee" binding:"omitempty,gte=0"`
	ServiceFeePercentage *float64 `json:"serviceFeePercentage" binding:"omitempty,gte=0,lte=100"`
	Currency             *string  `json:"currency" binding:"omitempty,len=3,alpha"`

	Amenities          []string        `json:"amenities" binding:"omitempty,dive,required,max=100"`
	HouseRules         map[string]bool `json:"houseRules"`
	CheckInTime        *string         `json:"checkInTime" binding:"omitempty,datetime=15:04"`
	CheckOutTime       *string         `json:"checkOutTime" binding:"omitempty,datetime=15:04"`
	MinNights          *int            `json:"minNights" binding:"omitempty,min=1"`
	MaxNights          *int            `json:"maxNights" binding:"omitempty,min=1"`
	InstantBook        *bool           `json:"instantBook"`
	CancellationPolicy *string         `json:"cancellationPolicy" binding:"omitempty,max=50"`

	Images []ImageReq `json:"images" binding:"omitempty,dive"`
}

// PageQuery holds the pagination query parameters of list endpoints.
type PageQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=0"`
	Size      int    `form:"size" binding:"omitempty,min=1"`
	Sort      string `form:"sort" binding:"omitempty,oneof=createdAt price title averageRating"`
	Direction string `form:"direction" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// SearchQuery holds the query parameters of GET /api/listings/search.
type SearchQuery struct {
	Location string   `form:"location"`
	Category string   `form:"category"`
	MinPrice *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	Guests   *int     `form:"guests" binding:"omitempty,min=1"`
	SortBy   string   `form:"sortBy" binding:"omitempty,oneof=price_asc price_desc newest"`
	Page     int      `form:"page" binding:"omitempty,min=0"`
	Size     int      `form:"size" binding:"omitempty,min=1"`
}

// ToInput converts the request to the usecase input.
func (r CreateListingReq) ToInput() usecase.CreateListingInput {
	in := usecase.CreateListingInput{
		Title:                r.Title,
		Description:          r.Description,
		PropertyType:         r.PropertyType,
		RoomType:             r.RoomType,
		Category:             r.Category,
		Location:             r.Location,
		Address:              r.Address,
		City:                 r.City,
		State:                r.State,
		Country:              r.Country,
		PostalCode:           r.PostalCode,
		Latitude:             r.Latitude,
		Longitude:            r.Longitude,
		Beds:                 r.Beds,
		MaxGuests:            r.MaxGuests,
		SquareFeet:           r.SquareFeet,
		Price:                r.Price,
		CleaningFee:          r.CleaningFee,
		ServiceFeePercentage: r.ServiceFeePercentage,
		Currency:             r.Currency,
		Amenities:            r.Amenities,
		HouseRules:           r.HouseRules,
		CheckInTime:          r.CheckInTime,
		CheckOutTime:         r.CheckOutTime,
		MinNights:            r.MinNights,
		MaxNights:            r.MaxNights,
		InstantBook:          r.InstantBook,
		CancellationPolicy:   r.CancellationPolicy,
		Images:               toImageInputs(r.Images),
	}
	if r.Bedrooms != nil {
		in.Bedrooms = *r.Bedrooms
	}
	if r.Bathrooms != nil {
		in.Bathrooms = *r.Bathrooms
	}
	return in
}

// ToInput converts the request to the usecase input.
func (r UpdateListingReq) ToInput() usecase.UpdateListingInput {
	return usecase.UpdateListingInput{
		Title:                r.Title,
		Description:          r.Description,
		PropertyType:         r.PropertyType,
		RoomType:             r.RoomType,
		Category:             r.Category,
		Location:             r.Location,
		Address:              r.Address,
		City:                 r.City,
		State:                r.State,
		Country:              r.Country,
		PostalCode:           r.PostalCode,
		Latitude:             r.Latitude,
		Longitude:            r.Longitude,
		Bedrooms:             r.Bedrooms,
		Beds:                 r.Beds,
		Bathrooms:            r.Bathrooms,
		MaxGuests:            r.MaxGuests,
		SquareFeet:           r.SquareFeet,
		Price:                r.Price,
		CleaningFee:          r.CleaningFee,
		ServiceFeePercentage: r.ServiceFeePercentage,
		Currency:             r.Currency,
		Amenities:            r.Amenities,
		HouseRules:           r.HouseRules,
		CheckInTime:          r.CheckInTime,
		CheckOutTime:         r.CheckOutTime,
		MinNights:            r.MinNights,
		MaxNights:            r.MaxNights,
		InstantBook:          r.InstantBook,
		CancellationPolicy:   r.CancellationPolicy,
		Images:               toImageInputs(r.Images),
	}
}

// ToInput converts the query to the usecase input.
func (q SearchQuery) ToInput() usecase.SearchInput {
	return usecase.SearchInput{
		Location: q.Location,
		Category: q.Category,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Guests:   q.Guests,
		SortBy:   q.SortBy,
		Page:     q.Page,
		Size:     q.Size,
	}
}

// nil stays nil so that an absent list means "unchanged"
func toImageInputs(images []ImageReq) []usecase.ImageInput {
	if images == nil {
		return nil
	}
	out := make([]usecase.ImageInput, 0, len(images))
	for _, img := range images {
		out = append(out, usecase.ImageInput{URL: img.URL, Caption: img.Caption, IsPrimary: img.IsPrimary})
	}
	return out
}

// ToPageRequest converts the query to a page request, applying defaults and the size cap.
func (q PageQuery) ToPageRequest() entity.PageRequest {
	return entity.NewPageRequest(q.Page, q.Size).WithSort(q.Sort, q.Direction)
}
