package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Page size bounds for paginated reads.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps Offset far from int overflow.
	MaxPage = 1_000_000
)

// SortField is a listing column that results may be ordered by.
type SortField string

const (
	SortCreatedAt     SortField = "createdAt"
	SortPrice         SortField = "price"
	SortTitle         SortField = "title"
	SortAverageRating SortField = "averageRating"
)

// PageRequest is a normalized, zero-based page selection.
type PageRequest struct {
	Page int
	Size int
	Sort SortField
	Asc  bool
}

// NewPageRequest clamps page and size and defaults to newest first.
func NewPageRequest(page, size int) PageRequest {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageRequest{Page: page, Size: size, Sort: SortCreatedAt}
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// WithSort returns p ordered by field in direction ("asc" or "desc").
// Unknown fields fall back to createdAt; unknown directions to descending.
func (p PageRequest) WithSort(field, direction string) PageRequest {
	switch SortField(field) {
	case SortCreatedAt, SortPrice, SortTitle, SortAverageRating:
		p.Sort = SortField(field)
	default:
		p.Sort = SortCreatedAt
	}
	p.Asc = strings.EqualFold(direction, "asc")
	return p
}

// WithSortBy applies a search sort token: price_asc, price_desc or newest.
func (p PageRequest) WithSortBy(token string) PageRequest {
	switch strings.ToLower(token) {
	case "price_asc":
		p.Sort, p.Asc = SortPrice, true
	case "price_desc":
		p.Sort, p.Asc = SortPrice, false
	default:
		p.Sort, p.Asc = SortCreatedAt, false
	}
	return p
}

// SearchCriteria narrows a listing query. Zero values impose no constraint.
type SearchCriteria struct {
	Location         string
	Category         string
	MinPrice         *float64
	MaxPrice         *float64
	Guests           *int
	LandlordPublicID *uuid.UUID
	FavoritedBy      *uuid.UUID
}

// Page is one page of results.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Size  int
}

// TotalPages returns the number of pages needed for Total items.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
