package usecase

import (
	"context"

	"github.com/google/uuid"

	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/shared/identity"
)

// mockListingRepository is a mock implementation of ListingRepository.
type mockListingRepository struct {
	CreateFunc              func(ctx context.Context, l *entity.Listing) error
	FindByPublicIDFunc      func(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	UpdateFunc              func(ctx context.Context, l *entity.Listing) error
	ReplaceImagesFunc       func(ctx context.Context, l *entity.Listing) error
	DeleteFunc              func(ctx context.Context, l *entity.Listing) error
	SearchFunc              func(ctx context.Context, c entity.SearchCriteria, p entity.PageRequest) (entity.Page[entity.Listing], error)
	CategoriesFunc          func(ctx context.Context) ([]string, error)
	IncrementViewCountFunc  func(ctx context.Context, id uuid.UUID) error
	AdjustFavoriteCountFunc func(ctx context.Context, id uuid.UUID, delta int) error
}

func (m *mockListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, l)
	}
	l.ID = 1
	return nil
}

func (m *mockListingRepository) FindByPublicID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	if m.FindByPublicIDFunc != nil {
		return m.FindByPublicIDFunc(ctx, id)
	}
	return nil, ErrListingNotFound
}

func (m *mockListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) ReplaceImages(ctx context.Context, l *entity.Listing) error {
	if m.ReplaceImagesFunc != nil {
		return m.ReplaceImagesFunc(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) Delete(ctx context.Context, l *entity.Listing) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) Search(ctx context.Context, c entity.SearchCriteria, p entity.PageRequest) (entity.Page[entity.Listing], error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, c, p)
	}
	return entity.Page[entity.Listing]{Page: p.Page, Size: p.Size}, nil
}

func (m *mockListingRepository) Categories(ctx context.Context) ([]string, error) {
	if m.CategoriesFunc != nil {
		return m.CategoriesFunc(ctx)
	}
	return []string{}, nil
}

func (m *mockListingRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	if m.IncrementViewCountFunc != nil {
		return m.IncrementViewCountFunc(ctx, id)
	}
	return nil
}

func (m *mockListingRepository) AdjustFavoriteCount(ctx context.Context, id uuid.UUID, delta int) error {
	if m.AdjustFavoriteCountFunc != nil {
		return m.AdjustFavoriteCountFunc(ctx, id, delta)
	}
	return nil
}

// mockFavoriteRepository is a mock implementation of FavoriteRepository.
type mockFavoriteRepository struct {
	ExistsFunc          func(ctx context.Context, user, listing uuid.UUID) (bool, error)
	AddFunc             func(ctx context.Context, f *entity.Favorite) error
	RemoveFunc          func(ctx context.Context, user, listing uuid.UUID) (bool, error)
	DeleteByListingFunc func(ctx context.Context, listing uuid.UUID) error
}

func (m *mockFavoriteRepository) Exists(ctx context.Context, user, listing uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, user, listing)
	}
	return false, nil
}

func (m *mockFavoriteRepository) Add(ctx context.Context, f *entity.Favorite) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, f)
	}
	return nil
}

func (m *mockFavoriteRepository) Remove(ctx context.Context, user, listing uuid.UUID) (bool, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, user, listing)
	}
	return false, nil
}

func (m *mockFavoriteRepository) DeleteByListing(ctx context.Context, listing uuid.UUID) error {
	if m.DeleteByListingFunc != nil {
		return m.DeleteByListingFunc(ctx, listing)
	}
	return nil
}

// passthroughTx runs fn directly and counts invocations.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

func landlordCaller() identity.Caller {
	return identity.Caller{PublicID: uuid.New(), Email: "landlord@example.com", Roles: []string{identity.RoleLandlord}}
}

func adminCaller() identity.Caller {
	return identity.Caller{PublicID: uuid.New(), Email: "admin@example.com", Roles: []string{identity.RoleAdmin}}
}

func ptr[T any](v T) *T { return &v }

func validCreateInput() CreateListingInput {
	return CreateListingInput{
		Title:        "Sunny loft",
		Description:  "Bright loft near the river",
		PropertyType: "apartment",
		City:         "Lisbon",
		Country:      "Portugal",
		Bedrooms:     1,
		Beds:         1,
		Bathrooms:    1,
		MaxGuests:    2,
		Price:        120,
	}
}
