package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/feature/listing/usecase"
	jwtmw "stayease_backend/internal/platform/jwt"
	"stayease_backend/internal/shared/identity"
)

// mockListingUsecase is a mock implementation of ListingUsecase.
type mockListingUsecase struct {
	CreateFunc     func(ctx context.Context, caller identity.Caller, in usecase.CreateListingInput) (*entity.Listing, error)
	GetFunc        func(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	UpdateFunc     func(ctx context.Context, caller identity.Caller, id uuid.UUID, in usecase.UpdateListingInput) (*entity.Listing, error)
	DeleteFunc     func(ctx context.Context, caller identity.Caller, id uuid.UUID) error
	PublishFunc    func(ctx context.Context, caller identity.Caller, id uuid.UUID) (*entity.Listing, error)
	UnpublishFunc  func(ctx context.Context, caller identity.Caller, id uuid.UUID) (*entity.Listing, error)
	SearchFunc     func(ctx context.Context, in usecase.SearchInput) (entity.Page[entity.Listing], error)
	ListFunc       func(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Listing], error)
	CategoryFunc   func(ctx context.Context, category string, page entity.PageRequest) (entity.Page[entity.Listing], error)
	MineFunc       func(ctx context.Context, caller identity.Caller, page entity.PageRequest) (entity.Page[entity.Listing], error)
	LandlordFunc   func(ctx context.Context, id uuid.UUID, page entity.PageRequest) (entity.Page[entity.Listing], error)
	CategoriesFunc func(ctx context.Context) ([]string, error)
	ViewFunc       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockListingUsecase) CreateListing(ctx context.Context, caller identity.Caller, in usecase.CreateListingInput) (*entity.Listing, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, caller, in)
	}
	return nil, usecase.ErrUnauthenticated
}

func (m *mockListingUsecase) GetListing(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, usecase.ErrListingNotFound
}

func (m *mockListingUsecase) UpdateListing(ctx context.Context, caller identity.Caller, id uuid.UUID, in usecase.UpdateListingInput) (*entity.Listing, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, caller, id, in)
	}
	return nil, usecase.ErrListingNotFound
}

func (m *mockListingUsecase) DeleteListing(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, caller, id)
	}
	return nil
}

func (m *mockListingUsecase) PublishListing(ctx context.Context, caller identity.Caller, id uuid.UUID) (*entity.Listing, error) {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, caller, id)
	}
	return nil, usecase.ErrListingNotFound
}

func (m *mockListingUsecase) UnpublishListing(ctx context.Context, caller identity.Caller, id uuid.UUID) (*entity.Listing, error) {
	if m.UnpublishFunc != nil {
		return m.UnpublishFunc(ctx, caller, id)
	}
	return nil, usecase.ErrListingNotFound
}

func (m *mockListingUsecase) SearchListings(ctx context.Context, in usecase.SearchInput) (entity.Page[entity.Listing], error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, in)
	}
	return entity.Page[entity.Listing]{}, nil
}

func (m *mockListingUsecase) ListListings(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page)
	}
	return entity.Page[entity.Listing]{}, nil
}

func (m *mockListingUsecase) ListByCategory(ctx context.Context, category string, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	if m.CategoryFunc != nil {
		return m.CategoryFunc(ctx, category, page)
	}
	return entity.Page[entity.Listing]{}, nil
}

func (m *mockListingUsecase) ListMine(ctx context.Context, caller identity.Caller, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	if m.MineFunc != nil {
		return m.MineFunc(ctx, caller, page)
	}
	return entity.Page[entity.Listing]{}, nil
}

func (m *mockListingUsecase) ListByLandlord(ctx context.Context, id uuid.UUID, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	if m.LandlordFunc != nil {
		return m.LandlordFunc(ctx, id, page)
	}
	return entity.Page[entity.Listing]{}, nil
}

func (m *mockListingUsecase) Categories(ctx context.Context) ([]string, error) {
	if m.CategoriesFunc != nil {
		return m.CategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockListingUsecase) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	if m.ViewFunc != nil {
		return m.ViewFunc(ctx, id)
	}
	return nil
}

// mockFavoriteUsecase is a mock implementation of FavoriteUsecase.
type mockFavoriteUsecase struct {
	ToggleFunc      func(ctx context.Context, caller identity.Caller, id uuid.UUID) (bool, error)
	IsFavoritedFunc func(ctx context.Context, caller identity.Caller, id uuid.UUID) (bool, error)
	ListFunc        func(ctx context.Context, caller identity.Caller, page entity.PageRequest) (entity.Page[entity.Listing], error)
}

func (m *mockFavoriteUsecase) ToggleFavorite(ctx context.Context, caller identity.Caller, id uuid.UUID) (bool, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, caller, id)
	}
	return false, usecase.ErrListingNotFound
}

func (m *mockFavoriteUsecase) IsFavorited(ctx context.Context, caller identity.Caller, id uuid.UUID) (bool, error) {
	if m.IsFavoritedFunc != nil {
		return m.IsFavoritedFunc(ctx, caller, id)
	}
	return false, nil
}

func (m *mockFavoriteUsecase) ListFavorites(ctx context.Context, caller identity.Caller, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, caller, page)
	}
	return entity.Page[entity.Listing]{}, nil
}

func newListingRouter(listings *mockListingUsecase, favorites *mockFavoriteUsecase, caller identity.Caller) *gin.Engine {
	h := NewListingHandler(listings, favorites)
	r := gin.New()
	g := r.Group("/api/listings", func(c *gin.Context) {
		jwtmw.SetCaller(c, caller, nil)
		c.Next()
	})
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/search", h.Search)
	g.GET("/categories", h.Categories)
	g.GET("/my-listings", h.Mine)
	g.GET("/favorites", h.Favorites)
	g.GET("/landlord/:landlordId", h.ByLandlord)
	g.GET("/category/:category", h.ByCategory)
	g.GET("/:publicId", h.Get)
	g.PUT("/:publicId", h.Update)
	g.DELETE("/:publicId", h.Delete)
	g.POST("/:publicId/publish", h.Publish)
	g.POST("/:publicId/unpublish", h.Unpublish)
	g.POST("/:publicId/view", h.View)
	g.POST("/:publicId/favorite", h.ToggleFavorite)
	g.GET("/:publicId/is-favorited", h.IsFavorited)
	return r
}

func landlord() identity.Caller {
	return identity.Caller{PublicID: uuid.New(), Email: "host@example.com", Roles: []string{identity.RoleLandlord}}
}

func sampleListing() *entity.Listing {
	return &entity.Listing{
		PublicID:         uuid.New(),
		LandlordPublicID: uuid.New(),
		Title:            "Loft",
		Description:      "Bright loft",
		Category:         "Apartment",
		Location:         "Lisbon, Portugal",
		Beds:             1,
		MaxGuests:        2,
		Price:            80,
		Currency:         entity.DefaultCurrency,
		Status:           entity.StatusDraft,
	}
}

func validCreateBody() map[string]any {
	return map[string]any{
		"title":       "Loft",
		"description": "Bright loft",
		"city":        "Lisbon",
		"country":     "Portugal",
		"bedrooms":    1,
		"beds":        1,
		"bathrooms":   1.5,
		"maxGuests":   2,
		"price":       80,
		"images": []map[string]any{
			{"url": "https://img.example.com/1.jpg", "isPrimary": true},
		},
	}
}

// doJSON sends a request with an optional JSON body and decodes the response.
func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}
