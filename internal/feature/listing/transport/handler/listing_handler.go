package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/feature/listing/transport/http/dto"
	"stayease_backend/internal/feature/listing/usecase"
	"stayease_backend/internal/platform/http/response"
	jwtmw "stayease_backend/internal/platform/jwt"
	"stayease_backend/internal/shared/apperr"
	"stayease_backend/internal/shared/identity"
)

// ListingUsecase defines the listing operations used by ListingHandler.
// Following Go convention: interfaces are defined by the consumer, not the implementer.
type ListingUsecase interface {
	CreateListing(ctx context.Context, caller identity.Caller, in usecase.CreateListingInput) (*entity.Listing, error)
	GetListing(ctx context.Context, publicID uuid.UUID) (*entity.Listing, error)
	UpdateListing(ctx context.Context, caller identity.Caller, publicID uuid.UUID, in usecase.UpdateListingInput) (*entity.Listing, error)
	DeleteListing(ctx context.Context, caller identity.Caller, publicID uuid.UUID) error
	PublishListing(ctx context.Context, caller identity.Caller, publicID uuid.UUID) (*entity.Listing, error)
	UnpublishListing(ctx context.Context, caller identity.Caller, publicID uuid.UUID) (*entity.Listing, error)
	SearchListings(ctx context.Context, in usecase.SearchInput) (entity.Page[entity.Listing], error)
	ListListings(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Listing], error)
	ListByCategory(ctx context.Context, category string, page entity.PageRequest) (entity.Page[entity.Listing], error)
	ListMine(ctx context.Context, caller identity.Caller, page entity.PageRequest) (entity.Page[entity.Listing], error)
	ListByLandlord(ctx context.Context, landlordPublicID uuid.UUID, page entity.PageRequest) (entity.Page[entity.Listing], error)
	Categories(ctx context.Context) ([]string, error)
	IncrementViewCount(ctx context.Context, publicID uuid.UUID) error
}

// FavoriteUsecase defines the favorite operations used by ListingHandler.
type FavoriteUsecase interface {
	ToggleFavorite(ctx context.Context, caller identity.Caller, listingPublicID uuid.UUID) (bool, error)
	IsFavorited(ctx context.Context, caller identity.Caller, listingPublicID uuid.UUID) (bool, error)
	ListFavorites(ctx context.Context, caller identity.Caller, page entity.PageRequest) (entity.Page[entity.Listing], error)
}

// ListingHandler serves /api/listings.
type ListingHandler struct {
	listings  ListingUsecase
	favorites FavoriteUsecase
}

// NewListingHandler creates a ListingHandler.
func NewListingHandler(listings ListingUsecase, favorites FavoriteUsecase) *ListingHandler {
	return &ListingHandler{listings: listings, favorites: favorites}
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperr.BadRequest("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func bindPage(c *gin.Context) (entity.PageRequest, bool) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, response.BindError(err))
		return entity.PageRequest{}, false
	}
	return q.ToPageRequest(), true
}

// Create handles POST /api/listings.
func (h *ListingHandler) Create(c *gin.Context) {
	var req dto.CreateListingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindError(err))
		return
	}

	l, err := h.listings.CreateListing(c.Request.Context(), jwtmw.CallerFrom(c), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromListing(l), "Listing created successfully")
}

// Get handles GET /api/listings/:publicId.
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "publicId")
	if !ok {
		return
	}
	l, err := h.listings.GetListing(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromListing(l), "Listing retrieved successfully")
}

// Update handles PUT /api/listings/:publicId.
func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "publicId")
	if !ok {
		return
	}

	var req dto.UpdateListingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindError(err))
		return
	}

	l, err := h.listings.UpdateListing(c.Request.Context(), jwtmw.CallerFrom(c), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromListing(l), "Listing updated successfully")
}

// Delete handles DELETE /api/listings/:publicId.
func (h *ListingHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "publicId")
	if !ok {
		return
	}
	if err := h.listings.DeleteListing(c.Request.Context(), jwtmw.CallerFrom(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Listing deleted successfully")
}

// Publish handles POST /api/listings/:publicId/publish.
func (h *ListingHandler) Publish(c *gin.Context) {
	id, ok := uuidParam(c, "publicId")
	if !ok {
		return
	}
	l, err := h.listings.PublishListing(c.Request.Context(), jwtmw.CallerFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromListing(l), "Listing published successfully")
}

// Unpublish handles POST /api/listings/:publicId/unpublish.
func (h *ListingHandler) Unpublish(c *gin.Context) {
	id, ok := uuidParam(c, "publicId")
	if !ok {
		return
	}
	l, err := h.listings.UnpublishListing(c.Request.Context(), jwtmw.CallerFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromListing(l), "Listing unpublished successfully")
}

// List handles GET /api/listings.
func (h *ListingHandler) List(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	p, err := h.listings.ListListings(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromPage(p), "Listings retrieved successfully")
}

// Search handles GET /api/listings/search.
func (h *ListingHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, response.BindError(err))
		return
	}
	p, err := h.listings.SearchListings(c.Request.Context(), q.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromPage(p), "Listings retrieved successfully")
}

// Mine handles GET /api/listings/my-listings.
func (h *ListingHandler) Mine(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	p, err := h.listings.ListMine(c.Request.Context(), jwtmw.CallerFrom(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromPage(p), "Listings retrieved successfully")
}

// ByLandlord handles GET /api/listings/landlord/:landlordId.
func (h *ListingHandler) ByLandlord(c *gin.Context) {
	id, ok := uuidParam(c, "landlordId")
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}
	p, err := h.listings.ListByLandlord(c.Request.Context(), id, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromPage(p), "Listings retrieved successfully")
}

// ByCategory handles GET /api/listings/category/:category.
func (h *ListingHandler) ByCategory(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	p, err := h.listings.ListByCategory(c.Request.Context(), c.Param("category"), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromPage(p), "Listings retrieved successfully")
}

// Categories handles GET /api/listings/categories.
func (h *ListingHandler) Categories(c *gin.Context) {
	categories, err := h.listings.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	response.OK(c, categories, "Categories retrieved successfully")
}

// View handles POST /api/listings/:publicId/view.
func (h *ListingHandler) View(c *gin.Context) {
	id, ok := uuidParam(c, "publicId")
	if !ok {
		return
	}
	if err := h.listings.IncrementViewCount(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "View recorded")
}

// ToggleFavorite handles POST /api/listings/:publicId/favorite.
func (h *ListingHandler) ToggleFavorite(c *gin.Context) {
	id, ok := uuidParam(c, "publicId")
	if !ok {
		return
	}
	favorited, err := h.favorites.ToggleFavorite(c.Request.Context(), jwtmw.CallerFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg := "Listing removed from favorites"
	if favorited {
		msg = "Listing added to favorites"
	}
	response.OK(c, dto.FavoriteRes{Favorited: favorited}, msg)
}

// IsFavorited handles GET /api/listings/:publicId/is-favorited.
func (h *ListingHandler) IsFavorited(c *gin.Context) {
	id, ok := uuidParam(c, "publicId")
	if !ok {
		return
	}
	favorited, err := h.favorites.IsFavorited(c.Request.Context(), jwtmw.CallerFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FavoriteRes{Favorited: favorited}, "Favorite status retrieved successfully")
}

// Favorites handles GET /api/listings/favorites.
func (h *ListingHandler) Favorites(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	p, err := h.favorites.ListFavorites(c.Request.Context(), jwtmw.CallerFrom(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromPage(p), "Favorites retrieved successfully")
}
