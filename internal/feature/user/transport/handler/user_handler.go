package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/feature/user/transport/http/dto"
	"stayease_backend/internal/feature/user/usecase"
	"stayease_backend/internal/platform/http/response"
	jwtmw "stayease_backend/internal/platform/jwt"
	"stayease_backend/internal/shared/apperr"
	"stayease_backend/internal/shared/identity"
)

// UserUsecase defines the account management operations used by UserHandler.
type UserUsecase interface {
	CurrentUser(ctx context.Context, caller identity.Caller) (*entity.User, error)
	GetUser(ctx context.Context, caller identity.Caller, publicID uuid.UUID) (*entity.User, error)
	ListUsers(ctx context.Context, caller identity.Caller) ([]entity.User, error)
	UpdateUser(ctx context.Context, caller identity.Caller, publicID uuid.UUID, in usecase.UpdateUserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, caller identity.Caller, publicID uuid.UUID) error
	AddAuthority(ctx context.Context, caller identity.Caller, publicID uuid.UUID, name string) (*entity.User, error)
	RemoveAuthority(ctx context.Context, caller identity.Caller, publicID uuid.UUID, name string) (*entity.User, error)
}

// UserHandler serves /api/users.
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// publicIDParam parses the :publicId path parameter.
func publicIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("publicId"))
	if err != nil {
		response.Error(c, apperr.BadRequest("invalid public id"))
		return uuid.Nil, false
	}
	return id, true
}

// Me returns the caller's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.CurrentUser(c.Request.Context(), jwtmw.CallerFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromUser(user), "User retrieved successfully")
}

// List returns every user. Admin only.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context(), jwtmw.CallerFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromUsers(users), "Users retrieved successfully")
}

// Get returns a user by public id. Self or admin.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), jwtmw.CallerFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromUser(user), "User retrieved successfully")
}

// Update applies a partial profile update. Self or admin.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindError(err))
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), jwtmw.CallerFrom(c), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromUser(user), "User updated successfully")
}

// Delete removes a user. Admin only.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), jwtmw.CallerFrom(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "User deleted successfully")
}

// AddAuthority grants the :name role.
func (h *UserHandler) AddAuthority(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	user, err := h.users.AddAuthority(c.Request.Context(), jwtmw.CallerFrom(c), id, c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromUser(user), "Authority added successfully")
}

// RemoveAuthority revokes the :name role.
func (h *UserHandler) RemoveAuthority(c *gin.Context) {
	id, ok := publicIDParam(c)
	if !ok {
		return
	}
	user, err := h.users.RemoveAuthority(c.Request.Context(), jwtmw.CallerFrom(c), id, c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromUser(user), "Authority removed successfully")
}
