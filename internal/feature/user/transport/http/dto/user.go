package dto

import (
	"time"

	"github.com/google/uuid"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/feature/user/usecase"
)

// UserRes is the public view of a user.
type UserRes struct {
	PublicID    uuid.UUID `json:"publicId"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	ImageURL    string    `json:"imageUrl"`
	Verified    bool      `json:"verified"`
	Authorities []string  `json:"authorities"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AuthRes is returned by register, login and the OAuth callback.
type AuthRes struct {
	Token     string  `json:"token"`
	TokenType string  `json:"tokenType"`
	ExpiresIn int64   `json:"expiresIn"`
	User      UserRes `json:"user"`
}

// UpdateUserReq is a partial update. Absent fields are left unchanged.
type UpdateUserReq struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,max=100"`
	ImageURL  *string `json:"imageUrl" binding:"omitempty,max=500"`
}

// ToInput converts the request to the usecase input.
func (r UpdateUserReq) ToInput() usecase.UpdateUserInput {
	return usecase.UpdateUserInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		ImageURL:  r.ImageURL,
	}
}

// ToInput converts the request to the usecase input.
func (r RegisterReq) ToInput() usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		ImageURL:    r.ImageURL,
		Password:    r.Password,
		Authorities: r.Authorities,
	}
}

// FromUser maps an entity to its response shape.
func FromUser(u *entity.User) UserRes {
	roles := u.RoleNames()
	if roles == nil {
		roles = []string{}
	}
	return UserRes{
		PublicID:    u.PublicID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		ImageURL:    u.ImageURL,
		Verified:    u.Verified,
		Authorities: roles,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// FromUsers maps a slice of users.
func FromUsers(users []entity.User) []UserRes {
	out := make([]UserRes, 0, len(users))
	for i := range users {
		out = append(out, FromUser(&users[i]))
	}
	return out
}

// FromAuthResult maps an issued credential.
func FromAuthResult(r *usecase.AuthResult) AuthRes {
	return AuthRes{
		Token:     r.Token,
		TokenType: r.TokenType,
		ExpiresIn: r.ExpiresIn,
		User:      FromUser(r.User),
	}
}
