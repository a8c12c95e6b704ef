// Package dto defines data transfer objects for the user feature's HTTP transport layer.
package dto

// RegisterReq represents the request body for POST /api/auth/register.
// Password may be omitted; such accounts receive no token and sign in
// through the identity provider only.
type RegisterReq struct {
	Email       string   `json:"email" binding:"required,email,max=255"`
	FirstName   string   `json:"firstName" binding:"max=100"`
	LastName    string   `json:"lastName" binding:"max=100"`
	ImageURL    string   `json:"imageUrl" binding:"omitempty,url,max=500"`
	Password    string   `json:"password" binding:"omitempty,min=8,max=72"`
	Authorities []string `json:"authorities" binding:"omitempty,dive,required"`
}
