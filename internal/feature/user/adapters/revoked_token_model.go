package adapters

import (
	"time"

	"github.com/google/uuid"

	"stayease_backend/internal/feature/user/domain/entity"
)

// RevokedTokenModel is the GORM model for the revoked_tokens table.
type RevokedTokenModel struct {
	ID           string    `gorm:"primaryKey;size:64"`
	UserPublicID uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpiresAt    time.Time `gorm:"index;not null"`
	RevokedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (RevokedTokenModel) TableName() string {
	return "revoked_tokens"
}

// ToEntity converts the GORM model to a domain entity.
func (m *RevokedTokenModel) ToEntity() *entity.RevokedToken {
	return &entity.RevokedToken{
		ID:           m.ID,
		UserPublicID: m.UserPublicID,
		ExpiresAt:    m.ExpiresAt,
		RevokedAt:    m.RevokedAt,
	}
}

// RevokedTokenModelFromEntity converts a domain entity to a GORM model.
func RevokedTokenModelFromEntity(t entity.RevokedToken) *RevokedTokenModel {
	return &RevokedTokenModel{
		ID:           t.ID,
		UserPublicID: t.UserPublicID,
		ExpiresAt:    t.ExpiresAt,
		RevokedAt:    t.RevokedAt,
	}
}
