// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	useradapters "stayease_backend/internal/feature/user/adapters"
	userusecase "stayease_backend/internal/feature/user/usecase"
	jwtmw "stayease_backend/internal/platform/jwt"
	"stayease_backend/internal/platform/session"
)

// RevocationStore records logged-out tokens and answers the auth middleware.
type RevocationStore interface {
	userusecase.TokenRevoker
	jwtmw.RevocationChecker
}

// NewRevocationStore returns a Redis-backed store when rdb is available and
// falls back to the revoked_tokens table otherwise.
func NewRevocationStore(rdb *redis.Client, db *gorm.DB) RevocationStore {
	if rdb != nil {
		return session.NewRevokedTokenRedis(rdb, "revoked")
	}
	return useradapters.NewRevokedTokenGorm(db)
}
