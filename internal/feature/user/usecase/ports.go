package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stayease_backend/internal/feature/user/domain/entity"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a user together with its authority grants.
	// Returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByPublicID returns ErrUserNotFound when absent.
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List returns every user ordered by creation time.
	List(ctx context.Context) ([]entity.User, error)

	// Update writes the profile fields of user.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user and its authority grants.
	Delete(ctx context.Context, userID uint) error

	// AddAuthority grants name to the user; granting twice is a no-op.
	AddAuthority(ctx context.Context, userID uint, name string) error

	RemoveAuthority(ctx context.Context, userID uint, name string) error
}

// AuthorityRepository looks up role definitions.
type AuthorityRepository interface {
	// FindByName returns ErrAuthorityNotFound when absent.
	FindByName(ctx context.Context, name string) (*entity.Authority, error)
}

// TxManager runs fn inside a single database transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
type JWTGenerator interface {
	// GenerateToken returns a signed access token and its expiry.
	GenerateToken(subject, email string) (string, time.Time, error)
}

// IDTokenVerifier validates tokens issued by the external identity provider.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (entity.ExternalIdentity, error)
}

// TokenRevoker stores revoked access tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token entity.RevokedToken) error
}
