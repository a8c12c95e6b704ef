package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/feature/user/usecase"
	platformdb "stayease_backend/internal/platform/db"
)

// revokedTokenGorm stores revoked tokens in the relational database.
// It is used when Redis is not configured.
type revokedTokenGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// Compile-time check to ensure revokedTokenGorm implements TokenRevoker.
var _ usecase.TokenRevoker = (*revokedTokenGorm)(nil)

// NewRevokedTokenGorm creates a new instance of revokedTokenGorm.
func NewRevokedTokenGorm(db *gorm.DB) *revokedTokenGorm {
	return &revokedTokenGorm{db: db, now: time.Now}
}

// Revoke records the token. Revoking the same token twice is a no-op.
// Rows for tokens that have already expired are purged on the way.
func (r *revokedTokenGorm) Revoke(ctx context.Context, token entity.RevokedToken) error {
	conn := platformdb.Conn(ctx, r.db)
	if err := conn.Clauses(clause.OnConflict{DoNothing: true}).
		Create(RevokedTokenModelFromEntity(token)).Error; err != nil {
		return err
	}
	_, err := r.DeleteExpired(ctx)
	return err
}

// IsRevoked reports whether tokenID was revoked and has not yet expired.
func (r *revokedTokenGorm) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := platformdb.Conn(ctx, r.db).
		Model(&RevokedTokenModel{}).
		Where("id = ? AND expires_at > ?", tokenID, r.now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteExpired removes rows whose token can no longer be presented.
func (r *revokedTokenGorm) DeleteExpired(ctx context.Context) (int64, error) {
	result := platformdb.Conn(ctx, r.db).
		Where("expires_at <= ?", r.now()).
		Delete(&RevokedTokenModel{})
	return result.RowsAffected, result.Error
}
