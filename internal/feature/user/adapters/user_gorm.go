// Package adapters はuserフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/feature/user/usecase"
	platformdb "stayease_backend/internal/platform/db"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーと権限付与をデータベースに追加します。
// 同じメールアドレスのユーザーが既に存在する場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := platformdb.Conn(ctx, r.db).Create(u).Error; err != nil {
		if platformdb.IsDuplicateKey(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByPublicID は公開IDでユーザーを取得します。
func (r *userGorm) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, "public_id = ?", publicID)
}

func (r *userGorm) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := platformdb.Conn(ctx, r.db).
		Preload("Authorities", func(db *gorm.DB) *gorm.DB { return db.Order("authority_name ASC") }).
		Where(query, arg).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ExistsByEmail reports whether an account uses email.
func (r *userGorm) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := platformdb.Conn(ctx, r.db).Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all users, oldest first.
func (r *userGorm) List(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := platformdb.Conn(ctx, r.db).
		Preload("Authorities", func(db *gorm.DB) *gorm.DB { return db.Order("authority_name ASC") }).
		Order("created_at ASC, id ASC").
		Find(&users).Error
	return users, err
}

// Update writes the mutable profile fields.
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	now := time.Now()
	result := platformdb.Conn(ctx, r.db).
		Model(&entity.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"first_name":         u.FirstName,
			"last_name":          u.LastName,
			"image_url":          u.ImageURL,
			"verified":           u.Verified,
			"password_hash":      u.PasswordHash,
			"tokens_valid_after": u.TokensValidAfter,
			"updated_at":         now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	u.UpdatedAt = now
	return nil
}

// Delete removes the user's grants and then the user.
func (r *userGorm) Delete(ctx context.Context, userID uint) error {
	conn := platformdb.Conn(ctx, r.db)
	if err := conn.Where("user_id = ?", userID).Delete(&entity.UserAuthority{}).Error; err != nil {
		return err
	}
	result := conn.Delete(&entity.User{}, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// AddAuthority grants name; an existing grant is left untouched.
func (r *userGorm) AddAuthority(ctx context.Context, userID uint, name string) error {
	return platformdb.Conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.UserAuthority{UserID: userID, AuthorityName: name}).Error
}

// RemoveAuthority deletes the grant if present.
func (r *userGorm) RemoveAuthority(ctx context.Context, userID uint, name string) error {
	return platformdb.Conn(ctx, r.db).
		Where("user_id = ? AND authority_name = ?", userID, name).
		Delete(&entity.UserAuthority{}).Error
}
