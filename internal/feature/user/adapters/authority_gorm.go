package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/feature/user/usecase"
	platformdb "stayease_backend/internal/platform/db"
	"stayease_backend/internal/shared/identity"
)

var roleDescriptions = map[string]string{
	identity.RoleTenant:          "Guest who books listings",
	identity.RoleLandlord:        "Owner who publishes and manages listings",
	identity.RoleAdmin:           "Platform administrator",
	identity.RoleServiceProvider: "Cleaning and maintenance provider",
}

type authorityGorm struct {
	db *gorm.DB
}

var _ usecase.AuthorityRepository = (*authorityGorm)(nil)

// NewAuthorityGorm creates an authority repository.
func NewAuthorityGorm(db *gorm.DB) *authorityGorm {
	return &authorityGorm{db: db}
}

// FindByName returns usecase.ErrAuthorityNotFound for unknown roles.
func (r *authorityGorm) FindByName(ctx context.Context, name string) (*entity.Authority, error) {
	var a entity.Authority
	if err := platformdb.Conn(ctx, r.db).Where("name = ?", name).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", usecase.ErrAuthorityNotFound, name)
		}
		return nil, err
	}
	return &a, nil
}

// SeedAuthorities inserts the built-in roles that are missing.
func SeedAuthorities(ctx context.Context, db *gorm.DB) error {
	for _, name := range identity.AllRoles {
		a := entity.Authority{Name: name, Description: roleDescriptions[name]}
		if err := db.WithContext(ctx).Where(entity.Authority{Name: name}).FirstOrCreate(&a).Error; err != nil {
			return fmt.Errorf("seed authority %s: %w", name, err)
		}
	}
	return nil
}

// Models lists the tables owned by the user feature, in migration order.
func Models() []any {
	return []any{
		&entity.Authority{},
		&entity.User{},
		&entity.UserAuthority{},
		&RevokedTokenModel{},
	}
}
