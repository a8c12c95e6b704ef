package di

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	listingadapters "stayease_backend/internal/feature/listing/adapters"
	useradapters "stayease_backend/internal/feature/user/adapters"
	platformdb "stayease_backend/internal/platform/db"
)

// Migrate creates or updates every table and seeds the role catalogue.
func Migrate(ctx context.Context, db *gorm.DB) error {
	models := append(useradapters.Models(), listingadapters.Models()...)
	if err := platformdb.Migrate(db.WithContext(ctx), models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := useradapters.SeedAuthorities(ctx, db); err != nil {
		return fmt.Errorf("seed authorities: %w", err)
	}
	return nil
}
