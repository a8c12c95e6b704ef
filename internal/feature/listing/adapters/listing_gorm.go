package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/feature/listing/usecase"
	platformdb "stayease_backend/internal/platform/db"
)

var sortColumns = map[entity.SortField]string{
	entity.SortCreatedAt:     "created_at",
	entity.SortPrice:         "price",
	entity.SortTitle:         "title",
	entity.SortAverageRating: "average_rating",
}

// listingGorm はListingRepositoryインターフェースのGORM実装です。
type listingGorm struct {
	db *gorm.DB
}

// listingGormがListingRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ListingRepository = (*listingGorm)(nil)

// NewListingGorm は指定されたgorm.DB接続でlistingGormの新しいインスタンスを生成します。
func NewListingGorm(db *gorm.DB) *listingGorm {
	return &listingGorm{db: db}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC, id ASC")
}

// Create inserts the listing and its images in one statement batch.
func (r *listingGorm) Create(ctx context.Context, l *entity.Listing) error {
	if l == nil {
		return errors.New("listing is nil")
	}
	m := ListingModelFromEntity(l)
	if err := platformdb.Conn(ctx, r.db).Create(m).Error; err != nil {
		return err
	}

	l.ID = m.ID
	l.CreatedAt = m.CreatedAt
	l.UpdatedAt = m.UpdatedAt
	for i := range m.Images {
		l.Images[i].ID = m.Images[i].ID
		l.Images[i].CreatedAt = m.Images[i].CreatedAt
	}
	return nil
}

// FindByPublicID loads the listing with images in display order.
func (r *listingGorm) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Listing, error) {
	var m ListingModel
	err := platformdb.Conn(ctx, r.db).
		Preload("Images", orderedImages).
		Where("public_id = ?", publicID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrListingNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// Update writes the mutable columns. Counters are maintained by their own statements.
func (r *listingGorm) Update(ctx context.Context, l *entity.Listing) error {
	m := ListingModelFromEntity(l)
	now := time.Now()

	result := platformdb.Conn(ctx, r.db).
		Model(&ListingModel{}).
		Where("id = ?", l.ID).
		Updates(map[string]any{
			"title":                  m.Title,
			"description":            m.Description,
			"property_type":          m.PropertyType,
			"room_type":              m.RoomType,
			"category":               m.Category,
			"location":               m.Location,
			"address":                m.Address,
			"city":                   m.City,
			"state":                  m.State,
			"country":                m.Country,
			"postal_code":            m.PostalCode,
			"latitude":               m.Latitude,
			"longitude":              m.Longitude,
			"bedrooms":               m.Bedrooms,
			"beds":                   m.Beds,
			"bathrooms":              m.Bathrooms,
			"max_guests":             m.MaxGuests,
			"square_feet":            m.SquareFeet,
			"price":                  m.Price,
			"cleaning_fee":           m.CleaningFee,
			"service_fee_percentage": m.ServiceFeePercentage,
			"currency":               m.Currency,
			"amenities":              m.Amenities,
			"house_rules":            m.HouseRules,
			"check_in_time":          m.CheckInTime,
			"check_out_time":         m.CheckOutTime,
			"min_nights":             m.MinNights,
			"max_nights":             m.MaxNights,
			"instant_book":           m.InstantBook,
			"cancellation_policy":    m.CancellationPolicy,
			"status":                 m.Status,
			"published_at":           m.PublishedAt,
			"updated_at":             now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrListingNotFound
	}
	l.UpdatedAt = now
	return nil
}

// ReplaceImages removes every stored image of the listing and inserts l.Images.
func (r *listingGorm) ReplaceImages(ctx context.Context, l *entity.Listing) error {
	conn := platformdb.Conn(ctx, r.db)
	if err := conn.Where("listing_id = ?", l.ID).Delete(&ListingImageModel{}).Error; err != nil {
		return err
	}

	images := imageModels(l.ID, l.Images)
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ID = 0
	}
	if err := conn.Create(&images).Error; err != nil {
		return err
	}
	for i := range images {
		l.Images[i].ID = images[i].ID
		l.Images[i].CreatedAt = images[i].CreatedAt
	}
	return nil
}

// Delete removes the images first so no orphan rows remain on stores without cascading FKs.
func (r *listingGorm) Delete(ctx context.Context, l *entity.Listing) error {
	conn := platformdb.Conn(ctx, r.db)
	if err := conn.Where("listing_id = ?", l.ID).Delete(&ListingImageModel{}).Error; err != nil {
		return err
	}
	result := conn.Delete(&ListingModel{}, l.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrListingNotFound
	}
	return nil
}

// Search applies every present criterion as a conjunctive filter.
func (r *listingGorm) Search(ctx context.Context, c entity.SearchCriteria, p entity.PageRequest) (entity.Page[entity.Listing], error) {
	conn := platformdb.Conn(ctx, r.db)
	q := conn.Model(&ListingModel{})

	if c.Location != "" {
		pattern := "%" + escapeLike(strings.ToLower(c.Location)) + "%"
		q = q.Where(
			"(LOWER(location) LIKE ? ESCAPE '\\' OR LOWER(city) LIKE ? ESCAPE '\\' OR LOWER(country) LIKE ? ESCAPE '\\')",
			pattern, pattern, pattern,
		)
	}
	if c.Category != "" {
		q = q.Where("category = ?", c.Category)
	}
	if c.MinPrice != nil {
		q = q.Where("price >= ?", *c.MinPrice)
	}
	if c.MaxPrice != nil {
		q = q.Where("price <= ?", *c.MaxPrice)
	}
	if c.Guests != nil {
		q = q.Where("max_guests >= ?", *c.Guests)
	}
	if c.LandlordPublicID != nil {
		q = q.Where("landlord_public_id = ?", *c.LandlordPublicID)
	}
	if c.FavoritedBy != nil {
		sub := conn.Model(&FavoriteModel{}).Select("listing_public_id").Where("user_public_id = ?", *c.FavoritedBy)
		q = q.Where("public_id IN (?)", sub)
	}

	base := q.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return entity.Page[entity.Listing]{}, err
	}

	column, ok := sortColumns[p.Sort]
	if !ok {
		column = sortColumns[entity.SortCreatedAt]
	}

	var models []ListingModel
	err := base.
		Preload("Images", orderedImages).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: !p.Asc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: !p.Asc}).
		Offset(p.Offset()).
		Limit(p.Size).
		Find(&models).Error
	if err != nil {
		return entity.Page[entity.Listing]{}, err
	}

	items := make([]entity.Listing, 0, len(models))
	for i := range models {
		items = append(items, *models[i].ToEntity())
	}
	return entity.Page[entity.Listing]{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}

// Categories returns the distinct, non-empty categories in alphabetical order.
func (r *listingGorm) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := platformdb.Conn(ctx, r.db).
		Model(&ListingModel{}).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &out).Error
	if out == nil {
		out = []string{}
	}
	return out, err
}

// IncrementViewCount bumps the counter without touching updated_at.
func (r *listingGorm) IncrementViewCount(ctx context.Context, publicID uuid.UUID) error {
	result := platformdb.Conn(ctx, r.db).
		Model(&ListingModel{}).
		Where("public_id = ?", publicID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrListingNotFound
	}
	return nil
}

// AdjustFavoriteCount adds delta, flooring the counter at zero.
func (r *listingGorm) AdjustFavoriteCount(ctx context.Context, publicID uuid.UUID, delta int) error {
	result := platformdb.Conn(ctx, r.db).
		Model(&ListingModel{}).
		Where("public_id = ?", publicID).
		UpdateColumn("favorite_count", gorm.Expr(
			"CASE WHEN favorite_count + ? < 0 THEN 0 ELSE favorite_count + ? END", delta, delta,
		))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrListingNotFound
	}
	return nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
