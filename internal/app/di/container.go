package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	listingadapters "stayease_backend/internal/feature/listing/adapters"
	listinghandler "stayease_backend/internal/feature/listing/transport/handler"
	listingusecase "stayease_backend/internal/feature/listing/usecase"
	useradapters "stayease_backend/internal/feature/user/adapters"
	userhandler "stayease_backend/internal/feature/user/transport/handler"
	userusecase "stayease_backend/internal/feature/user/usecase"
	"stayease_backend/internal/platform/cache"
	platformdb "stayease_backend/internal/platform/db"
	jwtmw "stayease_backend/internal/platform/jwt"
)

// Options tunes the container.
type Options struct {
	JWTSecret         string
	JWTExpiration     time.Duration
	OAuthClientSecret string
	CacheTTL          time.Duration
}

// Container holds the wired usecases shared by the server and the seed command.
type Container struct {
	Accounts  userusecase.AccountService
	Users     userhandler.UserUsecase
	Auth      userhandler.AuthUsecase
	Listings  listinghandler.ListingUsecase
	Favorites listinghandler.FavoriteUsecase

	AuthMiddleware *jwtmw.Middleware
	ListingCache   *cache.CachingListingRepository
}

// NewContainer wires repositories, usecases and the auth middleware.
// rdb may be nil; caching and Redis revocation are then disabled.
func NewContainer(db *gorm.DB, rdb *redis.Client, opts Options) *Container {
	tx := platformdb.NewTxManager(db)

	// Repository
	userRepo := useradapters.NewUserGorm(db)
	authorityRepo := useradapters.NewAuthorityGorm(db)
	listingRepo := cache.NewCachingListingRepository(rdb, opts.CacheTTL, listingadapters.NewListingGorm(db), "listings")
	favoriteRepo := listingadapters.NewFavoriteGorm(db)
	revocations := NewRevocationStore(rdb, db)

	// Token
	generator := jwtmw.NewGenerator(opts.JWTSecret, opts.JWTExpiration)
	verifier := jwtmw.NewVerifier(opts.JWTSecret)
	idTokens := useradapters.NewIDTokenVerifier(jwtmw.NewVerifier(opts.OAuthClientSecret))

	// Usecase
	userUC := userusecase.NewUserUsecase(userRepo, authorityRepo, tx)
	authUC := userusecase.NewAuthUsecase(userUC, userRepo, generator, idTokens, revocations)
	listingUC := listingusecase.NewListingUsecase(listingRepo, favoriteRepo, tx)
	favoriteUC := listingusecase.NewFavoriteUsecase(listingRepo, favoriteRepo, tx)

	return &Container{
		Accounts:       userUC,
		Users:          userUC,
		Auth:           authUC,
		Listings:       listingUC,
		Favorites:      favoriteUC,
		AuthMiddleware: jwtmw.NewMiddleware(verifier, userUC, revocations),
		ListingCache:   listingRepo,
	}
}
