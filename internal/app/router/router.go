package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	listinghandler "stayease_backend/internal/feature/listing/transport/handler"
	userhandler "stayease_backend/internal/feature/user/transport/handler"
	platformhandler "stayease_backend/internal/platform/http/handler"
	"stayease_backend/internal/platform/http/middleware"
	"stayease_backend/internal/platform/http/response"
	jwtmw "stayease_backend/internal/platform/jwt"
	"stayease_backend/internal/shared/apperr"
	"stayease_backend/internal/shared/identity"
	"stayease_backend/internal/shared/ratelimiter"
)

// Deps are the handlers and middleware the route table needs.
type Deps struct {
	Auth     *userhandler.AuthHandler
	Users    *userhandler.UserHandler
	Listings *listinghandler.ListingHandler

	AuthMiddleware *jwtmw.Middleware
	AuthLimiter    ratelimiter.Limiter
	ViewLimiter    ratelimiter.Limiter

	Readiness      gin.HandlerFunc
	AllowedOrigins []string
}

// NewRouter builds the gin engine with every route.
func NewRouter(d Deps) *gin.Engine {
	response.RegisterTagNames()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), middleware.Metrics())
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID, "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperr.NotFound("resource not found"))
	})

	// 認証不要
	r.Match([]string{http.MethodGet, http.MethodHead, http.MethodOptions}, "/healthz", platformhandler.Health)
	if d.Readiness != nil {
		r.GET("/readyz", d.Readiness)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := d.AuthMiddleware.AuthRequired()
	authLimit := middleware.RateLimit(d.AuthLimiter, "auth")

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authLimit, d.Auth.Register)
		auth.POST("/login", authLimit, d.Auth.Login)
		auth.POST("/callback", authLimit, d.Auth.Callback)
		auth.GET("/me", authRequired, d.Auth.Me)
		auth.POST("/logout", authRequired, d.Auth.Logout)
	}

	adminOnly := jwtmw.RequireRole(identity.RoleAdmin)
	users := r.Group("/api/users", authRequired)
	{
		users.GET("", adminOnly, d.Users.List)
		users.GET("/me", d.Users.Me)
		users.GET("/:publicId", d.Users.Get)
		users.PUT("/:publicId", d.Users.Update)
		users.DELETE("/:publicId", adminOnly, d.Users.Delete)
		users.POST("/:publicId/authorities/:name", adminOnly, d.Users.AddAuthority)
		users.DELETE("/:publicId/authorities/:name", adminOnly, d.Users.RemoveAuthority)
	}

	// 公開の参照系
	listings := r.Group("/api/listings")
	{
		listings.GET("", d.Listings.List)
		listings.GET("/search", d.Listings.Search)
		listings.GET("/categories", d.Listings.Categories)
		listings.GET("/landlord/:landlordId", d.Listings.ByLandlord)
		listings.GET("/category/:category", d.Listings.ByCategory)
		listings.GET("/:publicId", d.Listings.Get)
		listings.POST("/:publicId/view", middleware.RateLimit(d.ViewLimiter, "view"), d.Listings.View)
	}

	owned := r.Group("/api/listings", authRequired)
	{
		owned.POST("", jwtmw.RequireRole(identity.RoleLandlord, identity.RoleAdmin), d.Listings.Create)
		owned.GET("/my-listings", d.Listings.Mine)
		owned.GET("/favorites", d.Listings.Favorites)
		owned.PUT("/:publicId", d.Listings.Update)
		owned.DELETE("/:publicId", d.Listings.Delete)
		owned.POST("/:publicId/publish", d.Listings.Publish)
		owned.POST("/:publicId/unpublish", d.Listings.Unpublish)
		owned.POST("/:publicId/favorite", d.Listings.ToggleFavorite)
		owned.GET("/:publicId/is-favorited", d.Listings.IsFavorited)
	}

	return r
}
