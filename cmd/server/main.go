package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"stayease_backend/internal/app/di"
	"stayease_backend/internal/app/router"
	listinghandler "stayease_backend/internal/feature/listing/transport/handler"
	userhandler "stayease_backend/internal/feature/user/transport/handler"
	"stayease_backend/internal/platform/config"
	platformdb "stayease_backend/internal/platform/db"
	platformhandler "stayease_backend/internal/platform/http/handler"
	"stayease_backend/internal/platform/logging"
	platformredis "stayease_backend/internal/platform/redis"
	"stayease_backend/internal/shared/ratelimiter"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.Open(cfg.Database(), cfg.DBConnectTimeout)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	if cfg.RunMigrations {
		if err := di.Migrate(ctx, db); err != nil {
			return err
		}
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.RedisEnabled() {
		if tmp, err := platformredis.NewRedisClient(ctx, cfg.RedisAddr(), cfg.RedisPassword); err != nil {
			slog.Warn("redis unavailable, running without cache and rate limiting", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	c := di.NewContainer(db, rdb, di.Options{
		JWTSecret:         cfg.JWTSecret,
		JWTExpiration:     cfg.JWTExpiration,
		OAuthClientSecret: cfg.OAuthClientSecret,
		CacheTTL:          cfg.CacheTTL,
	})
	if cfg.RunMigrations {
		// スキーマ変更後の古いキャッシュを破棄
		if err := c.ListingCache.Purge(ctx); err != nil {
			slog.Warn("listing cache purge failed", "error", err)
		}
	}

	checks := map[string]platformhandler.Check{"database": platformhandler.SQLCheck(sqlDB)}
	if rdb != nil {
		checks["redis"] = platformhandler.RedisCheck(rdb)
	}

	r := router.NewRouter(router.Deps{
		Auth:           userhandler.NewAuthHandler(c.Auth),
		Users:          userhandler.NewUserHandler(c.Users),
		Listings:       listinghandler.NewListingHandler(c.Listings, c.Favorites),
		AuthMiddleware: c.AuthMiddleware,
		AuthLimiter:    ratelimiter.NewRateLimiter(rdb, "ratelimit:auth", cfg.RateLimitAuth, cfg.RateLimitWindow),
		ViewLimiter:    ratelimiter.NewRateLimiter(rdb, "ratelimit:view", cfg.RateLimitView, cfg.RateLimitWindow),
		Readiness:      platformhandler.Readiness(checks),
		AllowedOrigins: cfg.Origins(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
