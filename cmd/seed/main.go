// Command seed fills the configured database with demo accounts and listings.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"stayease_backend/internal/app/di"
	"stayease_backend/internal/platform/config"
	platformdb "stayease_backend/internal/platform/db"
	"stayease_backend/internal/platform/logging"
	"stayease_backend/internal/seed"
)

func main() {
	def := seed.DefaultOptions()
	landlords := flag.Int("landlords", def.Landlords, "Number of landlords to create")
	tenants := flag.Int("tenants", def.Tenants, "Number of tenants to create")
	perLandlord := flag.Int("listings", def.ListingsPerLandlord, "Listings per landlord")
	publishEvery := flag.Int("publish-every", def.PublishEvery, "Publish every n-th listing (0 keeps drafts)")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Env, cfg.LogLevel)

	ctx := context.Background()

	db, err := platformdb.Open(cfg.Database(), cfg.DBConnectTimeout)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := di.Migrate(ctx, db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// キャッシュ不要のため Redis なしで組み立てる
	c := di.NewContainer(db, nil, di.Options{
		JWTSecret:     cfg.JWTSecret,
		JWTExpiration: cfg.JWTExpiration,
	})

	_, err = seed.NewSeeder(c.Accounts, c.Listings, *randSeed).Run(ctx, seed.Options{
		Landlords:           *landlords,
		Tenants:             *tenants,
		ListingsPerLandlord: *perLandlord,
		PublishEvery:        *publishEvery,
	})
	if err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}
