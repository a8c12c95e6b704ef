// Package seed fills a database with demo landlords, tenants and listings.
// Everything goes through the usecases so the data obeys the same rules as
// API traffic.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	listingentity "stayease_backend/internal/feature/listing/domain/entity"
	listingusecase "stayease_backend/internal/feature/listing/usecase"
	userentity "stayease_backend/internal/feature/user/domain/entity"
	userusecase "stayease_backend/internal/feature/user/usecase"
	"stayease_backend/internal/shared/identity"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

var (
	propertyTypes = []string{"Apartment", "House", "Villa", "Cabin", "Loft", "Cottage"}
	roomTypes     = []string{"Entire place", "Private room", "Shared room"}
	policies      = []string{"flexible", "moderate", "strict"}
	amenityPool   = []string{"WiFi", "Kitchen", "Washer", "Dryer", "Air conditioning", "Heating", "Pool", "Free parking", "TV", "Workspace"}
)

// AccountCreator creates user accounts.
type AccountCreator interface {
	CreateUser(ctx context.Context, in userusecase.CreateUserInput) (*userentity.User, error)
}

// ListingWriter creates and publishes listings.
type ListingWriter interface {
	CreateListing(ctx context.Context, caller identity.Caller, in listingusecase.CreateListingInput) (*listingentity.Listing, error)
	PublishListing(ctx context.Context, caller identity.Caller, publicID uuid.UUID) (*listingentity.Listing, error)
}

// Options controls how much data is generated.
type Options struct {
	Landlords           int
	Tenants             int
	ListingsPerLandlord int
	// PublishEvery publishes every n-th listing; 0 leaves all as drafts.
	PublishEvery int
}

// DefaultOptions is what cmd/seed uses without flags.
func DefaultOptions() Options {
	return Options{Landlords: 3, Tenants: 5, ListingsPerLandlord: 4, PublishEvery: 1}
}

// Result summarises a run.
type Result struct {
	Landlords []*userentity.User
	Tenants   []*userentity.User
	Listings  int
	Published int
}

// Seeder generates demo data through the usecases.
type Seeder struct {
	accounts AccountCreator
	listings ListingWriter
	faker    *gofakeit.Faker
}

// NewSeeder creates a Seeder. A non-zero randSeed makes the output reproducible.
func NewSeeder(accounts AccountCreator, listings ListingWriter, randSeed int64) *Seeder {
	return &Seeder{
		accounts: accounts,
		listings: listings,
		faker:    gofakeit.New(randSeed),
	}
}

// Run creates the accounts and listings described by opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}

	for i := 0; i < opts.Landlords; i++ {
		u, err := s.createUser(ctx, "landlord", i, identity.RoleLandlord)
		if err != nil {
			return res, err
		}
		res.Landlords = append(res.Landlords, u)
	}
	for i := 0; i < opts.Tenants; i++ {
		u, err := s.createUser(ctx, "tenant", i, identity.RoleTenant)
		if err != nil {
			return res, err
		}
		res.Tenants = append(res.Tenants, u)
	}

	n := 0
	for _, landlord := range res.Landlords {
		caller := identity.Caller{PublicID: landlord.PublicID, Email: landlord.Email, Roles: landlord.RoleNames()}
		for j := 0; j < opts.ListingsPerLandlord; j++ {
			l, err := s.listings.CreateListing(ctx, caller, s.listingInput())
			if err != nil {
				return res, fmt.Errorf("create listing for %s: %w", landlord.Email, err)
			}
			res.Listings++
			n++

			if opts.PublishEvery > 0 && n%opts.PublishEvery == 0 {
				if _, err := s.listings.PublishListing(ctx, caller, l.PublicID); err != nil {
					return res, fmt.Errorf("publish listing %s: %w", l.PublicID, err)
				}
				res.Published++
			}
		}
	}

	slog.InfoContext(ctx, "seed completed",
		"landlords", len(res.Landlords),
		"tenants", len(res.Tenants),
		"listings", res.Listings,
		"published", res.Published,
	)
	return res, nil
}

func (s *Seeder) createUser(ctx context.Context, kind string, i int, role string) (*userentity.User, error) {
	f := s.faker
	in := userusecase.CreateUserInput{
		// 連番を入れてメールアドレスの重複を避ける
		Email:       fmt.Sprintf("%s%d.%s@example.com", kind, i+1, f.Username()),
		FirstName:   f.FirstName(),
		LastName:    f.LastName(),
		ImageURL:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.UUID()),
		Password:    DemoPassword,
		Authorities: []string{role},
	}
	u, err := s.accounts.CreateUser(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return u, nil
}

func (s *Seeder) listingInput() listingusecase.CreateListingInput {
	f := s.faker
	addr := f.Address()
	propertyType := f.RandomString(propertyTypes)
	lat, lng := addr.Latitude, addr.Longitude
	cleaning := float64(f.Number(10, 80))
	fee := 10.0
	minNights := f.Number(1, 3)
	maxNights := minNights + f.Number(7, 30)

	bedrooms := f.Number(1, 5)
	in := listingusecase.CreateListingInput{
		Title:        fmt.Sprintf("%s %s in %s", f.AdjectiveDescriptive(), propertyType, addr.City),
		Description:  f.Paragraph(1, 3, 8, " "),
		PropertyType: propertyType,
		RoomType:     f.RandomString(roomTypes),

		Address:    addr.Street,
		City:       addr.City,
		State:      addr.State,
		Country:    addr.Country,
		PostalCode: addr.Zip,
		Latitude:   &lat,
		Longitude:  &lng,

		Bedrooms:  bedrooms,
		Beds:      bedrooms + f.Number(0, 2),
		Bathrooms: float64(f.Number(1, 3)),
		MaxGuests: bedrooms * 2,

		Price:                float64(f.Number(40, 400)),
		CleaningFee:          &cleaning,
		ServiceFeePercentage: &fee,
		Currency:             "USD",

		Amenities:          s.amenities(),
		HouseRules:         map[string]bool{"smoking": false, "pets": f.Bool(), "parties": false},
		CheckInTime:        "15:00",
		CheckOutTime:       "11:00",
		MinNights:          &minNights,
		MaxNights:          &maxNights,
		InstantBook:        f.Bool(),
		CancellationPolicy: f.RandomString(policies),
	}

	images := f.Number(1, 4)
	for k := 0; k < images; k++ {
		in.Images = append(in.Images, listingusecase.ImageInput{
			URL:     fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", f.UUID()),
			Caption: f.Sentence(4),
		})
	}
	return in
}

func (s *Seeder) amenities() []string {
	out := make([]string, 0, len(amenityPool))
	for _, a := range amenityPool {
		if s.faker.Bool() {
			out = append(out, a)
		}
	}
	return out
}
