package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/shared/identity"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	CreateFunc          func(ctx context.Context, user *entity.User) error
	FindByEmailFunc     func(ctx context.Context, email string) (*entity.User, error)
	FindByPublicIDFunc  func(ctx context.Context, publicID uuid.UUID) (*entity.User, error)
	ExistsByEmailFunc   func(ctx context.Context, email string) (bool, error)
	ListFunc            func(ctx context.Context) ([]entity.User, error)
	UpdateFunc          func(ctx context.Context, user *entity.User) error
	DeleteFunc          func(ctx context.Context, userID uint) error
	AddAuthorityFunc    func(ctx context.Context, userID uint, name string) error
	RemoveAuthorityFunc func(ctx context.Context, userID uint, name string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	if user.PublicID == uuid.Nil {
		user.PublicID = uuid.New()
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.User, error) {
	if m.FindByPublicIDFunc != nil {
		return m.FindByPublicIDFunc(ctx, publicID)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *entity.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, userID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID)
	}
	return nil
}

func (m *mockUserRepository) AddAuthority(ctx context.Context, userID uint, name string) error {
	if m.AddAuthorityFunc != nil {
		return m.AddAuthorityFunc(ctx, userID, name)
	}
	return nil
}

func (m *mockUserRepository) RemoveAuthority(ctx context.Context, userID uint, name string) error {
	if m.RemoveAuthorityFunc != nil {
		return m.RemoveAuthorityFunc(ctx, userID, name)
	}
	return nil
}

// mockAuthorityRepository knows the four seeded roles by default.
type mockAuthorityRepository struct {
	FindByNameFunc func(ctx context.Context, name string) (*entity.Authority, error)
}

func (m *mockAuthorityRepository) FindByName(ctx context.Context, name string) (*entity.Authority, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	if identity.IsKnownRole(name) {
		return &entity.Authority{Name: name}, nil
	}
	return nil, ErrAuthorityNotFound
}

// passthroughTx runs fn directly.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// mockJWTGenerator is a mock implementation of JWTGenerator interface.
type mockJWTGenerator struct {
	GenerateTokenFunc func(subject, email string) (string, time.Time, error)
}

func (m *mockJWTGenerator) GenerateToken(subject, email string) (string, time.Time, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(subject, email)
	}
	return "mock-jwt-token", time.Now().Add(time.Hour), nil
}

type mockIDTokenVerifier struct {
	VerifyIDTokenFunc func(ctx context.Context, token string) (entity.ExternalIdentity, error)
}

func (m *mockIDTokenVerifier) VerifyIDToken(ctx context.Context, token string) (entity.ExternalIdentity, error) {
	if m.VerifyIDTokenFunc != nil {
		return m.VerifyIDTokenFunc(ctx, token)
	}
	return entity.ExternalIdentity{}, ErrInvalidIDToken
}

type mockRevoker struct {
	RevokeFunc func(ctx context.Context, token entity.RevokedToken) error
}

func (m *mockRevoker) Revoke(ctx context.Context, token entity.RevokedToken) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func userWithRoles(roles ...string) *entity.User {
	u := &entity.User{ID: 7, PublicID: uuid.New(), Email: "user@example.com"}
	for _, r := range roles {
		u.Authorities = append(u.Authorities, entity.UserAuthority{UserID: 7, AuthorityName: r})
	}
	return u
}

func adminCaller() identity.Caller {
	return identity.Caller{PublicID: uuid.New(), Email: "admin@example.com", Roles: []string{identity.RoleAdmin}}
}

func tenantCaller(id uuid.UUID) identity.Caller {
	return identity.Caller{PublicID: id, Email: "tenant@example.com", Roles: []string{identity.RoleTenant}}
}
