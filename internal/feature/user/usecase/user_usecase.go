package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/shared/identity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
)

// CreateUserInput carries the fields accepted when creating an account.
type CreateUserInput struct {
	Email       string
	FirstName   string
	LastName    string
	ImageURL    string
	Password    string
	Authorities []string
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	ImageURL  *string
}

// userUsecase implements account management.
type userUsecase struct {
	users       UserRepository
	authorities AuthorityRepository
	tx          TxManager
}

// NewUserUsecase creates a userUsecase.
func NewUserUsecase(users UserRepository, authorities AuthorityRepository, tx TxManager) *userUsecase {
	return &userUsecase{
		users:       users,
		authorities: authorities,
		tx:          tx,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new account. Without requested authorities the
// user becomes a tenant.
func (u *userUsecase) CreateUser(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	email := normalizeEmail(in.Email)

	user := &entity.User{
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		ImageURL:  in.ImageURL,
	}

	if in.Password != "" {
		if err := validatePassword(in.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hashed)
		user.PasswordHash = &h
	}

	roles := in.Authorities
	if len(roles) == 0 {
		roles = []string{identity.RoleTenant}
	}

	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := u.users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailAlreadyExists
		}

		seen := make(map[string]struct{}, len(roles))
		for _, name := range roles {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			if _, err := u.authorities.FindByName(ctx, name); err != nil {
				return err
			}
			user.Authorities = append(user.Authorities, entity.UserAuthority{AuthorityName: name})
		}

		return u.users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user created", "public_id", user.PublicID, "roles", user.RoleNames())
	return user, nil
}

// GetOrCreateFromOAuth returns the user with the identity's email, creating
// a verified tenant when none exists.
func (u *userUsecase) GetOrCreateFromOAuth(ctx context.Context, ext entity.ExternalIdentity) (*entity.User, error) {
	email := normalizeEmail(ext.Email)
	if email == "" {
		return nil, ErrInvalidIDToken
	}

	existing, err := u.users.FindByEmail(ctx, email)
	if err == nil {
		if !existing.Verified {
			return u.claimUnverified(ctx, existing, ext)
		}
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := &entity.User{
		Email:       email,
		FirstName:   ext.FirstName,
		LastName:    ext.LastName,
		ImageURL:    ext.ImageURL,
		Verified:    true,
		Authorities: []entity.UserAuthority{{AuthorityName: identity.RoleTenant}},
	}
	if err := u.users.Create(ctx, user); err != nil {
		// A concurrent callback may have created the same user.
		if errors.Is(err, ErrEmailAlreadyExists) {
			return u.users.FindByEmail(ctx, email)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "user created from identity provider", "public_id", user.PublicID)
	return user, nil
}

// claimUnverified hands an account nobody has proven ownership of to the
// identity provider's verified owner. Self-registered credentials and
// grants are dropped and earlier tokens stop resolving.
func (u *userUsecase) claimUnverified(ctx context.Context, user *entity.User, ext entity.ExternalIdentity) (*entity.User, error) {
	// iat は秒精度なので切り捨てて比較する
	validAfter := time.Now().Truncate(time.Second)

	var claimed *entity.User
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		user.Verified = true
		user.PasswordHash = nil
		user.TokensValidAfter = &validAfter
		if user.FirstName == "" {
			user.FirstName = ext.FirstName
		}
		if user.LastName == "" {
			user.LastName = ext.LastName
		}
		if err := u.users.Update(ctx, user); err != nil {
			return err
		}

		for _, name := range user.RoleNames() {
			if name == identity.RoleTenant {
				continue
			}
			if err := u.users.RemoveAuthority(ctx, user.ID, name); err != nil {
				return err
			}
		}
		if err := u.users.AddAuthority(ctx, user.ID, identity.RoleTenant); err != nil {
			return err
		}

		var err error
		claimed, err = u.users.FindByPublicID(ctx, user.PublicID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.WarnContext(ctx, "unverified account claimed through identity provider", "public_id", claimed.PublicID)
	return claimed, nil
}

// GetUser returns a user visible to caller (self or admin).
func (u *userUsecase) GetUser(ctx context.Context, caller identity.Caller, publicID uuid.UUID) (*entity.User, error) {
	if err := requireSelfOrAdmin(caller, publicID); err != nil {
		return nil, err
	}
	return u.users.FindByPublicID(ctx, publicID)
}

// CurrentUser returns the caller's own record.
func (u *userUsecase) CurrentUser(ctx context.Context, caller identity.Caller) (*entity.User, error) {
	if !caller.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	return u.users.FindByPublicID(ctx, caller.PublicID)
}

// ListUsers returns every user. Admin only.
func (u *userUsecase) ListUsers(ctx context.Context, caller identity.Caller) ([]entity.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return u.users.List(ctx)
}

// UpdateUser applies the non-nil fields of in.
func (u *userUsecase) UpdateUser(ctx context.Context, caller identity.Caller, publicID uuid.UUID, in UpdateUserInput) (*entity.User, error) {
	if err := requireSelfOrAdmin(caller, publicID); err != nil {
		return nil, err
	}

	var user *entity.User
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = u.users.FindByPublicID(ctx, publicID)
		if err != nil {
			return err
		}
		if in.FirstName != nil {
			user.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			user.LastName = *in.LastName
		}
		if in.ImageURL != nil {
			user.ImageURL = *in.ImageURL
		}
		return u.users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. Admin only.
func (u *userUsecase) DeleteUser(ctx context.Context, caller identity.Caller, publicID uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := u.users.FindByPublicID(ctx, publicID)
		if err != nil {
			return err
		}
		return u.users.Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "user deleted", "public_id", publicID, "by", caller.PublicID)
	return nil
}

// AddAuthority grants a role. Admin only.
func (u *userUsecase) AddAuthority(ctx context.Context, caller identity.Caller, publicID uuid.UUID, name string) (*entity.User, error) {
	return u.changeAuthority(ctx, caller, publicID, name, u.users.AddAuthority)
}

// RemoveAuthority revokes a role. Admin only.
func (u *userUsecase) RemoveAuthority(ctx context.Context, caller identity.Caller, publicID uuid.UUID, name string) (*entity.User, error) {
	return u.changeAuthority(ctx, caller, publicID, name, u.users.RemoveAuthority)
}

func (u *userUsecase) changeAuthority(
	ctx context.Context,
	caller identity.Caller,
	publicID uuid.UUID,
	name string,
	apply func(ctx context.Context, userID uint, name string) error,
) (*entity.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var user *entity.User
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		target, err := u.users.FindByPublicID(ctx, publicID)
		if err != nil {
			return err
		}
		if _, err := u.authorities.FindByName(ctx, name); err != nil {
			return err
		}
		if err := apply(ctx, target.ID, name); err != nil {
			return err
		}
		user, err = u.users.FindByPublicID(ctx, publicID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user authorities changed", "public_id", publicID, "authority", name, "roles", user.RoleNames())
	return user, nil
}

// ResolveCaller maps token claims to a caller. The subject is tried as a
// public id first, then the email claim. Tokens issued before the user's
// TokensValidAfter are rejected.
func (u *userUsecase) ResolveCaller(ctx context.Context, subject, email string, issuedAt time.Time) (identity.Caller, error) {
	var (
		user *entity.User
		err  error = ErrUserNotFound
	)
	if id, parseErr := uuid.Parse(subject); parseErr == nil {
		user, err = u.users.FindByPublicID(ctx, id)
	}
	if errors.Is(err, ErrUserNotFound) && email != "" {
		user, err = u.users.FindByEmail(ctx, normalizeEmail(email))
	}
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return identity.Caller{}, ErrUnauthenticated
		}
		return identity.Caller{}, err
	}
	if !user.AcceptsTokenIssuedAt(issuedAt) {
		return identity.Caller{}, ErrUnauthenticated
	}

	return identity.Caller{
		PublicID: user.PublicID,
		Email:    user.Email,
		Roles:    user.RoleNames(),
	}, nil
}

func requireAdmin(caller identity.Caller) error {
	if !caller.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func requireSelfOrAdmin(caller identity.Caller, publicID uuid.UUID) error {
	if !caller.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if !caller.IsSelfOrAdmin(publicID) {
		return ErrForbidden
	}
	return nil
}
