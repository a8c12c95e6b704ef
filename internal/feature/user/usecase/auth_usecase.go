package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/shared/identity"
)

// TokenType is the scheme clients send back in the Authorization header.
const TokenType = "Bearer"

// dummyHash keeps Login's timing independent of whether the email exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// selfAssignableRoles are the roles a client may request at registration.
var selfAssignableRoles = map[string]bool{
	identity.RoleTenant:   true,
	identity.RoleLandlord: true,
}

// AccountService is the subset of userUsecase that authentication needs.
type AccountService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*entity.User, error)
	GetOrCreateFromOAuth(ctx context.Context, ext entity.ExternalIdentity) (*entity.User, error)
	CurrentUser(ctx context.Context, caller identity.Caller) (*entity.User, error)
}

// AuthResult is returned by every flow that issues a credential.
type AuthResult struct {
	Token     string
	TokenType string
	ExpiresIn int64 // seconds
	User      *entity.User
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	accounts     AccountService
	users        UserRepository
	jwtGenerator JWTGenerator
	idTokens     IDTokenVerifier
	revoker      TokenRevoker
	now          func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(
	accounts AccountService,
	users UserRepository,
	jwtGenerator JWTGenerator,
	idTokens IDTokenVerifier,
	revoker TokenRevoker,
) *authUsecase {
	return &authUsecase{
		accounts:     accounts,
		users:        users,
		jwtGenerator: jwtGenerator,
		idTokens:     idTokens,
		revoker:      revoker,
		now:          time.Now,
	}
}

// Register creates an account. Only tenant and landlord roles may be
// requested. A token is issued only when a password was set; passwordless
// accounts get the profile back and sign in through the identity provider.
func (u *authUsecase) Register(ctx context.Context, in CreateUserInput) (*AuthResult, error) {
	for _, role := range in.Authorities {
		if !selfAssignableRoles[role] {
			return nil, fmt.Errorf("%w: %s", ErrRoleNotSelfAssignable, role)
		}
	}

	user, err := u.accounts.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return &AuthResult{User: user}, nil
	}
	return u.issue(user)
}

// Login はユーザーを認証し、成功時にアクセストークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	passwordHash := dummyHash
	if err == nil && user.HasPassword() {
		passwordHash = *user.PasswordHash
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出、パスワード未設定、不一致はすべて同じエラー
	if err != nil || !user.HasPassword() || compareErr != nil {
		slog.WarnContext(ctx, "login failed", "email", email)
		return nil, ErrInvalidCredentials
	}

	return u.issue(user)
}

// HandleOAuthCallback verifies an identity-provider token, resolves or
// creates the local user and returns a local access token.
func (u *authUsecase) HandleOAuthCallback(ctx context.Context, idToken string) (*AuthResult, error) {
	ext, err := u.idTokens.VerifyIDToken(ctx, idToken)
	if err != nil {
		slog.WarnContext(ctx, "identity token rejected", "error", err)
		return nil, ErrInvalidIDToken
	}

	user, err := u.accounts.GetOrCreateFromOAuth(ctx, ext)
	if err != nil {
		return nil, err
	}
	return u.issue(user)
}

// Me returns the caller's profile.
func (u *authUsecase) Me(ctx context.Context, caller identity.Caller) (*entity.User, error) {
	return u.accounts.CurrentUser(ctx, caller)
}

// Logout revokes the presented token until it expires.
func (u *authUsecase) Logout(ctx context.Context, caller identity.Caller, tokenID string, expiresAt time.Time) error {
	if !caller.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if tokenID == "" {
		return nil
	}

	err := u.revoker.Revoke(ctx, entity.RevokedToken{
		ID:           tokenID,
		UserPublicID: caller.PublicID,
		ExpiresAt:    expiresAt,
		RevokedAt:    u.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	slog.InfoContext(ctx, "user logged out", "public_id", caller.PublicID)
	return nil
}

func (u *authUsecase) issue(user *entity.User) (*AuthResult, error) {
	token, expiresAt, err := u.jwtGenerator.GenerateToken(user.PublicID.String(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	expiresIn := int64(expiresAt.Sub(u.now()).Seconds())
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	return &AuthResult{
		Token:     token,
		TokenType: TokenType,
		ExpiresIn: expiresIn,
		User:      user,
	}, nil
}
