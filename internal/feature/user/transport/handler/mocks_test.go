package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/feature/user/usecase"
	jwtmw "stayease_backend/internal/platform/jwt"
	"stayease_backend/internal/shared/identity"
)

// mockAuthUsecase is a mock implementation of AuthUsecase.
type mockAuthUsecase struct {
	RegisterFunc func(ctx context.Context, in usecase.CreateUserInput) (*usecase.AuthResult, error)
	LoginFunc    func(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	CallbackFunc func(ctx context.Context, idToken string) (*usecase.AuthResult, error)
	MeFunc       func(ctx context.Context, caller identity.Caller) (*entity.User, error)
	LogoutFunc   func(ctx context.Context, caller identity.Caller, tokenID string, expiresAt time.Time) error
}

func (m *mockAuthUsecase) Register(ctx context.Context, in usecase.CreateUserInput) (*usecase.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil, usecase.ErrEmailAlreadyExists
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, usecase.ErrInvalidCredentials
}

func (m *mockAuthUsecase) HandleOAuthCallback(ctx context.Context, idToken string) (*usecase.AuthResult, error) {
	if m.CallbackFunc != nil {
		return m.CallbackFunc(ctx, idToken)
	}
	return nil, usecase.ErrInvalidIDToken
}

func (m *mockAuthUsecase) Me(ctx context.Context, caller identity.Caller) (*entity.User, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, caller)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockAuthUsecase) Logout(ctx context.Context, caller identity.Caller, tokenID string, expiresAt time.Time) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, caller, tokenID, expiresAt)
	}
	return nil
}

// mockUserUsecase is a mock implementation of UserUsecase.
type mockUserUsecase struct {
	CurrentUserFunc     func(ctx context.Context, caller identity.Caller) (*entity.User, error)
	GetUserFunc         func(ctx context.Context, caller identity.Caller, id uuid.UUID) (*entity.User, error)
	ListUsersFunc       func(ctx context.Context, caller identity.Caller) ([]entity.User, error)
	UpdateUserFunc      func(ctx context.Context, caller identity.Caller, id uuid.UUID, in usecase.UpdateUserInput) (*entity.User, error)
	DeleteUserFunc      func(ctx context.Context, caller identity.Caller, id uuid.UUID) error
	AddAuthorityFunc    func(ctx context.Context, caller identity.Caller, id uuid.UUID, name string) (*entity.User, error)
	RemoveAuthorityFunc func(ctx context.Context, caller identity.Caller, id uuid.UUID, name string) (*entity.User, error)
}

func (m *mockUserUsecase) CurrentUser(ctx context.Context, caller identity.Caller) (*entity.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, caller)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserUsecase) GetUser(ctx context.Context, caller identity.Caller, id uuid.UUID) (*entity.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, caller, id)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserUsecase) ListUsers(ctx context.Context, caller identity.Caller) ([]entity.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, caller)
	}
	return nil, nil
}

func (m *mockUserUsecase) UpdateUser(ctx context.Context, caller identity.Caller, id uuid.UUID, in usecase.UpdateUserInput) (*entity.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, caller, id, in)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserUsecase) DeleteUser(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, caller, id)
	}
	return nil
}

func (m *mockUserUsecase) AddAuthority(ctx context.Context, caller identity.Caller, id uuid.UUID, name string) (*entity.User, error) {
	if m.AddAuthorityFunc != nil {
		return m.AddAuthorityFunc(ctx, caller, id, name)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserUsecase) RemoveAuthority(ctx context.Context, caller identity.Caller, id uuid.UUID, name string) (*entity.User, error) {
	if m.RemoveAuthorityFunc != nil {
		return m.RemoveAuthorityFunc(ctx, caller, id, name)
	}
	return nil, usecase.ErrUserNotFound
}

// withCaller is a stand-in for the auth middleware.
func withCaller(caller identity.Caller, claims *jwtmw.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtmw.SetCaller(c, caller, claims)
		c.Next()
	}
}

func sampleUser() *entity.User {
	return &entity.User{
		PublicID:    uuid.New(),
		Email:       "jane@example.com",
		FirstName:   "Jane",
		Authorities: []entity.UserAuthority{{AuthorityName: identity.RoleTenant}},
	}
}

// doJSON sends a request with an optional JSON body and decodes the response.
func doJSON(t *testing.T, r http.Handler, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}
