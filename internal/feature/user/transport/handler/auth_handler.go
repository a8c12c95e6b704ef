// Package handler はuserフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/feature/user/transport/http/dto"
	"stayease_backend/internal/feature/user/usecase"
	"stayease_backend/internal/platform/http/response"
	jwtmw "stayease_backend/internal/platform/jwt"
	"stayease_backend/internal/shared/apperr"
	"stayease_backend/internal/shared/identity"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.CreateUserInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	HandleOAuthCallback(ctx context.Context, idToken string) (*usecase.AuthResult, error)
	Me(ctx context.Context, caller identity.Caller) (*entity.User, error)
	Logout(ctx context.Context, caller identity.Caller, tokenID string, expiresAt time.Time) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール重複時は409、許可されないロール要求時は403を返却
// - 成功時はアクセストークン付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, response.BindError(err))
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		slog.Warn("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		response.Error(c, err)
		return
	}

	slog.Info("user registered", "public_id", res.User.PublicID, "remote_addr", c.ClientIP())
	// パスワードなしの登録ではトークンを発行しない
	if res.Token == "" {
		response.Created(c, dto.FromUser(res.User), "User registered successfully")
		return
	}
	response.Created(c, dto.FromAuthResult(res), "User registered successfully")
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗の理由はクライアントに公開しません。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, response.BindError(err))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			err = usecase.ErrInvalidCredentials
		}
		response.Error(c, err)
		return
	}

	slog.Info("user login successful", "public_id", res.User.PublicID, "remote_addr", c.ClientIP())
	response.OK(c, dto.FromAuthResult(res), "Login successful")
}

// Callback exchanges an identity-provider token sent as a bearer credential
// for a local access token.
func (h *AuthHandler) Callback(c *gin.Context) {
	idToken, ok := jwtmw.BearerToken(c)
	if !ok {
		response.Error(c, apperr.Unauthorized("missing bearer token"))
		return
	}

	res, err := h.auth.HandleOAuthCallback(c.Request.Context(), idToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	slog.Info("oauth sign-in", "public_id", res.User.PublicID, "remote_addr", c.ClientIP())
	response.OK(c, dto.FromAuthResult(res), "Authentication successful")
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), jwtmw.CallerFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromUser(user), "User retrieved successfully")
}

// Logout revokes the bearer token used for this request.
func (h *AuthHandler) Logout(c *gin.Context) {
	var (
		tokenID   string
		expiresAt time.Time
	)
	if claims, ok := jwtmw.ClaimsFrom(c); ok {
		tokenID = claims.ID
		expiresAt = claims.ExpiresAt
	}

	if err := h.auth.Logout(c.Request.Context(), jwtmw.CallerFrom(c), tokenID, expiresAt); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Logged out successfully")
}
