package jwtmw

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stayease_backend/internal/platform/http/response"
	"stayease_backend/internal/shared/apperr"
	"stayease_backend/internal/shared/identity"
)

const (
	contextCaller = "caller"
	contextClaims = "tokenClaims"
)

// CallerResolver maps verified token claims to a local user.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, subject, email string, issuedAt time.Time) (identity.Caller, error)
}

// RevocationChecker reports whether a token id has been revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Middleware authenticates requests carrying a bearer access token.
type Middleware struct {
	verifier    *Verifier
	resolver    CallerResolver
	revocations RevocationChecker
}

// NewMiddleware creates the authentication middleware. revocations may be nil.
func NewMiddleware(verifier *Verifier, resolver CallerResolver, revocations RevocationChecker) *Middleware {
	return &Middleware{
		verifier:    verifier,
		resolver:    resolver,
		revocations: revocations,
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return tok, tok != ""
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func (m *Middleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := BearerToken(c)
		if !ok {
			response.Error(c, apperr.Unauthorized("missing bearer token"))
			return
		}

		claims, err := m.verifier.Verify(tokenStr)
		if err != nil {
			slog.Warn("token verification failed", "error", err, "remote_addr", c.ClientIP())
			response.Error(c, apperr.Unauthorized("invalid token"))
			return
		}

		if m.revocations != nil && claims.ID != "" {
			revoked, err := m.revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				response.Error(c, err)
				return
			}
			if revoked {
				response.Error(c, apperr.Unauthorized("token has been revoked"))
				return
			}
		}

		caller, err := m.resolver.ResolveCaller(c.Request.Context(), claims.Subject, claims.Email, claims.IssuedAt)
		if err != nil {
			response.Error(c, err)
			return
		}

		SetCaller(c, caller, claims)
		c.Next()
	}
}

// RequireRole rejects authenticated callers holding none of roles.
// It must run after AuthRequired.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if !caller.IsAuthenticated() {
			response.Error(c, apperr.Unauthorized("authentication required"))
			return
		}
		if !caller.HasAnyRole(roles...) {
			slog.Warn("role check failed", "caller", caller.PublicID, "required", roles, "remote_addr", c.ClientIP())
			response.Error(c, apperr.Forbidden("access denied"))
			return
		}
		c.Next()
	}
}

// SetCaller stores the authenticated caller and its token claims on c.
func SetCaller(c *gin.Context, caller identity.Caller, claims *Claims) {
	c.Set(contextCaller, caller)
	if claims != nil {
		c.Set(contextClaims, claims)
	}
}

// CallerFrom returns the caller set by AuthRequired, or the anonymous caller.
func CallerFrom(c *gin.Context) identity.Caller {
	if v, ok := c.Get(contextCaller); ok {
		if caller, ok := v.(identity.Caller); ok {
			return caller
		}
	}
	return identity.Anonymous()
}

// ClaimsFrom returns the verified token claims set by AuthRequired.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(contextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
