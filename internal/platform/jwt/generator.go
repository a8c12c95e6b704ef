package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// generator issues HS256 access tokens.
type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed JWT whose subject is the user's public id.
// Each token carries a unique jti so it can be revoked on logout.
func (g *generator) GenerateToken(subject, email string) (string, time.Time, error) {
	now := g.now()
	exp := time.Unix(now.Add(g.expiration).Unix(), 0)

	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, exp, nil
}

// Expiration returns the configured token lifetime.
func (g *generator) Expiration() time.Duration {
	return g.expiration
}
