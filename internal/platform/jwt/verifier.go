package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the fields read from a verified token. Name and picture claims
// are only present on identity-provider tokens.
type Claims struct {
	Subject    string
	Email      string
	ID         string
	GivenName  string
	FamilyName string
	Picture    string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Verifier checks HS256 signatures against a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses tokenStr, checks its signature and expiry, and returns its claims.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, errors.New("verifier secret is not configured")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		Subject:    stringClaim(mc, "sub"),
		Email:      stringClaim(mc, "email"),
		ID:         stringClaim(mc, "jti"),
		GivenName:  stringClaim(mc, "given_name"),
		FamilyName: stringClaim(mc, "family_name"),
		Picture:    stringClaim(mc, "picture"),
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.Subject == "" && claims.Email == "" {
		return nil, fmt.Errorf("%w: missing sub and email", ErrInvalidToken)
	}
	return claims, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	s, _ := mc[key].(string)
	return s
}
