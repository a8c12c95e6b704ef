package adapters

import (
	"context"

	"stayease_backend/internal/feature/user/domain/entity"
	"stayease_backend/internal/feature/user/usecase"
	jwtmw "stayease_backend/internal/platform/jwt"
)

// idTokenVerifier adapts the shared-secret JWT verifier to identity-provider tokens.
type idTokenVerifier struct {
	verifier *jwtmw.Verifier
}

var _ usecase.IDTokenVerifier = (*idTokenVerifier)(nil)

// NewIDTokenVerifier creates an IDTokenVerifier for tokens signed with the client secret.
func NewIDTokenVerifier(verifier *jwtmw.Verifier) *idTokenVerifier {
	return &idTokenVerifier{verifier: verifier}
}

// VerifyIDToken checks the signature and maps the profile claims.
func (v *idTokenVerifier) VerifyIDToken(_ context.Context, token string) (entity.ExternalIdentity, error) {
	claims, err := v.verifier.Verify(token)
	if err != nil {
		return entity.ExternalIdentity{}, err
	}
	if claims.Email == "" {
		return entity.ExternalIdentity{}, usecase.ErrInvalidIDToken
	}
	return entity.ExternalIdentity{
		Email:     claims.Email,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
		ImageURL:  claims.Picture,
	}, nil
}
