package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/mamark678/fuelgo/internal/domain"
)

// AdminVerifier validates HMAC-signed admin authorization tokens.
type AdminVerifier struct {
	secret []byte
}

// NewAdminVerifier creates a verifier for the given shared secret.
func NewAdminVerifier(secret []byte) *AdminVerifier {
	return &AdminVerifier{secret: secret}
}

// Verify checks the token signature and registered claims (expiry, not
// before). It returns the claims on success.
func (v *AdminVerifier) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidAdminToken
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidAdminToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidAdminToken
	}

	return claims, nil
}
