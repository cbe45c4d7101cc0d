package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims for session tokens.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating session tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateToken issues a signed token for the given identity.
	GenerateToken(userID int64, email string) (string, error)

	// ValidateToken verifies signature and expiry and returns the embedded claims.
	// Every failure is reported as domainerrors.ErrInvalidToken.
	ValidateToken(tokenString string) (*Claims, error)

	// TokenTTL returns the configured lifetime of issued tokens.
	TokenTTL() time.Duration
}
