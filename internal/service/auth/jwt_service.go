package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
// The service issues access tokens only: the UI is a local desktop shell,
// so there is no refresh flow.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the rater.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, raterID int64) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims if the token is valid, or an error if validation
	// fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated claims extracted from a token.
type Claims struct {
	// RaterID is the unique identifier of the rater the token was issued for.
	RaterID int64 `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
