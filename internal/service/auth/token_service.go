package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService defines operations for managing JWT authentication tokens.
type TokenService interface {
	// IssueToken creates a signed JWT for the given subject. Returns the
	// token string and its expiry, or an error if signing fails.
	IssueToken(ctx context.Context, subject string) (string, time.Time, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns an error if validation fails (expired, invalid
	// signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated claims carried by an issued token.
type Claims struct {
	// Subject is the operator identity the token was issued for.
	Subject string `json:"sub,omitempty"`

	// OwnerID is a stable UUID derived from the subject, used as the owner
	// of trips and jobs created under this token.
	OwnerID uuid.UUID `json:"uid,omitempty"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
