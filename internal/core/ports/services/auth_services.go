package services

import (
	"context"
	"time"

	"github.com/retailsuite/finance-ledger/internal/core/domain"
)

// GoogleIdentity is the subset of a validated Google ID token the auth flow needs.
type GoogleIdentity struct {
	GoogleID string
	Email    string
	Name     string
}

// TokenSvcFacade issues and validates the application's auth tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (token string, expiry time.Time, err error)
	GenerateRefreshToken(ctx context.Context, user *domain.User) (token string, expiry time.Time, err error)
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error)
	// ValidateGoogleIDToken verifies the token signature and audience against
	// the configured Google client ID.
	ValidateGoogleIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error)
}
