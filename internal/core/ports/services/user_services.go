package services

import (
	"context"
	"time"

	"github.com/retailsuite/finance-ledger/internal/core/domain"
	"github.com/retailsuite/finance-ledger/internal/dto"
)

// UserSvcFacade defines user management operations.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)
	// FindOrCreateGoogleUser links or creates a user for a validated Google identity.
	FindOrCreateGoogleUser(ctx context.Context, googleID string, email string, name string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
	UpdateStoredRefreshToken(ctx context.Context, userID string, tokenHash string, expiry *time.Time) error
	DeleteUser(ctx context.Context, userID string, deletedByUserID string) error
}
