package services

import (
	"context"

	"github.com/retailsuite/finance-ledger/internal/core/domain"
	"github.com/retailsuite/finance-ledger/internal/dto"
)

// AccountDirectorySvcFacade resolves logical account roles to concrete accounts.
// Lookups are read-only; a missing account aborts the caller's posting before
// any write occurs.
type AccountDirectorySvcFacade interface {
	Resolve(ctx context.Context, role domain.AccountRole) (*domain.Account, error)
}

// AccountSvcFacade defines account administration operations (configuration
// data; balances are never written through this facade).
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}
