package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/retailsuite/finance-ledger/internal/core/domain"
)

// AccountRepositoryFacade defines persistence operations for accounts.
//
// Balance mutations happen exclusively through ApplyBalanceDelta inside a
// caller-owned database transaction; no other method writes the balance column.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// FindActiveAccountBySelector returns the first active account matching the
	// selector's (type, category) pair, or apperrors.ErrNotFound.
	FindActiveAccountBySelector(ctx context.Context, selector domain.RoleSelector) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error

	// FindAccountByIDForUpdate locks the account row for the duration of tx.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)
	// ApplyBalanceDelta atomically adds delta to the account balance within tx.
	ApplyBalanceDelta(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) error
}
