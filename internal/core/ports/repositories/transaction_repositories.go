package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/retailsuite/finance-ledger/internal/core/domain"
	"github.com/retailsuite/finance-ledger/internal/dto"
)

// TransactionRepositoryFacade defines persistence operations for finance
// transactions. CreatePosting and ReverseByReference each own one database
// transaction: the ledger row write and the account balance mutation either
// both commit or neither does.
type TransactionRepositoryFacade interface {
	// CreatePosting allocates the next transaction number, inserts the
	// transaction row and applies its balance delta to the target account as
	// one atomic unit. When an active transaction already exists for the same
	// (reference type, reference id), no write happens and the existing
	// transaction is returned with created=false.
	CreatePosting(ctx context.Context, txn domain.FinanceTransaction) (result *domain.FinanceTransaction, created bool, err error)

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinanceTransaction, error)
	// FindActiveByReference returns the unique active transaction for the
	// reference key, or apperrors.ErrNotFound.
	FindActiveByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.FinanceTransaction, error)
	ListTransactions(ctx context.Context, limit int, offset int) ([]domain.FinanceTransaction, error)

	// ReverseByReference applies the inverse balance delta of the active
	// transaction for the reference key, marks it inactive/cancelled and
	// returns the reversed transaction. A missing active transaction returns
	// (nil, apperrors.ErrNotFound); callers treat that as benign.
	ReverseByReference(ctx context.Context, refType domain.ReferenceType, refID string, userID string, now time.Time) (*domain.FinanceTransaction, error)

	// PatchByReference updates non-financial fields of the active transaction
	// for the reference key. Amount, type and account are never touched.
	PatchByReference(ctx context.Context, refType domain.ReferenceType, refID string, patch dto.TransactionPatch, userID string, now time.Time) (*domain.FinanceTransaction, error)

	// NextTransactionNumber atomically allocates the next sequence value within
	// tx and formats it as TRX-<year>-<seq>. The sequence is global and does
	// not reset at year boundaries.
	NextTransactionNumber(ctx context.Context, tx pgx.Tx, year int) (string, error)
}
