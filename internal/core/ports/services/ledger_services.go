package services

import (
	"context"

	"github.com/retailsuite/finance-ledger/internal/core/domain"
	"github.com/retailsuite/finance-ledger/internal/dto"
)

// LedgerSvcFacade is the core write path of the posting engine plus the two
// reference-addressed operations producer modules call directly when a source
// record is deleted or edited.
type LedgerSvcFacade interface {
	// Post creates exactly one transaction and applies exactly one balance
	// mutation, atomically. Posting the same reference twice returns the
	// already-existing transaction instead of double-posting.
	Post(ctx context.Context, req dto.PostingRequest, creatorUserID string) (*domain.FinanceTransaction, error)

	// Reverse undoes the active posting for the reference key and soft-deletes
	// it. Returns false when no active posting exists; that is not an error.
	Reverse(ctx context.Context, refType domain.ReferenceType, refID string, userID string) (bool, error)

	// PatchByReference updates non-financial fields of the active posting for
	// the reference key. Returns (nil, nil) when none exists.
	PatchByReference(ctx context.Context, refType domain.ReferenceType, refID string, patch dto.TransactionPatch, userID string) (*domain.FinanceTransaction, error)

	GetTransactionByID(ctx context.Context, transactionID string) (*domain.FinanceTransaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.FinanceTransaction, error)
}
