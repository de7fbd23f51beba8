package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailsuite/finance-ledger/internal/apperrors"
	"github.com/retailsuite/finance-ledger/internal/core/domain"
	portsrepo "github.com/retailsuite/finance-ledger/internal/core/ports/repositories"
	portssvc "github.com/retailsuite/finance-ledger/internal/core/ports/services"
	"github.com/retailsuite/finance-ledger/internal/dto"
)

// ledgerService is the posting engine write path. Each Post resolves the
// target account, then hands the repository one atomic unit of work: number
// allocation, transaction insert and balance mutation commit together or not
// at all.
type ledgerService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	directory       portssvc.AccountDirectorySvcFacade
	retryLimit      int
}

// NewLedgerService creates a new ledger service. retryLimit bounds internal
// retries on serialization and deadlock conflicts.
func NewLedgerService(transactionRepo portsrepo.TransactionRepositoryFacade, directory portssvc.AccountDirectorySvcFacade, retryLimit int) portssvc.LedgerSvcFacade {
	if retryLimit <= 0 {
		retryLimit = 3
	}
	return &ledgerService{
		transactionRepo: transactionRepo,
		directory:       directory,
		retryLimit:      retryLimit,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) Post(ctx context.Context, req dto.PostingRequest, creatorUserID string) (*domain.FinanceTransaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: posting amount must be positive, got %s", apperrors.ErrValidation, req.Amount)
	}
	if req.TransactionType != domain.TxnIncome && req.TransactionType != domain.TxnExpense {
		return nil, fmt.Errorf("%w: unsupported transaction type %q", apperrors.ErrValidation, req.TransactionType)
	}
	if req.ReferenceID == "" {
		return nil, fmt.Errorf("%w: reference ID is required", apperrors.ErrValidation)
	}

	// Account resolution happens before any write; a missing role account
	// aborts the posting loudly.
	account, err := s.directory.Resolve(ctx, req.AccountRole)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	status := req.Status
	if status == "" {
		status = domain.StatusCompleted
	}

	txn := domain.FinanceTransaction{
		TransactionID:   uuid.NewString(),
		TransactionDate: date,
		TransactionType: req.TransactionType,
		AccountID:       account.AccountID,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		Amount:          req.Amount,
		Description:     req.Description,
		ReferenceType:   req.ReferenceType,
		ReferenceID:     req.ReferenceID,
		PaymentMethod:   req.PaymentMethod,
		ContactName:     req.ContactName,
		Status:          status,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	var result *domain.FinanceTransaction
	var created bool
	for attempt := 1; ; attempt++ {
		result, created, err = s.transactionRepo.CreatePosting(ctx, txn)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrConflict) || attempt >= s.retryLimit {
			s.LogError(ctx, err, "Failed to create posting",
				slog.String("reference_type", string(req.ReferenceType)),
				slog.String("reference_id", req.ReferenceID),
				slog.Int("attempt", attempt))
			return nil, err
		}
		s.LogDebug(ctx, "Retrying posting after write conflict",
			slog.String("reference_id", req.ReferenceID),
			slog.Int("attempt", attempt))
	}

	if !created {
		s.LogInfo(ctx, "Posting already exists for reference, returning existing",
			slog.String("reference_type", string(req.ReferenceType)),
			slog.String("reference_id", req.ReferenceID),
			slog.String("transaction_id", result.TransactionID))
		return result, nil
	}

	s.LogInfo(ctx, "Posting created",
		slog.String("transaction_id", result.TransactionID),
		slog.String("transaction_number", result.TransactionNumber),
		slog.String("account_id", result.AccountID),
		slog.String("amount", result.Amount.String()))
	return result, nil
}

func (s *ledgerService) Reverse(ctx context.Context, refType domain.ReferenceType, refID string, userID string) (bool, error) {
	reversed, err := s.transactionRepo.ReverseByReference(ctx, refType, refID, userID, time.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Nothing active to reverse. Repeated deletes of the same source
			// record land here and must stay harmless.
			s.LogDebug(ctx, "No active posting to reverse",
				slog.String("reference_type", string(refType)),
				slog.String("reference_id", refID))
			return false, nil
		}
		s.LogError(ctx, err, "Failed to reverse posting",
			slog.String("reference_type", string(refType)),
			slog.String("reference_id", refID))
		return false, err
	}

	s.LogInfo(ctx, "Posting reversed",
		slog.String("transaction_id", reversed.TransactionID),
		slog.String("reference_type", string(refType)),
		slog.String("reference_id", refID))
	return true, nil
}

func (s *ledgerService) PatchByReference(ctx context.Context, refType domain.ReferenceType, refID string, patch dto.TransactionPatch, userID string) (*domain.FinanceTransaction, error) {
	if patch.IsEmpty() {
		existing, err := s.transactionRepo.FindActiveByReference(ctx, refType, refID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return existing, err
	}

	updated, err := s.transactionRepo.PatchByReference(ctx, refType, refID, patch, userID, time.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "No active posting to patch",
				slog.String("reference_type", string(refType)),
				slog.String("reference_id", refID))
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to patch posting",
			slog.String("reference_type", string(refType)),
			slog.String("reference_id", refID))
		return nil, err
	}

	s.LogInfo(ctx, "Posting patched",
		slog.String("transaction_id", updated.TransactionID),
		slog.String("reference_id", refID))
	return updated, nil
}

func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.FinanceTransaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.FinanceTransaction, error) {
	txns, err := s.transactionRepo.ListTransactions(ctx, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}
	return txns, nil
}
