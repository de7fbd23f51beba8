package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailsuite/finance-ledger/internal/apperrors"
	"github.com/retailsuite/finance-ledger/internal/core/domain"
	portsrepo "github.com/retailsuite/finance-ledger/internal/core/ports/repositories"
	"github.com/retailsuite/finance-ledger/internal/dto"
	"github.com/retailsuite/finance-ledger/internal/models"
	"github.com/retailsuite/finance-ledger/internal/utils/mapping"
)

const transactionColumns = `transaction_id, transaction_number, transaction_date, transaction_type, account_id, category, subcategory, amount, description, reference_type, reference_id, payment_method, contact_name, status, is_active, created_at, created_by, last_updated_at, last_updated_by`

// activeReferenceConstraint is the partial unique index guarding the
// idempotency key: at most one active transaction per (reference type, id).
const activeReferenceConstraint = "finance_transactions_active_reference_idx"

// sequenceCounterKey is the single counter row backing transaction numbering.
// The sequence is global and intentionally does not reset at year boundaries.
const sequenceCounterKey = "TRX"

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewPgxTransactionRepository creates a new repository for finance transaction data.
func NewPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*models.FinanceTransaction, error) {
	var m models.FinanceTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionNumber,
		&m.TransactionDate,
		&m.TransactionType,
		&m.AccountID,
		&m.Category,
		&m.Subcategory,
		&m.Amount,
		&m.Description,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.PaymentMethod,
		&m.ContactName,
		&m.Status,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// NextTransactionNumber atomically allocates the next sequence value within tx
// and formats it as TRX-<year>-<seq>. The upsert increments the counter row in
// a single statement, so concurrent allocators serialize on it and can never
// hand out the same number.
func (r *PgxTransactionRepository) NextTransactionNumber(ctx context.Context, tx pgx.Tx, year int) (string, error) {
	query := `
		INSERT INTO transaction_counters (counter_key, current_value)
		VALUES ($1, 1)
		ON CONFLICT (counter_key)
		DO UPDATE SET current_value = transaction_counters.current_value + 1
		RETURNING current_value;
	`
	var seq int64
	if err := tx.QueryRow(ctx, query, sequenceCounterKey).Scan(&seq); err != nil {
		return "", apperrors.NewAppError(500, "failed to allocate transaction number", err)
	}
	return domain.FormatTransactionNumber(year, seq), nil
}

// CreatePosting inserts the transaction row and applies its balance delta to
// the target account as one atomic unit. Either both writes commit or neither
// is visible. A duplicate active reference aborts the insert via the partial
// unique index; the existing transaction is returned with created=false.
func (r *PgxTransactionRepository) CreatePosting(ctx context.Context, txn domain.FinanceTransaction) (*domain.FinanceTransaction, bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	// Ignored if the transaction commits.
	defer r.Rollback(ctx, tx)

	// Lock the account row first: this validates the target exists and orders
	// the posting against concurrent writers on the same account.
	account, err := r.accountRepo.FindAccountByIDForUpdate(ctx, tx, txn.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, txn.AccountID)
		}
		return nil, false, err
	}
	if !account.IsActive {
		return nil, false, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, txn.AccountID)
	}

	number, err := r.NextTransactionNumber(ctx, tx, txn.TransactionDate.Year())
	if err != nil {
		return nil, false, err
	}
	txn.TransactionNumber = number

	m := mapping.ToModelTransaction(txn)
	insertQuery := `
		INSERT INTO finance_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.TransactionID,
		m.TransactionNumber,
		m.TransactionDate,
		m.TransactionType,
		m.AccountID,
		m.Category,
		m.Subcategory,
		m.Amount,
		m.Description,
		m.ReferenceType,
		m.ReferenceID,
		m.PaymentMethod,
		m.ContactName,
		m.Status,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if uniqueViolationOn(err, activeReferenceConstraint) {
			// Already posted for this reference. Abandon the transaction (the
			// allocated number goes unused) and hand back the existing row.
			_ = r.Rollback(ctx, tx)
			existing, findErr := r.FindActiveByReference(ctx, txn.ReferenceType, txn.ReferenceID)
			if findErr != nil {
				return nil, false, fmt.Errorf("reference %s/%s already posted but lookup failed: %w", txn.ReferenceType, txn.ReferenceID, findErr)
			}
			return existing, false, nil
		}
		if isRetryableTxError(err) {
			return nil, false, fmt.Errorf("%w: inserting transaction %s", apperrors.ErrConflict, m.TransactionID)
		}
		return nil, false, apperrors.NewAppError(500, "failed to insert finance transaction "+m.TransactionID, err)
	}

	if err := r.accountRepo.ApplyBalanceDelta(ctx, tx, txn.AccountID, txn.BalanceDelta(), txn.CreatedBy, txn.CreatedAt); err != nil {
		if isRetryableTxError(err) {
			return nil, false, fmt.Errorf("%w: updating balance of account %s", apperrors.ErrConflict, txn.AccountID)
		}
		return nil, false, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isRetryableTxError(err) {
			return nil, false, fmt.Errorf("%w: committing posting %s", apperrors.ErrConflict, m.TransactionID)
		}
		return nil, false, err
	}

	return &txn, true, nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinanceTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM finance_transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// FindActiveByReference retrieves the unique active transaction for a reference key.
func (r *PgxTransactionRepository) FindActiveByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.FinanceTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM finance_transactions
		WHERE reference_type = $1 AND reference_id = $2 AND is_active = TRUE;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, string(refType), refID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find transaction by reference %s/%s", refType, refID), err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// ListTransactions retrieves a paginated list of transactions, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.FinanceTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM finance_transactions
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	txns := []models.FinanceTransaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, *m)
	}
	if rows.Err() != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", rows.Err())
	}

	return mapping.ToDomainTransactionSlice(txns), nil
}

// ReverseByReference applies the inverse balance delta of the active
// transaction for the reference key and soft-deletes it, atomically.
// A second call for the same reference finds no active row and returns
// apperrors.ErrNotFound, leaving the balance untouched.
func (r *PgxTransactionRepository) ReverseByReference(ctx context.Context, refType domain.ReferenceType, refID string, userID string, now time.Time) (*domain.FinanceTransaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lookupQuery := `
		SELECT ` + transactionColumns + `
		FROM finance_transactions
		WHERE reference_type = $1 AND reference_id = $2 AND is_active = TRUE
		FOR UPDATE;
	`
	m, err := scanTransaction(tx.QueryRow(ctx, lookupQuery, string(refType), refID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to lock transaction for reversal %s/%s", refType, refID), err)
	}
	txn := mapping.ToDomainTransaction(*m)

	if err := r.accountRepo.ApplyBalanceDelta(ctx, tx, txn.AccountID, txn.ReversalDelta(), userID, now); err != nil {
		if isRetryableTxError(err) {
			return nil, fmt.Errorf("%w: reversing balance of account %s", apperrors.ErrConflict, txn.AccountID)
		}
		return nil, err
	}

	deactivateQuery := `
		UPDATE finance_transactions
		SET is_active = FALSE, status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := tx.Exec(ctx, deactivateQuery, txn.TransactionID, string(domain.StatusCancelled), now, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to deactivate transaction "+txn.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// The row was locked above; this indicates a concurrent reversal won.
		return nil, apperrors.ErrNotFound
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isRetryableTxError(err) {
			return nil, fmt.Errorf("%w: committing reversal of %s", apperrors.ErrConflict, txn.TransactionID)
		}
		return nil, err
	}

	txn.IsActive = false
	txn.Status = domain.StatusCancelled
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID
	return &txn, nil
}

// PatchByReference updates non-financial fields of the active transaction for
// the reference key. Amount, type and account are never part of this statement.
func (r *PgxTransactionRepository) PatchByReference(ctx context.Context, refType domain.ReferenceType, refID string, patch dto.TransactionPatch, userID string, now time.Time) (*domain.FinanceTransaction, error) {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	query := `
		UPDATE finance_transactions
		SET description      = COALESCE($3, description),
		    contact_name     = COALESCE($4, contact_name),
		    payment_method   = COALESCE($5, payment_method),
		    status           = COALESCE($6, status),
		    transaction_date = COALESCE($7, transaction_date),
		    last_updated_at  = $8,
		    last_updated_by  = $9
		WHERE reference_type = $1 AND reference_id = $2 AND is_active = TRUE
		RETURNING ` + transactionColumns + `;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query,
		string(refType),
		refID,
		patch.Description,
		patch.ContactName,
		patch.PaymentMethod,
		status,
		patch.Date,
		now,
		userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to patch transaction by reference %s/%s", refType, refID), err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}
