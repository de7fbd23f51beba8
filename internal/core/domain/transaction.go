package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the balance effect of a finance transaction.
type TransactionType string

const (
	TxnIncome   TransactionType = "INCOME"
	TxnExpense  TransactionType = "EXPENSE"
	TxnTransfer TransactionType = "TRANSFER"
)

// ReferenceType identifies the kind of business event a transaction originated from.
type ReferenceType string

const (
	RefInvoice ReferenceType = "INVOICE"
	RefBill    ReferenceType = "BILL"
	RefOrder   ReferenceType = "ORDER"
	RefManual  ReferenceType = "MANUAL"
	RefOther   ReferenceType = "OTHER"
)

// TransactionStatus is the lifecycle status of a finance transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// TransactionNumberPrefix is the prefix of every human-readable transaction number.
const TransactionNumberPrefix = "TRX"

// FinanceTransaction is a single ledger posting against exactly one account.
// The amount is stored positive; TransactionType determines the sign of the
// balance effect. The (ReferenceType, ReferenceID) pair is the idempotency key
// linking the posting back to its originating business event: at most one
// active transaction may exist per reference.
type FinanceTransaction struct {
	TransactionID     string            `json:"transactionID"`     // Primary Key (e.g., UUID)
	TransactionNumber string            `json:"transactionNumber"` // Human readable, unique, TRX-<year>-<seq>
	TransactionDate   time.Time         `json:"transactionDate"`
	TransactionType   TransactionType   `json:"transactionType"`
	AccountID         string            `json:"accountID"` // FK -> Account.accountID
	Category          string            `json:"category"`
	Subcategory       string            `json:"subcategory"`
	Amount            decimal.Decimal   `json:"amount"` // Positive value; sign comes from TransactionType
	Description       string            `json:"description"`
	ReferenceType     ReferenceType     `json:"referenceType"`
	ReferenceID       string            `json:"referenceID"`
	PaymentMethod     string            `json:"paymentMethod"`
	ContactName       string            `json:"contactName"`
	Status            TransactionStatus `json:"status"`
	IsActive          bool              `json:"isActive"` // Soft delete flag; reversals set this false
	AuditFields
}

// BalanceDelta returns the signed effect this transaction has on its account
// balance: income adds the amount, expense subtracts it.
func (t FinanceTransaction) BalanceDelta() decimal.Decimal {
	if t.TransactionType == TxnExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ReversalDelta returns the signed balance change that undoes this posting.
func (t FinanceTransaction) ReversalDelta() decimal.Decimal {
	return t.BalanceDelta().Neg()
}

// FormatTransactionNumber renders a transaction number as TRX-<year>-<seq>
// with the sequence zero-padded to three digits.
func FormatTransactionNumber(year int, sequence int64) string {
	return fmt.Sprintf("%s-%d-%03d", TransactionNumberPrefix, year, sequence)
}

// ParseTransactionNumber extracts the numeric sequence from a transaction
// number of the form TRX-<year>-<seq>.
func ParseTransactionNumber(number string) (int64, error) {
	parts := strings.SplitN(number, "-", 3)
	if len(parts) != 3 || parts[0] != TransactionNumberPrefix {
		return 0, fmt.Errorf("malformed transaction number %q", number)
	}
	seq, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed transaction number %q: %w", number, err)
	}
	return seq, nil
}
