package models

import (
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

// FinanceTransaction is the database representation of a ledger posting.
type FinanceTransaction struct {
	TransactionID     string          `db:"transaction_id"`
	TransactionNumber string          `db:"transaction_number"`
	TransactionDate   time.Time       `db:"transaction_date"`
	TransactionType   TransactionType `db:"transaction_type"`
	AccountID         string          `db:"account_id"`
	Category          string          `db:"category"`
	Subcategory       string          `db:"subcategory"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	ReferenceType     string          `db:"reference_type"`
	ReferenceID       string          `db:"reference_id"`
	PaymentMethod     string          `db:"payment_method"`
	ContactName       string          `db:"contact_name"`
	Status            string          `db:"status"`
	IsActive          bool            `db:"is_active"`
	AuditFields
}
