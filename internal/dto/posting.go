package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailsuite/finance-ledger/internal/core/domain"
)

// PostingRequest is the normalized input to the ledger poster. Event adapters
// build exactly one of these per producer event.
type PostingRequest struct {
	AccountRole     domain.AccountRole
	TransactionType domain.TransactionType
	Amount          decimal.Decimal // must be positive
	Date            time.Time
	Category        string
	Subcategory     string
	Description     string
	ReferenceType   domain.ReferenceType
	ReferenceID     string
	PaymentMethod   string
	ContactName     string
	Status          domain.TransactionStatus
}

// TransactionPatch carries the non-financial fields the update propagator may
// change. Pointers distinguish omitted fields from zero values. Amount, type
// and account are deliberately absent: edits never move money.
type TransactionPatch struct {
	Description   *string                   `json:"description"`
	ContactName   *string                   `json:"contactName"`
	PaymentMethod *string                   `json:"paymentMethod"`
	Status        *domain.TransactionStatus `json:"status"`
	Date          *time.Time                `json:"date"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.Description == nil && p.ContactName == nil && p.PaymentMethod == nil && p.Status == nil && p.Date == nil
}
