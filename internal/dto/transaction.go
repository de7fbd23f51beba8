package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailsuite/finance-ledger/internal/core/domain"
)

// TransactionResponse is the API representation of a finance transaction.
type TransactionResponse struct {
	TransactionID     string                   `json:"transactionID"`
	TransactionNumber string                   `json:"transactionNumber"`
	TransactionDate   time.Time                `json:"transactionDate"`
	TransactionType   domain.TransactionType   `json:"transactionType"`
	AccountID         string                   `json:"accountID"`
	Category          string                   `json:"category"`
	Subcategory       string                   `json:"subcategory,omitempty"`
	Amount            decimal.Decimal          `json:"amount"`
	Description       string                   `json:"description"`
	ReferenceType     domain.ReferenceType     `json:"referenceType"`
	ReferenceID       string                   `json:"referenceID"`
	PaymentMethod     string                   `json:"paymentMethod"`
	ContactName       string                   `json:"contactName,omitempty"`
	Status            domain.TransactionStatus `json:"status"`
	IsActive          bool                     `json:"isActive"`
	CreatedAt         time.Time                `json:"createdAt"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListTransactionsResponse wraps the list of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ReversalResponse is returned by the reference-addressed delete operation.
type ReversalResponse struct {
	Reversed bool `json:"reversed"`
}

// ToTransactionResponse converts a domain transaction to its API representation.
func ToTransactionResponse(t *domain.FinanceTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     t.TransactionID,
		TransactionNumber: t.TransactionNumber,
		TransactionDate:   t.TransactionDate,
		TransactionType:   t.TransactionType,
		AccountID:         t.AccountID,
		Category:          t.Category,
		Subcategory:       t.Subcategory,
		Amount:            t.Amount,
		Description:       t.Description,
		ReferenceType:     t.ReferenceType,
		ReferenceID:       t.ReferenceID,
		PaymentMethod:     t.PaymentMethod,
		ContactName:       t.ContactName,
		Status:            t.Status,
		IsActive:          t.IsActive,
		CreatedAt:         t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.FinanceTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
