package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailsuite/finance-ledger/internal/apperrors"
)

// Producer event payloads. Each event kind has its own explicit shape,
// validated once at the boundary; the legacy alternative amount field names
// (totalAmount vs total) are normalized here and nowhere else.

// PosTransactionPayload is the sale payload sent by the point-of-sale module.
type PosTransactionPayload struct {
	TotalAmount       *decimal.Decimal `json:"totalAmount" binding:"omitempty,dpositive"`
	Total             *decimal.Decimal `json:"total" binding:"omitempty,dpositive"`
	PaymentMethod     string           `json:"paymentMethod" binding:"required"`
	CustomerName      string           `json:"customerName"`
	CustomerID        string           `json:"customerId"`
	CreatedAt         *time.Time       `json:"createdAt"`
	TransactionNumber string           `json:"transactionNumber"`
}

// SaleCompletedRequest is the body of POST /events/sale-completed.
type SaleCompletedRequest struct {
	PosTransaction PosTransactionPayload `json:"posTransaction" binding:"required"`
}

// PurchaseOrderPayload is the payload sent by the purchasing module.
type PurchaseOrderPayload struct {
	TotalAmount   *decimal.Decimal `json:"totalAmount" binding:"omitempty,dpositive"`
	Total         *decimal.Decimal `json:"total" binding:"omitempty,dpositive"`
	PaymentMethod string           `json:"paymentMethod" binding:"required"`
	PaymentStatus string           `json:"paymentStatus" binding:"required"`
	SupplierName  string           `json:"supplierName"`
	SupplierID    string           `json:"supplierId"`
	PONumber      string           `json:"poNumber"`
	OrderDate     *time.Time       `json:"orderDate"`
}

// PurchasePaidRequest is the body of POST /events/purchase-paid.
type PurchasePaidRequest struct {
	PurchaseOrder PurchaseOrderPayload `json:"purchaseOrder" binding:"required"`
}

// InvoicePayload identifies the invoice a payment settles.
type InvoicePayload struct {
	InvoiceNumber string `json:"invoiceNumber" binding:"required"`
	CustomerName  string `json:"customerName"`
	CustomerID    string `json:"customerId"`
}

// InvoicePaymentPayload is a single payment event against an invoice.
type InvoicePaymentPayload struct {
	Amount        *decimal.Decimal `json:"amount" binding:"omitempty,dpositive"`
	PaymentMethod string           `json:"paymentMethod" binding:"required"`
	PaymentDate   *time.Time       `json:"paymentDate"`
}

// InvoicePaymentRequest is the body of POST /events/invoice-payment.
type InvoicePaymentRequest struct {
	Invoice InvoicePayload        `json:"invoice" binding:"required"`
	Payment InvoicePaymentPayload `json:"payment" binding:"required"`
}

// ExpensePayload is the payload for a recorded expense.
type ExpensePayload struct {
	Amount        *decimal.Decimal `json:"amount" binding:"omitempty,dpositive"`
	PaymentMethod string           `json:"paymentMethod" binding:"required"`
	Category      string           `json:"category"`
	Description   string           `json:"description"`
	Date          *time.Time       `json:"date"`
	ExpenseID     string           `json:"expenseId"`
}

// ExpenseRecordedRequest is the body of POST /events/expense-recorded.
type ExpenseRecordedRequest struct {
	Expense ExpensePayload `json:"expense" binding:"required"`
}

// normalizeAmount picks the first present amount field and rejects missing or
// non-positive values before any lookup happens.
func normalizeAmount(primary, fallback *decimal.Decimal) (decimal.Decimal, error) {
	amount := primary
	if amount == nil {
		amount = fallback
	}
	if amount == nil {
		return decimal.Zero, fmt.Errorf("%w: amount is required", apperrors.ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	return *amount, nil
}

// Amount returns the normalized sale amount.
func (p PosTransactionPayload) Amount() (decimal.Decimal, error) {
	return normalizeAmount(p.TotalAmount, p.Total)
}

// Amount returns the normalized purchase amount.
func (p PurchaseOrderPayload) Amount() (decimal.Decimal, error) {
	return normalizeAmount(p.TotalAmount, p.Total)
}

// NormalizedAmount returns the validated payment amount.
func (p InvoicePaymentPayload) NormalizedAmount() (decimal.Decimal, error) {
	return normalizeAmount(p.Amount, nil)
}

// NormalizedAmount returns the validated expense amount.
func (p ExpensePayload) NormalizedAmount() (decimal.Decimal, error) {
	return normalizeAmount(p.Amount, nil)
}

// PostingResultResponse is returned by the sale, purchase and expense event
// endpoints.
type PostingResultResponse struct {
	FinanceTransactionID string          `json:"financeTransactionId"`
	TransactionNumber    string          `json:"transactionNumber"`
	Amount               decimal.Decimal `json:"amount"`
	Status               string          `json:"status"`
	AccountUpdated       string          `json:"accountUpdated"`
	Skipped              bool            `json:"skipped,omitempty"`
	SkipReason           string          `json:"skipReason,omitempty"`
}

// InvoicePaymentResponse is returned by the invoice-payment endpoint. It lists
// exactly the accounts whose balances were mutated.
type InvoicePaymentResponse struct {
	FinanceTransactionID string          `json:"financeTransactionId"`
	TransactionNumber    string          `json:"transactionNumber"`
	Amount               decimal.Decimal `json:"amount"`
	AccountsUpdated      []string        `json:"accountsUpdated"`
}
