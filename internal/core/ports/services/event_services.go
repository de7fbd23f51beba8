package services

import (
	"context"

	"github.com/retailsuite/finance-ledger/internal/dto"
)

// EventSvcFacade holds the four producer event adapters. Each adapter maps its
// event payload to one normalized posting request and calls the ledger poster
// at most once.
type EventSvcFacade interface {
	HandleSaleCompleted(ctx context.Context, req dto.SaleCompletedRequest, userID string) (*dto.PostingResultResponse, error)
	HandlePurchasePaid(ctx context.Context, req dto.PurchasePaidRequest, userID string) (*dto.PostingResultResponse, error)
	HandleInvoicePayment(ctx context.Context, req dto.InvoicePaymentRequest, userID string) (*dto.InvoicePaymentResponse, error)
	HandleExpenseRecorded(ctx context.Context, req dto.ExpenseRecordedRequest, userID string) (*dto.PostingResultResponse, error)
}
