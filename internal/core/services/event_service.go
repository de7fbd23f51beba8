package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/retailsuite/finance-ledger/internal/core/domain"
	portssvc "github.com/retailsuite/finance-ledger/internal/core/ports/services"
	"github.com/retailsuite/finance-ledger/internal/dto"
)

// eventService maps producer events to normalized posting requests. Each
// handler is a pure mapping plus at most one call into the ledger poster.
type eventService struct {
	BaseService
	ledger portssvc.LedgerSvcFacade
}

// NewEventService creates a new event adapter service.
func NewEventService(ledger portssvc.LedgerSvcFacade) portssvc.EventSvcFacade {
	return &eventService{ledger: ledger}
}

var _ portssvc.EventSvcFacade = (*eventService)(nil)

func postingResult(txn *domain.FinanceTransaction) *dto.PostingResultResponse {
	return &dto.PostingResultResponse{
		FinanceTransactionID: txn.TransactionID,
		TransactionNumber:    txn.TransactionNumber,
		Amount:               txn.Amount,
		Status:               string(txn.Status),
		AccountUpdated:       txn.AccountID,
	}
}

// HandleSaleCompleted posts income for a completed point-of-sale transaction.
// The settlement account follows the payment method.
func (s *eventService) HandleSaleCompleted(ctx context.Context, req dto.SaleCompletedRequest, userID string) (*dto.PostingResultResponse, error) {
	sale := req.PosTransaction

	amount, err := sale.Amount()
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if sale.CreatedAt != nil {
		date = *sale.CreatedAt
	}

	description := "POS sale"
	if sale.TransactionNumber != "" {
		description = fmt.Sprintf("POS sale %s", sale.TransactionNumber)
	}

	txn, err := s.ledger.Post(ctx, dto.PostingRequest{
		AccountRole:     domain.RoleForPaymentMethod(sale.PaymentMethod),
		TransactionType: domain.TxnIncome,
		Amount:          amount,
		Date:            date,
		Category:        "Sales",
		Description:     description,
		ReferenceType:   domain.RefOrder,
		ReferenceID:     saleReferenceID(sale),
		PaymentMethod:   sale.PaymentMethod,
		ContactName:     sale.CustomerName,
		Status:          domain.StatusCompleted,
	}, userID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Sale event posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference_id", txn.ReferenceID))
	return postingResult(txn), nil
}

// saleReferenceID picks the idempotency key for a sale event. The POS module
// sends its own transaction number when it has one; without one the event
// cannot be deduplicated and gets a fresh key.
func saleReferenceID(sale dto.PosTransactionPayload) string {
	if sale.TransactionNumber != "" {
		return sale.TransactionNumber
	}
	return uuid.NewString()
}

// HandlePurchasePaid posts an expense for a paid purchase order. Unpaid
// orders are acknowledged but never reach the poster.
func (s *eventService) HandlePurchasePaid(ctx context.Context, req dto.PurchasePaidRequest, userID string) (*dto.PostingResultResponse, error) {
	po := req.PurchaseOrder

	amount, err := po.Amount()
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(strings.TrimSpace(po.PaymentStatus), "paid") {
		s.LogInfo(ctx, "Purchase event skipped, not paid",
			slog.String("po_number", po.PONumber),
			slog.String("payment_status", po.PaymentStatus))
		return &dto.PostingResultResponse{
			Amount:     amount,
			Skipped:    true,
			SkipReason: fmt.Sprintf("payment status is %q, posting requires paid", po.PaymentStatus),
		}, nil
	}

	date := time.Now()
	if po.OrderDate != nil {
		date = *po.OrderDate
	}

	description := "Purchase order payment"
	if po.PONumber != "" {
		description = fmt.Sprintf("Purchase order %s", po.PONumber)
	}

	txn, err := s.ledger.Post(ctx, dto.PostingRequest{
		AccountRole:     domain.RoleForPaymentMethod(po.PaymentMethod),
		TransactionType: domain.TxnExpense,
		Amount:          amount,
		Date:            date,
		Category:        "Purchases",
		Description:     description,
		ReferenceType:   domain.RefBill,
		ReferenceID:     purchaseReferenceID(po),
		PaymentMethod:   po.PaymentMethod,
		ContactName:     po.SupplierName,
		Status:          domain.StatusCompleted,
	}, userID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Purchase event posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference_id", txn.ReferenceID))
	return postingResult(txn), nil
}

func purchaseReferenceID(po dto.PurchaseOrderPayload) string {
	if po.PONumber != "" {
		return po.PONumber
	}
	return uuid.NewString()
}

// HandleInvoicePayment posts income for a payment received against an
// invoice. Only the settlement account balance moves; the response lists
// exactly the accounts that were mutated.
func (s *eventService) HandleInvoicePayment(ctx context.Context, req dto.InvoicePaymentRequest, userID string) (*dto.InvoicePaymentResponse, error) {
	amount, err := req.Payment.NormalizedAmount()
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Payment.PaymentDate != nil {
		date = *req.Payment.PaymentDate
	}

	txn, err := s.ledger.Post(ctx, dto.PostingRequest{
		AccountRole:     domain.RoleForPaymentMethod(req.Payment.PaymentMethod),
		TransactionType: domain.TxnIncome,
		Amount:          amount,
		Date:            date,
		Category:        "Sales",
		Subcategory:     "Invoice Payments",
		Description:     fmt.Sprintf("Payment for invoice %s", req.Invoice.InvoiceNumber),
		ReferenceType:   domain.RefInvoice,
		ReferenceID:     req.Invoice.InvoiceNumber,
		PaymentMethod:   req.Payment.PaymentMethod,
		ContactName:     req.Invoice.CustomerName,
		Status:          domain.StatusCompleted,
	}, userID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Invoice payment posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("invoice_number", req.Invoice.InvoiceNumber))
	return &dto.InvoicePaymentResponse{
		FinanceTransactionID: txn.TransactionID,
		TransactionNumber:    txn.TransactionNumber,
		Amount:               txn.Amount,
		AccountsUpdated:      []string{txn.AccountID},
	}, nil
}

// HandleExpenseRecorded posts an expense recorded directly in the suite.
func (s *eventService) HandleExpenseRecorded(ctx context.Context, req dto.ExpenseRecordedRequest, userID string) (*dto.PostingResultResponse, error) {
	expense := req.Expense

	amount, err := expense.NormalizedAmount()
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if expense.Date != nil {
		date = *expense.Date
	}

	category := expense.Category
	if category == "" {
		category = "Operating"
	}
	referenceID := expense.ExpenseID
	if referenceID == "" {
		referenceID = uuid.NewString()
	}

	txn, err := s.ledger.Post(ctx, dto.PostingRequest{
		AccountRole:     domain.RoleForPaymentMethod(expense.PaymentMethod),
		TransactionType: domain.TxnExpense,
		Amount:          amount,
		Date:            date,
		Category:        category,
		Description:     expense.Description,
		ReferenceType:   domain.RefManual,
		ReferenceID:     referenceID,
		PaymentMethod:   expense.PaymentMethod,
		Status:          domain.StatusCompleted,
	}, userID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Expense event posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference_id", txn.ReferenceID))
	return postingResult(txn), nil
}
