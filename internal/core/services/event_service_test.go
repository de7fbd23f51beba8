package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailsuite/finance-ledger/internal/apperrors"
	"github.com/retailsuite/finance-ledger/internal/core/domain"
	portssvc "github.com/retailsuite/finance-ledger/internal/core/ports/services"
	"github.com/retailsuite/finance-ledger/internal/core/services"
	"github.com/retailsuite/finance-ledger/internal/dto"
)

// MockLedgerService is a mock type for the LedgerSvcFacade interface
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Post(ctx context.Context, req dto.PostingRequest, creatorUserID string) (*domain.FinanceTransaction, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceTransaction), args.Error(1)
}

func (m *MockLedgerService) Reverse(ctx context.Context, refType domain.ReferenceType, refID string, userID string) (bool, error) {
	args := m.Called(ctx, refType, refID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerService) PatchByReference(ctx context.Context, refType domain.ReferenceType, refID string, patch dto.TransactionPatch, userID string) (*domain.FinanceTransaction, error) {
	args := m.Called(ctx, refType, refID, patch, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceTransaction), args.Error(1)
}

func (m *MockLedgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.FinanceTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceTransaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.FinanceTransaction, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinanceTransaction), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite Setup ---

type EventServiceTestSuite struct {
	suite.Suite
	mockLedger *MockLedgerService
	service    portssvc.EventSvcFacade
}

func (suite *EventServiceTestSuite) SetupTest() {
	suite.mockLedger = new(MockLedgerService)
	suite.service = services.NewEventService(suite.mockLedger)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func (suite *EventServiceTestSuite) postedTransaction(txnType domain.TransactionType, amount decimal.Decimal) *domain.FinanceTransaction {
	return &domain.FinanceTransaction{
		TransactionID:     uuid.NewString(),
		TransactionNumber: "TRX-2025-010",
		TransactionType:   txnType,
		AccountID:         uuid.NewString(),
		Amount:            amount,
		Status:            domain.StatusCompleted,
		IsActive:          true,
	}
}

// --- Sale completed ---

func (suite *EventServiceTestSuite) TestSaleCompleted_CashSale() {
	ctx := context.Background()
	amount := decimal.NewFromFloat(89.90)
	req := dto.SaleCompletedRequest{
		PosTransaction: dto.PosTransactionPayload{
			TotalAmount:       decimalPtr(amount),
			PaymentMethod:     "cash",
			CustomerName:      "Walk-in",
			TransactionNumber: "POS-555",
		},
	}

	suite.mockLedger.On("Post", ctx, mock.MatchedBy(func(p dto.PostingRequest) bool {
		return p.AccountRole == domain.RoleCash &&
			p.TransactionType == domain.TxnIncome &&
			p.Amount.Equal(amount) &&
			p.ReferenceType == domain.RefOrder &&
			p.ReferenceID == "POS-555"
	}), "u1").Return(suite.postedTransaction(domain.TxnIncome, amount), nil).Once()

	result, err := suite.service.HandleSaleCompleted(ctx, req, "u1")

	suite.Require().NoError(err)
	suite.False(result.Skipped)
	suite.True(result.Amount.Equal(amount))
	suite.NotEmpty(result.AccountUpdated)
	suite.mockLedger.AssertNumberOfCalls(suite.T(), "Post", 1)
}

func (suite *EventServiceTestSuite) TestSaleCompleted_CardSaleUsesBank() {
	ctx := context.Background()
	amount := decimal.NewFromInt(200)
	req := dto.SaleCompletedRequest{
		PosTransaction: dto.PosTransactionPayload{
			Total:             decimalPtr(amount), // legacy alternative field name
			PaymentMethod:     "card",
			TransactionNumber: "POS-556",
		},
	}

	suite.mockLedger.On("Post", ctx, mock.MatchedBy(func(p dto.PostingRequest) bool {
		return p.AccountRole == domain.RoleBank && p.Amount.Equal(amount)
	}), "u1").Return(suite.postedTransaction(domain.TxnIncome, amount), nil).Once()

	_, err := suite.service.HandleSaleCompleted(ctx, req, "u1")
	suite.Require().NoError(err)
}

func (suite *EventServiceTestSuite) TestSaleCompleted_MissingAmount() {
	ctx := context.Background()
	req := dto.SaleCompletedRequest{
		PosTransaction: dto.PosTransactionPayload{PaymentMethod: "cash"},
	}

	_, err := suite.service.HandleSaleCompleted(ctx, req, "u1")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedger.AssertNotCalled(suite.T(), "Post", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventServiceTestSuite) TestSaleCompleted_DirectoryFailurePropagates() {
	ctx := context.Background()
	req := dto.SaleCompletedRequest{
		PosTransaction: dto.PosTransactionPayload{
			TotalAmount:       decimalPtr(decimal.NewFromInt(10)),
			PaymentMethod:     "cash",
			TransactionNumber: "POS-557",
		},
	}

	suite.mockLedger.On("Post", ctx, mock.AnythingOfType("dto.PostingRequest"), "u1").
		Return(nil, services.ErrAccountNotFound).Once()

	_, err := suite.service.HandleSaleCompleted(ctx, req, "u1")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

// --- Purchase paid ---

func (suite *EventServiceTestSuite) TestPurchasePaid_PostsExpense() {
	ctx := context.Background()
	amount := decimal.NewFromFloat(450.00)
	req := dto.PurchasePaidRequest{
		PurchaseOrder: dto.PurchaseOrderPayload{
			TotalAmount:   decimalPtr(amount),
			PaymentMethod: "bank_transfer",
			PaymentStatus: "paid",
			SupplierName:  "Acme Wholesale",
			PONumber:      "PO-2025-17",
		},
	}

	suite.mockLedger.On("Post", ctx, mock.MatchedBy(func(p dto.PostingRequest) bool {
		return p.AccountRole == domain.RoleBank &&
			p.TransactionType == domain.TxnExpense &&
			p.Amount.Equal(amount) &&
			p.ReferenceType == domain.RefBill &&
			p.ReferenceID == "PO-2025-17"
	}), "u1").Return(suite.postedTransaction(domain.TxnExpense, amount), nil).Once()

	result, err := suite.service.HandlePurchasePaid(ctx, req, "u1")

	suite.Require().NoError(err)
	suite.False(result.Skipped)
}

func (suite *EventServiceTestSuite) TestPurchasePaid_UnpaidIsSkipped() {
	ctx := context.Background()
	req := dto.PurchasePaidRequest{
		PurchaseOrder: dto.PurchaseOrderPayload{
			TotalAmount:   decimalPtr(decimal.NewFromInt(300)),
			PaymentMethod: "bank_transfer",
			PaymentStatus: "pending",
			PONumber:      "PO-2025-18",
		},
	}

	result, err := suite.service.HandlePurchasePaid(ctx, req, "u1")

	suite.Require().NoError(err)
	suite.True(result.Skipped)
	suite.NotEmpty(result.SkipReason)
	suite.Empty(result.FinanceTransactionID)
	suite.mockLedger.AssertNotCalled(suite.T(), "Post", mock.Anything, mock.Anything, mock.Anything)
}

// --- Invoice payment ---

func (suite *EventServiceTestSuite) TestInvoicePayment_ReportsOnlyMutatedAccount() {
	ctx := context.Background()
	amount := decimal.NewFromFloat(120.00)
	paymentDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	req := dto.InvoicePaymentRequest{
		Invoice: dto.InvoicePayload{InvoiceNumber: "INV-31", CustomerName: "Beta Corp"},
		Payment: dto.InvoicePaymentPayload{
			Amount:        decimalPtr(amount),
			PaymentMethod: "card",
			PaymentDate:   &paymentDate,
		},
	}

	posted := suite.postedTransaction(domain.TxnIncome, amount)
	suite.mockLedger.On("Post", ctx, mock.MatchedBy(func(p dto.PostingRequest) bool {
		return p.AccountRole == domain.RoleBank &&
			p.TransactionType == domain.TxnIncome &&
			p.ReferenceType == domain.RefInvoice &&
			p.ReferenceID == "INV-31" &&
			p.Date.Equal(paymentDate)
	}), "u1").Return(posted, nil).Once()

	result, err := suite.service.HandleInvoicePayment(ctx, req, "u1")

	suite.Require().NoError(err)
	// Exactly one account balance moved, so exactly one is reported.
	suite.Equal([]string{posted.AccountID}, result.AccountsUpdated)
}

// --- Expense recorded ---

func (suite *EventServiceTestSuite) TestExpenseRecorded_PostsExpense() {
	ctx := context.Background()
	amount := decimal.NewFromFloat(45.50)
	req := dto.ExpenseRecordedRequest{
		Expense: dto.ExpensePayload{
			Amount:        decimalPtr(amount),
			PaymentMethod: "cash",
			Category:      "Office Supplies",
			Description:   "Printer paper",
			ExpenseID:     "EXP-88",
		},
	}

	suite.mockLedger.On("Post", ctx, mock.MatchedBy(func(p dto.PostingRequest) bool {
		return p.AccountRole == domain.RoleCash &&
			p.TransactionType == domain.TxnExpense &&
			p.Amount.Equal(amount) &&
			p.ReferenceType == domain.RefManual &&
			p.ReferenceID == "EXP-88" &&
			p.Category == "Office Supplies"
	}), "u1").Return(suite.postedTransaction(domain.TxnExpense, amount), nil).Once()

	result, err := suite.service.HandleExpenseRecorded(ctx, req, "u1")

	suite.Require().NoError(err)
	suite.False(result.Skipped)
	suite.mockLedger.AssertNumberOfCalls(suite.T(), "Post", 1)
}

func (suite *EventServiceTestSuite) TestExpenseRecorded_NegativeAmountRejected() {
	ctx := context.Background()
	req := dto.ExpenseRecordedRequest{
		Expense: dto.ExpensePayload{
			Amount:        decimalPtr(decimal.NewFromInt(-5)),
			PaymentMethod: "cash",
		},
	}

	_, err := suite.service.HandleExpenseRecorded(ctx, req, "u1")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedger.AssertNotCalled(suite.T(), "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestEventServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EventServiceTestSuite))
}
