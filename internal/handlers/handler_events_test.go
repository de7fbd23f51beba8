package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailsuite/finance-ledger/internal/apperrors"
	"github.com/retailsuite/finance-ledger/internal/core/domain"
	portssvc "github.com/retailsuite/finance-ledger/internal/core/ports/services"
	"github.com/retailsuite/finance-ledger/internal/dto"
	"github.com/retailsuite/finance-ledger/internal/handlers"
	"github.com/retailsuite/finance-ledger/internal/platform/config"
	"github.com/retailsuite/finance-ledger/internal/utils"
)

// --- Mock EventService ---
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) HandleSaleCompleted(ctx context.Context, req dto.SaleCompletedRequest, userID string) (*dto.PostingResultResponse, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostingResultResponse), args.Error(1)
}

func (m *MockEventService) HandlePurchasePaid(ctx context.Context, req dto.PurchasePaidRequest, userID string) (*dto.PostingResultResponse, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostingResultResponse), args.Error(1)
}

func (m *MockEventService) HandleInvoicePayment(ctx context.Context, req dto.InvoicePaymentRequest, userID string) (*dto.InvoicePaymentResponse, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InvoicePaymentResponse), args.Error(1)
}

func (m *MockEventService) HandleExpenseRecorded(ctx context.Context, req dto.ExpenseRecordedRequest, userID string) (*dto.PostingResultResponse, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostingResultResponse), args.Error(1)
}

var _ portssvc.EventSvcFacade = (*MockEventService)(nil)

// --- Mock LedgerService (reference-addressed operations) ---
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

type EventHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	mockEvents *MockEventService
	mockLedger *MockLedgerService
	cfg        *config.Config
	userID     string
}

func (suite *EventHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockEvents = new(MockEventService)
	suite.mockLedger = new(MockLedgerService)
	suite.userID = uuid.NewString()
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "finance-ledger-test",
		IsProduction:      true, // no swagger in tests
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, &portssvc.ServiceContainer{
		Event:  suite.mockEvents,
		Ledger: suite.mockLedger,
	})
}

func (suite *EventHandlerTestSuite) authToken() string {
	token, err := utils.GenerateJWT(suite.userID, suite.cfg.JWTSecret, suite.cfg.JWTExpiryDuration, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	return token
}

func (suite *EventHandlerTestSuite) postJSON(path string, body any, authenticated bool) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+suite.authToken())
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *EventHandlerTestSuite) TestSaleCompleted_Success() {
	amount := decimal.NewFromFloat(99.90)
	expected := &dto.PostingResultResponse{
		FinanceTransactionID: uuid.NewString(),
		TransactionNumber:    "TRX-2025-001",
		Amount:               amount,
		Status:               "COMPLETED",
		AccountUpdated:       uuid.NewString(),
	}

	suite.mockEvents.On("HandleSaleCompleted", mock.Anything, mock.AnythingOfType("dto.SaleCompletedRequest"), suite.userID).
		Return(expected, nil).Once()

	w := suite.postJSON("/api/v1/events/sale-completed", gin.H{
		"posTransaction": gin.H{
			"totalAmount":       "99.90",
			"paymentMethod":     "cash",
			"transactionNumber": "POS-1",
		},
	}, true)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.PostingResultResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.FinanceTransactionID, resp.FinanceTransactionID)
	suite.Equal(expected.TransactionNumber, resp.TransactionNumber)
	suite.False(resp.Skipped)
	suite.mockEvents.AssertExpectations(suite.T())
}

func (suite *EventHandlerTestSuite) TestSaleCompleted_Unauthenticated() {
	w := suite.postJSON("/api/v1/events/sale-completed", gin.H{
		"posTransaction": gin.H{"totalAmount": "10", "paymentMethod": "cash"},
	}, false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockEvents.AssertNotCalled(suite.T(), "HandleSaleCompleted", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventHandlerTestSuite) TestSaleCompleted_MissingAmountIs400() {
	suite.mockEvents.On("HandleSaleCompleted", mock.Anything, mock.AnythingOfType("dto.SaleCompletedRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: amount is required", apperrors.ErrValidation)).Once()

	w := suite.postJSON("/api/v1/events/sale-completed", gin.H{
		"posTransaction": gin.H{"paymentMethod": "cash"},
	}, true)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *EventHandlerTestSuite) TestSaleCompleted_MissingPaymentMethodIs400() {
	// binding:"required" rejects the body before the adapter runs
	w := suite.postJSON("/api/v1/events/sale-completed", gin.H{
		"posTransaction": gin.H{"totalAmount": "10"},
	}, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockEvents.AssertNotCalled(suite.T(), "HandleSaleCompleted", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventHandlerTestSuite) TestSaleCompleted_DownstreamFailureIs500() {
	suite.mockEvents.On("HandleSaleCompleted", mock.Anything, mock.AnythingOfType("dto.SaleCompletedRequest"), suite.userID).
		Return(nil, fmt.Errorf("no active account for role: %w (role CASH)", apperrors.ErrNotFound)).Once()

	w := suite.postJSON("/api/v1/events/sale-completed", gin.H{
		"posTransaction": gin.H{"totalAmount": "10", "paymentMethod": "cash"},
	}, true)

	suite.Equal(http.StatusInternalServerError, w.Code)

	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp.Error, "no active account")
}

func (suite *EventHandlerTestSuite) TestPurchasePaid_SkippedResultPassesThrough() {
	skipped := &dto.PostingResultResponse{
		Amount:     decimal.NewFromInt(300),
		Skipped:    true,
		SkipReason: `payment status is "pending", posting requires paid`,
	}

	suite.mockEvents.On("HandlePurchasePaid", mock.Anything, mock.AnythingOfType("dto.PurchasePaidRequest"), suite.userID).
		Return(skipped, nil).Once()

	w := suite.postJSON("/api/v1/events/purchase-paid", gin.H{
		"purchaseOrder": gin.H{
			"totalAmount":   "300",
			"paymentMethod": "bank_transfer",
			"paymentStatus": "pending",
		},
	}, true)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.PostingResultResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Skipped)
	suite.Empty(resp.FinanceTransactionID)
}

func (suite *EventHandlerTestSuite) TestInvoicePayment_ResponseShape() {
	accountID := uuid.NewString()
	expected := &dto.InvoicePaymentResponse{
		FinanceTransactionID: uuid.NewString(),
		TransactionNumber:    "TRX-2025-002",
		Amount:               decimal.NewFromFloat(120.00),
		AccountsUpdated:      []string{accountID},
	}

	suite.mockEvents.On("HandleInvoicePayment", mock.Anything, mock.AnythingOfType("dto.InvoicePaymentRequest"), suite.userID).
		Return(expected, nil).Once()

	w := suite.postJSON("/api/v1/events/invoice-payment", gin.H{
		"invoice": gin.H{"invoiceNumber": "INV-31"},
		"payment": gin.H{"amount": "120.00", "paymentMethod": "card"},
	}, true)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.InvoicePaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]string{accountID}, resp.AccountsUpdated)
}

func (suite *EventHandlerTestSuite) TestExpenseRecorded_Success() {
	expected := &dto.PostingResultResponse{
		FinanceTransactionID: uuid.NewString(),
		TransactionNumber:    "TRX-2025-003",
		Amount:               decimal.NewFromFloat(45.50),
		Status:               "COMPLETED",
		AccountUpdated:       uuid.NewString(),
	}

	suite.mockEvents.On("HandleExpenseRecorded", mock.Anything, mock.AnythingOfType("dto.ExpenseRecordedRequest"), suite.userID).
		Return(expected, nil).Once()

	w := suite.postJSON("/api/v1/events/expense-recorded", gin.H{
		"expense": gin.H{"amount": "45.50", "paymentMethod": "cash", "category": "Office Supplies"},
	}, true)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *EventHandlerTestSuite) TestReverseByReference_NotFoundIsFalse() {
	suite.mockLedger.On("Reverse", mock.Anything, domain.RefOrder, "POS-404", suite.userID).
		Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/reference/ORDER/POS-404", nil)
	req.Header.Set("Authorization", "Bearer "+suite.authToken())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ReversalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Reversed)
}

func (suite *EventHandlerTestSuite) TestReverseByReference_Reversed() {
	suite.mockLedger.On("Reverse", mock.Anything, domain.RefInvoice, "INV-31", suite.userID).
		Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/reference/INVOICE/INV-31", nil)
	req.Header.Set("Authorization", "Bearer "+suite.authToken())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ReversalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Reversed)
}

func TestEventHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EventHandlerTestSuite))
}
