package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailsuite/finance-ledger/internal/apperrors"
	"github.com/retailsuite/finance-ledger/internal/core/domain"
	portssvc "github.com/retailsuite/finance-ledger/internal/core/ports/services"
	"github.com/retailsuite/finance-ledger/internal/core/services"
	"github.com/retailsuite/finance-ledger/internal/dto"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreatePosting(ctx context.Context, txn domain.FinanceTransaction) (*domain.FinanceTransaction, bool, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.FinanceTransaction), args.Bool(1), args.Error(2)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinanceTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindActiveByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.FinanceTransaction, error) {
	args := m.Called(ctx, refType, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.FinanceTransaction, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinanceTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ReverseByReference(ctx context.Context, refType domain.ReferenceType, refID string, userID string, now time.Time) (*domain.FinanceTransaction, error) {
	args := m.Called(ctx, refType, refID, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceTransaction), args.Error(1)
}

func (m *MockTransactionRepository) PatchByReference(ctx context.Context, refType domain.ReferenceType, refID string, patch dto.TransactionPatch, userID string, now time.Time) (*domain.FinanceTransaction, error) {
	args := m.Called(ctx, refType, refID, patch, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceTransaction), args.Error(1)
}

func (m *MockTransactionRepository) NextTransactionNumber(ctx context.Context, tx pgx.Tx, year int) (string, error) {
	args := m.Called(ctx, tx, year)
	return args.String(0), args.Error(1)
}

// MockDirectoryService is a mock type for the AccountDirectorySvcFacade interface
type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) Resolve(ctx context.Context, role domain.AccountRole) (*domain.Account, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockTransactionRepository
	mockDirectory *MockDirectoryService
	service       portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTransactionRepository)
	suite.mockDirectory = new(MockDirectoryService)
	suite.service = services.NewLedgerService(suite.mockRepo, suite.mockDirectory, 3)
}

func (suite *LedgerServiceTestSuite) cashAccount() *domain.Account {
	return &domain.Account{
		AccountID:   uuid.NewString(),
		Name:        "Till",
		AccountType: domain.Asset,
		Category:    "Cash",
		IsActive:    true,
	}
}

func (suite *LedgerServiceTestSuite) postingRequest() dto.PostingRequest {
	return dto.PostingRequest{
		AccountRole:     domain.RoleCash,
		TransactionType: domain.TxnIncome,
		Amount:          decimal.NewFromFloat(125.50),
		Category:        "Sales",
		ReferenceType:   domain.RefOrder,
		ReferenceID:     "POS-1001",
		PaymentMethod:   "cash",
	}
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestPost_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	account := suite.cashAccount()
	req := suite.postingRequest()

	suite.mockDirectory.On("Resolve", ctx, domain.RoleCash).Return(account, nil).Once()
	suite.mockRepo.On("CreatePosting", ctx, mock.MatchedBy(func(txn domain.FinanceTransaction) bool {
		return txn.AccountID == account.AccountID &&
			txn.Amount.Equal(req.Amount) &&
			txn.TransactionType == domain.TxnIncome &&
			txn.ReferenceType == domain.RefOrder &&
			txn.ReferenceID == "POS-1001" &&
			txn.IsActive &&
			txn.Status == domain.StatusCompleted
	})).Return(&domain.FinanceTransaction{
		TransactionID:     uuid.NewString(),
		TransactionNumber: "TRX-2025-001",
		AccountID:         account.AccountID,
		Amount:            req.Amount,
		TransactionType:   domain.TxnIncome,
		Status:            domain.StatusCompleted,
		IsActive:          true,
	}, true, nil).Once()

	txn, err := suite.service.Post(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal("TRX-2025-001", txn.TransactionNumber)
	suite.True(txn.BalanceDelta().Equal(req.Amount))
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockDirectory.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPost_ExpenseDeltaIsNegative() {
	ctx := context.Background()
	account := suite.cashAccount()
	req := suite.postingRequest()
	req.TransactionType = domain.TxnExpense

	suite.mockDirectory.On("Resolve", ctx, domain.RoleCash).Return(account, nil).Once()
	suite.mockRepo.On("CreatePosting", ctx, mock.MatchedBy(func(txn domain.FinanceTransaction) bool {
		return txn.BalanceDelta().Equal(req.Amount.Neg())
	})).Return(&domain.FinanceTransaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.TxnExpense,
		Amount:          req.Amount,
	}, true, nil).Once()

	_, err := suite.service.Post(ctx, req, uuid.NewString())
	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPost_RejectsNonPositiveAmount() {
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		req := suite.postingRequest()
		req.Amount = amount

		_, err := suite.service.Post(ctx, req, uuid.NewString())
		suite.Require().ErrorIs(err, apperrors.ErrValidation)
	}

	// Validation happens before any lookup
	suite.mockDirectory.AssertNotCalled(suite.T(), "Resolve", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreatePosting", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPost_DirectoryFailureAbortsPosting() {
	ctx := context.Background()
	req := suite.postingRequest()

	suite.mockDirectory.On("Resolve", ctx, domain.RoleCash).Return(nil, services.ErrAccountNotFound).Once()

	_, err := suite.service.Post(ctx, req, uuid.NewString())
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreatePosting", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPost_DuplicateReferenceReturnsExisting() {
	ctx := context.Background()
	account := suite.cashAccount()
	req := suite.postingRequest()

	existing := &domain.FinanceTransaction{
		TransactionID:     uuid.NewString(),
		TransactionNumber: "TRX-2025-005",
		AccountID:         account.AccountID,
		Amount:            req.Amount,
		ReferenceType:     req.ReferenceType,
		ReferenceID:       req.ReferenceID,
		IsActive:          true,
	}

	suite.mockDirectory.On("Resolve", ctx, domain.RoleCash).Return(account, nil).Once()
	suite.mockRepo.On("CreatePosting", ctx, mock.AnythingOfType("domain.FinanceTransaction")).
		Return(existing, false, nil).Once()

	txn, err := suite.service.Post(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(existing.TransactionID, txn.TransactionID)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "CreatePosting", 1)
}

func (suite *LedgerServiceTestSuite) TestPost_RetriesOnConflictThenSucceeds() {
	ctx := context.Background()
	account := suite.cashAccount()
	req := suite.postingRequest()

	suite.mockDirectory.On("Resolve", ctx, domain.RoleCash).Return(account, nil).Once()
	suite.mockRepo.On("CreatePosting", ctx, mock.AnythingOfType("domain.FinanceTransaction")).
		Return(nil, false, apperrors.ErrConflict).Twice()
	suite.mockRepo.On("CreatePosting", ctx, mock.AnythingOfType("domain.FinanceTransaction")).
		Return(&domain.FinanceTransaction{TransactionID: uuid.NewString()}, true, nil).Once()

	txn, err := suite.service.Post(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "CreatePosting", 3)
}

func (suite *LedgerServiceTestSuite) TestPost_RetriesExhausted() {
	ctx := context.Background()
	account := suite.cashAccount()
	req := suite.postingRequest()

	suite.mockDirectory.On("Resolve", ctx, domain.RoleCash).Return(account, nil).Once()
	suite.mockRepo.On("CreatePosting", ctx, mock.AnythingOfType("domain.FinanceTransaction")).
		Return(nil, false, apperrors.ErrConflict).Times(3)

	_, err := suite.service.Post(ctx, req, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "CreatePosting", 3)
}

func (suite *LedgerServiceTestSuite) TestReverse_Success() {
	ctx := context.Background()
	userID := uuid.NewString()

	reversed := &domain.FinanceTransaction{
		TransactionID: uuid.NewString(),
		ReferenceType: domain.RefOrder,
		ReferenceID:   "POS-1001",
		IsActive:      false,
		Status:        domain.StatusCancelled,
	}
	suite.mockRepo.On("ReverseByReference", ctx, domain.RefOrder, "POS-1001", userID, mock.AnythingOfType("time.Time")).
		Return(reversed, nil).Once()

	ok, err := suite.service.Reverse(ctx, domain.RefOrder, "POS-1001", userID)

	suite.Require().NoError(err)
	suite.True(ok)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReverse_NothingActiveReturnsFalse() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("ReverseByReference", ctx, domain.RefOrder, "POS-9999", userID, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()

	ok, err := suite.service.Reverse(ctx, domain.RefOrder, "POS-9999", userID)

	suite.Require().NoError(err)
	suite.False(ok)
}

func (suite *LedgerServiceTestSuite) TestPatchByReference_NothingActiveReturnsNil() {
	ctx := context.Background()
	desc := "updated description"
	patch := dto.TransactionPatch{Description: &desc}

	suite.mockRepo.On("PatchByReference", ctx, domain.RefInvoice, "INV-404", patch, "u1", mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.PatchByReference(ctx, domain.RefInvoice, "INV-404", patch, "u1")

	suite.Require().NoError(err)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestPatchByReference_EmptyPatchDoesNotWrite() {
	ctx := context.Background()
	existing := &domain.FinanceTransaction{TransactionID: uuid.NewString()}

	suite.mockRepo.On("FindActiveByReference", ctx, domain.RefInvoice, "INV-1").
		Return(existing, nil).Once()

	txn, err := suite.service.PatchByReference(ctx, domain.RefInvoice, "INV-1", dto.TransactionPatch{}, "u1")

	suite.Require().NoError(err)
	suite.Equal(existing.TransactionID, txn.TransactionID)
	suite.mockRepo.AssertNotCalled(suite.T(), "PatchByReference", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
