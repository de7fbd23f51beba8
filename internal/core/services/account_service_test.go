package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailsuite/finance-ledger/internal/apperrors"
	"github.com/retailsuite/finance-ledger/internal/core/domain"
	portssvc "github.com/retailsuite/finance-ledger/internal/core/ports/services"
	"github.com/retailsuite/finance-ledger/internal/core/services"
	"github.com/retailsuite/finance-ledger/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:         "Till",
		AccountType:  domain.Asset,
		Category:     "Cash",
		CurrencyCode: "USD",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(req.Name, created.Name)
	suite.Equal(req.AccountType, created.AccountType)
	suite.Equal(req.Category, created.Category)
	suite.True(created.IsActive)
	suite.True(created.Balance.IsZero())
	suite.Equal(creatorUserID, created.CreatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateID() {
	ctx := context.Background()

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Name:         "Till",
		AccountType:  domain.Asset,
		Category:     "Cash",
		CurrencyCode: "USD",
	}, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_OnlyEditableFieldsChange() {
	ctx := context.Background()
	accountID := uuid.NewString()
	userID := uuid.NewString()
	existing := &domain.Account{
		AccountID:   accountID,
		Name:        "Old Name",
		AccountType: domain.Asset,
		Category:    "Cash",
		Description: "old",
		IsActive:    true,
	}

	newName := "New Name"
	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == newName && a.Description == "old" && a.LastUpdatedBy == userID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{Name: &newName}, userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockRepo.On("DeactivateAccount", ctx, accountID, userID, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, userID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
