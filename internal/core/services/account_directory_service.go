package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/retailsuite/finance-ledger/internal/apperrors"
	"github.com/retailsuite/finance-ledger/internal/core/domain"
	portsrepo "github.com/retailsuite/finance-ledger/internal/core/ports/repositories"
	portssvc "github.com/retailsuite/finance-ledger/internal/core/ports/services"
)

// ErrAccountNotFound is returned when no active account exists for a role.
// Postings fail loudly on it; nothing silently defaults.
var ErrAccountNotFound = fmt.Errorf("no active account for role: %w", apperrors.ErrNotFound)

// accountDirectoryService resolves logical account roles to concrete accounts.
type accountDirectoryService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountDirectoryService creates a new account directory service.
func NewAccountDirectoryService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountDirectorySvcFacade {
	return &accountDirectoryService{accountRepo: accountRepo}
}

var _ portssvc.AccountDirectorySvcFacade = (*accountDirectoryService)(nil)

// Resolve returns the active account serving the given role. Resolution is
// read-only; when several accounts match the role's selector the oldest wins.
func (s *accountDirectoryService) Resolve(ctx context.Context, role domain.AccountRole) (*domain.Account, error) {
	selector, ok := role.Selector()
	if !ok {
		err := fmt.Errorf("%w: unknown account role %q", apperrors.ErrValidation, role)
		s.LogError(ctx, err, "Account role has no selector", slog.String("role", string(role)))
		return nil, err
	}

	account, err := s.accountRepo.FindActiveAccountBySelector(ctx, selector)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "No active account for role",
				slog.String("role", string(role)),
				slog.String("account_type", string(selector.AccountType)),
				slog.String("category", selector.Category))
			return nil, fmt.Errorf("%w (role %s)", ErrAccountNotFound, role)
		}
		s.LogError(ctx, err, "Failed to resolve account role", slog.String("role", string(role)))
		return nil, err
	}

	s.LogDebug(ctx, "Resolved account role",
		slog.String("role", string(role)),
		slog.String("account_id", account.AccountID))
	return account, nil
}
