package services

import (
	portsrepo "github.com/retailsuite/finance-ledger/internal/core/ports/repositories"
	portssvc "github.com/retailsuite/finance-ledger/internal/core/ports/services"
	"github.com/retailsuite/finance-ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The directory is initialized first since the ledger depends on it.
	container.AccountDirectory = NewAccountDirectoryService(repos.AccountRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Ledger = NewLedgerService(repos.TransactionRepo, container.AccountDirectory, cfg.PostingRetryLimit)
	container.Event = NewEventService(container.Ledger)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)

	return container
}
