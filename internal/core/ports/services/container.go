package services

// ServiceContainer holds all the service facades the handlers depend on.
type ServiceContainer struct {
	AccountDirectory AccountDirectorySvcFacade
	Account          AccountSvcFacade
	Ledger           LedgerSvcFacade
	Event            EventSvcFacade
	User             UserSvcFacade
	Token            TokenSvcFacade
}
