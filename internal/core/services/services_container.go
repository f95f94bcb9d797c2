package services

import (
	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
)

// NewServiceContainer wires the services over one ledger store.
func NewServiceContainer(repos portsrepo.RepositoryProvider, sealer EnvelopeSealer, resolver portssvc.StrategyResolver, dispatcher JobDispatcher) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:  NewAccountService(repos.AccountRepo, repos.LedgerRepo),
		Transfer: NewTransferService(repos.LedgerRepo),
		Webhook:  NewWebhookService(sealer, resolver, dispatcher),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade  = (*AccountService)(nil)
	_ portssvc.TransferSvc       = (*transferService)(nil)
	_ portssvc.IngestionStrategy = (*grammarStrategy)(nil)
	_ portssvc.StrategyResolver  = (*StrategyRegistry)(nil)
)
