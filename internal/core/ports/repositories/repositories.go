package repositories

// LedgerStore is everything the ledger services need from persistence.
type LedgerStore interface {
	AccountRepositoryFacade
	LedgerEntryReader
	TransactionManager
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	LedgerRepo  LedgerStore
}
