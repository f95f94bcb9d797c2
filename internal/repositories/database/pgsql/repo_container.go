package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ledgerStore joins the account and ledger repositories into one portsrepo.LedgerStore.
type ledgerStore struct {
	*PgxAccountRepository
	*PgxLedgerRepository
}

var _ portsrepo.LedgerStore = (*ledgerStore)(nil)

// NewLedgerStore returns the Postgres-backed ledger store.
func NewLedgerStore(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.LedgerStore {
	return &ledgerStore{
		PgxAccountRepository: newPgxAccountRepository(dbPool),
		PgxLedgerRepository:  newPgxLedgerRepository(dbPool, lockTimeout),
	}
}

func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	store := NewLedgerStore(dbPool, lockTimeout)
	return portsrepo.RepositoryProvider{
		AccountRepo: store,
		LedgerRepo:  store,
	}
}
