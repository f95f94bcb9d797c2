// Package database selects and opens the configured ledger store.
package database

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_webhook_ledger/internal/platform/config"
	"github.com/SscSPs/bank_webhook_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/bank_webhook_ledger/internal/repositories/database/sqlite"
	pkgdb "github.com/SscSPs/bank_webhook_ledger/pkg/database"
)

// OpenOptions tunes OpenLedgerStore.
type OpenOptions struct {
	// Migrate applies the Postgres migrations at cfg.MigrationsPath before opening the pool.
	Migrate bool
}

// OpenLedgerStore opens the store named by cfg.LedgerStore and returns its repositories
// with a function releasing the underlying connections.
func OpenLedgerStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts OpenOptions) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.LedgerStore {
	case config.StoreSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Using SQLite ledger store", slog.String("path", cfg.SQLitePath))
		closeFn := func() {
			if err := store.Close(); err != nil {
				logger.Error("Error closing SQLite store", slog.String("error", err.Error()))
			}
		}
		return portsrepo.RepositoryProvider{AccountRepo: store, LedgerRepo: store}, closeFn, nil

	case config.StorePostgres:
		if opts.Migrate {
			logger.Info("Running database migrations...")
			if err := pkgdb.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
		}
		pool, err := pkgdb.NewPgxPool(ctx, cfg.DatabaseURL, pkgdb.PoolOptions{
			MaxConns: int32(cfg.DBMaxConns),
			Ping:     cfg.EnableDBCheck,
			Logger:   logger,
		})
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool, cfg.DBLockTimeout), func() { pkgdb.ClosePgxPool(pool, logger) }, nil

	default:
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown ledger store %q", cfg.LedgerStore)
	}
}
