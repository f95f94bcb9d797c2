package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "bank-webhook-ledger"

// PoolOptions tunes NewPgxPool.
type PoolOptions struct {
	// MaxConns caps the pool; zero keeps the pgx default.
	MaxConns int32
	// Ping verifies the connection before returning.
	Ping   bool
	Logger *slog.Logger
}

// NewPgxPool creates a PostgreSQL connection pool tagged with the service's application_name.
func NewPgxPool(ctx context.Context, databaseURL string, opts PoolOptions) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// ParseConfig also honours PGHOST, PGUSER and friends.
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if _, ok := config.ConnConfig.RuntimeParams["application_name"]; !ok {
		config.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if opts.Ping {
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("Connected to PostgreSQL", slog.String("host", config.ConnConfig.Host), slog.Int("max_conns", int(config.MaxConns)))
	}
	return pool, nil
}

// ClosePgxPool closes the pool, tolerating nil.
func ClosePgxPool(pool *pgxpool.Pool, logger *slog.Logger) {
	if pool == nil {
		return
	}
	pool.Close()
	if logger != nil {
		logger.Info("PostgreSQL connection pool closed")
	}
}
