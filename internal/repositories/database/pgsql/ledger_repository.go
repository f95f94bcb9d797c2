package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_webhook_ledger/internal/models"
	"github.com/SscSPs/bank_webhook_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, account_id, reference, entry_date, amount, entry_kind, from_label, to_label, source, metadata, created_at`

// PgxLedgerRepository stores ledger entries and runs the locking transactions
// used by ingestion and transfers.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool, LockTimeout: lockTimeout}}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EntryExists checks for an applied (reference, account) pair, taking a shared lock on the row.
func (r *PgxLedgerRepository) EntryExists(ctx context.Context, reference, accountID string) (bool, error) {
	return entryExists(ctx, r.Pool, reference, accountID)
}

func entryExists(ctx context.Context, q querier, reference, accountID string) (bool, error) {
	query := `
		SELECT 1 FROM ledger_entries
		WHERE reference = $1 AND account_id = $2
		FOR SHARE;
	`
	var one int
	err := q.QueryRow(ctx, query, reference, accountID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check entry %s for account %s: %w", reference, accountID, classifyError(err))
	}
	return true, nil
}

// FindEntryByID retrieves a ledger entry by its ID.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE entry_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("ledger entry " + entryID)
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, classifyError(err))
	}
	entry, err := mapping.ToDomainLedgerEntry(m)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntriesByAccount returns entries newest first, continuing after params.After when set.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, params portsrepo.ListEntriesParams) ([]domain.LedgerEntry, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if params.After == nil {
		query := `
			SELECT ` + entryColumns + `
			FROM ledger_entries
			WHERE account_id = $1
			ORDER BY entry_date DESC, created_at DESC, entry_id DESC
			LIMIT $2;
		`
		rows, err = r.Pool.Query(ctx, query, accountID, limit)
	} else {
		query := `
			SELECT ` + entryColumns + `
			FROM ledger_entries
			WHERE account_id = $1 AND (entry_date, created_at, entry_id) < ($2, $3, $4)
			ORDER BY entry_date DESC, created_at DESC, entry_id DESC
			LIMIT $5;
		`
		rows, err = r.Pool.Query(ctx, query, accountID, params.After.EntryDate, params.After.CreatedAt, params.After.EntryID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for account %s: %w", accountID, classifyError(err))
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row for account %s: %w", accountID, err)
		}
		entry, err := mapping.ToDomainLedgerEntry(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for account %s: %w", accountID, classifyError(err))
	}
	return entries, nil
}

// RunInTx runs fn inside a transaction that is committed only if fn succeeds.
func (r *PgxLedgerRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// pgxLedgerTx implements portsrepo.LedgerTx on top of a pgx transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// LockAccounts selects the accounts FOR UPDATE. Rows are locked in account_id order,
// so two transactions touching the same pair never wait on each other in a cycle.
func (t *pgxLedgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := t.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for update: %w", classifyError(err))
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account, len(ids))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", classifyError(err))
	}

	if len(accountsMap) != len(ids) {
		missing := []string{}
		for _, id := range ids {
			if _, ok := accountsMap[id]; !ok {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}
	return accountsMap, nil
}

func (t *pgxLedgerTx) EntryExists(ctx context.Context, reference, accountID string) (bool, error) {
	return entryExists(ctx, t.tx, reference, accountID)
}

// InsertEntries writes all entries in one batch.
func (t *pgxLedgerTx) InsertEntries(ctx context.Context, entries ...domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		m, err := mapping.ToModelLedgerEntry(e)
		if err != nil {
			return err
		}
		batch.Queue(query,
			m.EntryID,
			m.AccountID,
			m.Reference,
			m.EntryDate,
			m.Amount,
			m.EntryKind,
			m.FromLabel,
			m.ToLabel,
			m.Source,
			m.Metadata,
			m.CreatedAt,
		)
	}

	br := t.tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert entry %s: %w", entries[i].Reference, classifyError(err))
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close entry insert batch: %w", classifyError(err))
	}
	return batchErr
}

// AdjustBalances applies each delta with a relative UPDATE.
func (t *pgxLedgerTx) AdjustBalances(ctx context.Context, deltas map[string]decimal.Decimal, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3
		WHERE account_id = $1;
	`
	ids := make([]string, 0, len(deltas))
	for id, delta := range deltas {
		if !delta.IsZero() {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	slices.Sort(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, id, deltas[id], now)
	}

	br := t.tx.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range ids {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", id, classifyError(err))
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, id)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", classifyError(err))
	}
	return batchErr
}

func scanEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.AccountID,
		&m.Reference,
		&m.EntryDate,
		&m.Amount,
		&m.EntryKind,
		&m.FromLabel,
		&m.ToLabel,
		&m.Source,
		&m.Metadata,
		&m.CreatedAt,
	)
	return m, err
}
