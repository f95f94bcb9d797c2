package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_webhook_ledger/internal/models"
	"github.com/SscSPs/bank_webhook_ledger/internal/utils/mapping"
	"github.com/shopspring/decimal"
	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
	accountColumns  = `account_id, name, balance, status, created_at, last_updated_at`
	entryColumns    = `entry_id, account_id, reference, entry_date, amount, entry_kind, from_label, to_label, source, metadata, created_at`
)

// Store is a portsrepo.LedgerStore on a single SQLite connection.
// Every transaction holds that connection, so transactions are fully serialized.
type Store struct {
	db *sql.DB
}

var _ portsrepo.LedgerStore = (*Store)(nil)

// Open opens (or creates) the database at dsn and applies Migrations.
// dsn is a file path, optionally with modernc query parameters.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if !strings.Contains(dsn, "_pragma") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for i, stmt := range Migrations() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying sqlite migration %d: %w", i, err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveAccount inserts a new account.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		m.AccountID, m.Name, m.Balance.String(), m.Status,
		formatTimestamp(m.CreatedAt), formatTimestamp(m.LastUpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", m.Name, classifyError(err))
	}
	return nil
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.findAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, accountID)
}

func (s *Store) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	return s.findAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE name = ?`, name)
}

func (s *Store) findAccount(ctx context.Context, query, arg string) (*domain.Account, error) {
	m, err := scanAccount(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + arg)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", arg, classifyError(err))
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// EntryExists checks for an applied (reference, account) pair.
func (s *Store) EntryExists(ctx context.Context, reference, accountID string) (bool, error) {
	return entryExists(ctx, s.db, reference, accountID)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func entryExists(ctx context.Context, q rowQuerier, reference, accountID string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM ledger_entries WHERE reference = ? AND account_id = ?`,
		reference, accountID,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check entry %s for account %s: %w", reference, accountID, classifyError(err))
	}
	return true, nil
}

func (s *Store) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	m, err := scanEntry(s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE entry_id = ?`, entryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (s *Store) ListEntriesByAccount(ctx context.Context, accountID string, params portsrepo.ListEntriesParams) ([]domain.LedgerEntry, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE account_id = ?`
	args := []any{accountID}
	if params.After != nil {
		query += ` AND (entry_date, created_at, entry_id) < (?, ?, ?)`
		args = append(args, params.After.EntryDate.Format(domain.DateLayout), formatTimestamp(params.After.CreatedAt), params.After.EntryID)
	}
	query += ` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
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

// RunInTx runs fn in a transaction committed only when fn succeeds.
// fn must use the tx it is given; the store itself is unusable until fn returns.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", classifyError(err))
	}
	// no-op once committed
	defer tx.Rollback()

	if err := fn(ctx, &sqliteTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", classifyError(err))
	}
	return nil
}

type sqliteTx struct {
	tx *sql.Tx
}

var _ portsrepo.LedgerTx = (*sqliteTx)(nil)

// LockAccounts takes the database write lock with a no-op update before reading,
// which is the closest SQLite gets to SELECT ... FOR UPDATE.
func (t *sqliteTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return map[string]domain.Account{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := t.tx.ExecContext(ctx, `UPDATE accounts SET balance = balance WHERE account_id IN (`+placeholders+`)`, args...); err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", classifyError(err))
	}

	rows, err := t.tx.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id IN (`+placeholders+`) ORDER BY account_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for update: %w", classifyError(err))
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(ids))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", classifyError(err))
	}

	if len(accounts) != len(ids) {
		var missing []string
		for _, id := range ids {
			if _, ok := accounts[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}
	return accounts, nil
}

func (t *sqliteTx) EntryExists(ctx context.Context, reference, accountID string) (bool, error) {
	return entryExists(ctx, t.tx, reference, accountID)
}

func (t *sqliteTx) InsertEntries(ctx context.Context, entries ...domain.LedgerEntry) error {
	for _, e := range entries {
		m, err := mapping.ToModelLedgerEntry(e)
		if err != nil {
			return err
		}
		_, err = t.tx.ExecContext(ctx,
			`INSERT INTO ledger_entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.EntryID, m.AccountID, m.Reference, m.EntryDate.Format(domain.DateLayout), m.Amount.String(),
			m.EntryKind, m.FromLabel, m.ToLabel, m.Source, string(m.Metadata), formatTimestamp(m.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", e.Reference, classifyError(err))
		}
	}
	return nil
}

// AdjustBalances reads and rewrites each balance; TEXT arithmetic in SQLite would go through floats.
func (t *sqliteTx) AdjustBalances(ctx context.Context, deltas map[string]decimal.Decimal, now time.Time) error {
	ids := make([]string, 0, len(deltas))
	for id, delta := range deltas {
		if !delta.IsZero() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	for _, id := range ids {
		var current decimal.Decimal
		err := t.tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE account_id = ?`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, id)
			}
			return fmt.Errorf("failed to read balance for account %s: %w", id, classifyError(err))
		}
		_, err = t.tx.ExecContext(ctx,
			`UPDATE accounts SET balance = ?, last_updated_at = ? WHERE account_id = ?`,
			current.Add(deltas[id]).String(), formatTimestamp(now), id,
		)
		if err != nil {
			return fmt.Errorf("failed to update balance for account %s: %w", id, classifyError(err))
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (models.Account, error) {
	var m models.Account
	var createdAt, updatedAt string
	if err := row.Scan(&m.AccountID, &m.Name, &m.Balance, &m.Status, &createdAt, &updatedAt); err != nil {
		return m, err
	}
	var err error
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return m, err
	}
	m.LastUpdatedAt, err = parseTimestamp(updatedAt)
	return m, err
}

func scanEntry(row scanner) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	var entryDate, createdAt, metadata string
	err := row.Scan(&m.EntryID, &m.AccountID, &m.Reference, &entryDate, &m.Amount, &m.EntryKind,
		&m.FromLabel, &m.ToLabel, &m.Source, &metadata, &createdAt)
	if err != nil {
		return m, err
	}
	if m.EntryDate, err = time.Parse(domain.DateLayout, entryDate); err != nil {
		return m, fmt.Errorf("parsing entry date %q: %w", entryDate, err)
	}
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return m, err
	}
	m.Metadata = []byte(metadata)
	return m, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// classifyError maps SQLite result codes onto the apperrors sentinels.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", apperrors.ErrConcurrency, err)
	}
	var se *sqlitedriver.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", apperrors.ErrDuplicate, err)
		}
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %v", apperrors.ErrConcurrency, err)
		}
	}
	return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
}
