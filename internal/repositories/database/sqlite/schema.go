// Package sqlite is an embedded ledger store backed by modernc.org/sqlite.
// It implements the same ports as the Postgres store and is used for local runs and tests.
package sqlite

// Migrations returns the schema statements, one statement per string.
// Amounts are TEXT so that decimals round-trip exactly; timestamps are fixed-width UTC strings.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			account_id      TEXT PRIMARY KEY,
			name            TEXT NOT NULL UNIQUE,
			balance         TEXT NOT NULL DEFAULT '0',
			status          TEXT NOT NULL DEFAULT 'active',
			created_at      TEXT NOT NULL,
			last_updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS ledger_entries (
			entry_id   TEXT PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts (account_id),
			reference  TEXT NOT NULL,
			entry_date TEXT NOT NULL,
			amount     TEXT NOT NULL,
			entry_kind TEXT NOT NULL CHECK (entry_kind IN ('debit', 'credit')),
			from_label TEXT NOT NULL DEFAULT '',
			to_label   TEXT NOT NULL DEFAULT '',
			source     TEXT NOT NULL DEFAULT '',
			metadata   TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL,
			UNIQUE (reference, account_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_account_date
			ON ledger_entries (account_id, entry_date DESC, created_at DESC, entry_id DESC)`,
	}
}
