package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the persisted form of a ledger_entries row.
// Metadata is stored as a JSON document.
type LedgerEntry struct {
	EntryID   string          `db:"entry_id"`
	AccountID string          `db:"account_id"`
	Reference string          `db:"reference"`
	EntryDate time.Time       `db:"entry_date"`
	Amount    decimal.Decimal `db:"amount"`
	EntryKind string          `db:"entry_kind"`
	FromLabel string          `db:"from_label"`
	ToLabel   string          `db:"to_label"`
	Source    string          `db:"source"`
	Metadata  []byte          `db:"metadata"`
	CreatedAt time.Time       `db:"created_at"`
}
