package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryCursor is the keyset position of the last entry of a page.
// EntryID breaks ties between entries sharing both timestamps.
type EntryCursor struct {
	EntryDate time.Time
	CreatedAt time.Time
	EntryID   string
}

// ListEntriesParams controls ListEntriesByAccount paging. Entries come newest first,
// ordered by (entry_date, created_at, entry_id) descending.
type ListEntriesParams struct {
	Limit int
	After *EntryCursor
}

// LedgerEntryReader defines read operations for ledger entries.
type LedgerEntryReader interface {
	// EntryExists reports whether (reference, accountID) was already applied.
	// Implementations take a shared row lock where the store supports it.
	EntryExists(ctx context.Context, reference, accountID string) (bool, error)

	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	ListEntriesByAccount(ctx context.Context, accountID string, params ListEntriesParams) ([]domain.LedgerEntry, error)
}

// LedgerTx is the unit of work handed to RunInTx callbacks.
type LedgerTx interface {
	// LockAccounts locks the accounts exclusively, always in ascending account ID order,
	// and returns them keyed by ID. A missing account yields apperrors.ErrNotFound.
	LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// EntryExists is the in-transaction variant of LedgerEntryReader.EntryExists.
	EntryExists(ctx context.Context, reference, accountID string) (bool, error)

	// InsertEntries writes entries. A (reference, account) collision yields apperrors.ErrDuplicate.
	InsertEntries(ctx context.Context, entries ...domain.LedgerEntry) error

	// AdjustBalances adds each delta to the account balance.
	AdjustBalances(ctx context.Context, deltas map[string]decimal.Decimal, now time.Time) error
}
