package services_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_webhook_ledger/internal/repositories/database/sqlite"
)

func newSQLiteStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedAccount(t *testing.T, store portsrepo.AccountWriter, name, balance string, status domain.AccountStatus) domain.Account {
	t.Helper()
	now := time.Now().UTC()
	acc := domain.Account{
		AccountID:   uuid.NewString(),
		Name:        name,
		Balance:     decimal.RequireFromString(balance),
		Status:      status,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	require.NoError(t, store.SaveAccount(context.Background(), acc))
	return acc
}

func balanceOf(t *testing.T, store portsrepo.AccountReader, accountID string) string {
	t.Helper()
	acc, err := store.FindAccountByID(context.Background(), accountID)
	require.NoError(t, err)
	return acc.Balance.StringFixed(2)
}

// MockLedgerStore is a mock type for portsrepo.LedgerStore
type MockLedgerStore struct {
	mock.Mock
}

var _ portsrepo.LedgerStore = (*MockLedgerStore)(nil)

func (m *MockLedgerStore) SaveAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockLedgerStore) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerStore) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerStore) EntryExists(ctx context.Context, reference, accountID string) (bool, error) {
	args := m.Called(ctx, reference, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerStore) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerStore) ListEntriesByAccount(ctx context.Context, accountID string, params portsrepo.ListEntriesParams) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// RunInTx returns the configured error without invoking fn.
func (m *MockLedgerStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return m.Called(ctx, fn).Error(0)
}
