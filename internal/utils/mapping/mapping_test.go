package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerEntryMapping_Metadata(t *testing.T) {
	entry := domain.LedgerEntry{
		EntryID:   "e-1",
		AccountID: "a-1",
		Reference: "12345",
		EntryDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("1234.56"),
		Kind:      domain.Credit,
		Metadata:  map[string]string{"bank": "foodics", "note": "a/b", "type": "PAYMENT"},
	}

	m, err := ToModelLedgerEntry(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bank":"foodics","note":"a/b","type":"PAYMENT"}`, string(m.Metadata))
	assert.Equal(t, "credit", m.EntryKind)

	back, err := ToDomainLedgerEntry(m)
	require.NoError(t, err)
	assert.Equal(t, entry.Metadata, back.Metadata)
	assert.Equal(t, domain.Credit, back.Kind)
}

func TestLedgerEntryMapping_NilAndBadMetadata(t *testing.T) {
	m, err := ToModelLedgerEntry(domain.LedgerEntry{EntryID: "e-2"})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(m.Metadata))

	m.Metadata = nil
	back, err := ToDomainLedgerEntry(m)
	require.NoError(t, err)
	assert.Empty(t, back.Metadata)

	m.Metadata = []byte("{broken")
	_, err = ToDomainLedgerEntry(m)
	assert.Error(t, err)
}

func TestAccountMapping_RoundTripInUTC(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*60*60)
	created := time.Date(2025, 6, 15, 12, 0, 0, 0, riyadh)
	acc := domain.Account{
		AccountID:   "a-1",
		Name:        "alice",
		Balance:     decimal.RequireFromString("10.50"),
		Status:      domain.AccountPending,
		AuditFields: domain.AuditFields{CreatedAt: created, LastUpdatedAt: created},
	}

	m := ToModelAccount(acc)
	assert.Equal(t, "pending", m.Status)
	assert.Equal(t, time.UTC, m.CreatedAt.Location())
	assert.True(t, m.CreatedAt.Equal(created))

	back := ToDomainAccount(m)
	assert.Equal(t, acc.Name, back.Name)
	assert.True(t, acc.Balance.Equal(back.Balance))
	assert.Equal(t, domain.AccountPending, back.Status)
	assert.True(t, back.LastUpdatedAt.Equal(created))
}
