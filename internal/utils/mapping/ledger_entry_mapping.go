package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/SscSPs/bank_webhook_ledger/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to its persisted form.
func ToModelLedgerEntry(d domain.LedgerEntry) (models.LedgerEntry, error) {
	meta := d.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("encoding metadata for entry %s: %w", d.EntryID, err)
	}
	return models.LedgerEntry{
		EntryID:   d.EntryID,
		AccountID: d.AccountID,
		Reference: d.Reference,
		EntryDate: d.EntryDate,
		Amount:    d.Amount,
		EntryKind: string(d.Kind),
		FromLabel: d.FromLabel,
		ToLabel:   d.ToLabel,
		Source:    d.Source,
		Metadata:  raw,
		CreatedAt: d.CreatedAt,
	}, nil
}

// ToDomainLedgerEntry converts a persisted ledger entry back to the domain type.
func ToDomainLedgerEntry(m models.LedgerEntry) (domain.LedgerEntry, error) {
	meta := map[string]string{}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &meta); err != nil {
			return domain.LedgerEntry{}, fmt.Errorf("decoding metadata for entry %s: %w", m.EntryID, err)
		}
	}
	return domain.LedgerEntry{
		EntryID:   m.EntryID,
		AccountID: m.AccountID,
		Reference: m.Reference,
		EntryDate: m.EntryDate,
		Amount:    m.Amount,
		Kind:      domain.EntryKind(m.EntryKind),
		FromLabel: m.FromLabel,
		ToLabel:   m.ToLabel,
		Source:    m.Source,
		Metadata:  meta,
		CreatedAt: m.CreatedAt,
	}, nil
}
