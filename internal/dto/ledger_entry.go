package dto

import (
	"time"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
)

// ListEntriesParams holds the query parameters of the entry listing.
type ListEntriesParams struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// LedgerEntryResponse mirrors domain.LedgerEntry.
type LedgerEntryResponse struct {
	EntryID   string            `json:"entryID"`
	AccountID string            `json:"accountID"`
	Reference string            `json:"reference"`
	EntryDate string            `json:"entryDate"`
	Amount    string            `json:"amount"`
	Kind      domain.EntryKind  `json:"kind"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Source    string            `json:"source"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ListEntriesResponse is one page of entries, newest first.
// NextToken is nil on the last page.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:   e.EntryID,
		AccountID: e.AccountID,
		Reference: e.Reference,
		EntryDate: e.EntryDate.Format(domain.DateLayout),
		Amount:    e.Amount.StringFixed(2),
		Kind:      e.Kind,
		From:      e.FromLabel,
		To:        e.ToLabel,
		Source:    e.Source,
		Metadata:  e.Metadata,
		CreatedAt: e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToLedgerEntryResponse(e)
	}
	return out
}
