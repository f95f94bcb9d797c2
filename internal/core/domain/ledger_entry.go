package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind indicates whether a ledger entry debits or credits its account.
type EntryKind string

const (
	Debit  EntryKind = "debit"
	Credit EntryKind = "credit"
)

// Metadata keys shared by ingestion and transfers.
const (
	MetaBank          = "bank"
	MetaNote          = "note"
	MetaType          = "type"
	MetaCurrency      = "currency"
	MetaPaymentType   = "payment_type"
	MetaChargeDetails = "charge_details"
	MetaCounterparty  = "counterparty"
)

// LedgerEntry is an immutable record of one balance-affecting event.
// (Reference, AccountID) is unique and is the idempotency key for bank re-deliveries.
type LedgerEntry struct {
	EntryID   string            `json:"entryID"`
	AccountID string            `json:"accountID"`
	Reference string            `json:"reference"`
	EntryDate time.Time         `json:"entryDate"`
	Amount    decimal.Decimal   `json:"amount"` // negative = debit, positive = credit
	Kind      EntryKind         `json:"kind"`
	FromLabel string            `json:"from"`
	ToLabel   string            `json:"to"`
	Source    string            `json:"source"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"createdAt"`
}

// IsDebit reports whether the entry reduces the owning account's balance.
func (e LedgerEntry) IsDebit() bool {
	return e.Kind == Debit
}

// AbsAmount returns the unsigned amount.
func (e LedgerEntry) AbsAmount() decimal.Decimal {
	return e.Amount.Abs()
}
