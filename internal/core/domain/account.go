package domain

import (
	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of an internally held account.
type AccountStatus string

const (
	AccountActive  AccountStatus = "active"
	AccountPending AccountStatus = "pending"
)

// Account represents an internally held balance holder.
// Balances are only mutated by webhook ingestion (credit) and transfers (debit/credit).
type Account struct {
	AccountID   string          `json:"accountID"` // Primary Key (UUID)
	Name        string          `json:"name"`      // Unique display name, used to address transfers
	Balance     decimal.Decimal `json:"balance"`
	Status      AccountStatus   `json:"status"`
	AuditFields                 // Embed CreatedAt, LastUpdatedAt
}

// IsPending reports whether the account has not been activated yet.
func (a Account) IsPending() bool {
	return a.Status == AccountPending
}

// CanCover reports whether the balance is enough to send amount.
func (a Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
