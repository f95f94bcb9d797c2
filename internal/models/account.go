package models

import (
	"github.com/shopspring/decimal"
)

// Account is the persisted form of an account row.
type Account struct {
	AccountID   string          `db:"account_id"`
	Name        string          `db:"name"`
	Balance     decimal.Decimal `db:"balance"`
	Status      string          `db:"status"`
	AuditFields                 // Embed common audit fields
}
