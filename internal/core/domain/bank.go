package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankID identifies a counterparty bank. It is the value of the X-Bank-Identifier header.
type BankID string

const (
	BankAcme    BankID = "acme"
	BankFoodics BankID = "foodics"
)

func (b BankID) String() string {
	return string(b)
}

// TransactionCandidate is the parsed form of one raw webhook line. It is never persisted as is.
type TransactionCandidate struct {
	Amount    decimal.Decimal
	Reference string
	Date      time.Time
	Metadata  map[string]string
}

// WebhookSource is the ledger entry source label for lines ingested from bank.
func WebhookSource(bank BankID) string {
	return "webhook:" + string(bank)
}
