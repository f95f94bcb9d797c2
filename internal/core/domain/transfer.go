package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults applied by the payment instruction when the caller leaves them out.
const (
	DefaultPaymentType   = "99"
	DefaultChargeDetails = "SHA"
	TransferSource       = "transfer"
)

// MoneyScale is the number of decimal places money is kept to.
const MoneyScale = 2

// IsWholeCents reports whether d has no value below MoneyScale decimal places.
// Trailing zeros such as 1.500 are fine.
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// TransferRequest moves Amount from the account named SenderName to ReceiverName.
type TransferRequest struct {
	SenderName    string
	ReceiverName  string
	Amount        decimal.Decimal
	Reference     string
	Date          time.Time
	Currency      string
	PaymentType   string
	ChargeDetails string
	Notes         []string
}

// DebitReference is the reference written on the sender's entry.
func (r TransferRequest) DebitReference() string {
	return r.Reference + "-DEBIT"
}

// CreditReference is the reference written on the receiver's entry.
func (r TransferRequest) CreditReference() string {
	return r.Reference + "-CREDIT"
}

// TransferResult carries the post-transfer state needed to render the payment confirmation.
type TransferResult struct {
	Sender   Account
	Receiver Account
	Debit    LedgerEntry
	Credit   LedgerEntry
	Request  TransferRequest
}
