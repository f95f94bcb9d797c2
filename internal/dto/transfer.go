package dto

import (
	"strings"
	"time"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest is the body of POST /api/v1/transfers. The sender is the caller.
type TransferRequest struct {
	ReceiverName  string          `json:"receiver_name" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,positive_decimal"`
	Reference     string          `json:"reference" binding:"required,max=64"`
	Date          string          `json:"date" binding:"required,datetime=2006-01-02"`
	Currency      string          `json:"currency" binding:"required,len=3,alpha"`
	PaymentType   string          `json:"payment_type" binding:"omitempty,max=8"`
	ChargeDetails string          `json:"charge_details" binding:"omitempty,max=8"`
	Notes         []string        `json:"notes" binding:"omitempty,max=10,dive,max=140"`
}

// ToDomain builds the domain request for sender. Date must already be validated.
func (r TransferRequest) ToDomain(sender string) (domain.TransferRequest, error) {
	date, err := time.Parse(domain.DateLayout, r.Date)
	if err != nil {
		return domain.TransferRequest{}, err
	}
	return domain.TransferRequest{
		SenderName:    sender,
		ReceiverName:  strings.TrimSpace(r.ReceiverName),
		Amount:        r.Amount,
		Reference:     strings.TrimSpace(r.Reference),
		Date:          date,
		Currency:      strings.ToUpper(r.Currency),
		PaymentType:   r.PaymentType,
		ChargeDetails: r.ChargeDetails,
		Notes:         r.Notes,
	}, nil
}
