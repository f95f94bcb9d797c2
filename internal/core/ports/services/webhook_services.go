package services

import (
	"context"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/SscSPs/bank_webhook_ledger/internal/envelope"
)

// WebhookReceipt is what the gateway answers after accepting a delivery.
type WebhookReceipt struct {
	Ack        envelope.Envelope
	Dispatched int
}

// WebhookSvc authenticates, opens and dispatches one webhook delivery.
type WebhookSvc interface {
	Receive(ctx context.Context, bank domain.BankID, cipherText, signature string) (*WebhookReceipt, error)
}
