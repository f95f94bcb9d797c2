package services

import (
	"context"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
)

// TransferSvc moves money between two internally held accounts.
type TransferSvc interface {
	// Transfer debits the sender and credits the receiver in one transaction.
	Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
}
