package services

import (
	"context"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
)

// Outcome is the classified result of importing one webhook line.
type Outcome string

const (
	OutcomeImported        Outcome = "imported"
	OutcomeMalformed       Outcome = "malformed"
	OutcomeDuplicate       Outcome = "duplicate"
	OutcomeAccountNotFound Outcome = "account_not_found"
	OutcomeFailed          Outcome = "failed"
)

// ImportContext carries what a line needs besides its own text.
type ImportContext struct {
	AccountID string
}

// ImportResult is returned by every Import call; Import never panics or returns a bare error.
// Entry is set only for OutcomeImported. Retryable is only ever true for OutcomeFailed.
type ImportResult struct {
	Outcome   Outcome
	Entry     *domain.LedgerEntry
	Err       error
	Retryable bool
}

// IngestionStrategy turns one raw bank line into at most one ledger credit, idempotently.
type IngestionStrategy interface {
	Bank() domain.BankID
	Describe() string
	Import(ctx context.Context, line string, ic ImportContext) ImportResult
}

// StrategyResolver looks up the strategy registered for a bank.
type StrategyResolver interface {
	Resolve(bank domain.BankID) (IngestionStrategy, error)
	Banks() []domain.BankID
}
