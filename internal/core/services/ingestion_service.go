package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/grammar"
	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
)

// grammarStrategy imports lines of one bank's grammar as credits to the target account.
type grammarStrategy struct {
	BaseService
	grammar grammar.Grammar
	store   portsrepo.LedgerStore
}

// NewGrammarStrategy creates an IngestionStrategy for g's bank.
func NewGrammarStrategy(g grammar.Grammar, store portsrepo.LedgerStore) portssvc.IngestionStrategy {
	return &grammarStrategy{grammar: g, store: store}
}

func (s *grammarStrategy) Bank() domain.BankID {
	return s.grammar.Bank()
}

func (s *grammarStrategy) Describe() string {
	return fmt.Sprintf("%s webhook ingestion", s.grammar.Bank())
}

// Import applies line as a credit to ic.AccountID at most once per (reference, account).
// The unlocked existence check only short-circuits re-deliveries; the check that
// counts is repeated under the account lock inside the write transaction.
func (s *grammarStrategy) Import(ctx context.Context, line string, ic portssvc.ImportContext) (result portssvc.ImportResult) {
	logger := s.GetLogger(ctx).With(slog.String("bank", s.Bank().String()), slog.String("account_id", ic.AccountID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while importing line", slog.Any("panic", r))
			result = portssvc.ImportResult{Outcome: portssvc.OutcomeFailed, Err: fmt.Errorf("import panicked: %v", r)}
		}
	}()

	candidate, err := s.grammar.Parse(line)
	if err != nil {
		if !grammar.IsParseError(err) {
			return s.failed(logger, err)
		}
		logger.Warn("Malformed webhook line", slog.String("error", err.Error()))
		return portssvc.ImportResult{Outcome: portssvc.OutcomeMalformed, Err: err}
	}
	logger = logger.With(slog.String("reference", candidate.Reference))

	exists, err := s.store.EntryExists(ctx, candidate.Reference, ic.AccountID)
	if err != nil {
		return s.failed(logger, err)
	}
	if exists {
		logger.Info("Duplicate webhook line skipped")
		return duplicate(candidate.Reference)
	}

	var entry domain.LedgerEntry
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := tx.LockAccounts(ctx, []string{ic.AccountID})
		if err != nil {
			return err
		}
		account := accounts[ic.AccountID]

		exists, err := tx.EntryExists(ctx, candidate.Reference, ic.AccountID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: reference %s already applied", apperrors.ErrDuplicate, candidate.Reference)
		}

		now := s.now()
		entry = domain.LedgerEntry{
			EntryID:   uuid.NewString(),
			AccountID: account.AccountID,
			Reference: candidate.Reference,
			EntryDate: candidate.Date,
			Amount:    candidate.Amount,
			Kind:      domain.Credit,
			FromLabel: s.Bank().String(),
			ToLabel:   account.Name,
			Source:    domain.WebhookSource(s.Bank()),
			Metadata:  candidate.Metadata,
			CreatedAt: now,
		}
		if err := tx.InsertEntries(ctx, entry); err != nil {
			return err
		}
		return tx.AdjustBalances(ctx, map[string]decimal.Decimal{account.AccountID: candidate.Amount}, now)
	})

	switch {
	case err == nil:
		logger.Info("Webhook line imported", slog.String("amount", entry.Amount.String()))
		return portssvc.ImportResult{Outcome: portssvc.OutcomeImported, Entry: &entry}
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Info("Duplicate webhook line rejected inside transaction")
		return duplicate(candidate.Reference)
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Webhook line targets unknown account")
		return portssvc.ImportResult{Outcome: portssvc.OutcomeAccountNotFound, Err: err}
	default:
		return s.failed(logger, err)
	}
}

func (s *grammarStrategy) failed(logger *slog.Logger, err error) portssvc.ImportResult {
	retryable := apperrors.IsRetryable(err)
	logger.Error("Failed to import webhook line", slog.String("error", err.Error()), slog.Bool("retryable", retryable))
	return portssvc.ImportResult{Outcome: portssvc.OutcomeFailed, Err: err, Retryable: retryable}
}

func duplicate(reference string) portssvc.ImportResult {
	return portssvc.ImportResult{
		Outcome: portssvc.OutcomeDuplicate,
		Err:     fmt.Errorf("%w: reference %s already applied", apperrors.ErrDuplicate, reference),
	}
}
