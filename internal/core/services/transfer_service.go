package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
)

// transferService moves money between two internally held accounts.
type transferService struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewTransferService creates a new TransferSvc.
func NewTransferService(store portsrepo.LedgerStore) portssvc.TransferSvc {
	return &transferService{store: store}
}

var _ portssvc.TransferSvc = (*transferService)(nil)

// Transfer debits the sender and credits the receiver. Both balance updates and
// both ledger entries commit together or not at all.
func (s *transferService) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("sender", req.SenderName),
		slog.String("receiver", req.ReceiverName),
		slog.String("reference", req.Reference),
	)

	sender, err := s.store.FindAccountByName(ctx, req.SenderName)
	if err != nil {
		logger.Warn("Transfer sender lookup failed", slog.String("error", err.Error()))
		return nil, err
	}
	receiver, err := s.store.FindAccountByName(ctx, req.ReceiverName)
	if err != nil {
		logger.Warn("Transfer receiver lookup failed", slog.String("error", err.Error()))
		return nil, err
	}

	if sender.IsPending() || receiver.IsPending() {
		return nil, fmt.Errorf("%w: sender %s is %s, receiver %s is %s",
			apperrors.ErrAccountNotActive, sender.Name, sender.Status, receiver.Name, receiver.Status)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, req.Amount)
	}
	if !domain.IsWholeCents(req.Amount) {
		return nil, fmt.Errorf("%w: %s has more than %d decimal places", apperrors.ErrInvalidAmount, req.Amount, domain.MoneyScale)
	}
	if sender.AccountID == receiver.AccountID {
		return nil, fmt.Errorf("%w: sender and receiver are the same account", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Reference) == "" {
		return nil, fmt.Errorf("%w: reference is required", apperrors.ErrValidation)
	}

	var result domain.TransferResult
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := tx.LockAccounts(ctx, []string{sender.AccountID, receiver.AccountID})
		if err != nil {
			return err
		}
		from, to := accounts[sender.AccountID], accounts[receiver.AccountID]

		// status may have changed since the unlocked read
		if from.IsPending() || to.IsPending() {
			return fmt.Errorf("%w: account became pending", apperrors.ErrAccountNotActive)
		}
		if !from.CanCover(req.Amount) {
			return fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientBalance, from.Balance, req.Amount)
		}

		now := s.now()
		metadata := transferMetadata(req)
		debit := domain.LedgerEntry{
			EntryID:   uuid.NewString(),
			AccountID: from.AccountID,
			Reference: req.DebitReference(),
			EntryDate: req.Date,
			Amount:    req.Amount.Neg(),
			Kind:      domain.Debit,
			FromLabel: from.Name,
			ToLabel:   to.Name,
			Source:    domain.TransferSource,
			Metadata:  withCounterparty(metadata, to.Name),
			CreatedAt: now,
		}
		credit := domain.LedgerEntry{
			EntryID:   uuid.NewString(),
			AccountID: to.AccountID,
			Reference: req.CreditReference(),
			EntryDate: req.Date,
			Amount:    req.Amount,
			Kind:      domain.Credit,
			FromLabel: from.Name,
			ToLabel:   to.Name,
			Source:    domain.TransferSource,
			Metadata:  withCounterparty(metadata, from.Name),
			CreatedAt: now,
		}

		if err := tx.AdjustBalances(ctx, map[string]decimal.Decimal{
			from.AccountID: req.Amount.Neg(),
			to.AccountID:   req.Amount,
		}, now); err != nil {
			return err
		}
		if err := tx.InsertEntries(ctx, debit, credit); err != nil {
			return err
		}

		from.Balance = from.Balance.Sub(req.Amount)
		to.Balance = to.Balance.Add(req.Amount)
		from.LastUpdatedAt, to.LastUpdatedAt = now, now
		result = domain.TransferResult{Sender: from, Receiver: to, Debit: debit, Credit: credit, Request: req}
		return nil
	})
	if err != nil {
		logger.Warn("Transfer rolled back", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Transfer completed", slog.String("amount", req.Amount.String()))
	return &result, nil
}

func transferMetadata(req domain.TransferRequest) map[string]string {
	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = domain.DefaultPaymentType
	}
	chargeDetails := req.ChargeDetails
	if chargeDetails == "" {
		chargeDetails = domain.DefaultChargeDetails
	}
	meta := map[string]string{
		domain.MetaCurrency:      req.Currency,
		domain.MetaPaymentType:   paymentType,
		domain.MetaChargeDetails: chargeDetails,
	}
	if len(req.Notes) > 0 {
		meta[domain.MetaNote] = strings.Join(req.Notes, "\n")
	}
	return meta
}

func withCounterparty(meta map[string]string, counterparty string) map[string]string {
	out := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out[domain.MetaCounterparty] = counterparty
	return out
}
