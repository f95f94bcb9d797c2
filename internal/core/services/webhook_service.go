package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/dispatch"
	"github.com/SscSPs/bank_webhook_ledger/internal/dto"
	"github.com/SscSPs/bank_webhook_ledger/internal/envelope"
)

// ErrMissingAccountID is returned when an opened payload carries lines but no account_id.
var ErrMissingAccountID = fmt.Errorf("%w: missing account identifier", apperrors.ErrValidation)

// ErrMissingEnvelope is returned when the cipher text or signature is absent.
var ErrMissingEnvelope = fmt.Errorf("%w: missing encryption data", apperrors.ErrValidation)

// AckStatus is the status sealed into every successful webhook response.
const AckStatus = "ok"

// EnvelopeSealer opens inbound envelopes and seals the acknowledgement.
type EnvelopeSealer interface {
	Seal(bank domain.BankID, v any) (envelope.Envelope, error)
	Open(bank domain.BankID, cipherText, signature string) (json.RawMessage, error)
}

// JobDispatcher accepts lines for asynchronous import.
type JobDispatcher interface {
	Submit(ctx context.Context, job dispatch.Job) error
}

type webhookService struct {
	BaseService
	sealer     EnvelopeSealer
	resolver   portssvc.StrategyResolver
	dispatcher JobDispatcher
}

// NewWebhookService creates a new WebhookSvc.
func NewWebhookService(sealer EnvelopeSealer, resolver portssvc.StrategyResolver, dispatcher JobDispatcher) portssvc.WebhookSvc {
	return &webhookService{sealer: sealer, resolver: resolver, dispatcher: dispatcher}
}

var _ portssvc.WebhookSvc = (*webhookService)(nil)

// Receive authenticates and opens one delivery, queues each non-blank line and
// seals an acknowledgement for the bank. It does not wait for the lines to be imported.
//
// Errors: apperrors.ErrUnsupportedBank for unknown banks, ErrMissingEnvelope when
// either header value is empty, envelope.ErrCrypto family
// for untrusted or unreadable envelopes, ErrMissingAccountID, anything else is internal.
func (s *webhookService) Receive(ctx context.Context, bank domain.BankID, cipherText, signature string) (*portssvc.WebhookReceipt, error) {
	logger := s.GetLogger(ctx).With(slog.String("bank", bank.String()))

	if _, err := s.resolver.Resolve(bank); err != nil {
		logger.Warn("Webhook from unsupported bank")
		return nil, err
	}

	if strings.TrimSpace(cipherText) == "" || strings.TrimSpace(signature) == "" {
		logger.Warn("Webhook without encryption data")
		return nil, ErrMissingEnvelope
	}

	raw, err := s.sealer.Open(bank, cipherText, signature)
	if err != nil {
		logger.Warn("Webhook envelope rejected", slog.String("error", err.Error()))
		return nil, err
	}

	var payload dto.WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		logger.Warn("Webhook payload has unexpected shape", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", envelope.ErrMalformedPayload, err)
	}

	lines := SplitLines(payload.Payload)
	accountID := strings.TrimSpace(payload.AccountID)
	if len(lines) > 0 && accountID == "" {
		logger.Warn("Webhook payload without account_id", slog.Int("lines", len(lines)))
		return nil, ErrMissingAccountID
	}

	for i, line := range lines {
		job := dispatch.Job{Line: line, BankID: bank, AccountID: accountID}
		if err := s.dispatcher.Submit(ctx, job); err != nil {
			logger.Error("Failed to dispatch webhook line", slog.Int("line", i), slog.String("error", err.Error()))
			return nil, fmt.Errorf("dispatching line %d of %d: %v", i+1, len(lines), err)
		}
	}

	ack, err := s.sealer.Seal(bank, dto.WebhookAck{Status: AckStatus})
	if err != nil {
		logger.Error("Failed to seal webhook acknowledgement", slog.String("error", err.Error()))
		// not an envelope rejection from the caller's point of view
		return nil, errors.New("sealing acknowledgement: " + err.Error())
	}

	logger.Info("Webhook accepted", slog.String("account_id", accountID), slog.Int("lines", len(lines)))
	return &portssvc.WebhookReceipt{Ack: ack, Dispatched: len(lines)}, nil
}

// SplitLines splits a webhook payload on newlines, trimming each line and dropping blanks.
func SplitLines(payload string) []string {
	var lines []string
	for _, line := range strings.Split(payload, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
