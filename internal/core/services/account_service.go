package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/dto"
	"github.com/SscSPs/bank_webhook_ledger/internal/utils/pagination"
)

const (
	defaultEntriesLimit = 20
	maxEntriesLimit     = 100
)

// AccountService serves account creation and the caller's own ledger view.
type AccountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	entryReader portsrepo.LedgerEntryReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, entryReader portsrepo.LedgerEntryReader) *AccountService {
	return &AccountService{accountRepo: accountRepo, entryReader: entryReader}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// CreateAccount persists a new account. Status defaults to active.
func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if req.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", apperrors.ErrValidation)
	}
	status := req.Status
	if status == "" {
		status = domain.AccountActive
	}

	now := s.now()
	account := domain.Account{
		AccountID: uuid.NewString(),
		Name:      name,
		Balance:   req.Balance,
		Status:    status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("name", name))
		return nil, fmt.Errorf("failed to create account %s: %w", name, err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("name", name))
	return &account, nil
}

// GetAccountByName retrieves the account with the given name.
func (s *AccountService) GetAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByName(ctx, name)
}

// ListEntries pages through the account's entries newest first.
func (s *AccountService) ListEntries(ctx context.Context, accountName string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	account, err := s.accountRepo.FindAccountByName(ctx, accountName)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntriesLimit
	}
	if limit > maxEntriesLimit {
		limit = maxEntriesLimit
	}

	listParams := portsrepo.ListEntriesParams{Limit: limit + 1}
	if params.NextToken != "" {
		cursor, err := pagination.Decode(params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		listParams.After = &portsrepo.EntryCursor{EntryDate: cursor.EntryDate, CreatedAt: cursor.CreatedAt, EntryID: cursor.EntryID}
	}

	entries, err := s.entryReader.ListEntriesByAccount(ctx, account.AccountID, listParams)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	resp := &dto.ListEntriesResponse{}
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.Encode(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
		resp.NextToken = &token
	}
	resp.Entries = dto.ToLedgerEntryResponses(entries)
	s.LogDebug(ctx, "Entries page listed", slog.String("account_id", account.AccountID), slog.Int("count", len(entries)), slog.Bool("has_more", resp.NextToken != nil))
	return resp, nil
}

// GetEntry returns the entry only when it belongs to accountName.
func (s *AccountService) GetEntry(ctx context.Context, accountName string, entryID string) (*domain.LedgerEntry, *domain.Account, error) {
	account, err := s.accountRepo.FindAccountByName(ctx, accountName)
	if err != nil {
		return nil, nil, err
	}
	entry, err := s.entryReader.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}
	if entry.AccountID != account.AccountID {
		s.LogInfo(ctx, "Entry requested by non-owner", slog.String("entry_id", entryID))
		return nil, nil, apperrors.NewNotFoundError("ledger entry " + entryID)
	}
	return entry, account, nil
}
