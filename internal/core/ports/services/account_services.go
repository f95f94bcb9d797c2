package services

import (
	"context"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/SscSPs/bank_webhook_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data.
// Accounts are addressed by their unique name, which is the authenticated caller identity.
type AccountReaderSvc interface {
	// GetAccountByName retrieves the account with the given name.
	GetAccountByName(ctx context.Context, name string) (*domain.Account, error)

	// ListEntries returns one page of the account's ledger entries, newest first.
	ListEntries(ctx context.Context, accountName string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// GetEntry returns one of the account's entries together with the owning account.
	// Entries of other accounts are reported as not found.
	GetEntry(ctx context.Context, accountName string, entryID string) (*domain.LedgerEntry, *domain.Account, error)
}

// AccountWriterSvc defines write operations for account data.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
