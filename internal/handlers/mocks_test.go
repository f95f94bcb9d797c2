package handlers_test

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/dto"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListEntries(ctx context.Context, accountName string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, accountName, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockAccountService) GetEntry(ctx context.Context, accountName string, entryID string) (*domain.LedgerEntry, *domain.Account, error) {
	args := m.Called(ctx, accountName, entryID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Get(1).(*domain.Account), args.Error(2)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}

var _ portssvc.TransferSvc = (*MockTransferService)(nil)

// --- Mock WebhookService ---
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) Receive(ctx context.Context, bank domain.BankID, cipherText, signature string) (*portssvc.WebhookReceipt, error) {
	args := m.Called(ctx, bank, cipherText, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.WebhookReceipt), args.Error(1)
}

var _ portssvc.WebhookSvc = (*MockWebhookService)(nil)

// recordingRecorder captures metric calls.
type recordingRecorder struct {
	mu        sync.Mutex
	webhooks  []string
	statuses  []int
	transfers []int
}

func (r *recordingRecorder) WebhookRequest(bank string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.webhooks = append(r.webhooks, bank)
	r.statuses = append(r.statuses, status)
}

func (r *recordingRecorder) TransferResult(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = append(r.transfers, status)
}

// generateTestToken creates a signed token whose subject is accountName.
func generateTestToken(accountName, secret string) string {
	claims := jwt.RegisteredClaims{
		Subject:   accountName,
		Issuer:    "handler-tests",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return signed
}
