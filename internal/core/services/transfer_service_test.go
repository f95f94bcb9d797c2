package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/repositories/database/sqlite"
)

type TransferServiceTestSuite struct {
	suite.Suite
	store    *sqlite.Store
	service  portssvc.TransferSvc
	sender   domain.Account
	receiver domain.Account
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.store = newSQLiteStore(suite.T())
	suite.service = services.NewTransferService(suite.store)
	suite.sender = seedAccount(suite.T(), suite.store, "SenderUser", "200.00", domain.AccountActive)
	suite.receiver = seedAccount(suite.T(), suite.store, "ReceiverUser", "50.00", domain.AccountActive)
}

func (suite *TransferServiceTestSuite) request(amount, reference string) domain.TransferRequest {
	return domain.TransferRequest{
		SenderName:   suite.sender.Name,
		ReceiverName: suite.receiver.Name,
		Amount:       decimal.RequireFromString(amount),
		Reference:    reference,
		Date:         time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Currency:     "SAR",
	}
}

func (suite *TransferServiceTestSuite) entries(accountID string) []domain.LedgerEntry {
	entries, err := suite.store.ListEntriesByAccount(context.Background(), accountID, portsrepo.ListEntriesParams{Limit: 50})
	suite.Require().NoError(err)
	return entries
}

func (suite *TransferServiceTestSuite) TestTransfer_Success() {
	result, err := suite.service.Transfer(context.Background(), suite.request("100.00", "TXN-1"))
	suite.Require().NoError(err)

	suite.Equal("100.00", balanceOf(suite.T(), suite.store, suite.sender.AccountID))
	suite.Equal("150.00", balanceOf(suite.T(), suite.store, suite.receiver.AccountID))
	suite.Equal("100.00", result.Sender.Balance.StringFixed(2))
	suite.Equal("150.00", result.Receiver.Balance.StringFixed(2))

	suite.Equal("TXN-1-DEBIT", result.Debit.Reference)
	suite.Equal("-100.00", result.Debit.Amount.StringFixed(2))
	suite.Equal(domain.Debit, result.Debit.Kind)
	suite.Equal("TXN-1-CREDIT", result.Credit.Reference)
	suite.Equal("100.00", result.Credit.Amount.StringFixed(2))
	suite.Equal("SenderUser", result.Credit.FromLabel)
	suite.Equal("ReceiverUser", result.Credit.ToLabel)

	debits := suite.entries(suite.sender.AccountID)
	suite.Require().Len(debits, 1)
	suite.Equal("TXN-1-DEBIT", debits[0].Reference)
	suite.Equal(domain.TransferSource, debits[0].Source)
	suite.Equal("ReceiverUser", debits[0].Metadata[domain.MetaCounterparty])
	suite.Equal(domain.DefaultPaymentType, debits[0].Metadata[domain.MetaPaymentType])
	suite.Equal(domain.DefaultChargeDetails, debits[0].Metadata[domain.MetaChargeDetails])
	suite.Equal("SAR", debits[0].Metadata[domain.MetaCurrency])

	credits := suite.entries(suite.receiver.AccountID)
	suite.Require().Len(credits, 1)
	suite.Equal("SenderUser", credits[0].Metadata[domain.MetaCounterparty])
}

func (suite *TransferServiceTestSuite) TestTransfer_ExactBalance() {
	_, err := suite.service.Transfer(context.Background(), suite.request("200", "ALL-IN"))
	suite.Require().NoError(err)
	suite.Equal("0.00", balanceOf(suite.T(), suite.store, suite.sender.AccountID))
}

func (suite *TransferServiceTestSuite) TestTransfer_InsufficientBalanceChangesNothing() {
	_, err := suite.service.Transfer(context.Background(), suite.request("200.01", "TOO-MUCH"))
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)

	suite.Equal("200.00", balanceOf(suite.T(), suite.store, suite.sender.AccountID))
	suite.Equal("50.00", balanceOf(suite.T(), suite.store, suite.receiver.AccountID))
	suite.Empty(suite.entries(suite.sender.AccountID))
	suite.Empty(suite.entries(suite.receiver.AccountID))
}

func (suite *TransferServiceTestSuite) TestTransfer_DuplicateReferenceRollsBack() {
	_, err := suite.service.Transfer(context.Background(), suite.request("10", "REPEAT"))
	suite.Require().NoError(err)

	_, err = suite.service.Transfer(context.Background(), suite.request("10", "REPEAT"))
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	suite.Equal("190.00", balanceOf(suite.T(), suite.store, suite.sender.AccountID))
	suite.Equal("60.00", balanceOf(suite.T(), suite.store, suite.receiver.AccountID))
	suite.Len(suite.entries(suite.sender.AccountID), 1)
}

func (suite *TransferServiceTestSuite) TestTransfer_PendingAccount() {
	pending := seedAccount(suite.T(), suite.store, "PendingUser", "500", domain.AccountPending)

	req := suite.request("10", "P-1")
	req.ReceiverName = pending.Name
	_, err := suite.service.Transfer(context.Background(), req)
	suite.ErrorIs(err, apperrors.ErrAccountNotActive)

	req = suite.request("10", "P-2")
	req.SenderName = pending.Name
	_, err = suite.service.Transfer(context.Background(), req)
	suite.ErrorIs(err, apperrors.ErrAccountNotActive)

	suite.Equal("500.00", balanceOf(suite.T(), suite.store, pending.AccountID))
}

func (suite *TransferServiceTestSuite) TestTransfer_UnknownParties() {
	req := suite.request("10", "U-1")
	req.ReceiverName = "Nobody"
	_, err := suite.service.Transfer(context.Background(), req)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	req = suite.request("10", "U-2")
	req.SenderName = "Nobody"
	_, err = suite.service.Transfer(context.Background(), req)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransferServiceTestSuite) TestTransfer_InvalidRequests() {
	_, err := suite.service.Transfer(context.Background(), suite.request("0", "Z"))
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = suite.service.Transfer(context.Background(), suite.request("-5", "N"))
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = suite.service.Transfer(context.Background(), suite.request("0.004", "SUBCENT"))
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)

	req := suite.request("5", "SELF")
	req.ReceiverName = req.SenderName
	_, err = suite.service.Transfer(context.Background(), req)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.Equal("200.00", balanceOf(suite.T(), suite.store, suite.sender.AccountID))
}

func (suite *TransferServiceTestSuite) TestTransfer_TrailingZerosAreWholeCents() {
	result, err := suite.service.Transfer(context.Background(), suite.request("10.500", "TRAIL"))
	suite.Require().NoError(err)
	suite.Equal("10.50", result.Debit.AbsAmount().StringFixed(2))
	suite.Equal("189.50", balanceOf(suite.T(), suite.store, suite.sender.AccountID))
}

func (suite *TransferServiceTestSuite) TestTransfer_ConcurrentOpposingTransfersConserveTotal() {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			req := suite.request("5", "AB-"+string(rune('a'+i)))
			_, _ = suite.service.Transfer(context.Background(), req)
		}(i)
		go func(i int) {
			defer wg.Done()
			req := suite.request("3", "BA-"+string(rune('a'+i)))
			req.SenderName, req.ReceiverName = req.ReceiverName, req.SenderName
			_, _ = suite.service.Transfer(context.Background(), req)
		}(i)
	}
	wg.Wait()

	total := decimal.RequireFromString(balanceOf(suite.T(), suite.store, suite.sender.AccountID)).
		Add(decimal.RequireFromString(balanceOf(suite.T(), suite.store, suite.receiver.AccountID)))
	suite.Equal("250.00", total.StringFixed(2))
	suite.Equal("180.00", balanceOf(suite.T(), suite.store, suite.sender.AccountID))
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
