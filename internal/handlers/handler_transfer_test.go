package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/SscSPs/bank_webhook_ledger/internal/handlers"
	"github.com/SscSPs/bank_webhook_ledger/internal/middleware"
	"github.com/SscSPs/bank_webhook_ledger/internal/paymentxml"
)

type TransferHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	transferService *MockTransferService
	recorder        *recordingRecorder
	jwtSecret       string
}

func (suite *TransferHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "transfer-handler-secret"
	suite.transferService = new(MockTransferService)
	suite.recorder = &recordingRecorder{}

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterTransferRoutes(v1, suite.transferService, suite.recorder, "LEDGER")
}

func (suite *TransferHandlerTestSuite) post(body any, token string) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	suite.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func validTransferBody() map[string]any {
	return map[string]any{
		"receiver_name":  "bob",
		"amount":         "150.00",
		"reference":      "INV-1001",
		"date":           "2025-06-15",
		"currency":       "sar",
		"payment_type":   "421",
		"charge_details": "RB",
		"notes":          []string{"Lorem Epsum", "Dolor Sit Amet"},
	}
}

func (suite *TransferHandlerTestSuite) TestTransfer_Success() {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	expectedReq := domain.TransferRequest{
		SenderName:    "alice",
		ReceiverName:  "bob",
		Amount:        decimal.RequireFromString("150.00"),
		Reference:     "INV-1001",
		Date:          date,
		Currency:      "SAR",
		PaymentType:   "421",
		ChargeDetails: "RB",
		Notes:         []string{"Lorem Epsum", "Dolor Sit Amet"},
	}
	result := &domain.TransferResult{
		Sender:   domain.Account{AccountID: "acc-alice", Name: "alice"},
		Receiver: domain.Account{AccountID: "acc-bob", Name: "bob"},
		Debit:    domain.LedgerEntry{EntryID: "e-1"},
		Credit:   domain.LedgerEntry{EntryID: "e-2"},
		Request:  expectedReq,
	}
	suite.transferService.On("Transfer", mock.Anything, mock.MatchedBy(func(req domain.TransferRequest) bool {
		return req.SenderName == "alice" && req.ReceiverName == "bob" && req.Currency == "SAR" &&
			req.Amount.Equal(expectedReq.Amount) && req.Date.Equal(date) && len(req.Notes) == 2
	})).Return(result, nil).Once()

	w := suite.post(validTransferBody(), generateTestToken("alice", suite.jwtSecret))

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(paymentxml.ContentType, w.Header().Get("Content-Type"))
	body := w.Body.String()
	suite.Contains(body, "<Reference>INV-1001</Reference>")
	suite.Contains(body, "<Amount>150.00</Amount>")
	suite.Contains(body, "<BankCode>LEDGER</BankCode>")
	suite.Contains(body, "<BeneficiaryName>bob</BeneficiaryName>")
	suite.Contains(body, "<PaymentType>421</PaymentType>")
	suite.Equal([]int{http.StatusOK}, suite.recorder.transfers)
	suite.transferService.AssertExpectations(suite.T())
}

func (suite *TransferHandlerTestSuite) TestTransfer_Unauthenticated() {
	w := suite.post(validTransferBody(), "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.transferService.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything)
}

func (suite *TransferHandlerTestSuite) TestTransfer_InvalidBodies() {
	token := generateTestToken("alice", suite.jwtSecret)
	mutate := func(key string, value any) map[string]any {
		body := validTransferBody()
		if value == nil {
			delete(body, key)
		} else {
			body[key] = value
		}
		return body
	}

	cases := map[string]map[string]any{
		"zero amount":       mutate("amount", "0"),
		"negative amount":   mutate("amount", "-5"),
		"sub-cent amount":   mutate("amount", "0.004"),
		"fraction of cent":  mutate("amount", "10.005"),
		"missing amount":    mutate("amount", nil),
		"missing receiver":  mutate("receiver_name", nil),
		"missing reference": mutate("reference", nil),
		"bad date":          mutate("date", "15/06/2025"),
		"bad currency":      mutate("currency", "RIYAL"),
		"too many notes":    mutate("notes", make([]string, 11)),
	}
	for name, body := range cases {
		suite.Run(name, func() {
			w := suite.post(body, token)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	suite.transferService.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything)
}

func (suite *TransferHandlerTestSuite) TestTransfer_ServiceErrors() {
	token := generateTestToken("alice", suite.jwtSecret)
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.NewNotFoundError("account bob"), http.StatusNotFound},
		{apperrors.ErrAccountNotActive, http.StatusBadRequest},
		{apperrors.ErrInvalidAmount, http.StatusBadRequest},
		{fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("insert: %w", apperrors.ErrDuplicate), http.StatusConflict},
		{apperrors.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{fmt.Errorf("lock: %w", apperrors.ErrConcurrency), http.StatusServiceUnavailable},
		{fmt.Errorf("commit: %w", apperrors.ErrPersistence), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		suite.Run(tc.err.Error(), func() {
			suite.transferService.On("Transfer", mock.Anything, mock.Anything).Return(nil, tc.err).Once()
			w := suite.post(validTransferBody(), token)
			suite.Equal(tc.status, w.Code)

			var body map[string]string
			suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
			suite.NotEmpty(body["error"])
		})
	}
	suite.Len(suite.recorder.transfers, len(cases))
}

func TestTransferHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransferHandlerTestSuite))
}
