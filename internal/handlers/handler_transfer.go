package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/dto"
	"github.com/SscSPs/bank_webhook_ledger/internal/middleware"
	"github.com/SscSPs/bank_webhook_ledger/internal/paymentxml"
	"github.com/gin-gonic/gin"
)

// transferHandler handles internal transfers initiated by an authenticated account.
type transferHandler struct {
	transferService portssvc.TransferSvc
	recorder        Recorder
	bankCode        string
}

// newTransferHandler creates a new transferHandler.
func newTransferHandler(ts portssvc.TransferSvc, recorder Recorder, bankCode string) *transferHandler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &transferHandler{transferService: ts, recorder: recorder, bankCode: bankCode}
}

// RegisterTransferRoutes registers transfer routes on an authenticated group.
// bankCode is written as the receiver bank code of the rendered payment document.
func RegisterTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvc, recorder Recorder, bankCode string) {
	registerValidators()
	h := newTransferHandler(transferService, recorder, bankCode)
	rg.POST("/transfers", h.createTransfer)
}

// createTransfer godoc
// @Summary Transfer money to another account
// @Description Debits the caller's account and credits the receiver in one transaction,
// @Description answering with the payment request document.
// @Tags transfers
// @Accept json
// @Produce xml
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} paymentxml.PaymentRequestMessage
// @Failure 400 {object} dto.ErrorResponse "Invalid input, pending account or invalid amount"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Sender or receiver not found"
// @Failure 409 {object} dto.ErrorResponse "Reference already used"
// @Failure 422 {object} dto.ErrorResponse "Insufficient balance"
// @Failure 503 {object} dto.ErrorResponse "Accounts busy, retry"
// @Failure 500 {object} dto.ErrorResponse "Transfer failed"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	defer func() { h.recorder.TransferResult(c.Writer.Status()) }()

	sender, ok := middleware.GetAccountNameFromContext(c)
	if !ok {
		logger.Error("Account name not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	domainReq, err := req.ToDomain(sender)
	if err != nil {
		logger.Warn("Invalid transfer date", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("receiver", domainReq.ReceiverName), slog.String("reference", domainReq.Reference))
	logger.Info("Received request to transfer", slog.String("amount", domainReq.Amount.String()))

	result, err := h.transferService.Transfer(c.Request.Context(), domainReq)
	if err != nil {
		status, msg := transferErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Transfer failed", slog.String("error", err.Error()))
		} else {
			logger.Warn("Transfer rejected", slog.Int("status", status), slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	body, err := paymentxml.Render(paymentxml.FromTransfer(*result, h.bankCode))
	if err != nil {
		// the transfer is committed; only the confirmation document failed
		logger.Error("Failed to render payment XML", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render payment document"})
		return
	}

	logger.Info("Transfer completed", slog.String("debit_entry_id", result.Debit.EntryID))
	c.Data(http.StatusOK, paymentxml.ContentType, body)
}

func transferErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Account not found"
	case errors.Is(err, apperrors.ErrAccountNotActive):
		return http.StatusBadRequest, "Account is not active"
	case errors.Is(err, apperrors.ErrInvalidAmount):
		return http.StatusBadRequest, "Amount must be greater than zero"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "Transfer reference already used"
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, "Insufficient balance"
	case errors.Is(err, apperrors.ErrConcurrency):
		return http.StatusServiceUnavailable, "Accounts are busy, please retry"
	default:
		return http.StatusInternalServerError, "Transfer failed"
	}
}
