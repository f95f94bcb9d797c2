package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/envelope"
	"github.com/SscSPs/bank_webhook_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Headers carrying a webhook delivery.
const (
	HeaderBankIdentifier = "X-Bank-Identifier"
	HeaderEncryptedData  = "X-Encrypted-Data"
	HeaderSignature      = "X-Signature"
)

// webhookHandler handles inbound bank webhooks.
type webhookHandler struct {
	webhookService portssvc.WebhookSvc
	recorder       Recorder
}

func newWebhookHandler(ws portssvc.WebhookSvc, recorder Recorder) *webhookHandler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &webhookHandler{webhookService: ws, recorder: recorder}
}

// RegisterWebhookRoutes registers POST /webhooks on rg. Extra middleware (rate limiting)
// runs before the handler.
func RegisterWebhookRoutes(rg *gin.RouterGroup, webhookService portssvc.WebhookSvc, recorder Recorder, mw ...gin.HandlerFunc) {
	h := newWebhookHandler(webhookService, recorder)
	handlersChain := append(mw, h.receive)
	rg.POST("/webhooks", handlersChain...)
}

// receive godoc
// @Summary Receive a bank webhook
// @Description Accepts an encrypted, signed webhook from a registered bank, queues every
// @Description transaction line for import and answers with a sealed acknowledgement.
// @Tags webhooks
// @Produce json
// @Param X-Bank-Identifier header string true "Bank identifier (acme, foodics)"
// @Param X-Encrypted-Data header string true "Base64 RSA ciphertext blocks"
// @Param X-Signature header string true "Base64 RSA-SHA256 signature over the ciphertext"
// @Success 200 {object} envelope.Envelope "Sealed {\"status\":\"ok\"}"
// @Failure 400 {object} dto.ErrorResponse "Missing or unknown bank, missing encryption data or account identifier"
// @Failure 401 {object} dto.ErrorResponse "Invalid or tampered data"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /webhooks [post]
func (h *webhookHandler) receive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bank := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderBankIdentifier)))
	// unregistered identifiers share one label
	metricBank := bank

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while handling webhook", slog.Any("panic", r), slog.String("bank", bank))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		h.recorder.WebhookRequest(metricBank, c.Writer.Status())
	}()

	if bank == "" {
		logger.Warn("Webhook without bank identifier")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bank identifier missing"})
		return
	}

	receipt, err := h.webhookService.Receive(
		c.Request.Context(),
		domain.BankID(bank),
		strings.TrimSpace(c.GetHeader(HeaderEncryptedData)),
		strings.TrimSpace(c.GetHeader(HeaderSignature)),
	)
	if err != nil {
		status, msg := webhookErrorStatus(err)
		if errors.Is(err, apperrors.ErrUnsupportedBank) {
			metricBank = "unknown"
		}
		if status == http.StatusInternalServerError {
			logger.Error("Failed to process webhook", slog.String("bank", bank), slog.String("error", err.Error()))
		} else {
			logger.Warn("Webhook rejected", slog.String("bank", bank), slog.Int("status", status), slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	logger.Info("Webhook processed", slog.String("bank", bank), slog.Int("dispatched", receipt.Dispatched))
	c.JSON(http.StatusOK, receipt.Ack)
}

// webhookErrorStatus maps a Receive error to the response status and message.
func webhookErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrUnsupportedBank), errors.Is(err, envelope.ErrUnknownCounterparty):
		return http.StatusBadRequest, "Invalid bank identifier"
	case errors.Is(err, services.ErrMissingEnvelope):
		return http.StatusBadRequest, "Missing encryption data"
	case errors.Is(err, services.ErrMissingAccountID):
		return http.StatusBadRequest, "Missing account identifier"
	case errors.Is(err, envelope.ErrCrypto):
		return http.StatusUnauthorized, "Invalid or tampered data"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
