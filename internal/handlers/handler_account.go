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

// accountHandler handles HTTP requests about the caller's own account.
type accountHandler struct {
	accountService portssvc.AccountReaderSvc
	bankCode       string
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountReaderSvc, bankCode string) *accountHandler {
	return &accountHandler{
		accountService: as,
		bankCode:       bankCode,
	}
}

// RegisterAccountRoutes registers routes related to the caller's account and entries.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountReaderSvc, bankCode string) {
	h := newAccountHandler(accountService, bankCode)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/me", h.getMyAccount)
		accounts.GET("/me/entries", h.listMyEntries)
	}
	rg.GET("/entries/:entryID", h.getEntry)
}

// getMyAccount godoc
// @Summary Get the caller's account
// @Description Returns the balance and status of the authenticated account
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/me [get]
func (h *accountHandler) getMyAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountName, ok := middleware.GetAccountNameFromContext(c)
	if !ok {
		logger.Error("Account name not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.GetAccountByName(c.Request.Context(), accountName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to get account from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listMyEntries godoc
// @Summary List the caller's ledger entries
// @Description Returns ledger entries of the authenticated account, newest first
// @Tags accounts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list entries"
// @Security BearerAuth
// @Router /accounts/me/entries [get]
func (h *accountHandler) listMyEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountName, ok := middleware.GetAccountNameFromContext(c)
	if !ok {
		logger.Error("Account name not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.accountService.ListEntries(c.Request.Context(), accountName, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid entries request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			logger.Error("Failed to list entries from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		}
		return
	}

	logger.Debug("Entries listed", slog.Int("count", len(resp.Entries)))
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get one ledger entry as a payment document
// @Description Renders one of the caller's entries as a payment request XML document
// @Tags accounts
// @Produce xml
// @Param entryID path string true "Entry ID"
// @Success 200 {object} paymentxml.PaymentRequestMessage
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve entry"
// @Security BearerAuth
// @Router /entries/{entryID} [get]
func (h *accountHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	accountName, ok := middleware.GetAccountNameFromContext(c)
	if !ok {
		logger.Error("Account name not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("entry_id", entryID))
	entry, owner, err := h.accountService.GetEntry(c.Request.Context(), accountName, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Entry not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			logger.Error("Failed to get entry from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		}
		return
	}

	body, err := paymentxml.Render(paymentxml.FromEntry(*entry, *owner, h.bankCode))
	if err != nil {
		logger.Error("Failed to render payment XML", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		return
	}
	c.Data(http.StatusOK, paymentxml.ContentType, body)
}
