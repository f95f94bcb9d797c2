package handlers

import (
	"net/http"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server and the banks it accepts webhooks from.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(banks []domain.BankID) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "Bank webhook ledger", "banks": banks})
	}
}

// registerHomeRoutes registers the health and root routes.
func registerHomeRoutes(r *gin.Engine, banks []domain.BankID) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/", getHome(banks))
}
