package handlers

import (
	"net/http"

	"github.com/SscSPs/bank_webhook_ledger/cmd/docs"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/middleware"
	"github.com/SscSPs/bank_webhook_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouterDeps carries the non-service collaborators of the router.
type RouterDeps struct {
	Recorder       Recorder
	MetricsHandler http.Handler
	// WebhookLimiter is optional; nil disables webhook rate limiting.
	WebhookLimiter *limiter.Limiter
	Banks          []domain.BankID
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouterDeps,
) {
	registerHomeRoutes(r, deps.Banks)

	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	api := r.Group("/api")

	// Webhooks authenticate through the envelope, not a bearer token
	var webhookMW []gin.HandlerFunc
	if deps.WebhookLimiter != nil {
		webhookMW = append(webhookMW, middleware.RateLimit(deps.WebhookLimiter, middleware.HeaderAndIPKey(HeaderBankIdentifier)))
	}
	RegisterWebhookRoutes(api, services.Webhook, deps.Recorder, webhookMW...)

	setupAPIV1Routes(api, cfg, services, deps)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group behind the auth middleware
func setupAPIV1Routes(
	api *gin.RouterGroup,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouterDeps,
) {
	v1 := api.Group("/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	RegisterTransferRoutes(v1, services.Transfer, deps.Recorder, cfg.InternalBankCode)
	RegisterAccountRoutes(v1, services.Account, cfg.InternalBankCode)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
