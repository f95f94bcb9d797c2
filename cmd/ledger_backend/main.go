package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/dispatch"
	"github.com/SscSPs/bank_webhook_ledger/internal/envelope"
	"github.com/SscSPs/bank_webhook_ledger/internal/handlers"
	"github.com/SscSPs/bank_webhook_ledger/internal/metrics"
	"github.com/SscSPs/bank_webhook_ledger/internal/middleware"
	"github.com/SscSPs/bank_webhook_ledger/internal/platform/config"
	"github.com/SscSPs/bank_webhook_ledger/internal/repositories/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// @title Bank Webhook Ledger API
// @version 1.0
// @description Receives encrypted bank webhooks and moves money between internal accounts.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := database.OpenLedgerStore(ctx, cfg, logger, database.OpenOptions{Migrate: true})
	if err != nil {
		return err
	}
	defer closeStore()

	registry := services.NewDefaultRegistry(repos.LedgerRepo)

	keyring, err := envelope.LoadKeyring(cfg.KeysDir, registry.Banks(), logger)
	if err != nil {
		return err
	}
	sealer := envelope.NewSealer(keyring, logger)

	appMetrics := metrics.New()
	queue := dispatch.NewQueue(registry, dispatch.Config{
		Capacity:     cfg.QueueCapacity,
		Workers:      cfg.QueueWorkers,
		MaxAttempts:  cfg.QueueMaxAttempts,
		RetryBackoff: cfg.QueueRetryBackoff,
	}, logger, dispatch.WithRecorder(appMetrics))
	appMetrics.RegisterQueueDepth(queue.Len)

	serviceContainer := services.NewServiceContainer(repos, sealer, registry, queue)

	webhookLimiter, err := middleware.NewMemoryLimiter(cfg.WebhookRateLimit)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSAllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders: []string{middleware.RequestIDHeader},
		}))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouterDeps{
		Recorder:       appMetrics,
		MetricsHandler: appMetrics.Handler(),
		WebhookLimiter: webhookLimiter,
		Banks:          registry.Banks(),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// The queue outlives the HTTP server so in-flight webhooks can still submit.
	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return queue.Run(queueCtx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		stopQueue()
		return err
	})

	err = g.Wait()
	logger.Info("Server stopped")
	return err
}
