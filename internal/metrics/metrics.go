// Package metrics exposes the ledger's Prometheus counters.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	webhookRequests   *prometheus.CounterVec
	ingestionOutcomes *prometheus.CounterVec
	transfers         *prometheus.CounterVec
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		webhookRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_requests_total",
			Help:      "Webhook deliveries by bank and HTTP status.",
		}, []string{"bank", "status"}),
		ingestionOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestion_outcomes_total",
			Help:      "Imported webhook lines by bank and outcome.",
		}, []string{"bank", "outcome"}),
		transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Transfer attempts by HTTP status.",
		}, []string{"status"}),
	}
}

// WebhookRequest counts one webhook response.
func (m *Metrics) WebhookRequest(bank string, status int) {
	if bank == "" {
		bank = "none"
	}
	m.webhookRequests.WithLabelValues(bank, strconv.Itoa(status)).Inc()
}

// ImportOutcome counts one Import result.
func (m *Metrics) ImportOutcome(bank domain.BankID, outcome portssvc.Outcome) {
	m.ingestionOutcomes.WithLabelValues(bank.String(), string(outcome)).Inc()
}

// TransferResult counts one transfer response.
func (m *Metrics) TransferResult(status int) {
	m.transfers.WithLabelValues(strconv.Itoa(status)).Inc()
}

// RegisterQueueDepth exposes depth as the current number of buffered jobs.
func (m *Metrics) RegisterQueueDepth(depth func() int) {
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatch_queue_depth",
		Help:      "Webhook lines waiting for a worker.",
	}, func() float64 { return float64(depth()) })
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
