// Package dispatch runs webhook lines through their bank's ingestion strategy
// on a bounded pool of workers. Delivery is at-least-once: a job may be imported
// more than once and the ledger's (reference, account) key absorbs the repeats.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/middleware"
	"golang.org/x/sync/errgroup"
)

// ErrQueueClosed is returned by Submit once the queue has stopped accepting work.
var ErrQueueClosed = errors.New("dispatch queue closed")

// Job is one non-blank webhook line waiting to be imported.
type Job struct {
	Line      string
	BankID    domain.BankID
	AccountID string
}

// Recorder observes import outcomes. metrics.Metrics satisfies it.
type Recorder interface {
	ImportOutcome(bank domain.BankID, outcome portssvc.Outcome)
}

type nopRecorder struct{}

func (nopRecorder) ImportOutcome(domain.BankID, portssvc.Outcome) {}

// Config sizes the queue.
type Config struct {
	Capacity     int
	Workers      int
	MaxAttempts  int
	RetryBackoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.Capacity <= 0 {
		c.Capacity = 1024
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.RetryBackoff < 0 {
		c.RetryBackoff = 0
	}
	return c
}

// Queue is a bounded in-process work queue.
type Queue struct {
	cfg      Config
	resolver portssvc.StrategyResolver
	logger   *slog.Logger
	recorder Recorder

	jobs      chan Job
	done      chan struct{}
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// Option customises a Queue.
type Option func(*Queue)

// WithRecorder reports every import outcome to r.
func WithRecorder(r Recorder) Option {
	return func(q *Queue) {
		if r != nil {
			q.recorder = r
		}
	}
}

// NewQueue creates a queue. Nothing is processed until Run is called.
func NewQueue(resolver portssvc.StrategyResolver, cfg Config, logger *slog.Logger, opts ...Option) *Queue {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		cfg:      cfg,
		resolver: resolver,
		logger:   logger,
		recorder: nopRecorder{},
		jobs:     make(chan Job, cfg.Capacity),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Submit enqueues job. It blocks while the queue is full, until ctx is done
// or the queue is closed.
func (q *Queue) Submit(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- job:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len is the number of buffered jobs.
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Close stops accepting jobs. Buffered jobs are still processed by Run.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
		q.mu.Lock()
		q.closed = true
		close(q.jobs)
		q.mu.Unlock()
	})
}

// Run processes jobs until ctx is cancelled, then closes the queue and drains
// what is already buffered. Retries are abandoned once ctx is cancelled.
func (q *Queue) Run(ctx context.Context) error {
	q.logger.Info("Dispatch queue started",
		slog.Int("workers", q.cfg.Workers),
		slog.Int("capacity", q.cfg.Capacity),
		slog.Int("max_attempts", q.cfg.MaxAttempts))

	// imports in flight must not be cut off by shutdown
	workCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for i := 0; i < q.cfg.Workers; i++ {
		worker := i
		g.Go(func() error {
			for job := range q.jobs {
				q.process(ctx, workCtx, worker, job)
			}
			return nil
		})
	}

	<-ctx.Done()
	q.Close()
	err := g.Wait()
	q.logger.Info("Dispatch queue drained")
	return err
}

func (q *Queue) process(runCtx, workCtx context.Context, worker int, job Job) {
	logger := q.logger.With(
		slog.Int("worker", worker),
		slog.String("bank", job.BankID.String()),
		slog.String("account_id", job.AccountID),
	)
	ctx := middleware.WithLogger(workCtx, logger)

	strategy, err := q.resolver.Resolve(job.BankID)
	if err != nil {
		logger.Error("No ingestion strategy for job", slog.String("error", err.Error()))
		q.recorder.ImportOutcome(job.BankID, portssvc.OutcomeFailed)
		return
	}

	for attempt := 1; ; attempt++ {
		res := strategy.Import(ctx, job.Line, portssvc.ImportContext{AccountID: job.AccountID})
		q.recorder.ImportOutcome(job.BankID, res.Outcome)

		switch res.Outcome {
		case portssvc.OutcomeImported:
			if res.Entry != nil {
				logger = logger.With(slog.String("reference", res.Entry.Reference), slog.String("amount", res.Entry.Amount.String()))
			}
			logger.Info("Line imported", slog.Int("attempt", attempt))
			return
		case portssvc.OutcomeDuplicate:
			logger.Info("Duplicate line ignored", slog.String("error", errString(res.Err)))
			return
		case portssvc.OutcomeMalformed, portssvc.OutcomeAccountNotFound:
			logger.Warn("Line rejected", slog.String("outcome", string(res.Outcome)), slog.String("error", errString(res.Err)))
			return
		}

		if !res.Retryable || attempt >= q.cfg.MaxAttempts {
			logger.Error("Line import failed", slog.Int("attempt", attempt), slog.Bool("retryable", res.Retryable), slog.String("error", errString(res.Err)))
			return
		}
		logger.Warn("Line import failed, retrying", slog.Int("attempt", attempt), slog.String("error", errString(res.Err)))

		timer := time.NewTimer(q.cfg.RetryBackoff * time.Duration(attempt))
		select {
		case <-timer.C:
		case <-runCtx.Done():
			timer.Stop()
			logger.Warn("Shutting down, retry abandoned", slog.Int("attempt", attempt))
			return
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
