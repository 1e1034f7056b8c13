package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

const (
	defaultPollInterval   = time.Second
	defaultBatchSize      = 100
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 50 * time.Millisecond
)

type nopMetrics struct{}

func (nopMetrics) RecordOutboxPublished() {}
func (nopMetrics) RecordOutboxFailed()    {}
func (nopMetrics) SetOutboxBacklog(int)   {}

// WorkerOptions параметры outbox-воркера
type WorkerOptions struct {
	Metrics        Metrics
	PollInterval   time.Duration
	BatchSize      int
	MaxAttempts    int
	RetryBaseDelay time.Duration
}

// Option настраивает Worker
type Option func(*WorkerOptions)

// WithMetrics задает метрики публикаций
func WithMetrics(metrics Metrics) Option {
	return func(opts *WorkerOptions) {
		opts.Metrics = metrics
	}
}

// WithPollInterval задает частоту опроса outbox
func WithPollInterval(interval time.Duration) Option {
	return func(opts *WorkerOptions) {
		opts.PollInterval = interval
	}
}

// WithBatchSize задает размер пачки сообщений за один проход
func WithBatchSize(batchSize int) Option {
	return func(opts *WorkerOptions) {
		opts.BatchSize = batchSize
	}
}

// WithMaxAttempts задает число попыток публикации до перевода сообщения в failed
func WithMaxAttempts(maxAttempts int) Option {
	return func(opts *WorkerOptions) {
		opts.MaxAttempts = maxAttempts
	}
}

// WithRetryBaseDelay задает базовую задержку экспоненциального backoff
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(opts *WorkerOptions) {
		opts.RetryBaseDelay = delay
	}
}

// Worker публикует pending-сообщения outbox в брокер
type Worker struct {
	repo           Repository
	publisher      Publisher
	metrics        Metrics
	logger         Logger
	pollInterval   time.Duration
	batchSize      int
	maxAttempts    int
	retryBaseDelay time.Duration
}

// NewWorker создает outbox-воркер
func NewWorker(repo Repository, publisher Publisher, logger Logger, options ...Option) *Worker {
	opts := WorkerOptions{
		PollInterval:   defaultPollInterval,
		BatchSize:      defaultBatchSize,
		MaxAttempts:    defaultMaxAttempts,
		RetryBaseDelay: defaultRetryBaseDelay,
	}
	for _, option := range options {
		option(&opts)
	}

	if opts.Metrics == nil {
		opts.Metrics = nopMetrics{}
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RetryBaseDelay < 0 {
		opts.RetryBaseDelay = 0
	}

	return &Worker{
		repo:           repo,
		publisher:      publisher,
		metrics:        opts.Metrics,
		logger:         logger,
		pollInterval:   opts.PollInterval,
		batchSize:      opts.BatchSize,
		maxAttempts:    opts.MaxAttempts,
		retryBaseDelay: opts.RetryBaseDelay,
	}
}

// Run опрашивает outbox до отмены ctx
func (w *Worker) Run(ctx context.Context) {
	if w.repo == nil || w.publisher == nil {
		w.logger.Warn("OutboxWorker: disabled, repository or publisher is nil")
		return
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.ProcessOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ProcessOnce(ctx)
		}
	}
}

// ProcessOnce выполняет один проход: выбирает пачку pending-сообщений и публикует их по порядку
func (w *Worker) ProcessOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	messages, err := w.repo.PullPending(ctx, w.batchSize)
	if err != nil {
		w.logger.Warn("OutboxWorker: failed to pull pending messages: %v", err)
		return
	}

	for _, msg := range messages {
		if ctx.Err() != nil {
			return
		}

		if err := w.publishWithRetry(ctx, msg); err != nil {
			w.logger.Error("OutboxWorker: message id=%s type=%s failed: %v", msg.ID, msg.EventType, err)
			w.metrics.RecordOutboxFailed()
			if markErr := w.repo.MarkFailed(ctx, msg.ID); markErr != nil {
				w.logger.Warn("OutboxWorker: failed to mark message id=%s as failed: %v", msg.ID, markErr)
			}
			continue
		}

		w.metrics.RecordOutboxPublished()
		if err := w.repo.MarkSent(ctx, msg.ID); err != nil {
			w.logger.Warn("OutboxWorker: failed to mark message id=%s as sent: %v", msg.ID, err)
		}
	}

	w.refreshBacklog(ctx)
}

func (w *Worker) publishWithRetry(ctx context.Context, msg domain.OutboxMessage) error {
	var lastErr error

	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.publisher.Publish(msg)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == w.maxAttempts {
			break
		}

		delay := w.retryBackoff(attempt)
		if delay <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("publish failed after %d attempts: %w", w.maxAttempts, lastErr)
}

func (w *Worker) retryBackoff(attempt int) time.Duration {
	if w.retryBaseDelay <= 0 {
		return 0
	}

	const maxDelay = 30 * time.Second
	delay := w.retryBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	return delay
}

func (w *Worker) refreshBacklog(ctx context.Context) {
	stats, err := w.repo.Stats(ctx)
	if err != nil {
		w.logger.Warn("OutboxWorker: failed to collect backlog stats: %v", err)
		return
	}
	w.metrics.SetOutboxBacklog(stats.PendingCount)
}
