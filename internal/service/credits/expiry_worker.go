package credits

import (
	"context"
	"time"
)

const defaultExpiryInterval = time.Hour

// ExpiryWorkerOptions параметры воркера истечения кредитов
type ExpiryWorkerOptions struct {
	Logger   Logger
	Interval time.Duration
}

// ExpiryOption настраивает ExpiryWorker
type ExpiryOption func(*ExpiryWorkerOptions)

// WithLogger задает logger для воркера
func WithLogger(logger Logger) ExpiryOption {
	return func(opts *ExpiryWorkerOptions) {
		opts.Logger = logger
	}
}

// WithInterval задает интервал между проходами
func WithInterval(interval time.Duration) ExpiryOption {
	return func(opts *ExpiryWorkerOptions) {
		opts.Interval = interval
	}
}

// ExpiryWorker периодически переводит просроченные кредиты в EXPIRED.
// Использование кредита и без него проверяет срок, воркер лишь поддерживает статус в базе актуальным.
type ExpiryWorker struct {
	ledger   *Ledger
	logger   Logger
	interval time.Duration
}

// NewExpiryWorker создает воркер истечения кредитов
func NewExpiryWorker(ledger *Ledger, options ...ExpiryOption) *ExpiryWorker {
	opts := ExpiryWorkerOptions{Interval: defaultExpiryInterval}
	for _, option := range options {
		option(&opts)
	}

	if opts.Interval <= 0 {
		opts.Interval = defaultExpiryInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = ledger.logger
	}

	return &ExpiryWorker{
		ledger:   ledger,
		logger:   logger,
		interval: opts.Interval,
	}
}

// Run выполняет проход сразу и затем по таймеру до отмены ctx
func (w *ExpiryWorker) Run(ctx context.Context) {
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := w.ledger.ExpireOverdue(ctx); err != nil {
		w.logger.Warn("ExpiryWorker: sweep failed: %v", err)
	}
}
