package outbox

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// Repository хранилище outbox-сообщений
type Repository interface {
	PullPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error)
	Stats(ctx context.Context) (domain.OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// Publisher отправляет сообщение в брокер
type Publisher interface {
	Publish(msg domain.OutboxMessage) error
}

// Metrics учет публикаций
type Metrics interface {
	RecordOutboxPublished()
	RecordOutboxFailed()
	SetOutboxBacklog(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
