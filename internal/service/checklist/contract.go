package checklist

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// Repository хранилище шаблонов и чек-листов
type Repository interface {
	GetActiveTemplateByServiceID(ctx context.Context, serviceID int64) (*domain.ChecklistTemplate, error)
	GetTemplateItems(ctx context.Context, templateID int64) ([]*domain.ChecklistTemplateItem, error)
	CreateChecklist(ctx context.Context, checklist *domain.MaintenanceChecklist) (*domain.MaintenanceChecklist, error)
	CreateResults(ctx context.Context, results []*domain.MaintenanceChecklistResult) error
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.MaintenanceChecklist, error)
	GetResults(ctx context.Context, checklistID int64) ([]*domain.MaintenanceChecklistResult, error)
	CancelByBookingID(ctx context.Context, bookingID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics учет сидирования чек-листов
type Metrics interface {
	RecordChecklistSeeded()
	RecordChecklistSkipped(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
