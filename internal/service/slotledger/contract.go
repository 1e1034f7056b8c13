package slotledger

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// Repository хранилище ledger'а слотов техников
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.TechnicianTimeSlot, error)
	ListByCenterAndDate(ctx context.Context, centerID int64, date time.Time) ([]*domain.TechnicianTimeSlot, error)
	IsAvailable(ctx context.Context, key domain.SlotKey) (bool, error)
	Reserve(ctx context.Context, key domain.SlotKey, bookingID *int64) (bool, error)
	AttachBooking(ctx context.Context, key domain.SlotKey, bookingID int64) error
	Release(ctx context.Context, key domain.SlotKey) (bool, error)
}

// Metrics учет операций со слотами
type Metrics interface {
	RecordSlotOperation(operation, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
