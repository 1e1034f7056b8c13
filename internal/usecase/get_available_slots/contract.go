package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// Directory интерфейс справочника сервисных центров
type Directory interface {
	GetCenter(ctx context.Context, id int64) (*domain.ServiceCenter, error)
}

// SlotLister интерфейс чтения слотов техников центра
type SlotLister interface {
	// ListForCenter получает все слоты активных техников центра на дату
	ListForCenter(ctx context.Context, centerID int64, date time.Time) ([]*domain.TechnicianTimeSlot, error)
}

// Clock интерфейс для получения текущего времени в часовом поясе центра
type Clock interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
