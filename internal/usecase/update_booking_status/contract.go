package update_booking_status

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByIDForUpdate получает бронирование с блокировкой строки (SELECT ... FOR UPDATE)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
}

// CreditLedger операции с кредитом бронирования
type CreditLedger interface {
	ConsumeForBooking(ctx context.Context, creditID int64) (bool, error)
	Delete(ctx context.Context, creditID int64) error
}

// SlotLedger освобождение слота техника
type SlotLedger interface {
	Get(ctx context.Context, id int64) (*domain.TechnicianTimeSlot, error)
	Release(ctx context.Context, key domain.SlotKey) (bool, error)
}

// ChecklistCanceller отмена чек-листа бронирования
type ChecklistCanceller interface {
	CancelForBooking(ctx context.Context, bookingID int64) (bool, error)
}

// OutboxRepository запись событий в outbox
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error)
}

// ViewComposer сборка представления бронирования
type ViewComposer interface {
	Compose(ctx context.Context, booking *domain.Booking) *models.BookingView
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics учет переходов статуса
type Metrics interface {
	RecordTransition(from, to string)
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
