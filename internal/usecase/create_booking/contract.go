package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// Directory справочники, по которым валидируется запрос
type Directory interface {
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	GetCenter(ctx context.Context, id int64) (*domain.ServiceCenter, error)
	GetTechnician(ctx context.Context, id int64) (*domain.Technician, error)
}

// SlotLedger ledger слотов техников
type SlotLedger interface {
	Get(ctx context.Context, id int64) (*domain.TechnicianTimeSlot, error)
	IsAvailable(ctx context.Context, key domain.SlotKey) (bool, error)
	Reserve(ctx context.Context, key domain.SlotKey, bookingID *int64) (bool, error)
	AttachBooking(ctx context.Context, key domain.SlotKey, bookingID int64) error
}

// PricingResolver расчет стоимости по услуге или пакету
type PricingResolver interface {
	Resolve(ctx context.Context, sel pricing.Selection) (*pricing.Quote, error)
}

// CreditLedger ledger кредитов клиентов
type CreditLedger interface {
	FindOrCreateForPackage(ctx context.Context, customerID int64, pkg *domain.ServicePackage) (*domain.CustomerServiceCredit, bool, error)
}

// ChecklistSeeder создание чек-листа по шаблону услуги
type ChecklistSeeder interface {
	Seed(ctx context.Context, bookingID, serviceID int64) (*domain.MaintenanceChecklist, error)
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
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики создания бронирований
type Metrics interface {
	RecordBookingCreated(pricing string)
	RecordSlotConflict()
}

// Clock источник текущего времени в часовом поясе центра
type Clock interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
