package bookings

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// BookingRepository интерфейс чтения бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByCenterWithFilter(ctx context.Context, filter domain.CenterBookingsFilter) ([]*domain.Booking, error)
}

// Directory справочники для отображения бронирования
type Directory interface {
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	GetCenter(ctx context.Context, id int64) (*domain.ServiceCenter, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// SlotReader чтение слота техника
type SlotReader interface {
	Get(ctx context.Context, id int64) (*domain.TechnicianTimeSlot, error)
}

// PackageRepository чтение пакетов услуг
type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServicePackage, error)
}

// CreditReader чтение кредитов
type CreditReader interface {
	Get(ctx context.Context, id int64) (*domain.CustomerServiceCredit, error)
}

// ChecklistReader чтение чек-листа бронирования
type ChecklistReader interface {
	Get(ctx context.Context, bookingID int64) (*domain.MaintenanceChecklist, []*domain.MaintenanceChecklistResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
