package cache

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// Directory справочники, которые кэширует DirectoryCache
type Directory interface {
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	GetCenter(ctx context.Context, id int64) (*domain.ServiceCenter, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetTechnician(ctx context.Context, id int64) (*domain.Technician, error)
	GetTimeSlot(ctx context.Context, id int64) (*domain.TimeSlot, error)
	ListTimeSlots(ctx context.Context) ([]*domain.TimeSlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
