package pricing

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// PackageRepository чтение пакетов услуг
type PackageRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.ServicePackage, error)
}

// ServiceDirectory чтение справочника услуг
type ServiceDirectory interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}
