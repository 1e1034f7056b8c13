package credits

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// Repository хранилище кредитов клиентов
type Repository interface {
	Create(ctx context.Context, credit *domain.CustomerServiceCredit) (*domain.CustomerServiceCredit, error)
	GetByID(ctx context.Context, id int64) (*domain.CustomerServiceCredit, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]*domain.CustomerServiceCredit, error)
	FindUsable(ctx context.Context, customerID, packageID int64, now time.Time) (*domain.CustomerServiceCredit, error)
	Consume(ctx context.Context, id int64, n int) (*domain.CustomerServiceCredit, error)
	RefundOne(ctx context.Context, id int64) (*domain.CustomerServiceCredit, error)
	UpdateStatus(ctx context.Context, id int64, status domain.CreditStatus) error
	Delete(ctx context.Context, id int64) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// PackageRepository чтение пакетов услуг
type PackageRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.ServicePackage, error)
}

// Metrics учет операций с кредитами
type Metrics interface {
	RecordCreditConsumed(n int)
	RecordCreditRefunded()
	RecordCreditDeleted()
	RecordCreditsExpired(n int64)
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
