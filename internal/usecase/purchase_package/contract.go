package purchase_package

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// Directory справочник клиентов
type Directory interface {
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
}

// CreditLedger покупка пакета
type CreditLedger interface {
	Purchase(ctx context.Context, customerID int64, packageCode string) (*domain.CustomerServiceCredit, *domain.ServicePackage, error)
}

// OutboxRepository запись событий в outbox
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
