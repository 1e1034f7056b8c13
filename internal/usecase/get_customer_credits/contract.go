package get_customer_credits

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// CreditLister чтение кредитов клиента
type CreditLister interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.CustomerServiceCredit, error)
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
