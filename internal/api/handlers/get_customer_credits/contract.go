package get_customer_credits

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
	getCustomerCredits "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/get_customer_credits"
)

type GetCustomerCreditsUseCase interface {
	Execute(ctx context.Context, req *getCustomerCredits.Request) (*models.CreditListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
