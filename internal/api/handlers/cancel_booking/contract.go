package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
	updateStatus "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/update_booking_status"
)

// UpdateStatusUseCase отмена выполняется общей сменой статуса на CANCELLED
type UpdateStatusUseCase interface {
	Execute(ctx context.Context, req *updateStatus.Request) (*models.BookingView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
