package update_booking_status

import "github.com/m04kA/SMC-MaintenanceBooking/internal/domain"

// Request модель запроса на смену статуса бронирования
type Request struct {
	Actor              domain.Actor
	BookingID          int64
	Status             string  // Целевой статус, регистр не важен
	CancellationReason *string // Только для CANCELLED
}
