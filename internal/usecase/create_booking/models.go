package create_booking

import (
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor            domain.Actor
	CustomerID       int64
	VehicleID        int64
	CenterID         int64
	Date             time.Time // Дата бронирования (без времени)
	TechnicianSlotID int64
	ServiceID        *int64  // ровно одно из ServiceID и PackageCode
	PackageCode      *string // ровно одно из ServiceID и PackageCode
	SpecialRequest   *string
	Mileage          *int // пробег на момент записи, по умолчанию из карточки автомобиля
}
