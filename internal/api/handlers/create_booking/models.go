package create_booking

import (
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerID       int64   `json:"customerId"`
	VehicleID        int64   `json:"vehicleId"`
	CenterID         int64   `json:"centerId"`
	BookingDate      string  `json:"bookingDate"` // "2025-10-15"
	TechnicianSlotID int64   `json:"technicianSlotId"`
	ServiceID        *int64  `json:"serviceId,omitempty"`
	PackageCode      *string `json:"packageCode,omitempty"`
	SpecialRequest   *string `json:"specialRequest,omitempty"`
	Mileage          *int    `json:"mileage,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Actor:            actor,
		CustomerID:       r.CustomerID,
		VehicleID:        r.VehicleID,
		CenterID:         r.CenterID,
		Date:             bookingDate,
		TechnicianSlotID: r.TechnicianSlotID,
		ServiceID:        r.ServiceID,
		PackageCode:      r.PackageCode,
		SpecialRequest:   r.SpecialRequest,
		Mileage:          r.Mileage,
	}, nil
}
