package domain

import (
	"time"
)

// Booking represents one customer-vehicle-service appointment.
//
// Exactly one of ServiceID and PackageID is set: it tells which of the two
// priced the booking. TechnicianSlotID is set for every booking that is not
// CANCELLED and is cleared on cancellation so the slot can be reused.
type Booking struct {
	ID               int64
	CustomerID       int64
	VehicleID        int64
	CenterID         int64
	ServiceID        *int64
	PackageID        *int64
	TechnicianSlotID *int64
	BookingDate      time.Time
	Status           BookingStatus
	AppliedCreditID  *int64

	SpecialRequest *string

	// Snapshot of the vehicle at booking time
	Mileage      *int
	LicensePlate *string

	TotalAmount float64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true while the booking holds its slot.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsPackageBooking returns true if the booking was priced through a service package.
func (b *Booking) IsPackageBooking() bool {
	return b.PackageID != nil
}

// CanBeCancelled returns true if the current status allows cancellation.
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// CenterBookingsFilter selects bookings of a service center.
type CenterBookingsFilter struct {
	CenterID         int64          // required
	Date             *time.Time     // booking date, optional
	Status           *BookingStatus // optional
	IncludeCancelled bool
}
