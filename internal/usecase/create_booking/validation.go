package create_booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/pricing"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}

	if req.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicleId must be positive", ErrInvalidInput)
	}

	if req.CenterID <= 0 {
		return fmt.Errorf("%w: centerId must be positive", ErrInvalidInput)
	}

	if req.TechnicianSlotID <= 0 {
		return fmt.Errorf("%w: technicianSlotId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.PackageCode != nil && len(strings.TrimSpace(*req.PackageCode)) > domain.MaxPackageCodeLength {
		return fmt.Errorf("%w: packageCode is longer than %d characters", ErrInvalidInput, domain.MaxPackageCodeLength)
	}

	if req.SpecialRequest != nil && len([]rune(*req.SpecialRequest)) > domain.MaxSpecialRequestLength {
		return fmt.Errorf("%w: specialRequest is longer than %d characters", ErrInvalidInput, domain.MaxSpecialRequestLength)
	}

	if req.Mileage != nil && (*req.Mileage < 0 || *req.Mileage > domain.MaxMileage) {
		return fmt.Errorf("%w: mileage must be between 0 and %d", ErrInvalidInput, domain.MaxMileage)
	}

	return nil
}

// dateOnly отбрасывает время, сохраняя календарную дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isDateInPast проверяет, что календарная дата бронирования раньше сегодняшней по часам центра
func isDateInPast(bookingDate, now time.Time) bool {
	return dateOnly(bookingDate).Before(dateOnly(now))
}

func isSameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

// validateSlot проверяет, что слот принадлежит центру, совпадает по дате
// и, если бронирование на сегодня, еще не начался
func validateSlot(slot *domain.TechnicianTimeSlot, req *Request, now time.Time) error {
	if slot.CenterID != req.CenterID {
		return ErrSlotNotInCenter
	}

	if !isSameDay(slot.WorkDate, req.Date) {
		return fmt.Errorf("%w: slot is on %s, booking is on %s", ErrSlotDateMismatch,
			slot.WorkDate.Format(domain.DateFormat), req.Date.Format(domain.DateFormat))
	}

	if !isSameDay(req.Date, now) {
		return nil
	}

	startAt, err := slot.StartTime.OnDate(dateOnly(now), now.Location())
	if err != nil {
		return fmt.Errorf("%w: invalid slot start time %q: %v", ErrInternal, slot.StartTime, err)
	}
	if !startAt.After(now) {
		return fmt.Errorf("%w: slot started at %s", ErrSlotInPast, slot.StartTime)
	}

	return nil
}

// mapPricingError переводит ошибки резолвера цен в ошибки use case
func mapPricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrInvalidSelection):
		return ErrPricingSelection
	case errors.Is(err, pricing.ErrServiceNotFound):
		return ErrServiceNotFound
	case errors.Is(err, pricing.ErrServiceInactive):
		return ErrServiceInactive
	case errors.Is(err, pricing.ErrPackageNotFound):
		return ErrPackageNotFound
	case errors.Is(err, pricing.ErrPackageInactive):
		return ErrPackageInactive
	case errors.Is(err, pricing.ErrPackageExpired):
		return ErrPackageExpired
	default:
		return fmt.Errorf("%w: error while creating booking: %v", ErrInternal, err)
	}
}
