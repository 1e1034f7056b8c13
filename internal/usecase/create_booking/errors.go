package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/types"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrAccessDenied возвращается, когда клиент бронирует от имени другого клиента
	ErrAccessDenied = errors.New("create_booking: access denied")

	ErrCustomerNotFound = errors.New("create_booking: customer not found")
	ErrVehicleNotFound  = errors.New("create_booking: vehicle not found")
	ErrCenterNotFound   = errors.New("create_booking: service center not found")
	ErrServiceNotFound  = errors.New("create_booking: service not found")
	ErrPackageNotFound  = errors.New("create_booking: package not found")
	ErrSlotNotFound     = errors.New("create_booking: technician slot not found")

	// ErrVehicleNotOwned возвращается, когда автомобиль принадлежит другому клиенту
	ErrVehicleNotOwned = errors.New("create_booking: vehicle does not belong to the customer")

	// ErrCenterInactive возвращается, когда сервисный центр не принимает записи
	ErrCenterInactive = errors.New("create_booking: service center is not active")

	// ErrDateInPast возвращается при бронировании на прошедшую дату
	ErrDateInPast = errors.New("create_booking: booking date is in the past")

	// ErrSlotNotInCenter возвращается, когда техник слота работает в другом центре
	ErrSlotNotInCenter = errors.New("create_booking: technician slot does not belong to the service center")

	// ErrTechnicianInactive возвращается, когда техник слота неактивен
	ErrTechnicianInactive = errors.New("create_booking: technician is not active")

	// ErrSlotDateMismatch возвращается, когда дата слота не совпадает с датой бронирования
	ErrSlotDateMismatch = errors.New("create_booking: technician slot date does not match booking date")

	// ErrSlotInPast возвращается, когда время слота на сегодня уже прошло
	ErrSlotInPast = errors.New("create_booking: slot start time has already passed")

	// ErrPricingSelection возвращается, если не указано ровно одно из: услуга или код пакета
	ErrPricingSelection = errors.New("create_booking: exactly one of serviceId or packageCode must be provided")

	ErrServiceInactive = errors.New("create_booking: service is not active")
	ErrPackageInactive = errors.New("create_booking: package is not active")
	ErrPackageExpired  = errors.New("create_booking: package has expired")

	// ErrSlotUnavailable возвращается, когда проверка доступности показала занятый слот
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrSlotAlreadyTaken возвращается, когда слот заняли параллельным запросом
	ErrSlotAlreadyTaken = errors.New("create_booking: slot already taken, please pick another slot")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// SlotUnavailableError описывает занятый слот: кто, когда и какой слот дня
type SlotUnavailableError struct {
	TechnicianName string
	Label          string
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("%s: technician %s, slot %q on %s at %s-%s, please pick another slot",
		ErrSlotUnavailable.Error(), e.TechnicianName, e.Label,
		e.Date.Format(domain.DateFormat), e.StartTime, e.EndTime)
}

func (e *SlotUnavailableError) Unwrap() error {
	return ErrSlotUnavailable
}
