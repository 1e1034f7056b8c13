package update_booking_status

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// validateRequest валидирует входные данные и возвращает целевой статус
func validateRequest(req *Request) (domain.BookingStatus, error) {
	if req.BookingID <= 0 {
		return "", fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}

	target, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.CancellationReason != nil {
		if target != domain.StatusCancelled {
			return "", fmt.Errorf("%w: cancellationReason is allowed only for %s", ErrInvalidInput, domain.StatusCancelled)
		}
		if len([]rune(strings.TrimSpace(*req.CancellationReason))) > domain.MaxCancellationReasonLength {
			return "", fmt.Errorf("%w: cancellationReason is longer than %d characters",
				ErrInvalidInput, domain.MaxCancellationReasonLength)
		}
	}

	return target, nil
}
