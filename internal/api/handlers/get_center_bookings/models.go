package get_center_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	centerID int64,
	actor domain.Actor,
	statusStr string,
	dateStr string,
	includeCancelledStr string,
) (*models.GetCenterBookingsRequest, error) {
	req := &models.GetCenterBookingsRequest{
		Actor:    actor,
		CenterID: centerID,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	// По умолчанию отмененные скрыты
	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid include_cancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
