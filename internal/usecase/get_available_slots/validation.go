package get_available_slots

import (
	"fmt"
	"time"
)

func validateRequest(req *Request) error {
	switch {
	case req.CenterID <= 0:
		return fmt.Errorf("%w: centerId must be positive", ErrInvalidInput)
	case req.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// validateDate проверяет окно записи: не раньше сегодняшнего дня и не дальше horizonDays.
// horizonDays = 0 снимает верхнюю границу.
func validateDate(date, now time.Time, horizonDays int) error {
	if isDateInPast(date, now) {
		return ErrInvalidDate
	}
	if horizonDays == 0 {
		return nil
	}

	y, m, d := now.Date()
	lastDay := time.Date(y, m, d+horizonDays, 0, 0, 0, 0, time.UTC)
	y, m, d = date.Date()
	if time.Date(y, m, d, 0, 0, 0, 0, time.UTC).After(lastDay) {
		return fmt.Errorf("%w: slots are open %d days ahead", ErrDateTooFarInFuture, horizonDays)
	}
	return nil
}
