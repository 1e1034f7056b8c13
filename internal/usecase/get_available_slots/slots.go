package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// buildSlots конвертирует слоты техников в ответ.
// Если дата сегодняшняя, слоты, которые уже начались, отбрасываются.
func buildSlots(techSlots []*domain.TechnicianTimeSlot, date, now time.Time, onlyAvailable bool) []Slot {
	today := isSameDay(date, now)

	result := make([]Slot, 0, len(techSlots))
	for _, ts := range techSlots {
		if today && hasStarted(ts, now) {
			continue
		}

		available := ts.IsFree()
		if onlyAvailable && !available {
			continue
		}

		view := domain.AvailableSlot{
			TechnicianSlotID: ts.ID,
			TechnicianID:     ts.TechnicianID,
			TechnicianName:   ts.TechnicianName,
			SlotID:           ts.SlotID,
			Label:            ts.SlotLabel,
			StartTime:        ts.StartTime,
			EndTime:          ts.EndTime,
			IsAvailable:      available,
		}

		result = append(result, Slot{
			TechnicianSlotID: view.TechnicianSlotID,
			TechnicianID:     view.TechnicianID,
			TechnicianName:   view.TechnicianName,
			SlotID:           view.SlotID,
			Label:            view.Label,
			StartTime:        view.StartTime,
			EndTime:          view.EndTime,
			DurationMinutes:  view.DurationMinutes(),
			IsAvailable:      view.IsAvailable,
		})
	}

	return result
}

// hasStarted проверяет, что слот сегодня уже начался.
// Слот с некорректным временем считается начавшимся.
func hasStarted(ts *domain.TechnicianTimeSlot, now time.Time) bool {
	startAt, err := ts.StartTime.OnDate(now, now.Location())
	if err != nil {
		return true
	}
	return !startAt.After(now)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата раньше сегодняшней
func isDateInPast(date, now time.Time) bool {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}
