package domain

import (
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/pkg/types"
)

// TimeSlot is an entry of the static slot-of-day catalog shared by all centers.
type TimeSlot struct {
	ID        int64
	Label     string
	StartTime types.TimeString
	EndTime   types.TimeString
}

// TechnicianTimeSlot is the atomic bookable unit: (technician, work date, slot-of-day).
// Catalog and technician fields are joined in for display.
type TechnicianTimeSlot struct {
	ID           int64
	TechnicianID int64
	SlotID       int64
	WorkDate     time.Time
	IsAvailable  bool
	BookingID    *int64
	Notes        *string

	CenterID       int64
	TechnicianName string
	SlotLabel      string
	StartTime      types.TimeString
	EndTime        types.TimeString
}

// Key returns the ledger tuple identifying the slot.
func (s *TechnicianTimeSlot) Key() SlotKey {
	return SlotKey{TechnicianID: s.TechnicianID, WorkDate: s.WorkDate, SlotID: s.SlotID}
}

// IsFree returns true if nothing occupies the slot.
func (s *TechnicianTimeSlot) IsFree() bool {
	return s.IsAvailable && s.BookingID == nil
}

// SlotKey identifies a technician slot in the ledger.
type SlotKey struct {
	TechnicianID int64
	WorkDate     time.Time
	SlotID       int64
}

// AvailableSlot is a technician slot as offered to a customer choosing a time.
type AvailableSlot struct {
	TechnicianSlotID int64
	TechnicianID     int64
	TechnicianName   string
	SlotID           int64
	Label            string
	StartTime        types.TimeString
	EndTime          types.TimeString
	IsAvailable      bool
}

// DurationMinutes returns the slot length, or 0 if the times are malformed.
func (s *AvailableSlot) DurationMinutes() int {
	start, err := s.StartTime.Minutes()
	if err != nil {
		return 0
	}
	end, err := s.EndTime.Minutes()
	if err != nil {
		return 0
	}
	return end - start
}
