package get_available_slots

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date     string          `json:"date"`
	CenterID int64           `json:"centerId"`
	Slots    []AvailableSlot `json:"slots"`
}

// AvailableSlot слот техника на дату
type AvailableSlot struct {
	TechnicianSlotID int64  `json:"technicianSlotId"`
	TechnicianID     int64  `json:"technicianId"`
	TechnicianName   string `json:"technicianName"`
	SlotID           int64  `json:"slotId"`
	Label            string `json:"label"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	DurationMinutes  int    `json:"durationMinutes"`
	IsAvailable      bool   `json:"isAvailable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			TechnicianSlotID: slot.TechnicianSlotID,
			TechnicianID:     slot.TechnicianID,
			TechnicianName:   slot.TechnicianName,
			SlotID:           slot.SlotID,
			Label:            slot.Label,
			StartTime:        slot.StartTime.String(),
			EndTime:          slot.EndTime.String(),
			DurationMinutes:  slot.DurationMinutes,
			IsAvailable:      slot.IsAvailable,
		}
	}

	return &AvailableSlotsResponse{
		Date:     resp.Date.Format(domain.DateFormat),
		CenterID: resp.CenterID,
		Slots:    slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(centerID int64, dateStr, onlyAvailableStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		CenterID: centerID,
		Date:     date,
	}

	if onlyAvailableStr != "" {
		onlyAvailable, err := strconv.ParseBool(onlyAvailableStr)
		if err != nil {
			return nil, fmt.Errorf("invalid only_available value: %w", err)
		}
		req.OnlyAvailable = onlyAvailable
	}

	return req, nil
}
