package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/pkg/types"
)

// Request модель запроса на получение слотов техников
type Request struct {
	CenterID      int64     // ID сервисного центра
	Date          time.Time // Дата (без времени)
	OnlyAvailable bool      // Скрыть занятые слоты
}

// Response модель ответа со списком слотов
type Response struct {
	Date     time.Time
	CenterID int64
	Slots    []Slot
}

// Slot слот техника на дату
type Slot struct {
	TechnicianSlotID int64
	TechnicianID     int64
	TechnicianName   string
	SlotID           int64
	Label            string           // Название слота дня, например "Morning"
	StartTime        types.TimeString // Время начала, например "08:00"
	EndTime          types.TimeString
	DurationMinutes  int
	IsAvailable      bool
}
