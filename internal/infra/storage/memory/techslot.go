package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	techslotRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/techslot"
)

// TechSlotRepository in-memory аналог techslot.Repository
type TechSlotRepository struct {
	s *Store
}

// joinLocked дополняет слот данными техника и каталога, как JOIN в SQL-репозитории
func (r *TechSlotRepository) joinLocked(ts domain.TechnicianTimeSlot) *domain.TechnicianTimeSlot {
	if tech, ok := r.s.st.technicians[ts.TechnicianID]; ok {
		ts.CenterID = tech.CenterID
		ts.TechnicianName = tech.FullName
	}
	if slot, ok := r.s.st.timeSlots[ts.SlotID]; ok {
		ts.SlotLabel = slot.Label
		ts.StartTime = slot.StartTime
		ts.EndTime = slot.EndTime
	}
	return &ts
}

func (r *TechSlotRepository) findLocked(key domain.SlotKey) (domain.TechnicianTimeSlot, bool) {
	for _, ts := range r.s.st.techSlots {
		if ts.TechnicianID == key.TechnicianID && ts.SlotID == key.SlotID && sameDate(ts.WorkDate, key.WorkDate) {
			return ts, true
		}
	}
	return domain.TechnicianTimeSlot{}, false
}

func (r *TechSlotRepository) GetByID(_ context.Context, id int64) (*domain.TechnicianTimeSlot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ts, ok := r.s.st.techSlots[id]
	if !ok {
		return nil, techslotRepo.ErrSlotNotFound
	}
	return r.joinLocked(ts), nil
}

func (r *TechSlotRepository) ListByCenterAndDate(_ context.Context, centerID int64, date time.Time) ([]*domain.TechnicianTimeSlot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.TechnicianTimeSlot, 0)
	for _, ts := range r.s.st.techSlots {
		tech, ok := r.s.st.technicians[ts.TechnicianID]
		if !ok || tech.CenterID != centerID || !tech.IsActive || !sameDate(ts.WorkDate, date) {
			continue
		}
		result = append(result, r.joinLocked(ts))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].TechnicianName < result[j].TechnicianName
	})
	return result, nil
}

func (r *TechSlotRepository) IsAvailable(_ context.Context, key domain.SlotKey) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ts, ok := r.findLocked(key)
	if !ok {
		return false, techslotRepo.ErrSlotNotFound
	}
	return ts.IsFree(), nil
}

func (r *TechSlotRepository) Reserve(_ context.Context, key domain.SlotKey, bookingID *int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("techslot.Reserve"); err != nil {
		return false, err
	}

	ts, ok := r.findLocked(key)
	if !ok || !ts.IsFree() {
		return false, nil
	}

	ts.IsAvailable = false
	ts.BookingID = bookingID
	r.s.st.techSlots[ts.ID] = ts
	return true, nil
}

func (r *TechSlotRepository) AttachBooking(_ context.Context, key domain.SlotKey, bookingID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("techslot.AttachBooking"); err != nil {
		return err
	}

	ts, ok := r.findLocked(key)
	if !ok || ts.IsAvailable || (ts.BookingID != nil && *ts.BookingID != bookingID) {
		return techslotRepo.ErrSlotNotReserved
	}

	id := bookingID
	ts.BookingID = &id
	r.s.st.techSlots[ts.ID] = ts
	return nil
}

func (r *TechSlotRepository) Release(_ context.Context, key domain.SlotKey) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ts, ok := r.findLocked(key)
	if !ok {
		return false, nil
	}

	ts.IsAvailable = true
	ts.BookingID = nil
	r.s.st.techSlots[ts.ID] = ts
	return true, nil
}
