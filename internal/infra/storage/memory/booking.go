package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/booking"
)

// BookingRepository in-memory аналог booking.Repository
type BookingRepository struct {
	s *Store
}

// slotTakenLocked проверяет уникальность technician_slot_id среди остальных бронирований
func (r *BookingRepository) slotTakenLocked(slotID *int64, exceptID int64) bool {
	if slotID == nil {
		return false
	}
	for id, b := range r.s.st.bookings {
		if id == exceptID || b.TechnicianSlotID == nil {
			continue
		}
		if *b.TechnicianSlotID == *slotID {
			return true
		}
	}
	return false
}

func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("booking.Create"); err != nil {
		return nil, err
	}
	if r.slotTakenLocked(booking.TechnicianSlotID, 0) {
		return nil, bookingRepo.ErrSlotAlreadyTaken
	}

	now := r.s.now()
	booking.ID = r.s.nextID()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.s.st.bookings[booking.ID] = *booking

	return booking, nil
}

func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.st.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) GetByCustomerID(_ context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.s.st.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		b := b
		result = append(result, &b)
	}
	sortBookingsDesc(result)
	return result, nil
}

func (r *BookingRepository) GetByCenterWithFilter(_ context.Context, filter domain.CenterBookingsFilter) ([]*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.s.st.bookings {
		if b.CenterID != filter.CenterID {
			continue
		}
		if filter.Date != nil && !sameDate(b.BookingDate, *filter.Date) {
			continue
		}
		if filter.Status != nil {
			if b.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeCancelled && b.Status == domain.StatusCancelled {
			continue
		}
		b := b
		result = append(result, &b)
	}

	if filter.Date != nil {
		sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	} else {
		sortBookingsDesc(result)
	}
	return result, nil
}

func (r *BookingRepository) Update(_ context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("booking.Update"); err != nil {
		return err
	}

	stored, ok := r.s.st.bookings[booking.ID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if r.slotTakenLocked(booking.TechnicianSlotID, booking.ID) {
		return bookingRepo.ErrSlotAlreadyTaken
	}

	stored.Status = booking.Status
	stored.TechnicianSlotID = booking.TechnicianSlotID
	stored.AppliedCreditID = booking.AppliedCreditID
	stored.CancellationReason = booking.CancellationReason
	stored.CancelledAt = booking.CancelledAt
	stored.UpdatedAt = r.s.now()
	r.s.st.bookings[booking.ID] = stored

	booking.UpdatedAt = stored.UpdatedAt
	return nil
}

func sortBookingsDesc(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].BookingDate.Equal(bookings[j].BookingDate) {
			return bookings[i].BookingDate.After(bookings[j].BookingDate)
		}
		return bookings[i].ID > bookings[j].ID
	})
}
