package slotledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	techslotRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/techslot"
)

const (
	opReserve = "reserve"
	opAttach  = "attach"
	opRelease = "release"

	outcomeOK       = "ok"
	outcomeConflict = "conflict"
	outcomeMissing  = "missing"
	outcomeError    = "error"
)

type nopMetrics struct{}

func (nopMetrics) RecordSlotOperation(string, string) {}

// Ledger занятость слотов техников: единица эксклюзивности (техник, дата, слот дня).
// Каждая операция записывается в аудит-лог.
type Ledger struct {
	repo    Repository
	metrics Metrics
	logger  Logger
}

// NewLedger создает ledger слотов
func NewLedger(repo Repository, metrics Metrics, logger Logger) *Ledger {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Ledger{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// Get возвращает слот техника по ID
func (l *Ledger) Get(ctx context.Context, id int64) (*domain.TechnicianTimeSlot, error) {
	slot, err := l.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, techslotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return slot, nil
}

// ListForCenter возвращает все слоты техников центра на дату
func (l *Ledger) ListForCenter(ctx context.Context, centerID int64, date time.Time) ([]*domain.TechnicianTimeSlot, error) {
	slots, err := l.repo.ListByCenterAndDate(ctx, centerID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForCenter - repository error: %v", ErrInternal, err)
	}
	return slots, nil
}

// IsAvailable проверяет, что слот не занят активным бронированием.
// Результат носит рекомендательный характер: между проверкой и Reserve слот могут занять.
func (l *Ledger) IsAvailable(ctx context.Context, key domain.SlotKey) (bool, error) {
	available, err := l.repo.IsAvailable(ctx, key)
	if err != nil {
		if errors.Is(err, techslotRepo.ErrSlotNotFound) {
			return false, ErrSlotNotFound
		}
		return false, fmt.Errorf("%w: IsAvailable - repository error: %v", ErrInternal, err)
	}
	return available, nil
}

// Reserve помечает слот занятым. bookingID может быть nil: тогда ID привязывается позже через AttachBooking.
// Возвращает false, если слот уже занят.
func (l *Ledger) Reserve(ctx context.Context, key domain.SlotKey, bookingID *int64) (bool, error) {
	ok, err := l.repo.Reserve(ctx, key, bookingID)
	if err != nil {
		l.metrics.RecordSlotOperation(opReserve, outcomeError)
		l.logger.Error("Reserve: technician=%d date=%s slot=%d: %v",
			key.TechnicianID, key.WorkDate.Format(domain.DateFormat), key.SlotID, err)
		return false, fmt.Errorf("%w: Reserve - repository error: %v", ErrInternal, err)
	}

	if !ok {
		l.metrics.RecordSlotOperation(opReserve, outcomeConflict)
		l.logger.Warn("Reserve: slot already taken technician=%d date=%s slot=%d",
			key.TechnicianID, key.WorkDate.Format(domain.DateFormat), key.SlotID)
		return false, nil
	}

	l.metrics.RecordSlotOperation(opReserve, outcomeOK)
	l.logger.Info("Reserve: slot reserved technician=%d date=%s slot=%d",
		key.TechnicianID, key.WorkDate.Format(domain.DateFormat), key.SlotID)
	return true, nil
}

// AttachBooking привязывает ID сохраненного бронирования к зарезервированному слоту
func (l *Ledger) AttachBooking(ctx context.Context, key domain.SlotKey, bookingID int64) error {
	if err := l.repo.AttachBooking(ctx, key, bookingID); err != nil {
		if errors.Is(err, techslotRepo.ErrSlotNotReserved) {
			l.metrics.RecordSlotOperation(opAttach, outcomeConflict)
			l.logger.Warn("AttachBooking: slot not reserved technician=%d date=%s slot=%d booking=%d",
				key.TechnicianID, key.WorkDate.Format(domain.DateFormat), key.SlotID, bookingID)
			return ErrSlotNotReserved
		}
		l.metrics.RecordSlotOperation(opAttach, outcomeError)
		return fmt.Errorf("%w: AttachBooking - repository error: %v", ErrInternal, err)
	}

	l.metrics.RecordSlotOperation(opAttach, outcomeOK)
	l.logger.Info("AttachBooking: booking=%d attached to technician=%d date=%s slot=%d",
		bookingID, key.TechnicianID, key.WorkDate.Format(domain.DateFormat), key.SlotID)
	return nil
}

// Release освобождает слот. Возвращает false, если слот не найден.
func (l *Ledger) Release(ctx context.Context, key domain.SlotKey) (bool, error) {
	ok, err := l.repo.Release(ctx, key)
	if err != nil {
		l.metrics.RecordSlotOperation(opRelease, outcomeError)
		return false, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	if !ok {
		l.metrics.RecordSlotOperation(opRelease, outcomeMissing)
		l.logger.Warn("Release: slot not found technician=%d date=%s slot=%d",
			key.TechnicianID, key.WorkDate.Format(domain.DateFormat), key.SlotID)
		return false, nil
	}

	l.metrics.RecordSlotOperation(opRelease, outcomeOK)
	l.logger.Info("Release: slot released technician=%d date=%s slot=%d",
		key.TechnicianID, key.WorkDate.Format(domain.DateFormat), key.SlotID)
	return true, nil
}
