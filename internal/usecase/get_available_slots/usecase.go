package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	directoryRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/directory"
)

// UseCase use case для получения слотов техников центра на дату
type UseCase struct {
	directory          Directory
	slots              SlotLister
	clock              Clock
	logger             Logger
	advanceBookingDays int
}

// NewUseCase создает новый экземпляр use case.
// advanceBookingDays = 0 снимает ограничение на дальность даты.
func NewUseCase(
	directory Directory,
	slots SlotLister,
	clock Clock,
	logger Logger,
	advanceBookingDays int,
) *UseCase {
	return &UseCase{
		directory:          directory,
		slots:              slots,
		clock:              clock,
		logger:             logger,
		advanceBookingDays: advanceBookingDays,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: center=%d, date=%s, onlyAvailable=%t",
		req.CenterID, req.Date.Format(domain.DateFormat), req.OnlyAvailable)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.clock.Now()

	// 3. Валидация даты
	if err := validateDate(req.Date, now, uc.advanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем центр
	center, err := uc.directory.GetCenter(ctx, req.CenterID)
	if err != nil {
		if errors.Is(err, directoryRepo.ErrCenterNotFound) {
			uc.logger.Warn("GetAvailableSlots: center id=%d not found", req.CenterID)
			return nil, ErrCenterNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get center id=%d: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: failed to get center: %v", ErrInternal, err)
	}
	if !center.IsActive {
		uc.logger.Warn("GetAvailableSlots: center id=%d is not active", req.CenterID)
		return nil, ErrCenterInactive
	}

	// 5. Получаем слоты техников центра
	techSlots, err := uc.slots.ListForCenter(ctx, req.CenterID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots for center=%d: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 6. Отбрасываем начавшиеся слоты и формируем ответ
	slots := buildSlots(techSlots, req.Date, now, req.OnlyAvailable)

	uc.logger.Info("GetAvailableSlots: %d slots for center=%d, date=%s",
		len(slots), req.CenterID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:     req.Date,
		CenterID: req.CenterID,
		Slots:    slots,
	}, nil
}
