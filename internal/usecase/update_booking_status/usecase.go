package update_booking_status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/credits"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/slotledger"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/ptr"
)

type nopMetrics struct{}

func (nopMetrics) RecordTransition(string, string) {}

// UseCase use case для смены статуса бронирования с побочными эффектами перехода
type UseCase struct {
	bookingRepo BookingRepository
	credits     CreditLedger
	slots       SlotLedger
	checklists  ChecklistCanceller
	outbox      OutboxRepository
	composer    ViewComposer
	txManager   TransactionManager
	metrics     Metrics
	clock       Clock
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	credits CreditLedger,
	slots SlotLedger,
	checklists ChecklistCanceller,
	outbox OutboxRepository,
	composer ViewComposer,
	txManager TransactionManager,
	metrics Metrics,
	clock Clock,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{
		bookingRepo: bookingRepo,
		credits:     credits,
		slots:       slots,
		checklists:  checklists,
		outbox:      outbox,
		composer:    composer,
		txManager:   txManager,
		metrics:     metrics,
		clock:       clock,
		logger:      logger,
	}
}

// Execute выполняет смену статуса.
// Бронирование блокируется на время транзакции, побочные эффекты перехода
// (кредит, слот, чек-лист) и событие outbox применяются в той же транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingView, error) {
	uc.logger.Info("UpdateBookingStatus: booking=%d, status=%s, user=%d", req.BookingID, req.Status, req.Actor.UserID)

	// 1. Валидация входных данных
	target, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateBookingStatus: validation failed: %v", err)
		return nil, err
	}

	var (
		result   *domain.Booking
		previous domain.BookingStatus
	)

	// 2. Переход и побочные эффекты в транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем бронирование с блокировкой
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 2.2. Проверяем права
		if !req.Actor.CanSetStatus(booking.CustomerID, target) {
			return ErrAccessDenied
		}

		// 2.3. Проверяем переход по таблице
		if err := booking.Status.ValidateTransition(target); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}

		previous = booking.Status
		now := uc.clock.Now()

		// 2.4. Побочные эффекты
		switch target {
		case domain.StatusCompleted:
			if err := uc.consumeCredit(txCtx, booking); err != nil {
				return err
			}
		case domain.StatusCancelled:
			if err := uc.applyCancellation(txCtx, booking, req.CancellationReason, now); err != nil {
				return err
			}
		}

		// 2.5. Сохраняем бронирование
		booking.Status = target
		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		// 2.6. Событие о смене статуса
		if err := uc.enqueueStatusChanged(txCtx, booking, previous, req.Actor.UserID, now); err != nil {
			return err
		}

		result = booking
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			uc.logger.Warn("UpdateBookingStatus: booking id=%d not found", req.BookingID)
		case errors.Is(err, ErrAccessDenied):
			uc.logger.Warn("UpdateBookingStatus: user=%d may not set %s on booking id=%d",
				req.Actor.UserID, target, req.BookingID)
		case errors.Is(err, ErrInvalidTransition):
			uc.logger.Warn("UpdateBookingStatus: booking id=%d: %v", req.BookingID, err)
		default:
			uc.logger.Error("UpdateBookingStatus: transaction failed for booking id=%d: %v", req.BookingID, err)
		}
		return nil, err
	}

	uc.metrics.RecordTransition(previous.String(), target.String())
	uc.logger.Info("UpdateBookingStatus: booking id=%d moved %s -> %s", result.ID, previous, target)

	return uc.composer.Compose(ctx, result), nil
}

// consumeCredit списывает одну единицу кредита при завершении.
// Неактивный или истекший кредит не мешает завершению.
func (uc *UseCase) consumeCredit(ctx context.Context, booking *domain.Booking) error {
	if booking.AppliedCreditID == nil {
		return nil
	}

	consumed, err := uc.credits.ConsumeForBooking(ctx, *booking.AppliedCreditID)
	if err != nil {
		return fmt.Errorf("%w: failed to consume credit: %v", ErrInternal, err)
	}
	if !consumed {
		uc.logger.Warn("UpdateBookingStatus: credit id=%d of booking id=%d was not consumed",
			*booking.AppliedCreditID, booking.ID)
	}
	return nil
}

// applyCancellation возвращает кредит, освобождает слот и отменяет чек-лист
func (uc *UseCase) applyCancellation(ctx context.Context, booking *domain.Booking, reason *string, now time.Time) error {
	// Кредит удаляется целиком и ссылка на него очищается
	if booking.AppliedCreditID != nil {
		err := uc.credits.Delete(ctx, *booking.AppliedCreditID)
		if err != nil && !errors.Is(err, credits.ErrCreditNotFound) {
			return fmt.Errorf("%w: failed to refund credit: %v", ErrInternal, err)
		}
		if err != nil {
			uc.logger.Warn("UpdateBookingStatus: credit id=%d of booking id=%d already gone",
				*booking.AppliedCreditID, booking.ID)
		}
		booking.AppliedCreditID = nil
	}

	// Слот освобождается и ссылка на него очищается
	if booking.TechnicianSlotID != nil {
		slot, err := uc.slots.Get(ctx, *booking.TechnicianSlotID)
		switch {
		case err == nil:
			if _, err := uc.slots.Release(ctx, slot.Key()); err != nil {
				return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
			}
		case errors.Is(err, slotledger.ErrSlotNotFound):
			uc.logger.Warn("UpdateBookingStatus: slot id=%d of booking id=%d not found",
				*booking.TechnicianSlotID, booking.ID)
		default:
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		booking.TechnicianSlotID = nil
	}

	// Чек-лист и его строки переходят в CANCELLED
	if _, err := uc.checklists.CancelForBooking(ctx, booking.ID); err != nil {
		return fmt.Errorf("%w: failed to cancel checklist: %v", ErrInternal, err)
	}

	booking.CancelledAt = ptr.Ptr(now)
	if reason != nil {
		if trimmed := strings.TrimSpace(*reason); trimmed != "" {
			booking.CancellationReason = ptr.Ptr(trimmed)
		}
	}
	return nil
}

func (uc *UseCase) enqueueStatusChanged(ctx context.Context, booking *domain.Booking, previous domain.BookingStatus, actorID int64, now time.Time) error {
	payload, err := json.Marshal(domain.BookingEvent{
		BookingID:        booking.ID,
		CustomerID:       booking.CustomerID,
		CenterID:         booking.CenterID,
		TechnicianSlotID: booking.TechnicianSlotID,
		PreviousStatus:   previous.String(),
		Status:           booking.Status.String(),
		TotalAmount:      booking.TotalAmount,
		AppliedCreditID:  booking.AppliedCreditID,
		ActorID:          actorID,
		OccurredAt:       now.UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal booking event: %v", ErrInternal, err)
	}

	_, err = uc.outbox.Enqueue(ctx, domain.OutboxMessage{
		AggregateType: domain.AggregateBooking,
		AggregateID:   strconv.FormatInt(booking.ID, 10),
		EventType:     domain.EventBookingStatusChanged,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to enqueue booking event: %v", ErrInternal, err)
	}
	return nil
}
