package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/booking"
	directoryRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/directory"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/pricing"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/slotledger"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/pgerr"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/ptr"
)

type nopMetrics struct{}

func (nopMetrics) RecordBookingCreated(string) {}
func (nopMetrics) RecordSlotConflict()         {}

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo BookingRepository
	directory   Directory
	slots       SlotLedger
	pricing     PricingResolver
	credits     CreditLedger
	seeder      ChecklistSeeder
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
	directory Directory,
	slots SlotLedger,
	pricing PricingResolver,
	credits CreditLedger,
	seeder ChecklistSeeder,
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
		directory:   directory,
		slots:       slots,
		pricing:     pricing,
		credits:     credits,
		seeder:      seeder,
		outbox:      outbox,
		composer:    composer,
		txManager:   txManager,
		metrics:     metrics,
		clock:       clock,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования.
// Резерв слота, запись бронирования, привязка слота и событие outbox
// выполняются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingView, error) {
	uc.logger.Info("CreateBooking: customer=%d, vehicle=%d, center=%d, slot=%d, date=%s",
		req.CustomerID, req.VehicleID, req.CenterID, req.TechnicianSlotID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Клиент бронирует только за себя
	if !req.Actor.CanAccessCustomer(req.CustomerID) {
		uc.logger.Warn("CreateBooking: user=%d cannot book for customer=%d", req.Actor.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	// 3. Проверяем клиента
	if _, err := uc.directory.GetCustomer(ctx, req.CustomerID); err != nil {
		if errors.Is(err, directoryRepo.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	// 4. Проверяем автомобиль и его владельца
	vehicle, err := uc.directory.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, directoryRepo.ErrVehicleNotFound) {
			uc.logger.Warn("CreateBooking: vehicle id=%d not found", req.VehicleID)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CreateBooking: failed to get vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}
	if vehicle.CustomerID != req.CustomerID {
		uc.logger.Warn("CreateBooking: vehicle id=%d belongs to customer=%d, not %d",
			vehicle.ID, vehicle.CustomerID, req.CustomerID)
		return nil, ErrVehicleNotOwned
	}

	// 5. Проверяем сервисный центр
	center, err := uc.directory.GetCenter(ctx, req.CenterID)
	if err != nil {
		if errors.Is(err, directoryRepo.ErrCenterNotFound) {
			uc.logger.Warn("CreateBooking: center id=%d not found", req.CenterID)
			return nil, ErrCenterNotFound
		}
		uc.logger.Error("CreateBooking: failed to get center id=%d: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: failed to get center: %v", ErrInternal, err)
	}
	if !center.IsActive {
		uc.logger.Warn("CreateBooking: center id=%d is not active", center.ID)
		return nil, ErrCenterInactive
	}

	// 6. Дата бронирования не может быть в прошлом
	now := uc.clock.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrDateInPast
	}

	// 7. Проверяем слот техника
	slot, err := uc.slots.Get(ctx, req.TechnicianSlotID)
	if err != nil {
		if errors.Is(err, slotledger.ErrSlotNotFound) {
			uc.logger.Warn("CreateBooking: technician slot id=%d not found", req.TechnicianSlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CreateBooking: failed to get technician slot id=%d: %v", req.TechnicianSlotID, err)
		return nil, fmt.Errorf("%w: failed to get technician slot: %v", ErrInternal, err)
	}
	if err := validateSlot(slot, req, now); err != nil {
		uc.logger.Warn("CreateBooking: slot id=%d validation failed: %v", slot.ID, err)
		return nil, err
	}

	technician, err := uc.directory.GetTechnician(ctx, slot.TechnicianID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get technician id=%d: %v", slot.TechnicianID, err)
		return nil, fmt.Errorf("%w: failed to get technician: %v", ErrInternal, err)
	}
	if !technician.IsActive {
		uc.logger.Warn("CreateBooking: technician id=%d is not active", technician.ID)
		return nil, ErrTechnicianInactive
	}

	// 8. Рассчитываем стоимость по услуге или пакету
	quote, err := uc.pricing.Resolve(ctx, pricing.Selection{
		ServiceID:   req.ServiceID,
		PackageCode: req.PackageCode,
	})
	if err != nil {
		mapped := mapPricingError(err)
		if errors.Is(mapped, ErrInternal) {
			uc.logger.Error("CreateBooking: pricing failed: %v", err)
		} else {
			uc.logger.Warn("CreateBooking: pricing rejected: %v", err)
		}
		return nil, mapped
	}

	// 9. Предварительная проверка доступности слота
	key := slot.Key()
	available, err := uc.slots.IsAvailable(ctx, key)
	if err != nil {
		if errors.Is(err, slotledger.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CreateBooking: availability check failed for slot id=%d: %v", slot.ID, err)
		return nil, fmt.Errorf("%w: failed to check slot availability: %v", ErrInternal, err)
	}
	if !available {
		uc.logger.Warn("CreateBooking: slot id=%d is not available", slot.ID)
		return nil, &SlotUnavailableError{
			TechnicianName: slot.TechnicianName,
			Label:          slot.SlotLabel,
			Date:           slot.WorkDate,
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
		}
	}

	mileage := req.Mileage
	if mileage == nil {
		mileage = ptr.Ptr(vehicle.Mileage)
	}

	var result *domain.Booking

	// 10. Резерв слота и запись бронирования в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking := &domain.Booking{
			CustomerID:       req.CustomerID,
			VehicleID:        req.VehicleID,
			CenterID:         req.CenterID,
			TechnicianSlotID: ptr.Ptr(slot.ID),
			BookingDate:      dateOnly(req.Date),
			Status:           domain.StatusPending,
			SpecialRequest:   req.SpecialRequest,
			Mileage:          mileage,
			LicensePlate:     ptr.Ptr(vehicle.LicensePlate),
			TotalAmount:      quote.Amount,
		}

		// 10.1. Для пакета находим или создаем кредит клиента
		if quote.IsPackage() {
			credit, created, err := uc.credits.FindOrCreateForPackage(txCtx, req.CustomerID, quote.Package)
			if err != nil {
				return fmt.Errorf("%w: failed to apply package credit: %v", ErrInternal, err)
			}
			if created {
				uc.logger.Info("CreateBooking: credit id=%d created for package %s", credit.ID, quote.Package.Code)
			}
			booking.PackageID = ptr.Ptr(quote.Package.ID)
			booking.AppliedCreditID = ptr.Ptr(credit.ID)
		} else {
			booking.ServiceID = ptr.Ptr(quote.Service.ID)
		}

		// 10.2. Занимаем слот
		reserved, err := uc.slots.Reserve(txCtx, key, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}
		if !reserved {
			return ErrSlotAlreadyTaken
		}

		// 10.3. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotAlreadyTaken) {
				return ErrSlotAlreadyTaken
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 10.4. Привязываем бронирование к слоту
		if err := uc.slots.AttachBooking(txCtx, key, created.ID); err != nil {
			if errors.Is(err, slotledger.ErrSlotNotReserved) {
				return ErrSlotAlreadyTaken
			}
			return fmt.Errorf("%w: failed to attach booking to slot: %v", ErrInternal, err)
		}

		// 10.5. Событие о создании бронирования
		if err := uc.enqueueCreated(txCtx, created, req.Actor.UserID, now); err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotAlreadyTaken) || pgerr.IsRetryable(err) {
			uc.metrics.RecordSlotConflict()
			uc.logger.Warn("CreateBooking: slot id=%d lost to a concurrent booking: %v", slot.ID, err)
			return nil, ErrSlotAlreadyTaken
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 11. Чек-лист по шаблону услуги; ошибка не отменяет бронирование
	if _, err := uc.seeder.Seed(ctx, result.ID, quote.Service.ID); err != nil {
		uc.logger.Warn("CreateBooking: checklist for booking id=%d not created: %v", result.ID, err)
	}

	uc.metrics.RecordBookingCreated(quote.PricingSource())
	uc.logger.Info("CreateBooking: successfully created booking id=%d, amount=%.2f, pricing=%s",
		result.ID, result.TotalAmount, quote.PricingSource())

	return uc.composer.Compose(ctx, result), nil
}

func (uc *UseCase) enqueueCreated(ctx context.Context, booking *domain.Booking, actorID int64, now time.Time) error {
	payload, err := json.Marshal(domain.BookingEvent{
		BookingID:        booking.ID,
		CustomerID:       booking.CustomerID,
		CenterID:         booking.CenterID,
		TechnicianSlotID: booking.TechnicianSlotID,
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
		EventType:     domain.EventBookingCreated,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to enqueue booking event: %v", ErrInternal, err)
	}
	return nil
}
