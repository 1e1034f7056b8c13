package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные бронирования"
	msgPricingSelection   = "нужно указать ровно одно из: serviceId или packageCode"
	msgForbidden          = "нельзя создавать бронирования от имени другого клиента"
	msgCustomerNotFound   = "клиент не найден"
	msgVehicleNotFound    = "автомобиль не найден"
	msgCenterNotFound     = "сервисный центр не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgPackageNotFound    = "пакет не найден"
	msgSlotNotFound       = "слот техника не найден"
	msgVehicleNotOwned    = "автомобиль не принадлежит клиенту"
	msgCenterInactive     = "сервисный центр не принимает записи"
	msgDateInPast         = "дата бронирования в прошлом"
	msgSlotNotInCenter    = "слот техника не относится к выбранному центру"
	msgTechnicianInactive = "техник недоступен"
	msgSlotDateMismatch   = "дата слота не совпадает с датой бронирования"
	msgSlotInPast         = "время слота уже прошло"
	msgServiceInactive    = "услуга недоступна"
	msgPackageInactive    = "пакет недоступен"
	msgPackageExpired     = "срок действия пакета истек"
	msgSlotAlreadyTaken   = "слот только что заняли, выберите другой"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse booking date %q: %v", req.BookingDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondUseCaseError(w, &req, err)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d, center_id=%d",
		result.ID, req.CustomerID, req.CenterID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, req *CreateBookingRequest, err error) {
	var unavailable *createBooking.SlotUnavailableError

	switch {
	case errors.As(err, &unavailable):
		// Сообщение содержит техника, дату и время слота
		h.logger.Warn("POST /bookings - Slot unavailable: technician_slot_id=%d, center_id=%d",
			req.TechnicianSlotID, req.CenterID)
		handlers.RespondBadRequest(w, unavailable.Error())

	case errors.Is(err, createBooking.ErrSlotAlreadyTaken):
		h.logger.Warn("POST /bookings - Slot already taken: technician_slot_id=%d, center_id=%d",
			req.TechnicianSlotID, req.CenterID)
		handlers.RespondConflict(w, msgSlotAlreadyTaken)

	case errors.Is(err, createBooking.ErrAccessDenied):
		h.logger.Warn("POST /bookings - Access denied: customer_id=%d", req.CustomerID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, createBooking.ErrCustomerNotFound):
		handlers.RespondNotFound(w, msgCustomerNotFound)
	case errors.Is(err, createBooking.ErrVehicleNotFound):
		handlers.RespondNotFound(w, msgVehicleNotFound)
	case errors.Is(err, createBooking.ErrCenterNotFound):
		handlers.RespondNotFound(w, msgCenterNotFound)
	case errors.Is(err, createBooking.ErrServiceNotFound):
		handlers.RespondNotFound(w, msgServiceNotFound)
	case errors.Is(err, createBooking.ErrPackageNotFound):
		handlers.RespondNotFound(w, msgPackageNotFound)
	case errors.Is(err, createBooking.ErrSlotNotFound):
		handlers.RespondNotFound(w, msgSlotNotFound)

	case errors.Is(err, createBooking.ErrPricingSelection):
		handlers.RespondBadRequest(w, msgPricingSelection)
	case errors.Is(err, createBooking.ErrVehicleNotOwned):
		handlers.RespondBadRequest(w, msgVehicleNotOwned)
	case errors.Is(err, createBooking.ErrCenterInactive):
		handlers.RespondBadRequest(w, msgCenterInactive)
	case errors.Is(err, createBooking.ErrDateInPast):
		handlers.RespondBadRequest(w, msgDateInPast)
	case errors.Is(err, createBooking.ErrSlotNotInCenter):
		handlers.RespondBadRequest(w, msgSlotNotInCenter)
	case errors.Is(err, createBooking.ErrTechnicianInactive):
		handlers.RespondBadRequest(w, msgTechnicianInactive)
	case errors.Is(err, createBooking.ErrSlotDateMismatch):
		handlers.RespondBadRequest(w, msgSlotDateMismatch)
	case errors.Is(err, createBooking.ErrSlotInPast):
		handlers.RespondBadRequest(w, msgSlotInPast)
	case errors.Is(err, createBooking.ErrServiceInactive):
		handlers.RespondBadRequest(w, msgServiceInactive)
	case errors.Is(err, createBooking.ErrPackageInactive):
		handlers.RespondBadRequest(w, msgPackageInactive)
	case errors.Is(err, createBooking.ErrPackageExpired):
		handlers.RespondBadRequest(w, msgPackageExpired)
	case errors.Is(err, createBooking.ErrInvalidInput):
		h.logger.Warn("POST /bookings - Invalid input: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, center_id=%d, error=%v",
			req.CustomerID, req.CenterID, err)
		handlers.RespondInternalError(w)
	}
}
