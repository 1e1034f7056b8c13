package update_booking_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/middleware"
	updateStatus "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/update_booking_status"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректный статус или причина отмены"
	msgBookingNotFound    = "бронирование не найдено"
	msgForbidden          = "недостаточно прав для смены статуса"
)

type Handler struct {
	useCase UpdateStatusUseCase
	logger  Logger
}

func NewHandler(useCase UpdateStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &updateStatus.Request{
		Actor:              actor,
		BookingID:          bookingID,
		Status:             req.Status,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		h.respondUseCaseError(w, bookingID, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status updated: booking_id=%d, status=%s, user_id=%d",
		bookingID, result.Status, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, bookingID int64, err error) {
	switch {
	case errors.Is(err, updateStatus.ErrInvalidTransition):
		h.logger.Warn("PATCH /bookings/{id}/status - Transition rejected: booking_id=%d, %v", bookingID, err)
		handlers.RespondBadRequest(w, err.Error())

	case errors.Is(err, updateStatus.ErrInvalidInput):
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid input: booking_id=%d, %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, updateStatus.ErrBookingNotFound):
		h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
		handlers.RespondNotFound(w, msgBookingNotFound)

	case errors.Is(err, updateStatus.ErrAccessDenied):
		h.logger.Warn("PATCH /bookings/{id}/status - Access denied: booking_id=%d", bookingID)
		handlers.RespondForbidden(w, msgForbidden)

	default:
		h.logger.Error("PATCH /bookings/{id}/status - Failed to update status: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
	}
}
