package get_center_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings"
)

const (
	msgInvalidCenterID = "некорректный ID сервисного центра"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidParams   = "некорректные параметры запроса"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/centers/{centerId}/bookings
// Query params: date, status, include_cancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	centerIDStr := vars["centerId"]

	centerID, err := strconv.ParseInt(centerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /centers/{id}/bookings - Invalid center ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCenterID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /centers/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(centerID, actor, query.Get("status"), query.Get("date"), query.Get("include_cancelled"))
	if err != nil {
		h.logger.Warn("GET /centers/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит, что вызывающий сотрудник
	result, err := h.service.GetCenterBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /centers/{id}/bookings - Access denied: center_id=%d, user_id=%d",
				centerID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /centers/{id}/bookings - Failed to get bookings: center_id=%d, error=%v",
				centerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /centers/{id}/bookings - Bookings retrieved successfully: center_id=%d, count=%d",
		centerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
