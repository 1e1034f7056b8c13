package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidCenterID = "некорректный ID сервисного центра"
	msgMissingDate     = "дата обязательна"
	msgInvalidParams   = "некорректные параметры запроса, дата ожидается в формате YYYY-MM-DD"
	msgCenterNotFound  = "сервисный центр не найден"
	msgCenterInactive  = "сервисный центр не принимает записи"
	msgDateInPast      = "дата в прошлом"
	msgDateTooFar      = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/centers/{centerId}/available-slots
// Query params: date (required, YYYY-MM-DD), only_available (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	centerID, err := strconv.ParseInt(mux.Vars(r)["centerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /centers/{id}/available-slots - Invalid center ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCenterID)
		return
	}

	query := r.URL.Query()
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /centers/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(centerID, dateStr, query.Get("only_available"))
	if err != nil {
		h.logger.Warn("GET /centers/{id}/available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrCenterNotFound):
			h.logger.Warn("GET /centers/{id}/available-slots - Center not found: center_id=%d", centerID)
			handlers.RespondNotFound(w, msgCenterNotFound)

		case errors.Is(err, getAvailableSlots.ErrCenterInactive):
			handlers.RespondBadRequest(w, msgCenterInactive)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /centers/{id}/available-slots - Failed to get slots: center_id=%d, error=%v",
				centerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /centers/{id}/available-slots - Slots retrieved: center_id=%d, date=%s, count=%d",
		centerID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
