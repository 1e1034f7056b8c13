package get_customer_credits

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/middleware"
	getCustomerCredits "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/get_customer_credits"
)

const (
	msgInvalidCustomerID = "некорректный ID клиента"
	msgInvalidParams     = "некорректные параметры запроса"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	useCase GetCustomerCreditsUseCase
	logger  Logger
}

func NewHandler(useCase GetCustomerCreditsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/customers/{customerId}/credits?only_usable=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(mux.Vars(r)["customerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /customers/{id}/credits - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /customers/{id}/credits - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var onlyUsable bool
	if raw := r.URL.Query().Get("only_usable"); raw != "" {
		onlyUsable, err = strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getCustomerCredits.Request{
		Actor:      actor,
		CustomerID: customerID,
		OnlyUsable: onlyUsable,
	})
	if err != nil {
		switch {
		case errors.Is(err, getCustomerCredits.ErrAccessDenied):
			h.logger.Warn("GET /customers/{id}/credits - Access denied: customer_id=%d, user_id=%d",
				customerID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, getCustomerCredits.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidCustomerID)

		default:
			h.logger.Error("GET /customers/{id}/credits - Failed to get credits: customer_id=%d, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
