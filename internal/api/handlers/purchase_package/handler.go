package purchase_package

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/middleware"
	purchasePackage "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/purchase_package"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные покупки"
	msgForbidden          = "нельзя покупать пакеты за другого клиента"
	msgCustomerNotFound   = "клиент не найден"
	msgPackageNotFound    = "пакет не найден"
	msgPackageInactive    = "пакет недоступен"
	msgPackageExpired     = "срок действия пакета истек"
)

type Handler struct {
	useCase PurchasePackageUseCase
	logger  Logger
}

func NewHandler(useCase PurchasePackageUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/credits
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /credits - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req PurchasePackageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /credits - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, purchasePackage.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		case errors.Is(err, purchasePackage.ErrAccessDenied):
			h.logger.Warn("POST /credits - Access denied: customer_id=%d, user_id=%d", req.CustomerID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, purchasePackage.ErrCustomerNotFound):
			handlers.RespondNotFound(w, msgCustomerNotFound)
		case errors.Is(err, purchasePackage.ErrPackageNotFound):
			handlers.RespondNotFound(w, msgPackageNotFound)
		case errors.Is(err, purchasePackage.ErrPackageInactive):
			handlers.RespondBadRequest(w, msgPackageInactive)
		case errors.Is(err, purchasePackage.ErrPackageExpired):
			handlers.RespondBadRequest(w, msgPackageExpired)
		default:
			h.logger.Error("POST /credits - Failed to purchase package: customer_id=%d, package=%s, error=%v",
				req.CustomerID, req.PackageCode, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /credits - Package purchased: credit_id=%d, customer_id=%d, package=%s",
		result.Credit.ID, req.CustomerID, req.PackageCode)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
