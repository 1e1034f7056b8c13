package get_customer_credits

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
)

// Request модель запроса списка кредитов
type Request struct {
	Actor      domain.Actor
	CustomerID int64
	OnlyUsable bool // Только кредиты, которые можно применить сейчас
}

// UseCase use case получения кредитов клиента
type UseCase struct {
	credits CreditLister
	clock   Clock
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(credits CreditLister, clock Clock, logger Logger) *UseCase {
	return &UseCase{
		credits: credits,
		clock:   clock,
		logger:  logger,
	}
}

// Execute возвращает кредиты клиента.
// Статус просроченного, но еще не обработанного воркером кредита показывается как EXPIRED.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.CreditListResponse, error) {
	uc.logger.Info("GetCustomerCredits: customer=%d, onlyUsable=%t", req.CustomerID, req.OnlyUsable)

	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}

	if !req.Actor.CanAccessCustomer(req.CustomerID) {
		uc.logger.Warn("GetCustomerCredits: access denied for user=%d to customer=%d", req.Actor.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	credits, err := uc.credits.ListByCustomer(ctx, req.CustomerID)
	if err != nil {
		uc.logger.Error("GetCustomerCredits: failed to list credits for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to list credits: %v", ErrInternal, err)
	}

	now := uc.clock.Now()
	resp := &models.CreditListResponse{Credits: make([]models.CreditInfo, 0, len(credits))}
	for _, c := range credits {
		if req.OnlyUsable && !c.IsUsable(now) {
			continue
		}
		info := models.FromDomainCredit(c)
		if c.Status == domain.CreditStatusActive && c.IsExpired(now) {
			info.Status = string(domain.CreditStatusExpired)
		}
		resp.Credits = append(resp.Credits, *info)
	}

	uc.logger.Info("GetCustomerCredits: %d credits for customer=%d", len(resp.Credits), req.CustomerID)
	return resp, nil
}
