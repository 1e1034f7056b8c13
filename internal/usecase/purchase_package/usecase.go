package purchase_package

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	directoryRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/directory"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/credits"
)

// UseCase use case покупки пакета услуг
type UseCase struct {
	directory Directory
	credits   CreditLedger
	outbox    OutboxRepository
	txManager TransactionManager
	clock     Clock
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	directory Directory,
	credits CreditLedger,
	outbox OutboxRepository,
	txManager TransactionManager,
	clock Clock,
	logger Logger,
) *UseCase {
	return &UseCase{
		directory: directory,
		credits:   credits,
		outbox:    outbox,
		txManager: txManager,
		clock:     clock,
		logger:    logger,
	}
}

// Execute создает кредит клиента по коду пакета и пишет событие credit.purchased
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PurchasePackage: customer=%d, package=%s", req.CustomerID, req.PackageCode)

	// 1. Валидация входных данных
	code := strings.TrimSpace(req.PackageCode)
	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}
	if code == "" || len(code) > domain.MaxPackageCodeLength {
		return nil, fmt.Errorf("%w: packageCode is required and must be at most %d characters",
			ErrInvalidInput, domain.MaxPackageCodeLength)
	}

	// 2. Проверяем права
	if !req.Actor.CanAccessCustomer(req.CustomerID) {
		uc.logger.Warn("PurchasePackage: user=%d cannot purchase for customer=%d", req.Actor.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	// 3. Проверяем клиента
	if _, err := uc.directory.GetCustomer(ctx, req.CustomerID); err != nil {
		if errors.Is(err, directoryRepo.ErrCustomerNotFound) {
			uc.logger.Warn("PurchasePackage: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("PurchasePackage: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	var (
		credit *domain.CustomerServiceCredit
		pkg    *domain.ServicePackage
	)

	// 4. Кредит и событие в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		credit, pkg, err = uc.credits.Purchase(txCtx, req.CustomerID, code)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(domain.CreditEvent{
			CreditID:     credit.ID,
			CustomerID:   credit.CustomerID,
			PackageID:    credit.PackageID,
			TotalCredits: credit.TotalCredits,
			ExpiryDate:   credit.ExpiryDate.UTC(),
			OccurredAt:   uc.clock.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("%w: failed to marshal credit event: %v", ErrInternal, err)
		}

		_, err = uc.outbox.Enqueue(txCtx, domain.OutboxMessage{
			AggregateType: domain.AggregateCredit,
			AggregateID:   strconv.FormatInt(credit.ID, 10),
			EventType:     domain.EventCreditPurchased,
			Payload:       payload,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to enqueue credit event: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, credits.ErrPackageNotFound):
			uc.logger.Warn("PurchasePackage: package %s not found", code)
			return nil, ErrPackageNotFound
		case errors.Is(err, credits.ErrPackageInactive):
			uc.logger.Warn("PurchasePackage: package %s is not active", code)
			return nil, ErrPackageInactive
		case errors.Is(err, credits.ErrPackageExpired):
			uc.logger.Warn("PurchasePackage: package %s has expired", code)
			return nil, ErrPackageExpired
		case errors.Is(err, ErrInternal):
			uc.logger.Error("PurchasePackage: %v", err)
			return nil, err
		default:
			uc.logger.Error("PurchasePackage: failed to purchase package %s: %v", code, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("PurchasePackage: credit id=%d purchased by customer=%d", credit.ID, req.CustomerID)

	return &Response{
		Credit:  models.FromDomainCredit(credit),
		Package: models.FromDomainPackage(pkg),
	}, nil
}
