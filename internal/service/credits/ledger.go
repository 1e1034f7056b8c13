package credits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	creditRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/credit"
	packageRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/servicepackage"
)

type nopMetrics struct{}

func (nopMetrics) RecordCreditConsumed(int)   {}
func (nopMetrics) RecordCreditRefunded()      {}
func (nopMetrics) RecordCreditDeleted()       {}
func (nopMetrics) RecordCreditsExpired(int64) {}

// Ledger учет кредитов клиентов по пакетам услуг.
// Инвариант: 0 <= used <= total, остаток никогда не уходит в минус.
type Ledger struct {
	repo         Repository
	packages     PackageRepository
	metrics      Metrics
	clock        Clock
	logger       Logger
	validityDays int
}

// NewLedger создает ledger кредитов. validityDays <= 0 означает срок по умолчанию.
func NewLedger(
	repo Repository,
	packages PackageRepository,
	metrics Metrics,
	clock Clock,
	logger Logger,
	validityDays int,
) *Ledger {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if validityDays <= 0 {
		validityDays = domain.DefaultCreditValidityDays
	}
	return &Ledger{
		repo:         repo,
		packages:     packages,
		metrics:      metrics,
		clock:        clock,
		logger:       logger,
		validityDays: validityDays,
	}
}

// Get возвращает кредит по ID
func (l *Ledger) Get(ctx context.Context, id int64) (*domain.CustomerServiceCredit, error) {
	credit, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return nil, l.mapRepoError("Get", err)
	}
	return credit, nil
}

// ListByCustomer возвращает все кредиты клиента
func (l *Ledger) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.CustomerServiceCredit, error) {
	credits, err := l.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}
	return credits, nil
}

// Purchase создает кредит при покупке пакета по коду
func (l *Ledger) Purchase(ctx context.Context, customerID int64, packageCode string) (*domain.CustomerServiceCredit, *domain.ServicePackage, error) {
	pkg, err := l.packages.GetByCode(ctx, packageCode)
	if err != nil {
		if errors.Is(err, packageRepo.ErrPackageNotFound) {
			return nil, nil, ErrPackageNotFound
		}
		return nil, nil, fmt.Errorf("%w: Purchase - get package: %v", ErrInternal, err)
	}

	if !pkg.IsActive {
		return nil, nil, ErrPackageInactive
	}
	if pkg.IsExpired(l.clock.Now()) {
		return nil, nil, ErrPackageExpired
	}

	credit, err := l.create(ctx, customerID, pkg)
	if err != nil {
		return nil, nil, err
	}

	l.logger.Info("Purchase: credit id=%d created for customer=%d package=%s total=%d",
		credit.ID, customerID, pkg.Code, credit.TotalCredits)
	return credit, pkg, nil
}

// FindOrCreateForPackage ищет у клиента пригодный кредит по пакету, а если его нет - создает новый.
// Второй результат true, если кредит создан.
func (l *Ledger) FindOrCreateForPackage(ctx context.Context, customerID int64, pkg *domain.ServicePackage) (*domain.CustomerServiceCredit, bool, error) {
	credit, err := l.repo.FindUsable(ctx, customerID, pkg.ID, l.clock.Now())
	if err == nil {
		l.logger.Info("FindOrCreateForPackage: reusing credit id=%d (remaining=%d) for customer=%d package=%s",
			credit.ID, credit.Remaining(), customerID, pkg.Code)
		return credit, false, nil
	}
	if !errors.Is(err, creditRepo.ErrCreditNotFound) {
		return nil, false, fmt.Errorf("%w: FindOrCreateForPackage - find usable: %v", ErrInternal, err)
	}

	credit, err = l.create(ctx, customerID, pkg)
	if err != nil {
		return nil, false, err
	}

	l.logger.Info("FindOrCreateForPackage: credit id=%d auto-created for customer=%d package=%s total=%d",
		credit.ID, customerID, pkg.Code, credit.TotalCredits)
	return credit, true, nil
}

func (l *Ledger) create(ctx context.Context, customerID int64, pkg *domain.ServicePackage) (*domain.CustomerServiceCredit, error) {
	now := l.clock.Now()

	credit, err := l.repo.Create(ctx, &domain.CustomerServiceCredit{
		CustomerID:   customerID,
		PackageID:    pkg.ID,
		ServiceID:    pkg.ServiceID,
		TotalCredits: pkg.TotalUses,
		UsedCredits:  0,
		PurchaseDate: now,
		ExpiryDate:   now.AddDate(0, 0, l.validityDays),
		Status:       domain.CreditStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create - repository error: %v", ErrInternal, err)
	}
	return credit, nil
}

// Consume списывает n единиц кредита.
// Срок действия проверяется при каждом использовании независимо от сохраненного статуса:
// просроченный ACTIVE кредит помечается EXPIRED и списание отклоняется.
func (l *Ledger) Consume(ctx context.Context, creditID int64, n int) (*domain.CustomerServiceCredit, error) {
	if n <= 0 {
		return nil, ErrInvalidAmount
	}

	credit, err := l.repo.GetByID(ctx, creditID)
	if err != nil {
		return nil, l.mapRepoError("Consume", err)
	}

	if credit.IsExpired(l.clock.Now()) {
		// В транзакции Postgres упавший UPDATE прерывает ее целиком, поэтому ошибку нельзя глотать
		if err := l.markExpired(ctx, credit); err != nil {
			return nil, err
		}
		return nil, ErrCreditExpired
	}
	if credit.Status != domain.CreditStatusActive {
		return nil, ErrCreditInactive
	}
	if credit.Remaining() < n {
		return nil, ErrInsufficientCredits
	}

	updated, err := l.repo.Consume(ctx, creditID, n)
	if err != nil {
		return nil, l.mapRepoError("Consume", err)
	}

	l.metrics.RecordCreditConsumed(n)
	l.logger.Info("Consume: credit id=%d used=%d/%d status=%s",
		updated.ID, updated.UsedCredits, updated.TotalCredits, updated.Status)
	return updated, nil
}

// ConsumeForBooking списывает одну единицу при завершении бронирования.
// Если кредит уже не активен, истек или исчерпан, списание пропускается (false, nil).
func (l *Ledger) ConsumeForBooking(ctx context.Context, creditID int64) (bool, error) {
	_, err := l.Consume(ctx, creditID, 1)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrCreditNotFound),
		errors.Is(err, ErrCreditInactive),
		errors.Is(err, ErrCreditExpired),
		errors.Is(err, ErrInsufficientCredits):
		l.logger.Warn("ConsumeForBooking: credit id=%d not consumed: %v", creditID, err)
		return false, nil
	default:
		return false, err
	}
}

// RefundOne возвращает одну использованную единицу кредита
func (l *Ledger) RefundOne(ctx context.Context, creditID int64) (*domain.CustomerServiceCredit, error) {
	credit, err := l.repo.RefundOne(ctx, creditID)
	if err != nil {
		return nil, l.mapRepoError("RefundOne", err)
	}

	l.metrics.RecordCreditRefunded()
	l.logger.Info("RefundOne: credit id=%d used=%d/%d status=%s",
		credit.ID, credit.UsedCredits, credit.TotalCredits, credit.Status)
	return credit, nil
}

// Delete полностью удаляет кредит: возврат при отмене бронирования восстанавливает кредит целиком
func (l *Ledger) Delete(ctx context.Context, creditID int64) error {
	if err := l.repo.Delete(ctx, creditID); err != nil {
		return l.mapRepoError("Delete", err)
	}

	l.metrics.RecordCreditDeleted()
	l.logger.Info("Delete: credit id=%d deleted as refund", creditID)
	return nil
}

// ExpireOverdue переводит все просроченные ACTIVE кредиты в EXPIRED
func (l *Ledger) ExpireOverdue(ctx context.Context) (int64, error) {
	expired, err := l.repo.ExpireOverdue(ctx, l.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireOverdue - repository error: %v", ErrInternal, err)
	}

	if expired > 0 {
		l.metrics.RecordCreditsExpired(expired)
		l.logger.Info("ExpireOverdue: %d credits marked EXPIRED", expired)
	}
	return expired, nil
}

func (l *Ledger) markExpired(ctx context.Context, credit *domain.CustomerServiceCredit) error {
	if credit.Status != domain.CreditStatusActive {
		return nil
	}
	if err := l.repo.UpdateStatus(ctx, credit.ID, domain.CreditStatusExpired); err != nil {
		l.logger.Error("markExpired: failed to mark credit id=%d as EXPIRED: %v", credit.ID, err)
		return fmt.Errorf("%w: markExpired - update status: %v", ErrInternal, err)
	}
	l.metrics.RecordCreditsExpired(1)
	l.logger.Info("markExpired: credit id=%d expired at %s", credit.ID, credit.ExpiryDate.Format(time.RFC3339))
	return nil
}

func (l *Ledger) mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, creditRepo.ErrCreditNotFound):
		return ErrCreditNotFound
	case errors.Is(err, creditRepo.ErrInsufficientCredits):
		return ErrInsufficientCredits
	case errors.Is(err, creditRepo.ErrNothingToRefund):
		return ErrNothingToRefund
	default:
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
