package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	directoryRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/directory"
	packageRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/servicepackage"
)

// Selection выбор клиента: услуга по ID или пакет по коду
type Selection struct {
	ServiceID   *int64
	PackageCode *string
}

// Quote результат расчета стоимости
type Quote struct {
	Service *domain.Service
	Package *domain.ServicePackage // nil для обычной услуги
	Amount  float64
}

// IsPackage возвращает true, если цена рассчитана по пакету
func (q *Quote) IsPackage() bool {
	return q.Package != nil
}

// PricingSource метка источника цены для метрик и логов
func (q *Quote) PricingSource() string {
	if q.IsPackage() {
		return "package"
	}
	return "service"
}

// Resolver рассчитывает стоимость бронирования по услуге или пакету
type Resolver struct {
	packages PackageRepository
	services ServiceDirectory
	clock    Clock
}

// NewResolver создает новый резолвер цен
func NewResolver(packages PackageRepository, services ServiceDirectory, clock Clock) *Resolver {
	return &Resolver{
		packages: packages,
		services: services,
		clock:    clock,
	}
}

// Resolve проверяет выбор и рассчитывает сумму.
// Для пакета: сумма = базовая цена услуги × (1 − скидка%).
// Для услуги: сумма = базовая цена.
func (r *Resolver) Resolve(ctx context.Context, sel Selection) (*Quote, error) {
	code := ""
	if sel.PackageCode != nil {
		code = strings.TrimSpace(*sel.PackageCode)
	}

	hasService := sel.ServiceID != nil
	hasPackage := code != ""

	if hasService == hasPackage {
		return nil, ErrInvalidSelection
	}

	if hasPackage {
		return r.resolvePackage(ctx, code)
	}
	return r.resolveService(ctx, *sel.ServiceID)
}

func (r *Resolver) resolveService(ctx context.Context, serviceID int64) (*Quote, error) {
	if serviceID <= 0 {
		return nil, ErrInvalidSelection
	}

	service, err := r.services.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, directoryRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: resolveService - get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		return nil, ErrServiceInactive
	}

	return &Quote{
		Service: service,
		Amount:  domain.RoundMoney(service.BasePrice),
	}, nil
}

func (r *Resolver) resolvePackage(ctx context.Context, code string) (*Quote, error) {
	pkg, err := r.packages.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, packageRepo.ErrPackageNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("%w: resolvePackage - get package: %v", ErrInternal, err)
	}

	if !pkg.IsActive {
		return nil, ErrPackageInactive
	}
	if pkg.IsExpired(r.clock.Now()) {
		return nil, ErrPackageExpired
	}

	service, err := r.services.GetService(ctx, pkg.ServiceID)
	if err != nil {
		if errors.Is(err, directoryRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: resolvePackage - get service: %v", ErrInternal, err)
	}

	return &Quote{
		Service: service,
		Package: pkg,
		Amount:  pkg.DiscountedPrice(service.BasePrice),
	}, nil
}
