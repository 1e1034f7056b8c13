package servicepackage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/psqlbuilder"
)

// Repository репозиторий пакетов услуг (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пакетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode получает пакет по коду
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.ServicePackage, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code}, "GetByCode")
}

// GetByID получает пакет по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ServicePackage, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

func (r *Repository) getOne(ctx context.Context, cond squirrel.Eq, op string) (*domain.ServicePackage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"code",
		"name",
		"service_id",
		"total_uses",
		"discount_percent",
		"is_active",
		"valid_from",
		"valid_until",
		"created_at",
		"updated_at",
	).
		From("service_packages").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var pkg domain.ServicePackage
	var validFrom, validUntil, createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&pkg.ID,
		&pkg.Code,
		&pkg.Name,
		&pkg.ServiceID,
		&pkg.TotalUses,
		&pkg.DiscountPercent,
		&pkg.IsActive,
		&validFrom,
		&validUntil,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan package: %v", ErrScanRow, op, err)
	}

	if validFrom.Valid {
		t := validFrom.Time
		pkg.ValidFrom = &t
	}
	if validUntil.Valid {
		t := validUntil.Time
		pkg.ValidUntil = &t
	}
	pkg.CreatedAt = createdAt.Time
	pkg.UpdatedAt = updatedAt.Time

	return &pkg, nil
}
