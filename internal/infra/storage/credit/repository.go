package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/psqlbuilder"
)

var creditColumns = []string{
	"id",
	"customer_id",
	"package_id",
	"service_id",
	"total_credits",
	"used_credits",
	"purchase_date",
	"expiry_date",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий кредитов клиентов по пакетам услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кредитов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый кредит
func (r *Repository) Create(ctx context.Context, credit *domain.CustomerServiceCredit) (*domain.CustomerServiceCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customer_service_credits").
		Columns(
			"customer_id",
			"package_id",
			"service_id",
			"total_credits",
			"used_credits",
			"purchase_date",
			"expiry_date",
			"status",
		).
		Values(
			credit.CustomerID,
			credit.PackageID,
			credit.ServiceID,
			credit.TotalCredits,
			credit.UsedCredits,
			credit.PurchaseDate,
			credit.ExpiryDate,
			credit.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&credit.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	credit.CreatedAt = createdAt.Time
	credit.UpdatedAt = updatedAt.Time

	return credit, nil
}

// GetByID получает кредит по ID.
// Внутри транзакции строка блокируется до её завершения.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.CustomerServiceCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(creditColumns...).
		From("customer_service_credits").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	credit, err := scanCredit(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCreditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan credit: %v", ErrScanRow, err)
	}

	return credit, nil
}

// GetByCustomerID возвращает все кредиты клиента, сначала новые
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64) ([]*domain.CustomerServiceCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(creditColumns...).
		From("customer_service_credits").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("purchase_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	credits := make([]*domain.CustomerServiceCredit, 0)
	for rows.Next() {
		credit, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByCustomerID - scan row: %v", ErrScanRow, err)
		}
		credits = append(credits, credit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - rows error: %v", ErrScanRow, err)
	}

	return credits, nil
}

// FindUsable ищет ACTIVE кредит клиента по пакету с ненулевым остатком и не истекшим сроком.
// При нескольких подходящих выбирается тот, что истекает раньше.
func (r *Repository) FindUsable(ctx context.Context, customerID, packageID int64, now time.Time) (*domain.CustomerServiceCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(creditColumns...).
		From("customer_service_credits").
		Where(squirrel.Eq{
			"customer_id": customerID,
			"package_id":  packageID,
			"status":      domain.CreditStatusActive,
		}).
		Where(squirrel.Gt{"expiry_date": now}).
		Where("used_credits < total_credits").
		OrderBy("expiry_date ASC", "id ASC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindUsable - build select query: %v", ErrBuildQuery, err)
	}

	credit, err := scanCredit(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCreditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindUsable - scan credit: %v", ErrScanRow, err)
	}

	return credit, nil
}

// Consume списывает n единиц кредита.
// Ограничение used_credits + n <= total_credits проверяется в самом UPDATE.
// Когда остаток доходит до нуля, статус меняется на USED_UP.
func (r *Repository) Consume(ctx context.Context, id int64, n int) (*domain.CustomerServiceCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("customer_service_credits").
		Set("used_credits", squirrel.Expr("used_credits + ?", n)).
		Set("status", squirrel.Expr(
			"CASE WHEN used_credits + ? >= total_credits THEN ? ELSE status END",
			n, domain.CreditStatusUsedUp,
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("used_credits + ? <= total_credits", n).
		Suffix("RETURNING " + strings.Join(creditColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Consume - build update query: %v", ErrBuildQuery, err)
	}

	credit, err := scanCredit(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		// Различаем отсутствие кредита и нехватку остатка
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInsufficientCredits
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Consume - execute update: %v", ErrExecQuery, err)
	}

	return credit, nil
}

// RefundOne возвращает одну использованную единицу кредита.
// USED_UP кредит снова становится ACTIVE.
func (r *Repository) RefundOne(ctx context.Context, id int64) (*domain.CustomerServiceCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("customer_service_credits").
		Set("used_credits", squirrel.Expr("used_credits - 1")).
		Set("status", squirrel.Expr(
			"CASE WHEN status = ? THEN ? ELSE status END",
			domain.CreditStatusUsedUp, domain.CreditStatusActive,
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"used_credits": 0}).
		Suffix("RETURNING " + strings.Join(creditColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: RefundOne - build update query: %v", ErrBuildQuery, err)
	}

	credit, err := scanCredit(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrNothingToRefund
	}
	if err != nil {
		return nil, fmt.Errorf("%w: RefundOne - execute update: %v", ErrExecQuery, err)
	}

	return credit, nil
}

// UpdateStatus меняет статус кредита
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.CreditStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("customer_service_credits").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCreditNotFound
	}

	return nil
}

// Delete физически удаляет кредит (полный возврат при отмене бронирования).
// Ссылки из bookings обнуляются внешним ключом ON DELETE SET NULL.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("customer_service_credits").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCreditNotFound
	}

	return nil
}

// ExpireOverdue переводит в EXPIRED все ACTIVE кредиты с истекшим сроком.
// Возвращает количество обновленных строк.
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("customer_service_credits").
		Set("status", domain.CreditStatusExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.CreditStatusActive}).
		Where(squirrel.LtOrEq{"expiry_date": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireOverdue - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireOverdue - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireOverdue - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCredit(row rowScanner) (*domain.CustomerServiceCredit, error) {
	var credit domain.CustomerServiceCredit
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&credit.ID,
		&credit.CustomerID,
		&credit.PackageID,
		&credit.ServiceID,
		&credit.TotalCredits,
		&credit.UsedCredits,
		&credit.PurchaseDate,
		&credit.ExpiryDate,
		&credit.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	credit.CreatedAt = createdAt.Time
	credit.UpdatedAt = updatedAt.Time

	return &credit, nil
}
