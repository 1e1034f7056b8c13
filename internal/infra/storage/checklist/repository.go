package checklist

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

// Repository репозиторий шаблонов и чек-листов обслуживания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория чек-листов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveTemplateByServiceID возвращает первый активный шаблон услуги
func (r *Repository) GetActiveTemplateByServiceID(ctx context.Context, serviceID int64) (*domain.ChecklistTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "service_id", "name", "is_active").
		From("checklist_templates").
		Where(squirrel.Eq{"service_id": serviceID, "is_active": true}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveTemplateByServiceID - build select query: %v", ErrBuildQuery, err)
	}

	var tpl domain.ChecklistTemplate
	err = executor.QueryRowContext(ctx, query, args...).Scan(&tpl.ID, &tpl.ServiceID, &tpl.Name, &tpl.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveTemplateByServiceID - scan template: %v", ErrScanRow, err)
	}

	return &tpl, nil
}

// GetTemplateItems возвращает пункты шаблона вместе с названием детали
func (r *Repository) GetTemplateItems(ctx context.Context, templateID int64) ([]*domain.ChecklistTemplateItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"i.id",
		"i.template_id",
		"i.part_id",
		"p.name",
		"i.description",
		"i.sort_order",
	).
		From("checklist_template_items i").
		LeftJoin("parts p ON p.id = i.part_id").
		Where(squirrel.Eq{"i.template_id": templateID}).
		OrderBy("i.sort_order ASC", "i.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.ChecklistTemplateItem, 0)
	for rows.Next() {
		var item domain.ChecklistTemplateItem
		if err := rows.Scan(
			&item.ID,
			&item.TemplateID,
			&item.PartID,
			&item.PartName,
			&item.Description,
			&item.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("%w: GetTemplateItems - scan row: %v", ErrScanRow, err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetTemplateItems - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

// CreateChecklist создает чек-лист бронирования
func (r *Repository) CreateChecklist(ctx context.Context, checklist *domain.MaintenanceChecklist) (*domain.MaintenanceChecklist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("maintenance_checklists").
		Columns("booking_id", "template_id", "status", "notes").
		Values(checklist.BookingID, checklist.TemplateID, checklist.Status, checklist.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateChecklist - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&checklist.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateChecklist - execute insert: %v", ErrExecQuery, err)
	}

	checklist.CreatedAt = createdAt.Time
	checklist.UpdatedAt = updatedAt.Time

	return checklist, nil
}

// CreateResults создает строки результатов одним INSERT со множеством VALUES,
// поэтому либо записываются все строки, либо ни одной
func (r *Repository) CreateResults(ctx context.Context, results []*domain.MaintenanceChecklistResult) error {
	if len(results) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("maintenance_checklist_results").
		Columns("checklist_id", "part_id", "part_name", "description", "result", "status")

	for _, res := range results {
		insertBuilder = insertBuilder.Values(
			res.ChecklistID,
			res.PartID,
			res.PartName,
			res.Description,
			res.Result,
			res.Status,
		)
	}

	query, args, err := insertBuilder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateResults - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CreateResults - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	// RETURNING отдает строки в порядке VALUES
	i := 0
	for rows.Next() {
		if i >= len(results) {
			break
		}
		if err := rows.Scan(&results[i].ID); err != nil {
			return fmt.Errorf("%w: CreateResults - scan id: %v", ErrScanRow, err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: CreateResults - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// GetByBookingID возвращает чек-лист бронирования с количеством строк результатов
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.MaintenanceChecklist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"c.id",
		"c.booking_id",
		"c.template_id",
		"c.status",
		"c.notes",
		"c.created_at",
		"c.updated_at",
		"(SELECT COUNT(*) FROM maintenance_checklist_results r WHERE r.checklist_id = c.id)",
	).
		From("maintenance_checklists c").
		Where(squirrel.Eq{"c.booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var checklist domain.MaintenanceChecklist
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&checklist.ID,
		&checklist.BookingID,
		&checklist.TemplateID,
		&checklist.Status,
		&checklist.Notes,
		&createdAt,
		&updatedAt,
		&checklist.ResultCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChecklistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan checklist: %v", ErrScanRow, err)
	}

	checklist.CreatedAt = createdAt.Time
	checklist.UpdatedAt = updatedAt.Time

	return &checklist, nil
}

// GetResults возвращает строки результатов чек-листа
func (r *Repository) GetResults(ctx context.Context, checklistID int64) ([]*domain.MaintenanceChecklistResult, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"checklist_id",
		"part_id",
		"part_name",
		"description",
		"result",
		"status",
	).
		From("maintenance_checklist_results").
		Where(squirrel.Eq{"checklist_id": checklistID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetResults - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetResults - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	results := make([]*domain.MaintenanceChecklistResult, 0)
	for rows.Next() {
		var res domain.MaintenanceChecklistResult
		if err := rows.Scan(
			&res.ID,
			&res.ChecklistID,
			&res.PartID,
			&res.PartName,
			&res.Description,
			&res.Result,
			&res.Status,
		); err != nil {
			return nil, fmt.Errorf("%w: GetResults - scan row: %v", ErrScanRow, err)
		}
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetResults - rows error: %v", ErrScanRow, err)
	}

	return results, nil
}

// CancelByBookingID переводит чек-лист бронирования и все его результаты в CANCELLED.
// Возвращает false, если у бронирования нет чек-листа.
func (r *Repository) CancelByBookingID(ctx context.Context, bookingID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("maintenance_checklists").
		Set("status", domain.ChecklistStatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CancelByBookingID - build update query: %v", ErrBuildQuery, err)
	}

	var checklistID int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&checklistID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: CancelByBookingID - execute checklist update: %v", ErrExecQuery, err)
	}

	query, args, err = psqlbuilder.Update("maintenance_checklist_results").
		Set("status", domain.ChecklistStatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"checklist_id": checklistID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CancelByBookingID - build results update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("%w: CancelByBookingID - execute results update: %v", ErrExecQuery, err)
	}

	return true, nil
}
