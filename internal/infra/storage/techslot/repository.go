package techslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/psqlbuilder"
)

// Repository репозиторий ledger'а слотов техников (technician_time_slots)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов техников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func selectJoined() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"tts.id",
		"tts.technician_id",
		"tts.slot_id",
		"tts.work_date",
		"tts.is_available",
		"tts.booking_id",
		"tts.notes",
		"t.center_id",
		"t.full_name",
		"ts.label",
		"ts.start_time",
		"ts.end_time",
	).
		From("technician_time_slots tts").
		Join("technicians t ON t.id = tts.technician_id").
		Join("time_slots ts ON ts.id = tts.slot_id")
}

func keyCondition(key domain.SlotKey) squirrel.Eq {
	return squirrel.Eq{
		"technician_id": key.TechnicianID,
		"work_date":     key.WorkDate.Format(domain.DateFormat),
		"slot_id":       key.SlotID,
	}
}

// GetByID получает слот техника вместе с данными каталога и техника
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TechnicianTimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectJoined().
		Where(squirrel.Eq{"tts.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ListByCenterAndDate возвращает все слоты активных техников центра на дату,
// отсортированные по времени начала и имени техника
func (r *Repository) ListByCenterAndDate(ctx context.Context, centerID int64, date time.Time) ([]*domain.TechnicianTimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectJoined().
		Where(squirrel.Eq{
			"t.center_id":   centerID,
			"t.is_active":   true,
			"tts.work_date": date.Format(domain.DateFormat),
		}).
		OrderBy("ts.start_time ASC", "t.full_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCenterAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCenterAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.TechnicianTimeSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByCenterAndDate - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByCenterAndDate - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// IsAvailable возвращает true, если слот открыт и к нему не привязано бронирование
func (r *Repository) IsAvailable(ctx context.Context, key domain.SlotKey) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("is_available", "booking_id IS NULL").
		From("technician_time_slots").
		Where(keyCondition(key)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsAvailable - build select query: %v", ErrBuildQuery, err)
	}

	var available, unbound bool
	err = executor.QueryRowContext(ctx, query, args...).Scan(&available, &unbound)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrSlotNotFound
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsAvailable - scan: %v", ErrScanRow, err)
	}

	return available && unbound, nil
}

// Reserve помечает слот занятым, если он свободен.
// bookingID можно передать сразу или привязать позже через AttachBooking.
// Возвращает false, если слот уже занят: условие is_available = TRUE проверяется
// в самом UPDATE, поэтому из двух конкурентных вызовов выиграет только один.
func (r *Repository) Reserve(ctx context.Context, key domain.SlotKey, bookingID *int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("technician_time_slots").
		Set("is_available", false).
		Set("booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(keyCondition(key)).
		Where(squirrel.Eq{"is_available": true, "booking_id": nil}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

// AttachBooking привязывает ID бронирования к ранее зарезервированному слоту
func (r *Repository) AttachBooking(ctx context.Context, key domain.SlotKey, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("technician_time_slots").
		Set("booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(keyCondition(key)).
		Where(squirrel.Eq{"is_available": false}).
		Where(squirrel.Or{
			squirrel.Eq{"booking_id": nil},
			squirrel.Eq{"booking_id": bookingID},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotReserved
	}

	return nil
}

// Release освобождает слот: снимает ссылку на бронирование и открывает его снова.
// Возвращает false, если слот не найден.
func (r *Repository) Release(ctx context.Context, key domain.SlotKey) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("technician_time_slots").
		Set("is_available", true).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(keyCondition(key)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.TechnicianTimeSlot, error) {
	var slot domain.TechnicianTimeSlot

	err := row.Scan(
		&slot.ID,
		&slot.TechnicianID,
		&slot.SlotID,
		&slot.WorkDate,
		&slot.IsAvailable,
		&slot.BookingID,
		&slot.Notes,
		&slot.CenterID,
		&slot.TechnicianName,
		&slot.SlotLabel,
		&slot.StartTime,
		&slot.EndTime,
	)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}
