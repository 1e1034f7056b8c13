package directory

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

// Repository справочники клиентов, автомобилей, центров, услуг, техников и каталога слотов.
// Данные ведутся другими частями платформы, здесь только чтение.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// queryRow строит запрос, выполняет его и сканирует одну строку.
// sql.ErrNoRows заменяется на notFound.
func (r *Repository) queryRow(ctx context.Context, op string, builder squirrel.SelectBuilder, notFound error, dest ...interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
	}

	return nil
}

// GetCustomer получает клиента по ID
func (r *Repository) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := r.queryRow(ctx, "GetCustomer",
		psqlbuilder.Select("id", "full_name", "phone", "email").
			From("customers").
			Where(squirrel.Eq{"id": id}),
		ErrCustomerNotFound,
		&c.ID, &c.FullName, &c.Phone, &c.Email,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetVehicle получает автомобиль по ID
func (r *Repository) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := r.queryRow(ctx, "GetVehicle",
		psqlbuilder.Select("id", "customer_id", "license_plate", "model", "mileage").
			From("vehicles").
			Where(squirrel.Eq{"id": id}),
		ErrVehicleNotFound,
		&v.ID, &v.CustomerID, &v.LicensePlate, &v.Model, &v.Mileage,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetCenter получает сервисный центр по ID
func (r *Repository) GetCenter(ctx context.Context, id int64) (*domain.ServiceCenter, error) {
	var c domain.ServiceCenter
	err := r.queryRow(ctx, "GetCenter",
		psqlbuilder.Select("id", "name", "address", "is_active").
			From("service_centers").
			Where(squirrel.Eq{"id": id}),
		ErrCenterNotFound,
		&c.ID, &c.Name, &c.Address, &c.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	err := r.queryRow(ctx, "GetService",
		psqlbuilder.Select("id", "name", "base_price", "duration_minutes", "is_active").
			From("services").
			Where(squirrel.Eq{"id": id}),
		ErrServiceNotFound,
		&s.ID, &s.Name, &s.BasePrice, &s.DurationMinutes, &s.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetTechnician получает техника по ID
func (r *Repository) GetTechnician(ctx context.Context, id int64) (*domain.Technician, error) {
	var t domain.Technician
	err := r.queryRow(ctx, "GetTechnician",
		psqlbuilder.Select("id", "center_id", "full_name", "is_active").
			From("technicians").
			Where(squirrel.Eq{"id": id}),
		ErrTechnicianNotFound,
		&t.ID, &t.CenterID, &t.FullName, &t.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTimeSlot получает слот дня из каталога по ID
func (r *Repository) GetTimeSlot(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	var s domain.TimeSlot
	err := r.queryRow(ctx, "GetTimeSlot",
		psqlbuilder.Select("id", "label", "start_time", "end_time").
			From("time_slots").
			Where(squirrel.Eq{"id": id}),
		ErrTimeSlotNotFound,
		&s.ID, &s.Label, &s.StartTime, &s.EndTime,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListTimeSlots возвращает весь каталог слотов дня по времени начала
func (r *Repository) ListTimeSlots(ctx context.Context) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "label", "start_time", "end_time").
		From("time_slots").
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		var s domain.TimeSlot
		if err := rows.Scan(&s.ID, &s.Label, &s.StartTime, &s.EndTime); err != nil {
			return nil, fmt.Errorf("%w: ListTimeSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTimeSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
