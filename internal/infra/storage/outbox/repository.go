package outbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/psqlbuilder"
)

const (
	statusPending = "pending"
	statusSent    = "sent"
	statusFailed  = "failed"

	defaultPullLimit = 100
)

// Repository transactional outbox: события пишутся в той же транзакции, что и изменение
// бронирования, и публикуются воркером позже
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория outbox
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue сохраняет событие со статусом pending.
// Если в контексте есть транзакция, событие попадет в неё.
func (r *Repository) Enqueue(ctx context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	// payload передаем строкой: JSONB из []byte драйвер отправил бы как bytea
	query, args, err := psqlbuilder.Insert("outbox_messages").
		Columns("id", "aggregate_type", "aggregate_id", "event_type", "payload", "status").
		Values(msg.ID, msg.AggregateType, msg.AggregateID, msg.EventType, string(msg.Payload), statusPending).
		ToSql()
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("%w: Enqueue - execute insert: %v", ErrExecQuery, err)
	}

	return msg, nil
}

// PullPending возвращает до limit сообщений pending в порядке создания
func (r *Repository) PullPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if limit <= 0 {
		limit = defaultPullLimit
	}

	query, args, err := psqlbuilder.Select("id", "aggregate_type", "aggregate_id", "event_type", "payload").
		From("outbox_messages").
		Where(squirrel.Eq{"status": statusPending}).
		OrderBy("created_at", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: PullPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: PullPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.OutboxMessage, 0, limit)
	for rows.Next() {
		var msg domain.OutboxMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.AggregateType,
			&msg.AggregateID,
			&msg.EventType,
			&msg.Payload,
		); err != nil {
			return nil, fmt.Errorf("%w: PullPending - scan row: %v", ErrScanRow, err)
		}
		result = append(result, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: PullPending - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Stats возвращает размер backlog и время самого старого pending сообщения
func (r *Repository) Stats(ctx context.Context) (domain.OutboxStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)", "MIN(created_at)").
		From("outbox_messages").
		Where(squirrel.Eq{"status": statusPending}).
		ToSql()
	if err != nil {
		return domain.OutboxStats{}, fmt.Errorf("%w: Stats - build select query: %v", ErrBuildQuery, err)
	}

	var (
		stats  domain.OutboxStats
		oldest sql.NullTime
	)
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&stats.PendingCount, &oldest); err != nil {
		return domain.OutboxStats{}, fmt.Errorf("%w: Stats - scan: %v", ErrScanRow, err)
	}

	if oldest.Valid {
		stats.OldestPendingAt = oldest.Time.UTC()
	}

	return stats, nil
}

// MarkSent фиксирует успешную публикацию
func (r *Repository) MarkSent(ctx context.Context, id string) error {
	return r.markStatus(ctx, id, statusSent)
}

// MarkFailed фиксирует окончательную ошибку публикации
func (r *Repository) MarkFailed(ctx context.Context, id string) error {
	return r.markStatus(ctx, id, statusFailed)
}

func (r *Repository) markStatus(ctx context.Context, id, status string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("outbox_messages").
		Set("status", status).
		Set("attempt_count", squirrel.Expr("attempt_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: markStatus(%s) - build update query: %v", ErrBuildQuery, status, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: markStatus(%s) - execute update: %v", ErrExecQuery, status, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: markStatus(%s) - get rows affected: %v", ErrExecQuery, status, err)
	}
	if affected == 0 {
		return ErrMessageNotFound
	}

	return nil
}
