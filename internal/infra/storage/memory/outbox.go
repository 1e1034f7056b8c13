package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	outboxRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/outbox"
)

const (
	outboxPending = "pending"
	outboxSent    = "sent"
	outboxFailed  = "failed"
)

// OutboxRepository in-memory аналог outbox.Repository
type OutboxRepository struct {
	s *Store
}

func (r *OutboxRepository) Enqueue(_ context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("outbox.Enqueue"); err != nil {
		return domain.OutboxMessage{}, err
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	r.s.st.outbox[msg.ID] = outboxRecord{
		msg:       msg,
		status:    outboxPending,
		createdAt: r.s.now(),
		seq:       r.s.nextID(),
	}
	return msg, nil
}

func (r *OutboxRepository) pendingLocked() []outboxRecord {
	pending := make([]outboxRecord, 0)
	for _, rec := range r.s.st.outbox {
		if rec.status == outboxPending {
			pending = append(pending, rec)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].seq < pending[j].seq })
	return pending
}

func (r *OutboxRepository) PullPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if err := r.s.injected("outbox.PullPending"); err != nil {
		return nil, err
	}

	pending := r.pendingLocked()
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	result := make([]domain.OutboxMessage, 0, len(pending))
	for _, rec := range pending {
		result = append(result, rec.msg)
	}
	return result, nil
}

func (r *OutboxRepository) Stats(_ context.Context) (domain.OutboxStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pending := r.pendingLocked()
	stats := domain.OutboxStats{PendingCount: len(pending)}
	if len(pending) > 0 {
		stats.OldestPendingAt = pending[0].createdAt.UTC()
	}
	return stats, nil
}

func (r *OutboxRepository) MarkSent(_ context.Context, id string) error {
	return r.mark(id, outboxSent)
}

func (r *OutboxRepository) MarkFailed(_ context.Context, id string) error {
	return r.mark(id, outboxFailed)
}

func (r *OutboxRepository) mark(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.st.outbox[id]
	if !ok {
		return outboxRepo.ErrMessageNotFound
	}
	rec.status = status
	rec.attemptCnt++
	r.s.st.outbox[id] = rec
	return nil
}

// Events возвращает все сообщения outbox с типом eventType в порядке записи
func (r *OutboxRepository) Events(eventType string) []domain.OutboxMessage {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	records := make([]outboxRecord, 0)
	for _, rec := range r.s.st.outbox {
		if eventType == "" || rec.msg.EventType == eventType {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	result := make([]domain.OutboxMessage, 0, len(records))
	for _, rec := range records {
		result = append(result, rec.msg)
	}
	return result
}

// Status возвращает статус сообщения или пустую строку
func (r *OutboxRepository) Status(id string) string {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.outbox[id].status
}
