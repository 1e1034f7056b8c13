package slotledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
)

type recordingMetrics struct {
	ops []string
}

func (m *recordingMetrics) RecordSlotOperation(operation, outcome string) {
	m.ops = append(m.ops, operation+":"+outcome)
}

var workDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func newLedger(t *testing.T) (*Ledger, *memory.World, *recordingMetrics) {
	t.Helper()
	w := memory.NewWorld(workDate)
	m := &recordingMetrics{}
	return NewLedger(w.Store.TechSlots(), m, logger.Nop()), w, m
}

func TestLedger_ReserveThenConflict(t *testing.T) {
	ledger, w, m := newLedger(t)
	ctx := context.Background()
	key := w.MorningSlot.Key()

	ok, err := ledger.Reserve(ctx, key, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.Reserve(ctx, key, nil)
	require.NoError(t, err)
	assert.False(t, ok, "второй резерв того же слота должен вернуть false")

	assert.Equal(t, []string{"reserve:ok", "reserve:conflict"}, m.ops)
	assert.False(t, w.Slot(w.MorningSlot.ID).IsAvailable)
}

func TestLedger_IsAvailable(t *testing.T) {
	ledger, w, _ := newLedger(t)
	ctx := context.Background()

	available, err := ledger.IsAvailable(ctx, w.AfternoonSlot.Key())
	require.NoError(t, err)
	assert.True(t, available)

	_, err = ledger.Reserve(ctx, w.AfternoonSlot.Key(), nil)
	require.NoError(t, err)

	available, err = ledger.IsAvailable(ctx, w.AfternoonSlot.Key())
	require.NoError(t, err)
	assert.False(t, available)

	_, err = ledger.IsAvailable(ctx, domain.SlotKey{TechnicianID: 999, WorkDate: workDate, SlotID: 1})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestLedger_AttachBooking(t *testing.T) {
	ledger, w, _ := newLedger(t)
	ctx := context.Background()
	key := w.MorningSlot.Key()

	err := ledger.AttachBooking(ctx, key, 42)
	assert.ErrorIs(t, err, ErrSlotNotReserved, "нельзя привязать бронирование к свободному слоту")

	_, err = ledger.Reserve(ctx, key, nil)
	require.NoError(t, err)
	require.NoError(t, ledger.AttachBooking(ctx, key, 42))

	slot := w.Slot(w.MorningSlot.ID)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, int64(42), *slot.BookingID)

	err = ledger.AttachBooking(ctx, key, 43)
	assert.ErrorIs(t, err, ErrSlotNotReserved, "слот уже привязан к другому бронированию")
}

func TestLedger_Release(t *testing.T) {
	ledger, w, m := newLedger(t)
	ctx := context.Background()
	key := w.MorningSlot.Key()

	bookingID := int64(7)
	_, err := ledger.Reserve(ctx, key, &bookingID)
	require.NoError(t, err)

	ok, err := ledger.Release(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	slot := w.Slot(w.MorningSlot.ID)
	assert.True(t, slot.IsAvailable)
	assert.Nil(t, slot.BookingID)

	ok, err = ledger.Release(ctx, domain.SlotKey{TechnicianID: 999, WorkDate: workDate, SlotID: 1})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, m.ops, "release:missing")
}

func TestLedger_ReserveRepositoryError(t *testing.T) {
	ledger, w, m := newLedger(t)
	w.Store.FailOn("techslot.Reserve", errors.New("connection reset"))

	ok, err := ledger.Reserve(context.Background(), w.MorningSlot.Key(), nil)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{"reserve:error"}, m.ops)
}

func TestLedger_GetAndListForCenter(t *testing.T) {
	ledger, w, _ := newLedger(t)
	ctx := context.Background()

	slot, err := ledger.Get(ctx, w.AfternoonSlot.ID)
	require.NoError(t, err)
	assert.Equal(t, "Le Van Cuong", slot.TechnicianName)
	assert.Equal(t, "Afternoon", slot.SlotLabel)

	_, err = ledger.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	slots, err := ledger.ListForCenter(ctx, w.Center.ID, workDate)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, w.MorningSlot.ID, slots[0].ID)
	assert.Equal(t, w.AfternoonSlot.ID, slots[1].ID)

	slots, err = ledger.ListForCenter(ctx, w.Center.ID, workDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, slots)
}
