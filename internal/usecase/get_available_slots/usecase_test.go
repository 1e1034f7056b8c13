package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/slotledger"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var workDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func newUseCase(w *memory.World, now time.Time, advanceDays int) *UseCase {
	log := logger.Nop()
	ledger := slotledger.NewLedger(w.Store.TechSlots(), nil, log)
	return NewUseCase(w.Store.Directory(), ledger, fixedClock{now: now}, log, advanceDays)
}

func TestExecute_ListsTechnicianSlots(t *testing.T) {
	w := memory.NewWorld(workDate)
	uc := newUseCase(w, time.Date(2025, 10, 14, 18, 0, 0, 0, time.UTC), 0)

	ok, err := w.Store.TechSlots().Reserve(context.Background(), w.AfternoonSlot.Key(), nil)
	require.NoError(t, err)
	require.True(t, ok)

	resp, err := uc.Execute(context.Background(), &Request{CenterID: w.Center.ID, Date: workDate})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)

	morning := resp.Slots[0]
	assert.Equal(t, w.MorningSlot.ID, morning.TechnicianSlotID)
	assert.Equal(t, w.Technician.FullName, morning.TechnicianName)
	assert.Equal(t, "Morning", morning.Label)
	assert.Equal(t, "08:00", morning.StartTime.String())
	assert.Equal(t, 120, morning.DurationMinutes)
	assert.True(t, morning.IsAvailable)

	assert.Equal(t, w.AfternoonSlot.ID, resp.Slots[1].TechnicianSlotID)
	assert.False(t, resp.Slots[1].IsAvailable)
}

func TestExecute_OnlyAvailable(t *testing.T) {
	w := memory.NewWorld(workDate)
	uc := newUseCase(w, time.Date(2025, 10, 14, 18, 0, 0, 0, time.UTC), 0)

	ok, err := w.Store.TechSlots().Reserve(context.Background(), w.MorningSlot.Key(), nil)
	require.NoError(t, err)
	require.True(t, ok)

	resp, err := uc.Execute(context.Background(), &Request{CenterID: w.Center.ID, Date: workDate, OnlyAvailable: true})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, w.AfternoonSlot.ID, resp.Slots[0].TechnicianSlotID)
}

func TestExecute_TodayDropsStartedSlots(t *testing.T) {
	w := memory.NewWorld(workDate)
	uc := newUseCase(w, time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC), 0)

	resp, err := uc.Execute(context.Background(), &Request{CenterID: w.Center.ID, Date: workDate})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "Afternoon", resp.Slots[0].Label)
}

func TestExecute_InactiveTechnicianHidden(t *testing.T) {
	w := memory.NewWorld(workDate)
	tech := w.Store.AddTechnician(domain.Technician{CenterID: w.Center.ID, FullName: "On leave", IsActive: false})
	w.Store.AddTechnicianSlot(domain.TechnicianTimeSlot{
		TechnicianID: tech.ID, SlotID: w.Morning.ID, WorkDate: workDate, IsAvailable: true,
	})
	uc := newUseCase(w, time.Date(2025, 10, 14, 18, 0, 0, 0, time.UTC), 0)

	resp, err := uc.Execute(context.Background(), &Request{CenterID: w.Center.ID, Date: workDate})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 2)
}

func TestExecute_Errors(t *testing.T) {
	now := time.Date(2025, 10, 14, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		req         func(w *memory.World) *Request
		advanceDays int
		wantErr     error
	}{
		{
			name:    "missing center",
			req:     func(_ *memory.World) *Request { return &Request{Date: workDate} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing date",
			req:     func(w *memory.World) *Request { return &Request{CenterID: w.Center.ID} },
			wantErr: ErrInvalidInput,
		},
		{
			name: "past date",
			req: func(w *memory.World) *Request {
				return &Request{CenterID: w.Center.ID, Date: time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)}
			},
			wantErr: ErrInvalidDate,
		},
		{
			name: "too far in future",
			req: func(w *memory.World) *Request {
				return &Request{CenterID: w.Center.ID, Date: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)}
			},
			advanceDays: 30,
			wantErr:     ErrDateTooFarInFuture,
		},
		{
			name:    "unknown center",
			req:     func(_ *memory.World) *Request { return &Request{CenterID: 999, Date: workDate} },
			wantErr: ErrCenterNotFound,
		},
		{
			name: "inactive center",
			req: func(w *memory.World) *Request {
				c := w.Store.AddCenter(domain.ServiceCenter{Name: "Closed"})
				return &Request{CenterID: c.ID, Date: workDate}
			},
			wantErr: ErrCenterInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := memory.NewWorld(workDate)
			uc := newUseCase(w, now, tt.advanceDays)

			resp, err := uc.Execute(context.Background(), tt.req(w))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
		})
	}
}
