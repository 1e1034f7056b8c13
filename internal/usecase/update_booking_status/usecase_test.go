package update_booking_status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/checklist"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/credits"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/pricing"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/slotledger"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/ptr"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type stubMetrics struct {
	transitions []string
}

func (m *stubMetrics) RecordTransition(from, to string) {
	m.transitions = append(m.transitions, from+"->"+to)
}

var workDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

type fixture struct {
	world   *memory.World
	clock   *fixedClock
	create  *create_booking.UseCase
	uc      *UseCase
	seeder  *checklist.Seeder
	credits *credits.Ledger
	metrics *stubMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	w := memory.NewWorld(workDate)
	s := w.Store
	log := logger.Nop()
	clk := &fixedClock{now: time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)}

	ledger := slotledger.NewLedger(s.TechSlots(), nil, log)
	resolver := pricing.NewResolver(s.Packages(), s.Directory(), clk)
	creditLedger := credits.NewLedger(s.Credits(), s.Packages(), nil, clk, log, 0)
	seeder := checklist.NewSeeder(s.Checklists(), s.TxManager(), nil, log)
	composer := bookings.NewService(s.Bookings(), s.Directory(), ledger, s.Packages(), creditLedger, seeder, log)
	metrics := &stubMetrics{}

	create := create_booking.NewUseCase(
		s.Bookings(), s.Directory(), ledger, resolver, creditLedger, seeder,
		s.Outbox(), composer, s.TxManager(), nil, clk, log,
	)
	uc := NewUseCase(
		s.Bookings(), creditLedger, ledger, seeder,
		s.Outbox(), composer, s.TxManager(), metrics, clk, log,
	)

	return &fixture{
		world:   w,
		clock:   clk,
		create:  create,
		uc:      uc,
		seeder:  seeder,
		credits: creditLedger,
		metrics: metrics,
	}
}

func (f *fixture) customer() domain.Actor {
	return domain.Actor{UserID: f.world.Customer.ID, Role: domain.RoleCustomer}
}

func (f *fixture) staff() domain.Actor {
	return domain.Actor{UserID: 500, Role: domain.RoleStaff}
}

func (f *fixture) book(t *testing.T, slotID int64, withPackage bool) int64 {
	t.Helper()
	w := f.world

	req := &create_booking.Request{
		Actor:            f.customer(),
		CustomerID:       w.Customer.ID,
		VehicleID:        w.Vehicle.ID,
		CenterID:         w.Center.ID,
		Date:             workDate,
		TechnicianSlotID: slotID,
	}
	if withPackage {
		req.PackageCode = ptr.Ptr(w.Package.Code)
	} else {
		req.ServiceID = ptr.Ptr(w.Service.ID)
	}

	view, err := f.create.Execute(context.Background(), req)
	require.NoError(t, err)
	return view.ID
}

func (f *fixture) move(t *testing.T, bookingID int64, statuses ...domain.BookingStatus) {
	t.Helper()
	for _, status := range statuses {
		_, err := f.uc.Execute(context.Background(), &Request{
			Actor:     f.staff(),
			BookingID: bookingID,
			Status:    status.String(),
		})
		require.NoError(t, err, "move to %s", status)
	}
}

func TestExecute_CancelReleasesEverything(t *testing.T) {
	f := newFixture(t)
	w := f.world
	id := f.book(t, w.MorningSlot.ID, true)

	require.Equal(t, 1, w.CreditCount())

	view, err := f.uc.Execute(context.Background(), &Request{
		Actor:              f.customer(),
		BookingID:          id,
		Status:             "cancelled",
		CancellationReason: ptr.Ptr("  plans changed "),
	})
	require.NoError(t, err)

	assert.Equal(t, "CANCELLED", view.Status)
	assert.Nil(t, view.TechnicianSlotID)
	assert.Nil(t, view.AppliedCreditID)
	assert.Nil(t, view.Credit)
	require.NotNil(t, view.CancellationReason)
	assert.Equal(t, "plans changed", *view.CancellationReason)
	assert.NotNil(t, view.CancelledAt)
	assert.Empty(t, view.AllowedTransitions)

	// Кредит удален целиком
	assert.Zero(t, w.CreditCount())

	// Слот свободен и не ссылается на бронирование
	slot := w.Slot(w.MorningSlot.ID)
	assert.True(t, slot.IsAvailable)
	assert.Nil(t, slot.BookingID)

	// Чек-лист и строки отменены
	list, results, err := f.seeder.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChecklistStatusCancelled, list.Status)
	require.Len(t, results, w.TemplateItems)
	for _, res := range results {
		assert.Equal(t, domain.ChecklistStatusCancelled, res.Status)
	}

	events := w.Store.Outbox().Events(domain.EventBookingStatusChanged)
	require.Len(t, events, 1)
	assert.Contains(t, string(events[0].Payload), `"previous_status":"PENDING"`)
	assert.Contains(t, string(events[0].Payload), `"status":"CANCELLED"`)

	assert.Equal(t, []string{"PENDING->CANCELLED"}, f.metrics.transitions)

	// Освобожденный слот можно забронировать снова
	again := f.book(t, w.MorningSlot.ID, false)
	assert.NotEqual(t, id, again)
}

func TestExecute_CompleteConsumesCredit(t *testing.T) {
	f := newFixture(t)
	w := f.world
	id := f.book(t, w.MorningSlot.ID, true)

	f.move(t, id, domain.StatusConfirmed, domain.StatusInProgress, domain.StatusCompleted)

	view, err := f.uc.Execute(context.Background(), &Request{Actor: f.staff(), BookingID: id, Status: "PAID"})
	require.NoError(t, err)
	assert.Equal(t, "PAID", view.Status)

	require.NotNil(t, view.Credit)
	assert.Equal(t, 1, view.Credit.UsedCredits)
	assert.Equal(t, w.Package.TotalUses-1, view.Credit.Remaining)
	assert.Equal(t, "ACTIVE", view.Credit.Status)

	// Слот остается за бронированием
	slot := w.Slot(w.MorningSlot.ID)
	assert.False(t, slot.IsAvailable)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, id, *slot.BookingID)

	assert.Equal(t, []string{
		"PENDING->CONFIRMED",
		"CONFIRMED->IN_PROGRESS",
		"IN_PROGRESS->COMPLETED",
		"COMPLETED->PAID",
	}, f.metrics.transitions)
}

func TestExecute_CompleteWithExpiredCreditStillCompletes(t *testing.T) {
	f := newFixture(t)
	w := f.world
	id := f.book(t, w.MorningSlot.ID, true)

	f.move(t, id, domain.StatusConfirmed, domain.StatusInProgress)

	// Через два года кредит истек
	f.clock.now = f.clock.now.AddDate(2, 0, 0)

	view, err := f.uc.Execute(context.Background(), &Request{Actor: f.staff(), BookingID: id, Status: "COMPLETED"})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", view.Status)

	require.NotNil(t, view.Credit)
	assert.Equal(t, 0, view.Credit.UsedCredits)
	assert.Equal(t, "EXPIRED", view.Credit.Status)
}

func TestExecute_CompleteFailsWhenExpiredCreditCannotBeMarked(t *testing.T) {
	f := newFixture(t)
	w := f.world
	id := f.book(t, w.MorningSlot.ID, true)

	f.move(t, id, domain.StatusConfirmed, domain.StatusInProgress)
	f.clock.now = f.clock.now.AddDate(2, 0, 0)
	w.Store.FailOn("credit.UpdateStatus", errors.New("current transaction is aborted"))

	_, err := f.uc.Execute(context.Background(), &Request{Actor: f.staff(), BookingID: id, Status: "COMPLETED"})
	require.ErrorIs(t, err, ErrInternal)

	stored, err := w.Store.Bookings().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
	assert.Equal(t, []string{"PENDING->CONFIRMED", "CONFIRMED->IN_PROGRESS"}, f.metrics.transitions)
}

func TestExecute_TransitionTable(t *testing.T) {
	tests := []struct {
		path    []domain.BookingStatus
		target  domain.BookingStatus
		allowed bool
	}{
		{nil, domain.StatusConfirmed, true},
		{nil, domain.StatusCancelled, true},
		{nil, domain.StatusInProgress, false},
		{nil, domain.StatusCompleted, false},
		{nil, domain.StatusPaid, false},
		{nil, domain.StatusPending, false},
		{[]domain.BookingStatus{domain.StatusConfirmed}, domain.StatusInProgress, true},
		{[]domain.BookingStatus{domain.StatusConfirmed}, domain.StatusCompleted, false},
		{[]domain.BookingStatus{domain.StatusConfirmed, domain.StatusInProgress}, domain.StatusCancelled, true},
		{[]domain.BookingStatus{domain.StatusConfirmed, domain.StatusInProgress, domain.StatusCompleted}, domain.StatusCancelled, false},
		{[]domain.BookingStatus{domain.StatusConfirmed, domain.StatusInProgress, domain.StatusCompleted, domain.StatusPaid}, domain.StatusCancelled, false},
		{[]domain.BookingStatus{domain.StatusCancelled}, domain.StatusConfirmed, false},
	}

	for _, tt := range tests {
		from := domain.StatusPending
		if len(tt.path) > 0 {
			from = tt.path[len(tt.path)-1]
		}
		t.Run(from.String()+"->"+tt.target.String(), func(t *testing.T) {
			f := newFixture(t)
			id := f.book(t, f.world.MorningSlot.ID, false)
			f.move(t, id, tt.path...)

			_, err := f.uc.Execute(context.Background(), &Request{Actor: f.staff(), BookingID: id, Status: tt.target.String()})
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidTransition)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Contains(t, err.Error(), from.String()+" -> "+tt.target.String())
		})
	}
}

func TestExecute_AccessRules(t *testing.T) {
	f := newFixture(t)
	w := f.world
	id := f.book(t, w.MorningSlot.ID, false)

	// Клиент не может подтвердить свое бронирование
	_, err := f.uc.Execute(context.Background(), &Request{Actor: f.customer(), BookingID: id, Status: "CONFIRMED"})
	require.ErrorIs(t, err, ErrAccessDenied)

	// Чужой клиент не может отменить
	other := domain.Actor{UserID: w.OtherCustomer.ID, Role: domain.RoleCustomer}
	_, err = f.uc.Execute(context.Background(), &Request{Actor: other, BookingID: id, Status: "CANCELLED"})
	require.ErrorIs(t, err, ErrAccessDenied)

	assert.False(t, w.Slot(w.MorningSlot.ID).IsAvailable)
	assert.Empty(t, w.Store.Outbox().Events(domain.EventBookingStatusChanged))
}

func TestExecute_InputErrors(t *testing.T) {
	f := newFixture(t)
	id := f.book(t, f.world.MorningSlot.ID, false)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"zero id", &Request{Actor: f.staff(), Status: "CONFIRMED"}, ErrInvalidInput},
		{"unknown status", &Request{Actor: f.staff(), BookingID: id, Status: "DONE"}, ErrInvalidInput},
		{"reason without cancel", &Request{Actor: f.staff(), BookingID: id, Status: "CONFIRMED", CancellationReason: ptr.Ptr("x")}, ErrInvalidInput},
		{"missing booking", &Request{Actor: f.staff(), BookingID: 999, Status: "CONFIRMED"}, ErrBookingNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := f.uc.Execute(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, view)
		})
	}
}

func TestExecute_FailedUpdateRollsBackSideEffects(t *testing.T) {
	f := newFixture(t)
	w := f.world
	id := f.book(t, w.MorningSlot.ID, true)

	w.Store.FailOn("booking.Update", errors.New("connection reset"))

	_, err := f.uc.Execute(context.Background(), &Request{Actor: f.staff(), BookingID: id, Status: "CANCELLED"})
	require.ErrorIs(t, err, ErrInternal)

	assert.Equal(t, 1, w.CreditCount())
	slot := w.Slot(w.MorningSlot.ID)
	assert.False(t, slot.IsAvailable)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, id, *slot.BookingID)

	list, _, err := f.seeder.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChecklistStatusPending, list.Status)
	assert.Empty(t, f.metrics.transitions)
}
