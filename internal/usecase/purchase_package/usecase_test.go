package purchase_package

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/credits"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/ptr"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newUseCase(w *memory.World) *UseCase {
	log := logger.Nop()
	clk := fixedClock{now: time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)}
	ledger := credits.NewLedger(w.Store.Credits(), w.Store.Packages(), nil, clk, log, 0)
	return NewUseCase(w.Store.Directory(), ledger, w.Store.Outbox(), w.Store.TxManager(), clk, log)
}

func TestExecute_PurchaseCreatesCreditAndEvent(t *testing.T) {
	w := memory.NewWorld(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC))
	uc := newUseCase(w)

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:       domain.Actor{UserID: w.Customer.ID, Role: domain.RoleCustomer},
		CustomerID:  w.Customer.ID,
		PackageCode: " PKG-A ",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Credit)
	assert.Equal(t, w.Customer.ID, resp.Credit.CustomerID)
	assert.Equal(t, w.Package.ID, resp.Credit.PackageID)
	assert.Equal(t, 3, resp.Credit.TotalCredits)
	assert.Equal(t, 3, resp.Credit.Remaining)
	assert.Equal(t, "2025-10-14", resp.Credit.PurchaseDate)
	assert.Equal(t, "2026-10-14", resp.Credit.ExpiryDate)
	assert.Equal(t, "ACTIVE", resp.Credit.Status)
	require.NotNil(t, resp.Package)
	assert.Equal(t, "PKG-A", resp.Package.Code)

	events := w.Store.Outbox().Events(domain.EventCreditPurchased)
	require.Len(t, events, 1)
	assert.Equal(t, domain.AggregateCredit, events[0].AggregateType)

	var payload domain.CreditEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, resp.Credit.ID, payload.CreditID)
	assert.Equal(t, 3, payload.TotalCredits)
}

func TestExecute_PurchaseErrors(t *testing.T) {
	staff := domain.Actor{UserID: 500, Role: domain.RoleStaff}

	tests := []struct {
		name    string
		req     func(w *memory.World) *Request
		wantErr error
	}{
		{
			name:    "empty code",
			req:     func(w *memory.World) *Request { return &Request{Actor: staff, CustomerID: w.Customer.ID, PackageCode: "  "} },
			wantErr: ErrInvalidInput,
		},
		{
			name: "another customer",
			req: func(w *memory.World) *Request {
				return &Request{
					Actor:       domain.Actor{UserID: w.OtherCustomer.ID, Role: domain.RoleCustomer},
					CustomerID:  w.Customer.ID,
					PackageCode: "PKG-A",
				}
			},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown customer",
			req:     func(_ *memory.World) *Request { return &Request{Actor: staff, CustomerID: 999, PackageCode: "PKG-A"} },
			wantErr: ErrCustomerNotFound,
		},
		{
			name:    "unknown package",
			req:     func(w *memory.World) *Request { return &Request{Actor: staff, CustomerID: w.Customer.ID, PackageCode: "NOPE"} },
			wantErr: ErrPackageNotFound,
		},
		{
			name: "inactive package",
			req: func(w *memory.World) *Request {
				w.Store.AddPackage(domain.ServicePackage{Code: "OFF", ServiceID: w.Service.ID, TotalUses: 1})
				return &Request{Actor: staff, CustomerID: w.Customer.ID, PackageCode: "OFF"}
			},
			wantErr: ErrPackageInactive,
		},
		{
			name: "expired package",
			req: func(w *memory.World) *Request {
				w.Store.AddPackage(domain.ServicePackage{
					Code: "OLD", ServiceID: w.Service.ID, TotalUses: 1, IsActive: true,
					ValidUntil: ptr.Ptr(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)),
				})
				return &Request{Actor: staff, CustomerID: w.Customer.ID, PackageCode: "OLD"}
			},
			wantErr: ErrPackageExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := memory.NewWorld(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC))
			uc := newUseCase(w)

			resp, err := uc.Execute(context.Background(), tt.req(w))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
			assert.Zero(t, w.CreditCount())
		})
	}
}

func TestExecute_OutboxFailureRollsBackCredit(t *testing.T) {
	w := memory.NewWorld(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC))
	uc := newUseCase(w)
	w.Store.FailOn("outbox.Enqueue", errors.New("connection reset"))

	_, err := uc.Execute(context.Background(), &Request{
		Actor:       domain.Actor{UserID: w.Customer.ID},
		CustomerID:  w.Customer.ID,
		PackageCode: "PKG-A",
	})
	require.ErrorIs(t, err, ErrInternal)
	assert.Zero(t, w.CreditCount())
}
