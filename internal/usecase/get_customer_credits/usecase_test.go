package get_customer_credits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/credits"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestExecute_ListsCredits(t *testing.T) {
	now := time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)
	w := memory.NewWorld(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC))
	s := w.Store

	active := s.AddCredit(domain.CustomerServiceCredit{
		CustomerID: w.Customer.ID, PackageID: w.Package.ID, ServiceID: w.Service.ID,
		TotalCredits: 3, UsedCredits: 1, PurchaseDate: now.AddDate(0, -1, 0),
		ExpiryDate: now.AddDate(0, 11, 0), Status: domain.CreditStatusActive,
	})
	stale := s.AddCredit(domain.CustomerServiceCredit{
		CustomerID: w.Customer.ID, PackageID: w.Package.ID, ServiceID: w.Service.ID,
		TotalCredits: 3, PurchaseDate: now.AddDate(-1, -1, 0),
		ExpiryDate: now.AddDate(0, -1, 0), Status: domain.CreditStatusActive,
	})
	s.AddCredit(domain.CustomerServiceCredit{
		CustomerID: w.OtherCustomer.ID, PackageID: w.Package.ID, ServiceID: w.Service.ID,
		TotalCredits: 3, ExpiryDate: now.AddDate(1, 0, 0), Status: domain.CreditStatusActive,
	})

	log := logger.Nop()
	clk := fixedClock{now: now}
	ledger := credits.NewLedger(s.Credits(), s.Packages(), nil, clk, log, 0)
	uc := NewUseCase(ledger, clk, log)

	actor := domain.Actor{UserID: w.Customer.ID, Role: domain.RoleCustomer}

	resp, err := uc.Execute(context.Background(), &Request{Actor: actor, CustomerID: w.Customer.ID})
	require.NoError(t, err)
	require.Len(t, resp.Credits, 2)

	byID := map[int64]string{}
	for _, c := range resp.Credits {
		byID[c.ID] = c.Status
	}
	assert.Equal(t, "ACTIVE", byID[active.ID])
	assert.Equal(t, "EXPIRED", byID[stale.ID])

	usable, err := uc.Execute(context.Background(), &Request{Actor: actor, CustomerID: w.Customer.ID, OnlyUsable: true})
	require.NoError(t, err)
	require.Len(t, usable.Credits, 1)
	assert.Equal(t, active.ID, usable.Credits[0].ID)
	assert.Equal(t, 2, usable.Credits[0].Remaining)

	_, err = uc.Execute(context.Background(), &Request{Actor: actor, CustomerID: w.OtherCustomer.ID})
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = uc.Execute(context.Background(), &Request{Actor: actor})
	require.ErrorIs(t, err, ErrInvalidInput)
}
