package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/ptr"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var now = time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)

func newResolver(w *memory.World) *Resolver {
	return NewResolver(w.Store.Packages(), w.Store.Directory(), fixedClock{now: now})
}

func TestResolve_Service(t *testing.T) {
	w := memory.NewWorld(now)
	r := newResolver(w)

	quote, err := r.Resolve(context.Background(), Selection{ServiceID: ptr.Ptr(w.Service.ID)})
	require.NoError(t, err)

	assert.Equal(t, 500_000.0, quote.Amount)
	assert.False(t, quote.IsPackage())
	assert.Equal(t, "service", quote.PricingSource())
	assert.Equal(t, w.Service.ID, quote.Service.ID)
}

func TestResolve_PackageAppliesDiscount(t *testing.T) {
	w := memory.NewWorld(now)
	r := newResolver(w)

	quote, err := r.Resolve(context.Background(), Selection{PackageCode: ptr.Ptr("  PKG-A ")})
	require.NoError(t, err)

	assert.Equal(t, 400_000.0, quote.Amount)
	assert.True(t, quote.IsPackage())
	assert.Equal(t, "package", quote.PricingSource())
	assert.Equal(t, w.Package.ID, quote.Package.ID)
	assert.Equal(t, w.Service.ID, quote.Service.ID)
}

func TestResolve_Errors(t *testing.T) {
	w := memory.NewWorld(now)

	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	w.Store.AddPackage(domain.ServicePackage{ID: 50, Code: "OFF", ServiceID: w.Service.ID, TotalUses: 2, IsActive: false})
	w.Store.AddPackage(domain.ServicePackage{ID: 51, Code: "OLD", ServiceID: w.Service.ID, TotalUses: 2, IsActive: true, ValidUntil: &yesterday})
	w.Store.AddPackage(domain.ServicePackage{ID: 52, Code: "SOON", ServiceID: w.Service.ID, TotalUses: 2, IsActive: true, ValidFrom: &tomorrow})
	w.Store.AddService(domain.Service{ID: 53, Name: "Retired", BasePrice: 100, IsActive: false})

	tests := []struct {
		name    string
		sel     Selection
		wantErr error
	}{
		{name: "nothing selected", sel: Selection{}, wantErr: ErrInvalidSelection},
		{name: "blank package code", sel: Selection{PackageCode: ptr.Ptr("   ")}, wantErr: ErrInvalidSelection},
		{name: "both selected", sel: Selection{ServiceID: ptr.Ptr(w.Service.ID), PackageCode: ptr.Ptr("PKG-A")}, wantErr: ErrInvalidSelection},
		{name: "non-positive service id", sel: Selection{ServiceID: ptr.Ptr(int64(0))}, wantErr: ErrInvalidSelection},
		{name: "unknown service", sel: Selection{ServiceID: ptr.Ptr(int64(999))}, wantErr: ErrServiceNotFound},
		{name: "inactive service", sel: Selection{ServiceID: ptr.Ptr(int64(53))}, wantErr: ErrServiceInactive},
		{name: "unknown package", sel: Selection{PackageCode: ptr.Ptr("NOPE")}, wantErr: ErrPackageNotFound},
		{name: "inactive package", sel: Selection{PackageCode: ptr.Ptr("OFF")}, wantErr: ErrPackageInactive},
		{name: "package past validity", sel: Selection{PackageCode: ptr.Ptr("OLD")}, wantErr: ErrPackageExpired},
		{name: "package not yet valid", sel: Selection{PackageCode: ptr.Ptr("SOON")}, wantErr: ErrPackageExpired},
	}

	r := newResolver(w)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := r.Resolve(context.Background(), tt.sel)
			assert.Nil(t, quote)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}
