package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	directoryRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/directory"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/pricing"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/ptr"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC) }

// countingDirectory считает обращения к нижележащему справочнику
type countingDirectory struct {
	Directory
	services  int
	timeSlot  int
	timeSlots int
}

func (d *countingDirectory) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	d.services++
	return d.Directory.GetService(ctx, id)
}

func (d *countingDirectory) GetTimeSlot(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	d.timeSlot++
	return d.Directory.GetTimeSlot(ctx, id)
}

func (d *countingDirectory) ListTimeSlots(ctx context.Context) ([]*domain.TimeSlot, error) {
	d.timeSlots++
	return d.Directory.ListTimeSlots(ctx)
}

func setup(t *testing.T) (*DirectoryCache, *countingDirectory, *memory.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	store := memory.NewStore()
	next := &countingDirectory{Directory: store.Directory()}
	return NewDirectoryCache(next, client, time.Minute, logger.Nop()), next, store, mr
}

func TestDirectoryCache_GetTimeSlot_ReadThrough(t *testing.T) {
	c, next, store, mr := setup(t)
	slot := store.AddTimeSlot(domain.TimeSlot{Label: "Morning", StartTime: "08:00", EndTime: "10:00"})

	first, err := c.GetTimeSlot(context.Background(), slot.ID)
	require.NoError(t, err)
	second, err := c.GetTimeSlot(context.Background(), slot.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, next.timeSlot)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(keyPrefix+"timeslot:"+itoa(slot.ID)))
	assert.InDelta(t, time.Minute.Seconds(), mr.TTL(keyPrefix+"timeslot:"+itoa(slot.ID)).Seconds(), 1)
}

func TestDirectoryCache_GetTimeSlot_NotFoundIsNotCached(t *testing.T) {
	c, next, _, mr := setup(t)

	_, err := c.GetTimeSlot(context.Background(), 999)
	require.ErrorIs(t, err, directoryRepo.ErrTimeSlotNotFound)
	_, err = c.GetTimeSlot(context.Background(), 999)
	require.ErrorIs(t, err, directoryRepo.ErrTimeSlotNotFound)

	assert.Equal(t, 2, next.timeSlot)
	assert.False(t, mr.Exists(keyPrefix+"timeslot:999"))
}

func TestDirectoryCache_DeactivatedServiceIsRejectedByPricing(t *testing.T) {
	c, next, store, mr := setup(t)
	svc := store.AddService(domain.Service{Name: "Oil change", BasePrice: 500000, DurationMinutes: 60, IsActive: true})
	resolver := pricing.NewResolver(store.Packages(), c, fixedClock{})

	quote, err := resolver.Resolve(context.Background(), pricing.Selection{ServiceID: ptr.Ptr(svc.ID)})
	require.NoError(t, err)
	assert.Equal(t, 500000.0, quote.Amount)

	svc.IsActive = false
	store.AddService(svc)

	_, err = resolver.Resolve(context.Background(), pricing.Selection{ServiceID: ptr.Ptr(svc.ID)})
	assert.ErrorIs(t, err, pricing.ErrServiceInactive)
	assert.Equal(t, 2, next.services)
	assert.False(t, mr.Exists(keyPrefix+"service:"+itoa(svc.ID)))
}

func TestDirectoryCache_ActiveFlagsAreAlwaysFresh(t *testing.T) {
	c, _, store, _ := setup(t)
	ctx := context.Background()
	center := store.AddCenter(domain.ServiceCenter{Name: "District 1", IsActive: true})
	tech := store.AddTechnician(domain.Technician{CenterID: center.ID, FullName: "Tran Thi Binh", IsActive: true})

	gotCenter, err := c.GetCenter(ctx, center.ID)
	require.NoError(t, err)
	require.True(t, gotCenter.IsActive)
	gotTech, err := c.GetTechnician(ctx, tech.ID)
	require.NoError(t, err)
	require.True(t, gotTech.IsActive)

	center.IsActive = false
	store.AddCenter(center)
	tech.IsActive = false
	store.AddTechnician(tech)

	gotCenter, err = c.GetCenter(ctx, center.ID)
	require.NoError(t, err)
	assert.False(t, gotCenter.IsActive)
	gotTech, err = c.GetTechnician(ctx, tech.ID)
	require.NoError(t, err)
	assert.False(t, gotTech.IsActive)
}

func TestDirectoryCache_ListTimeSlots(t *testing.T) {
	c, next, store, _ := setup(t)
	store.AddTimeSlot(domain.TimeSlot{Label: "Morning", StartTime: "08:00", EndTime: "09:00"})
	store.AddTimeSlot(domain.TimeSlot{Label: "Late morning", StartTime: "10:00", EndTime: "11:00"})

	slots, err := c.ListTimeSlots(context.Background())
	require.NoError(t, err)
	cached, err := c.ListTimeSlots(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, next.timeSlots)
	require.Len(t, cached, 2)
	assert.Equal(t, slots[0].Label, cached[0].Label)
	assert.Equal(t, "08:00", cached[0].StartTime.String())
}

func TestDirectoryCache_Invalidate(t *testing.T) {
	c, next, store, _ := setup(t)
	store.AddTimeSlot(domain.TimeSlot{Label: "Morning", StartTime: "08:00", EndTime: "09:00"})

	_, err := c.ListTimeSlots(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(context.Background(), "timeslots"))
	_, err = c.ListTimeSlots(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, next.timeSlots)
}

func TestDirectoryCache_RedisDownFallsBackToStorage(t *testing.T) {
	c, next, store, mr := setup(t)
	svc := store.AddService(domain.Service{Name: "Brake check", BasePrice: 300000, IsActive: true})
	mr.Close()

	got, err := c.GetService(context.Background(), svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brake check", got.Name)
	assert.Equal(t, 1, next.services)
	assert.Error(t, c.Ping(context.Background()))
}

func TestDirectoryCache_NilClientIsTransparent(t *testing.T) {
	store := memory.NewStore()
	next := &countingDirectory{Directory: store.Directory()}
	c := NewDirectoryCache(next, nil, 0, nil)
	svc := store.AddService(domain.Service{Name: "Tyres", IsActive: true})

	for i := 0; i < 3; i++ {
		_, err := c.GetService(context.Background(), svc.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, next.services)
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Invalidate(context.Background(), "timeslots"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
