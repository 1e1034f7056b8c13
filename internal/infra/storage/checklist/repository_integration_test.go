package checklist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/ptr"
)

func createChecklist(t *testing.T, repo *Repository, bookingID, templateID int64) *domain.MaintenanceChecklist {
	t.Helper()

	created, err := repo.CreateChecklist(context.Background(), &domain.MaintenanceChecklist{
		BookingID:  bookingID,
		TemplateID: templateID,
		Status:     domain.ChecklistStatusPending,
	})
	require.NoError(t, err)
	return created
}

func TestRepository_PostgresCreateResultsBatch(t *testing.T) {
	db := storagetest.OpenDB(t)
	f := storagetest.Seed(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	bookingID := storagetest.InsertBooking(t, db, f)
	list := createChecklist(t, repo, bookingID, f.TemplateID)

	results := []*domain.MaintenanceChecklistResult{
		{ChecklistID: list.ID, PartID: ptr.Ptr(f.PartID), PartName: ptr.Ptr("Engine oil"), Description: "Drain and refill engine oil", Status: domain.ChecklistStatusPending},
		{ChecklistID: list.ID, Description: "Check tyre pressure", Status: domain.ChecklistStatusPending},
		{ChecklistID: list.ID, Description: "Inspect brake pads", Status: domain.ChecklistStatusPending},
	}
	require.NoError(t, repo.CreateResults(ctx, results))

	for i, res := range results {
		assert.NotZero(t, res.ID, "result %d", i)
		if i > 0 {
			assert.Greater(t, res.ID, results[i-1].ID)
		}
	}

	stored, err := repo.GetResults(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "Drain and refill engine oil", stored[0].Description)
	require.NotNil(t, stored[0].PartID)
	assert.Equal(t, f.PartID, *stored[0].PartID)
	assert.Nil(t, stored[1].PartID)

	got, err := repo.GetByBookingID(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, list.ID, got.ID)
	assert.Equal(t, 3, got.ResultCount)
}

func TestRepository_PostgresCreateResultsIsAllOrNothing(t *testing.T) {
	db := storagetest.OpenDB(t)
	f := storagetest.Seed(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	bookingID := storagetest.InsertBooking(t, db, f)
	list := createChecklist(t, repo, bookingID, f.TemplateID)

	err := repo.CreateResults(ctx, []*domain.MaintenanceChecklistResult{
		{ChecklistID: list.ID, Description: "Check tyre pressure", Status: domain.ChecklistStatusPending},
		{ChecklistID: list.ID, PartID: ptr.Ptr(int64(999)), Description: "Replace missing part", Status: domain.ChecklistStatusPending},
	})
	// Нарушение внешнего ключа драйвер может вернуть как из Query, так и из rows.Err
	require.Error(t, err)

	stored, err := repo.GetResults(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRepository_PostgresCancelByBookingID(t *testing.T) {
	db := storagetest.OpenDB(t)
	f := storagetest.Seed(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	bookingID := storagetest.InsertBooking(t, db, f)

	cancelled, err := repo.CancelByBookingID(ctx, bookingID)
	require.NoError(t, err)
	assert.False(t, cancelled)

	list := createChecklist(t, repo, bookingID, f.TemplateID)
	require.NoError(t, repo.CreateResults(ctx, []*domain.MaintenanceChecklistResult{
		{ChecklistID: list.ID, Description: "Check tyre pressure", Status: domain.ChecklistStatusPending},
	}))

	cancelled, err = repo.CancelByBookingID(ctx, bookingID)
	require.NoError(t, err)
	assert.True(t, cancelled)

	got, err := repo.GetByBookingID(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChecklistStatusCancelled, got.Status)

	stored, err := repo.GetResults(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.ChecklistStatusCancelled, stored[0].Status)
}
