package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/types"
)

type stubUseCase struct {
	got *createBooking.Request
	res *models.BookingView
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*models.BookingView, error) {
	s.got = req
	return s.res, s.err
}

const validBody = `{
	"customerId": 1,
	"vehicleId": 3,
	"centerId": 4,
	"bookingDate": "2025-10-15",
	"technicianSlotId": 10,
	"packageCode": "PKG-A",
	"specialRequest": "check brakes"
}`

func serve(t *testing.T, uc CreateBookingUseCase, body string, actor *domain.Actor) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{res: &models.BookingView{
		BookingResponse: models.BookingResponse{ID: 55, Status: "PENDING", TotalAmount: 400000, PricingSource: "package"},
	}}
	actor := domain.Actor{UserID: 1, Role: domain.RoleCustomer}

	rec := serve(t, uc, validBody, &actor)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body models.BookingView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(55), body.ID)
	assert.Equal(t, "package", body.PricingSource)

	require.NotNil(t, uc.got)
	assert.Equal(t, actor, uc.got.Actor)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), uc.got.Date)
	assert.Equal(t, int64(10), uc.got.TechnicianSlotID)
	require.NotNil(t, uc.got.PackageCode)
	assert.Equal(t, "PKG-A", *uc.got.PackageCode)
	assert.Nil(t, uc.got.ServiceID)
}

func TestHandle_RequestErrors(t *testing.T) {
	actor := domain.Actor{UserID: 1}

	t.Run("no actor", func(t *testing.T) {
		rec := serve(t, &stubUseCase{}, validBody, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(t, &stubUseCase{}, `{"customerId":`, &actor)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		body := strings.Replace(validBody, "2025-10-15", "15.10.2025", 1)
		uc := &stubUseCase{}
		rec := serve(t, uc, body, &actor)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.got)
	})
}

func TestHandle_UseCaseErrors(t *testing.T) {
	actor := domain.Actor{UserID: 1}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"already taken", createBooking.ErrSlotAlreadyTaken, http.StatusConflict},
		{"access", createBooking.ErrAccessDenied, http.StatusForbidden},
		{"customer", createBooking.ErrCustomerNotFound, http.StatusNotFound},
		{"vehicle", createBooking.ErrVehicleNotFound, http.StatusNotFound},
		{"center", createBooking.ErrCenterNotFound, http.StatusNotFound},
		{"service", createBooking.ErrServiceNotFound, http.StatusNotFound},
		{"package", createBooking.ErrPackageNotFound, http.StatusNotFound},
		{"slot", createBooking.ErrSlotNotFound, http.StatusNotFound},
		{"pricing selection", createBooking.ErrPricingSelection, http.StatusBadRequest},
		{"not owned", createBooking.ErrVehicleNotOwned, http.StatusBadRequest},
		{"inactive center", createBooking.ErrCenterInactive, http.StatusBadRequest},
		{"past date", createBooking.ErrDateInPast, http.StatusBadRequest},
		{"slot in past", createBooking.ErrSlotInPast, http.StatusBadRequest},
		{"expired package", createBooking.ErrPackageExpired, http.StatusBadRequest},
		{"invalid input", fmt.Errorf("%w: mileage", createBooking.ErrInvalidInput), http.StatusBadRequest},
		{"internal", fmt.Errorf("%w: boom", createBooking.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &stubUseCase{err: tt.err}, validBody, &actor)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_SlotUnavailableMessage(t *testing.T) {
	start, _ := types.NewTimeStringFromString("08:00")
	end, _ := types.NewTimeStringFromString("10:00")
	uc := &stubUseCase{err: &createBooking.SlotUnavailableError{
		TechnicianName: "Le Van Cuong",
		Label:          "Morning",
		Date:           time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:      start,
		EndTime:        end,
	}}

	rec := serve(t, uc, validBody, &domain.Actor{UserID: 1})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "Le Van Cuong")
	assert.Contains(t, body.Message, "2025-10-15")
	assert.Contains(t, body.Message, "08:00-10:00")
}
