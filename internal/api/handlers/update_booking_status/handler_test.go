package update_booking_status

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
	updateStatus "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/update_booking_status"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
)

type stubUseCase struct {
	got *updateStatus.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *updateStatus.Request) (*models.BookingView, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingView{BookingResponse: models.BookingResponse{ID: req.BookingID, Status: req.Status}}, nil
}

func serve(uc UpdateStatusUseCase, id, body string, withActor bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+id+"/status", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 99, Role: domain.RoleStaff}))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, "12", `{"status":"CONFIRMED"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(12), uc.got.BookingID)
	assert.Equal(t, "CONFIRMED", uc.got.Status)
	assert.Equal(t, domain.RoleStaff, uc.got.Actor.Role)
	assert.Nil(t, uc.got.CancellationReason)
}

func TestHandle_PassesCancellationReason(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, "12", `{"status":"CANCELLED","cancellationReason":"customer request"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got.CancellationReason)
	assert.Equal(t, "customer request", *uc.got.CancellationReason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		withActor  bool
		err        error
		wantStatus int
	}{
		{"bad id", "abc", `{"status":"PAID"}`, true, nil, http.StatusBadRequest},
		{"no actor", "1", `{"status":"PAID"}`, false, nil, http.StatusUnauthorized},
		{"bad body", "1", `status=PAID`, true, nil, http.StatusBadRequest},
		{"transition", "1", `{"status":"PAID"}`, true,
			fmt.Errorf("%w: %w", updateStatus.ErrInvalidTransition, domain.ErrInvalidTransition), http.StatusBadRequest},
		{"input", "1", `{"status":"DONE"}`, true, updateStatus.ErrInvalidInput, http.StatusBadRequest},
		{"not found", "1", `{"status":"PAID"}`, true, updateStatus.ErrBookingNotFound, http.StatusNotFound},
		{"forbidden", "1", `{"status":"PAID"}`, true, updateStatus.ErrAccessDenied, http.StatusForbidden},
		{"internal", "1", `{"status":"PAID"}`, true, updateStatus.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.id, tt.body, tt.withActor)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_TransitionMessageSurfaced(t *testing.T) {
	err := fmt.Errorf("%w: %w", updateStatus.ErrInvalidTransition, domain.ErrInvalidTransition)
	rec := serve(&stubUseCase{err: err}, "1", `{"status":"PAID"}`, true)

	assert.Contains(t, rec.Body.String(), "transition rejected")
}
