package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
)

type stubService struct {
	view *models.BookingView
	err  error
}

func (s *stubService) GetByID(_ context.Context, id int64, _ domain.Actor) (*models.BookingView, error) {
	if s.err != nil {
		return nil, s.err
	}
	view := *s.view
	view.ID = id
	return &view, nil
}

func serve(svc BookingService, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 1}))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &stubService{view: &models.BookingView{
		BookingResponse:    models.BookingResponse{Status: "CONFIRMED"},
		AllowedTransitions: []string{"IN_PROGRESS", "CANCELLED"},
	}}

	rec := serve(svc, "31")

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.BookingView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(31), body.ID)
	assert.Equal(t, []string{"IN_PROGRESS", "CANCELLED"}, body.AllowedTransitions)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&stubService{}, "x").Code)
	assert.Equal(t, http.StatusNotFound, serve(&stubService{err: bookings.ErrBookingNotFound}, "1").Code)
	assert.Equal(t, http.StatusForbidden, serve(&stubService{err: bookings.ErrAccessDenied}, "1").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&stubService{err: bookings.ErrInternal}, "1").Code)
}
