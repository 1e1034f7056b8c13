package get_customer_credits

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
	getCustomerCredits "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/get_customer_credits"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/logger"
)

type stubUseCase struct {
	got *getCustomerCredits.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *getCustomerCredits.Request) (*models.CreditListResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.CreditListResponse{Credits: []models.CreditInfo{}}, nil
}

func serve(uc GetCustomerCreditsUseCase, id, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+id+"/credits"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"customerId": id})
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 1}))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, "1", "?only_usable=true")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"credits":[]}`, rec.Body.String())
	assert.Equal(t, int64(1), uc.got.CustomerID)
	assert.True(t, uc.got.OnlyUsable)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&stubUseCase{}, "x", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&stubUseCase{}, "1", "?only_usable=perhaps").Code)
	assert.Equal(t, http.StatusForbidden, serve(&stubUseCase{err: getCustomerCredits.ErrAccessDenied}, "2", "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&stubUseCase{err: getCustomerCredits.ErrInternal}, "1", "").Code)
}
