package update_booking_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/service/bookings"
	"github.com/m04kA/salon-booking/internal/service/bookings/models"
	"github.com/m04kA/salon-booking/pkg/logger"
)

type fakeService struct {
	gotID  int64
	gotReq *models.UpdateStatusRequest
	err    error
}

func (f *fakeService) UpdateStatus(_ context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	f.gotID = id
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, Status: req.Status}, nil
}

func newRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/bookings/"+id+"/status", strings.NewReader(body))
	return mux.SetURLVars(req, map[string]string{"bookingId": id})
}

func TestHandler_Success(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.Nop())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("12", `{"status":"confirmed"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), svc.gotID)
	assert.Equal(t, "confirmed", svc.gotReq.Status)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		body   string
		err    error
		status int
	}{
		{name: "bad id", id: "x", body: `{"status":"confirmed"}`, status: http.StatusBadRequest},
		{name: "bad body", id: "1", body: `status`, status: http.StatusBadRequest},
		{name: "empty status", id: "1", body: `{"status":""}`, status: http.StatusUnprocessableEntity},
		{name: "not found", id: "1", body: `{"status":"confirmed"}`, err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "unknown status", id: "1", body: `{"status":"lost"}`, err: bookings.ErrInvalidStatus, status: http.StatusBadRequest},
		{name: "forbidden transition", id: "1", body: `{"status":"pending"}`, err: bookings.ErrInvalidTransition, status: http.StatusConflict},
		{name: "time occupied", id: "1", body: `{"status":"confirmed"}`, err: bookings.ErrSlotOccupied, status: http.StatusConflict},
		{name: "day busy", id: "1", body: `{"status":"confirmed"}`, err: bookings.ErrBookingBusy, status: http.StatusConflict},
		{name: "internal", id: "1", body: `{"status":"confirmed"}`, err: bookings.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.Nop())
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.id, tt.body))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
