package get_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/service/bookings"
	"github.com/m04kA/salon-booking/internal/service/bookings/models"
	"github.com/m04kA/salon-booking/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) GetByID(_ context.Context, id int64) (*models.BookingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, Status: "pending"}, nil
}

func newRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings/"+id, nil)
	return mux.SetURLVars(req, map[string]string{"bookingId": id})
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		err    error
		status int
	}{
		{name: "found", id: "7", status: http.StatusOK},
		{name: "bad id", id: "abc", status: http.StatusBadRequest},
		{name: "not found", id: "7", err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "internal", id: "7", err: errors.New("db down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.Nop())
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.id))
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"id":7`)
			}
		})
	}
}
