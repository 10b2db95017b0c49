package staff

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/internal/service/catalog/models"
	"github.com/m04kA/salon-booking/pkg/logger"
)

type fakeService struct {
	activeOnly *bool
	created    *models.CreateStaffRequest
	err        error
}

func (f *fakeService) ListStaff(_ context.Context, activeOnly bool) (*models.StaffListResponse, error) {
	f.activeOnly = &activeOnly
	return &models.StaffListResponse{Staff: []models.StaffResponse{}}, f.err
}

func (f *fakeService) GetStaff(_ context.Context, id int64) (*models.StaffResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.StaffResponse{ID: id}, nil
}

func (f *fakeService) CreateStaff(_ context.Context, req *models.CreateStaffRequest) (*models.StaffResponse, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.StaffResponse{ID: 1, Name: req.Name}, nil
}

func (f *fakeService) UpdateStaff(_ context.Context, id int64, _ *models.UpdateStaffRequest) (*models.StaffResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.StaffResponse{ID: id}, nil
}

func (f *fakeService) DeleteStaff(context.Context, int64) error {
	return f.err
}

func newRouter(svc CatalogService) *mux.Router {
	h := NewHandler(svc, logger.Nop())
	r := mux.NewRouter()
	r.HandleFunc("/staff", h.List).Methods(http.MethodGet)
	r.HandleFunc("/staff/{staffId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/admin/staff", h.ListAll).Methods(http.MethodGet)
	r.HandleFunc("/admin/staff", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/admin/staff/{staffId}", h.Update).Methods(http.MethodPatch)
	r.HandleFunc("/admin/staff/{staffId}", h.Delete).Methods(http.MethodDelete)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandler_ListVisibility(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/staff", "").Code)
	assert.True(t, *svc.activeOnly)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin/staff", "").Code)
	assert.False(t, *svc.activeOnly)
}

func TestHandler_Create(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	rec := do(r, http.MethodPost, "/admin/staff",
		`{"name":"Olga","serviceIds":[1,2],"workingHours":{"monday":{"start":"10:00","end":"18:00"},"sunday":null}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, svc.created)
	assert.Equal(t, []int64{1, 2}, svc.created.ServiceIDs)
	assert.Equal(t, "18:00", svc.created.WorkingHours["monday"].End)
	assert.Nil(t, svc.created.WorkingHours["sunday"])

	rec = do(r, http.MethodPost, "/admin/staff", `{"name":"Olga","serviceIds":[0]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		err    error
		status int
	}{
		{name: "bad id", method: http.MethodGet, path: "/staff/0", status: http.StatusBadRequest},
		{name: "not found", method: http.MethodGet, path: "/staff/5", err: catalog.ErrStaffNotFound, status: http.StatusNotFound},
		{name: "invalid", method: http.MethodPatch, path: "/admin/staff/5", body: `{"serviceIds":[42]}`, err: catalog.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "delete ok", method: http.MethodDelete, path: "/admin/staff/5", status: http.StatusNoContent},
		{name: "internal", method: http.MethodDelete, path: "/admin/staff/5", err: catalog.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakeService{err: tt.err})
			assert.Equal(t, tt.status, do(r, tt.method, tt.path, tt.body).Code)
		})
	}
}
