package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/service/clients"
	"github.com/m04kA/salon-booking/internal/service/clients/models"
	"github.com/m04kA/salon-booking/pkg/logger"
)

type fakeService struct {
	listReq  *models.ListClientsRequest
	notesReq *models.UpdateNotesRequest
	err      error
}

func (f *fakeService) List(_ context.Context, req *models.ListClientsRequest) (*models.ClientListResponse, error) {
	f.listReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ClientListResponse{Clients: []models.ClientResponse{}, Limit: req.Limit, Offset: req.Offset}, nil
}

func (f *fakeService) Get(_ context.Context, id int64) (*models.ClientDetailsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ClientDetailsResponse{ClientResponse: models.ClientResponse{ID: id}}, nil
}

func (f *fakeService) UpdateNotes(_ context.Context, id int64, req *models.UpdateNotesRequest) (*models.ClientResponse, error) {
	f.notesReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ClientResponse{ID: id, Notes: req.Notes}, nil
}

func (f *fakeService) Delete(context.Context, int64) error {
	return f.err
}

func newRouter(svc ClientService) *mux.Router {
	h := NewHandler(svc, logger.Nop())
	r := mux.NewRouter()
	r.HandleFunc("/admin/clients", h.List).Methods(http.MethodGet)
	r.HandleFunc("/admin/clients/{clientId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/admin/clients/{clientId}/notes", h.UpdateNotes).Methods(http.MethodPut)
	r.HandleFunc("/admin/clients/{clientId}", h.Delete).Methods(http.MethodDelete)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandler_List(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	rec := do(r, http.MethodGet, "/admin/clients?search=anna&limit=10&offset=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anna", svc.listReq.Search)
	assert.Equal(t, 10, svc.listReq.Limit)
	assert.Equal(t, 20, svc.listReq.Offset)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/admin/clients?limit=ten", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/admin/clients?offset=-", "").Code)
}

func TestHandler_UpdateNotes(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	rec := do(r, http.MethodPut, "/admin/clients/3/notes", `{"notes":"prefers Olga"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.notesReq.Notes)
	assert.Equal(t, "prefers Olga", *svc.notesReq.Notes)

	rec = do(r, http.MethodPut, "/admin/clients/3/notes", `{"notes":"`+strings.Repeat("a", 501)+`"}`)
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
		{name: "bad id", method: http.MethodGet, path: "/admin/clients/x", status: http.StatusBadRequest},
		{name: "not found", method: http.MethodGet, path: "/admin/clients/9", err: clients.ErrClientNotFound, status: http.StatusNotFound},
		{name: "invalid notes", method: http.MethodPut, path: "/admin/clients/9/notes", body: `{"notes":"x"}`, err: clients.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "delete ok", method: http.MethodDelete, path: "/admin/clients/9", status: http.StatusNoContent},
		{name: "delete missing", method: http.MethodDelete, path: "/admin/clients/9", err: clients.ErrClientNotFound, status: http.StatusNotFound},
		{name: "internal", method: http.MethodGet, path: "/admin/clients", err: clients.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakeService{err: tt.err})
			assert.Equal(t, tt.status, do(r, tt.method, tt.path, tt.body).Code)
		})
	}
}
