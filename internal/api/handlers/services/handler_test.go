package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingRepo "github.com/m04kA/salon-booking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/salon-booking/internal/infra/storage/catalog"
	"github.com/m04kA/salon-booking/internal/infra/storage/storagetest"
	"github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/internal/service/catalog/models"
	"github.com/m04kA/salon-booking/pkg/logger"
	"github.com/m04kA/salon-booking/pkg/txmanager"
)

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	db, qb := storagetest.NewSQLite(t)
	svc := catalog.NewService(catalogRepo.NewRepository(db, qb), bookingRepo.NewRepository(db, qb),
		txmanager.New(db, false), logger.Nop())
	h := NewHandler(svc, logger.Nop())

	r := mux.NewRouter()
	r.HandleFunc("/services", h.List).Methods(http.MethodGet)
	r.HandleFunc("/services/{serviceId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/admin/services", h.ListAll).Methods(http.MethodGet)
	r.HandleFunc("/admin/services", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/admin/services/{serviceId}", h.Update).Methods(http.MethodPatch)
	r.HandleFunc("/admin/services/{serviceId}", h.Delete).Methods(http.MethodDelete)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandler_Lifecycle(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodPost, "/admin/services", `{"name":"Haircut","durationMinutes":45,"price":1500}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.ServiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Active)

	rec = do(r, http.MethodPatch, "/admin/services/"+itoa(created.ID), `{"active":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var list models.ServiceListResponse
	rec = do(r, http.MethodGet, "/services", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Services)

	rec = do(r, http.MethodGet, "/admin/services", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Services, 1)

	rec = do(r, http.MethodDelete, "/admin/services/"+itoa(created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deactivated":false}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/services/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_BadRequests(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "bad id", method: http.MethodGet, path: "/services/abc", status: http.StatusBadRequest},
		{name: "broken body", method: http.MethodPost, path: "/admin/services", body: `{`, status: http.StatusBadRequest},
		{name: "missing name", method: http.MethodPost, path: "/admin/services", body: `{"durationMinutes":30}`, status: http.StatusUnprocessableEntity},
		{name: "too short", method: http.MethodPost, path: "/admin/services", body: `{"name":"X","durationMinutes":1}`, status: http.StatusUnprocessableEntity},
		{name: "update missing", method: http.MethodPatch, path: "/admin/services/99", body: `{"price":10}`, status: http.StatusNotFound},
		{name: "delete missing", method: http.MethodDelete, path: "/admin/services/99", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, do(r, tt.method, tt.path, tt.body).Code)
		})
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
