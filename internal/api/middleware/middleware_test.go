package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/salon-booking/internal/service/auth"
	"github.com/m04kA/salon-booking/internal/service/auth/models"
	"github.com/m04kA/salon-booking/pkg/logger"
)

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.NewService(string(hash), "secret", time.Hour, logger.Nop())
}

func TestAdminAuth(t *testing.T) {
	svc := newAuthService(t)
	login, err := svc.Login(context.Background(), &models.LoginRequest{Pin: "1234"})
	require.NoError(t, err)

	protected := AdminAuth(svc, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetAdminClaims(r.Context())
		require.True(t, ok)
		assert.Equal(t, auth.AdminSubject, claims.Subject)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid token", header: "Bearer " + login.Token, status: http.StatusNoContent},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + login.Token, status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

type observedRequest struct {
	method string
	route  string
	status int
}

type fakeMetrics struct {
	observed []observedRequest
}

func (f *fakeMetrics) ObserveHTTP(method, route string, status int, _ time.Duration) {
	f.observed = append(f.observed, observedRequest{method: method, route: route, status: status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}
	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/42", nil))

	require.Len(t, m.observed, 1)
	assert.Equal(t, observedRequest{
		method: http.MethodGet,
		route:  "/api/v1/bookings/{bookingId}",
		status: http.StatusNotFound,
	}, m.observed[0])
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	const given = "6f1d1c8e-3e0e-4e43-9d7c-1f1b2f0c8a11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, given)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, given, seen)
}

func TestRecover(t *testing.T) {
	h := Logging(logger.Nop())(Recover(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
