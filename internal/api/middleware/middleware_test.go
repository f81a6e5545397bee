package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/pkg/metrics"
)

func TestAuth(t *testing.T) {
	var gotID int64
	var gotRole domain.ActorRole
	var hasRole bool

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
		gotRole, hasRole = GetActorRole(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Auth(next)

	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
		wantRole   bool
	}{
		{"user and role", "42", "consultant", http.StatusNoContent, true},
		{"user only", "42", "", http.StatusNoContent, false},
		{"missing user", "", "seeker", http.StatusUnauthorized, false},
		{"non numeric user", "abc", "", http.StatusUnauthorized, false},
		{"unknown role", "42", "admin", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotRole, hasRole = 0, "", false

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(HeaderActorRole, tt.role)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, int64(42), gotID)
			}
			assert.Equal(t, tt.wantRole, hasRole)
			if tt.wantRole {
				assert.Equal(t, domain.RoleConsultant, gotRole)
			}
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), "test")

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/bookings/{bookingId}", "404")))
}
