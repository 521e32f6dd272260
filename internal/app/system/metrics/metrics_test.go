package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.PetitionCreated()
	m.SignAttempt("success")
	m.Signup(nil)
	m.Login("password", errors.New("x"))
	m.AICall("ask", time.Now(), nil)

	rec := httptest.NewRecorder()
	m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}

func TestDomainCounters(t *testing.T) {
	m := New("kairo-test")

	m.PetitionCreated()
	m.PetitionCreated()
	m.SignAttempt("success")
	m.SignAttempt("already_signed")
	m.Login("otp", nil)
	m.Login("password", errors.New("bad"))

	if got := testutil.ToFloat64(m.petitionsCreated); got != 2 {
		t.Errorf("petitions created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.signaturesTotal.WithLabelValues("already_signed")); got != 1 {
		t.Errorf("already_signed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.loginsTotal.WithLabelValues("password", ResultFailure)); got != 1 {
		t.Errorf("password failures = %v, want 1", got)
	}
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New("kairo-test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/petitions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/petitions/"+id, nil))
	}

	got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/petitions/{id}", "404"))
	if got != 3 {
		t.Errorf("requests for pattern = %v, want 3", got)
	}
}

func TestHandler_Exposition(t *testing.T) {
	m := New("kairo-test")
	m.PetitionCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `kairo_petitions_created_total{service="kairo-test"} 1`) {
		t.Errorf("exposition missing petition counter:\n%s", rec.Body.String())
	}
}
