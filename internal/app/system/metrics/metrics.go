// Package metrics exposes Prometheus counters and histograms for HTTP
// traffic and the petition, identity and AI flows.
//
// Every recording method is nil-safe so services and tests can run
// without a registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type Metrics struct {
	reg *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	petitionsCreated    prometheus.Counter
	signaturesTotal     *prometheus.CounterVec
	signupsTotal        *prometheus.CounterVec
	loginsTotal         *prometheus.CounterVec
	aiRequestsTotal     *prometheus.CounterVec
	aiRequestDuration   *prometheus.HistogramVec
}

// New builds the collectors on a private registry labeled with service.
func New(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duration of HTTP requests.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		petitionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "kairo_petitions_created_total",
			Help:        "Total number of petitions created.",
			ConstLabels: constLabels,
		}),
		signaturesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "kairo_petition_signatures_total",
			Help:        "Petition sign attempts by outcome.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		signupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "kairo_signups_total",
			Help:        "Signup attempts by outcome.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "kairo_logins_total",
			Help:        "Login and OTP verification attempts by flow and outcome.",
			ConstLabels: constLabels,
		}, []string{"flow", "result"}),
		aiRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "kairo_ai_requests_total",
			Help:        "Outbound AI calls by endpoint and outcome.",
			ConstLabels: constLabels,
		}, []string{"endpoint", "result"}),
		aiRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "kairo_ai_request_duration_seconds",
			Help:        "Duration of outbound AI calls.",
			Buckets:     []float64{0.25, 0.5, 1, 2, 5, 10, 20},
			ConstLabels: constLabels,
		}, []string{"endpoint"}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.petitionsCreated,
		m.signaturesTotal,
		m.signupsTotal,
		m.loginsTotal,
		m.aiRequestsTotal,
		m.aiRequestDuration,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// PetitionCreated counts one created petition.
func (m *Metrics) PetitionCreated() {
	if m == nil {
		return
	}
	m.petitionsCreated.Inc()
}

// SignAttempt counts a sign attempt; outcome is "success" or a failure
// reason such as "self_sign" or "already_signed".
func (m *Metrics) SignAttempt(outcome string) {
	if m == nil {
		return
	}
	m.signaturesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Signup(err error) {
	if m == nil {
		return
	}
	m.signupsTotal.WithLabelValues(result(err)).Inc()
}

// Login counts a credential check; flow is "password" or "otp".
func (m *Metrics) Login(flow string, err error) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(flow, result(err)).Inc()
}

// AICall records one outbound AI call started at start.
func (m *Metrics) AICall(endpoint string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.aiRequestsTotal.WithLabelValues(endpoint, result(err)).Inc()
	m.aiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency labeled by the matched
// chi route pattern, so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sr.status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
