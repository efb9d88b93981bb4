package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ukydev/rental-market/internal/models"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	UploadsTotal    *prometheus.CounterVec
	CleanupFailures prometheus.Counter
	ListingsWritten *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Total number of media uploads by kind and result.",
		}, []string{"kind", "result"}),
		CleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "media_cleanup_failures_total",
			Help: "Total number of media assets that could not be removed.",
		}),
		ListingsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listings_written_total",
			Help: "Total number of listing writes by kind and action.",
		}, []string{"kind", "action"}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.UploadsTotal,
		m.CleanupFailures,
		m.ListingsWritten,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveUpload counts one upload attempt.
func (m *Metrics) ObserveUpload(kind models.MediaKind, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.UploadsTotal.WithLabelValues(string(kind), result).Inc()
}

func (m *Metrics) ObserveCleanupFailure() {
	m.CleanupFailures.Inc()
}

// ObserveListingWrite counts a persisted create, update or delete.
func (m *Metrics) ObserveListingWrite(kind models.Kind, action string) {
	m.ListingsWritten.WithLabelValues(string(kind), action).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by the matched
// chi route pattern, so ids never end up in label values.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
