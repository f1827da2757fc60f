// Package metrics holds the Prometheus instruments of the calendar API.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coptic_calendar"

// Metrics holds Prometheus metrics for the API. Each instance owns its
// registry, so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	DaysComputed     prometheus.Counter
	DayFailures      prometheus.Counter
	SnapshotLookups  *prometheus.CounterVec
	DatasetInfo      *prometheus.GaugeVec
	DBConnPoolStats  *prometheus.GaugeVec
}

// New creates the metrics and registers them, plus the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		DaysComputed: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "days_computed_total",
				Help:      "Day records computed",
			},
		),
		DayFailures: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "day_failures_total",
				Help:      "Dates left out of a range because they could not be computed",
			},
		),
		SnapshotLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_lookups_total",
				Help:      "Year snapshot lookups by result",
			},
			[]string{"result"}, // hit or miss
		),
		DatasetInfo: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_info",
				Help:      "Loaded master dataset, always 1",
			},
			[]string{"version"},
		),
		DBConnPoolStats: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"stat"}, // open, in_use, idle, wait_count, wait_duration_ms
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// SetDataset records the version of the loaded master dataset.
func (m *Metrics) SetDataset(version string) {
	m.DatasetInfo.Reset()
	m.DatasetInfo.WithLabelValues(version).Set(1)
}

// ObserveDays counts computed and failed day records of one request.
func (m *Metrics) ObserveDays(computed, failed int) {
	m.DaysComputed.Add(float64(computed))
	m.DayFailures.Add(float64(failed))
}

// ObserveSnapshot counts a snapshot lookup.
func (m *Metrics) ObserveSnapshot(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SnapshotLookups.WithLabelValues(result).Inc()
}

// RecordDBPoolStats records database connection pool statistics.
func (m *Metrics) RecordDBPoolStats(s sql.DBStats) {
	m.DBConnPoolStats.WithLabelValues("open").Set(float64(s.OpenConnections))
	m.DBConnPoolStats.WithLabelValues("in_use").Set(float64(s.InUse))
	m.DBConnPoolStats.WithLabelValues("idle").Set(float64(s.Idle))
	m.DBConnPoolStats.WithLabelValues("wait_count").Set(float64(s.WaitCount))
	m.DBConnPoolStats.WithLabelValues("wait_duration_ms").Set(float64(s.WaitDuration.Milliseconds()))
}

// Middleware records count, duration and in-flight requests. Requests are
// labelled by their chi route pattern so path parameters don't explode the
// label space; unmatched requests share the "unmatched" route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
