package metrics

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/pascha/{year}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/api/v1/pascha/2024", "/api/v1/pascha/2025", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/v1/pascha/{year}", "418")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsInFlight))
}

func TestObservers(t *testing.T) {
	m := New()

	m.ObserveDays(7, 1)
	m.ObserveDays(31, 0)
	assert.Equal(t, 38.0, testutil.ToFloat64(m.DaysComputed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DayFailures))

	m.ObserveSnapshot(true)
	m.ObserveSnapshot(false)
	m.ObserveSnapshot(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SnapshotLookups.WithLabelValues("miss")))

	m.SetDataset("1.0.0")
	m.SetDataset("1.2.0")
	assert.Equal(t, 1, testutil.CollectAndCount(m.DatasetInfo))

	m.RecordDBPoolStats(sql.DBStats{OpenConnections: 1, Idle: 1, WaitDuration: 3 * time.Millisecond})
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DBConnPoolStats.WithLabelValues("wait_duration_ms")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.SetDataset("1.2.0")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `coptic_calendar_dataset_info{version="1.2.0"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
