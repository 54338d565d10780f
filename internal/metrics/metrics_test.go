package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSubmissionCounter(t *testing.T) {
	m := New()
	m.Submission("success")
	m.Submission("success")
	m.Submission("consent_required")

	require.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("consent_required")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest("/{alias}", http.MethodGet, 200, 15*time.Millisecond)
	m.RelayLatency(200 * time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `site_http_requests_total{method="GET",route="/{alias}",status="200"} 1`)
	require.Contains(t, body, "contact_relay_duration_seconds_count 1")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Submission("success")
	m.RelayLatency(time.Second)
	m.ObserveRequest("/", "GET", 200, time.Second)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
