package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.ObserveLogin(OutcomeAllowed, "")
	m.ObserveLogin(OutcomeDenied, "trial_expired")
	m.ObserveLogin(OutcomeDenied, "trial_expired")
	m.ObserveGeoLookup("ipapi", "error")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues(OutcomeAllowed, "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.logins.WithLabelValues(OutcomeDenied, "trial_expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.geoLookups.WithLabelValues("ipapi", "error")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLogin(OutcomeAllowed, "")
		m.ObserveGeoLookup("ipinfo", "ok")
		m.ObservePlacesRequest("details", "ok")
		m.ObserveHTTPRequest("GET", "/health", "200")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObservePlacesRequest("findplace", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `reviewdesk_places_requests_total{operation="findplace",outcome="ok"} 1`)
}
