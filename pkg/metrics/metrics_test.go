package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveFlow("chat", OutcomeOK, time.Now())
	m.ObserveFlow("chat", OutcomeOK, time.Now())
	m.ObserveFlow("route", OutcomeFallback, time.Now())
	m.Verification("verified")
	m.Imported(3, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.flows.WithLabelValues("chat", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.flows.WithLabelValues("route", OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("verified")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.imports.WithLabelValues("imported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues("skipped")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFlow("chat", OutcomeError, time.Now())
		m.Verification("rejected")
		m.Imported(1, 1)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.Verification("out_of_range")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `hk_explorer_photo_verifications_total{outcome="out_of_range"} 1`)
}
