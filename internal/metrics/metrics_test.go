package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordFetch("tiingo", nil, time.Second)
		m.RecordFallback("http_status")
		m.RecordCacheHit("raw")
		m.RecordGeneration("ok", 3, time.Second)
		m.SetLatestDay(4)
		m.RecordNotification(errors.New("boom"))
	})
	assert.Nil(t, m.Registry())
}

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordFetch("tiingo", nil, 10*time.Millisecond)
	m.RecordFetch("tiingo", errors.New("boom"), 10*time.Millisecond)
	m.RecordFallback("rate_limited")
	m.RecordCacheHit("raw")
	m.RecordCacheHit("raw")
	m.SetLatestDay(12)
	m.RecordNotification(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PriceFetches.WithLabelValues("tiingo", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PriceFetches.WithLabelValues("tiingo", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackSeries.WithLabelValues("rate_limited")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("raw")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.LatestDay))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("ok")))
}

func TestIndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	m := New()
	m.RecordGeneration("ok", 2, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tradle_generation_runs_total"))
}
