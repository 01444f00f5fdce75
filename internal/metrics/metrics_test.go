package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveContent(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveContent("posts", OutcomeOK, time.Now())
	m.ObserveContent("posts", OutcomeOK, time.Now())
	m.ObserveContent("post", OutcomeAbsent, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ContentFetches.WithLabelValues("posts", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContentFetches.WithLabelValues("post", OutcomeAbsent)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ContentDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveContent("posts", OutcomeError, time.Now())
		m.ObserveRequest("GET /", "GET", "200", time.Millisecond)
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRequest("GET /posts", http.MethodGet, "200", 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cosmicblog_http_requests_total{method="GET",route="GET /posts",status="200"} 1`)
}
