package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCall("generate", OutcomeSuccess, 120*time.Millisecond)
	c.RecordCall("generate", OutcomeSuccess, 80*time.Millisecond)
	c.RecordCall("generate", OutcomeRemote, time.Second)
	c.RecordRateLimited()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.calls.WithLabelValues("generate", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("generate", OutcomeRemote)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rateLimited))
	assert.Equal(t, 1, testutil.CollectAndCount(c.latency))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordCall("auth", OutcomeNetwork, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `codegen_remote_calls_total{endpoint="auth",outcome="network_error"} 1`), body)
}

func TestNoop(t *testing.T) {
	var r Recorder = Noop{}
	assert.NotPanics(t, func() {
		r.RecordCall("x", OutcomeSuccess, time.Second)
		r.RecordRateLimited()
	})
}
