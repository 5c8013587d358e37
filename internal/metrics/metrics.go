// Package metrics exposes Prometheus counters for calls to the remote
// endpoints and for front-end throttling.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeRemote  = "remote_error"
	OutcomeNetwork = "network_error"
	OutcomeDecode  = "decode_error"
)

// Recorder is what the endpoint clients and middlewares report to.
type Recorder interface {
	RecordCall(endpoint, outcome string, duration time.Duration)
	RecordRateLimited()
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordCall(_, _ string, _ time.Duration) {}
func (Noop) RecordRateLimited()                      {}

type Collector struct {
	calls       *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	rateLimited prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codegen_remote_calls_total",
			Help: "Calls to remote endpoints by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codegen_remote_call_duration_seconds",
			Help:    "Latency of calls to remote endpoints.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 90},
		}, []string{"endpoint"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codegen_rate_limited_total",
			Help: "Updates dropped by the per-chat rate limiter.",
		}),
	}

	reg.MustRegister(c.calls, c.latency, c.rateLimited)
	return c
}

func (c *Collector) RecordCall(endpoint, outcome string, duration time.Duration) {
	c.calls.WithLabelValues(endpoint, outcome).Inc()
	c.latency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
