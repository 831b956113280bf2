// Package metrics provides optional Prometheus instrumentation for provider
// calls. A nil *Collector is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeDecodingError  = "decoding_error"
)

// LLMBuckets covers local inference latencies from 100ms up to the 60s
// request timeout and a little past it.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Collector records provider request counts and latencies.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewCollector creates the metric vectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lmbridge_provider_requests_total",
				Help: "Provider requests by outcome",
			},
			[]string{"provider", "model", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lmbridge_provider_latency_seconds",
				Help:    "Provider request latency",
				Buckets: LLMBuckets,
			},
			[]string{"provider", "model"},
		),
	}

	for _, col := range []prometheus.Collector{c.requests, c.latency} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe records one finished request.
func (c *Collector) Observe(provider, model, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(provider, model, outcome).Inc()
	c.latency.WithLabelValues(provider, model).Observe(elapsed.Seconds())
}
