package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(cobaltRequestsTotal, cobaltRequestSeconds) }

var (
	cobaltRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cobalt_requests_total",
			Help: "Download API dispatches by outcome.",
		},
		[]string{"outcome"}, // ok, remote_error, transport_error, decode_error
	)

	cobaltRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cobalt_request_duration_seconds",
			Help:    "Download API round trip latency.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"outcome"},
	)
)

func ObserveCobaltRequest(outcome string, elapsed time.Duration) {
	cobaltRequestsTotal.WithLabelValues(norm(outcome)).Inc()
	cobaltRequestSeconds.WithLabelValues(norm(outcome)).Observe(elapsed.Seconds())
}
