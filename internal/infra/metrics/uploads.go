package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(uploadsTotal, uploadBytesTotal) }

var (
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Media uploads to Telegram by media kind and outcome.",
		},
		[]string{"kind", "outcome"}, // outcome: sent, delivery_error, failed
	)

	uploadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_bytes_total",
			Help: "Bytes relayed from media URLs to Telegram.",
		},
	)
)

func IncUpload(kind, outcome string) {
	uploadsTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}

func AddUploadBytes(n int64) {
	uploadBytesTotal.Add(float64(n))
}
