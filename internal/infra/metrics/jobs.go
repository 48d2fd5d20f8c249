package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(workerTasksTotal, sessionFlushesTotal) }

var (
	workerTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_tasks_total",
			Help: "Total number of update tasks handled by the worker pool, labeled by status.",
		},
		[]string{"status"}, // 'completed', 'failed', 'dropped'
	)

	sessionFlushesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_flushes_total",
			Help: "Bot session saves, labeled by status.",
		},
		[]string{"status"},
	)
)

func IncWorkerTask(status string) {
	workerTasksTotal.WithLabelValues(norm(status)).Inc()
}

func IncSessionFlush(status string) {
	sessionFlushesTotal.WithLabelValues(norm(status)).Inc()
}
