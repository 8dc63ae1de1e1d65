package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fjordsim/dispatch/internal/driver"
)

const metricsPrefix = "dispatch_queue_"

var (
	pollDurationHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    metricsPrefix + "poll_duration_seconds",
			Help:    "Duration of one status poll over all active jobs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		})

	jobsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: metricsPrefix + "jobs",
			Help: "Number of jobs owned by the queue manager by status",
		}, []string{"state"})

	submissionsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricsPrefix + "submissions_total",
			Help: "Number of jobs accepted by the queue manager",
		}, []string{"backend"})

	killsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricsPrefix + "kills_total",
			Help: "Number of kill requests issued by reason",
		}, []string{"reason"})
)

const (
	killReasonRequested  = "requested"
	killReasonMaxRuntime = "max_runtime"
	killReasonShutdown   = "shutdown"
)

func recordJobStates(snapshots []JobSnapshot) {
	counts := make(map[driver.Status]int)
	for _, s := range snapshots {
		counts[s.Status]++
	}

	for s := driver.StatusNotActive; s <= driver.StatusKilled; s++ {
		jobsGauge.WithLabelValues(s.String()).Set(float64(counts[s]))
	}
}
