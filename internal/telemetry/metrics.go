// Package telemetry provides Prometheus metrics for the bot's download jobs.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	JobsStarted   prometheus.Counter
	JobsSucceeded prometheus.Counter
	JobsFailed    prometheus.Counter
	JobsTooLarge  prometheus.Counter
	FallbacksUsed prometheus.Counter

	JobDuration prometheus.Observer

	ActiveJobs prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		JobsStarted = promauto.NewCounter(prometheus.CounterOpts{Name: "clipcourier_jobs_started_total", Help: "Number of download jobs started"})
		JobsSucceeded = promauto.NewCounter(prometheus.CounterOpts{Name: "clipcourier_jobs_succeeded_total", Help: "Number of jobs that delivered a video"})
		JobsFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "clipcourier_jobs_failed_total", Help: "Number of jobs that failed"})
		JobsTooLarge = promauto.NewCounter(prometheus.CounterOpts{Name: "clipcourier_jobs_too_large_total", Help: "Number of jobs rejected by the attachment size ceiling"})
		FallbacksUsed = promauto.NewCounter(prometheus.CounterOpts{Name: "clipcourier_fallbacks_used_total", Help: "Number of jobs that fell back to the progressive path"})
		JobDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "clipcourier_job_duration_seconds", Help: "End-to-end job duration in seconds", Buckets: prometheus.ExponentialBuckets(1, 2, 10)})
		ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{Name: "clipcourier_active_jobs", Help: "Number of jobs currently in flight"})
	})
}

// ObserveJobDuration records a completed job's duration if metrics are initialized.
func ObserveJobDuration(seconds float64) {
	if JobDuration != nil {
		JobDuration.Observe(seconds)
	}
}

func inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

// Counter helpers are nil-safe so tests can run without Init.

func JobStarted() {
	inc(JobsStarted)
	if ActiveJobs != nil {
		ActiveJobs.Inc()
	}
}

func JobFinished() {
	if ActiveJobs != nil {
		ActiveJobs.Dec()
	}
}

func JobSucceeded() { inc(JobsSucceeded) }
func JobFailed()    { inc(JobsFailed) }
func JobTooLarge()  { inc(JobsTooLarge) }
func FallbackUsed() { inc(FallbacksUsed) }
