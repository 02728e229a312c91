// Package metrics collects Prometheus metrics for localization runs.
//
// The localizer is a batch process, so nothing is served over HTTP. When a
// metrics file is configured the registry is written once at the end of a
// run in the text exposition format, ready for the node exporter's textfile
// collector.
//
// A nil *Collector is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the localizer's Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	jobsStarted   prometheus.Counter
	jobsCompleted *prometheus.CounterVec
	jobsFailed    *prometheus.CounterVec
	attempts      prometheus.Counter
	retries       prometheus.Counter
	leafCalls     prometheus.Counter
	jobDuration   prometheus.Histogram
}

// NewCollector creates a collector registered on its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		jobsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "localize_jobs_started_total",
			Help: "Total number of language jobs started",
		}),
		jobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "localize_jobs_completed_total",
			Help: "Total number of language jobs that wrote a translated document",
		}, []string{"language"}),
		jobsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "localize_jobs_failed_total",
			Help: "Total number of language jobs that ended in a terminal error",
		}, []string{"language"}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "localize_attempts_total",
			Help: "Total number of whole-document translation attempts",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "localize_retries_total",
			Help: "Total number of document attempts made after a failure",
		}),
		leafCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "localize_leaf_calls_total",
			Help: "Total number of text translation calls sent to the service",
		}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "localize_job_duration_seconds",
			Help:    "Wall-clock duration of a language job in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}

	c.registry.MustRegister(
		c.jobsStarted,
		c.jobsCompleted,
		c.jobsFailed,
		c.attempts,
		c.retries,
		c.leafCalls,
		c.jobDuration,
	)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordJobStarted records the start of a language job.
func (c *Collector) RecordJobStarted() {
	if c == nil {
		return
	}
	c.jobsStarted.Inc()
}

// RecordJobCompleted records a successful job and its duration.
func (c *Collector) RecordJobCompleted(language string, seconds float64) {
	if c == nil {
		return
	}
	c.jobsCompleted.WithLabelValues(language).Inc()
	c.jobDuration.Observe(seconds)
}

// RecordJobFailed records a job that ended in a terminal error.
func (c *Collector) RecordJobFailed(language string, seconds float64) {
	if c == nil {
		return
	}
	c.jobsFailed.WithLabelValues(language).Inc()
	c.jobDuration.Observe(seconds)
}

// RecordAttempt records one whole-document translation attempt.
func (c *Collector) RecordAttempt() {
	if c == nil {
		return
	}
	c.attempts.Inc()
}

// RecordRetry records an attempt that follows a failed one.
func (c *Collector) RecordRetry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

// RecordLeafCall records one call to the translation service.
func (c *Collector) RecordLeafCall() {
	if c == nil {
		return
	}
	c.leafCalls.Inc()
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, c.registry)
}
