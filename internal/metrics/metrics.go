// Package metrics defines the Prometheus instruments exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CalendarsGenerated counts generated calendars by method (template|ai|mixed).
	CalendarsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bella_calendars_generated_total",
			Help: "Total number of content calendars generated",
		},
		[]string{"method"},
	)

	// PostsGenerated counts individual calendar entries produced.
	PostsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bella_posts_generated_total",
			Help: "Total number of content posts generated",
		},
	)

	// GenerationDuration measures end-to-end calendar generation time.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bella_generation_duration_seconds",
			Help:    "Calendar generation latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"method"},
	)

	// ProviderCalls counts upstream AI provider calls by operation and result.
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bella_provider_calls_total",
			Help: "Total number of AI provider calls",
		},
		[]string{"operation", "result"},
	)

	// CacheLookups counts generation cache hits and misses.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bella_cache_lookups_total",
			Help: "Total number of generation cache lookups",
		},
		[]string{"result"},
	)

	// ActiveGenerations tracks in-flight generation requests holding a
	// semaphore slot.
	ActiveGenerations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bella_active_generations",
			Help: "Number of in-flight generation requests",
		},
	)

	// QueueDepth tracks pending jobs waiting for a worker.
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bella_queue_depth",
			Help: "Number of pending batch jobs",
		},
	)

	// JobsProcessed counts finished queue jobs by outcome (completed|failed).
	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bella_jobs_processed_total",
			Help: "Total number of batch jobs processed",
		},
		[]string{"outcome"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bella_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
