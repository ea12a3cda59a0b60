package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/job"
	"github.com/salonsuite/bella/domain/usage"
)

// MetricRecorder persists named system metric samples.
type MetricRecorder interface {
	Record(ctx context.Context, name string, value float64) error
	Latest(ctx context.Context, name string) (float64, bool, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Overview is the aggregated analytics snapshot served by the dashboard
// endpoint.
type Overview struct {
	Window            time.Duration
	Calendars         int64
	Posts             int64
	AvgGenerationTime time.Duration
	AvgSuccessRate    float64
	Requests          int64
	RequestSuccesses  int64
	RequestSuccess    float64
	AvgResponseTime   time.Duration
	PendingJobs       int64
}

// Analytics aggregates stored generation and usage data into dashboard
// numbers and periodic metric snapshots.
type Analytics struct {
	calendars calendar.Store
	usage     usage.Store
	jobs      job.Store
	recorder  MetricRecorder
	logger    *slog.Logger
}

// NewAnalytics creates the analytics service.
func NewAnalytics(
	calendars calendar.Store,
	usageStore usage.Store,
	jobs job.Store,
	recorder MetricRecorder,
	logger *slog.Logger,
) *Analytics {
	return &Analytics{
		calendars: calendars,
		usage:     usageStore,
		jobs:      jobs,
		recorder:  recorder,
		logger:    logger,
	}
}

// Overview aggregates activity over the given window.
func (s *Analytics) Overview(ctx context.Context, window time.Duration) (Overview, error) {
	since := time.Now().UTC().Add(-window)

	stats, err := s.calendars.StatsSince(ctx, since)
	if err != nil {
		return Overview{}, err
	}

	summary, err := s.usage.SummarizeSince(ctx, since)
	if err != nil {
		return Overview{}, err
	}

	pending, err := s.jobs.PendingCount(ctx)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		Window:            window,
		Calendars:         stats.Calendars(),
		Posts:             stats.Posts(),
		AvgGenerationTime: stats.AvgGenerationTime(),
		AvgSuccessRate:    stats.AvgSuccessRate(),
		Requests:          summary.Requests(),
		RequestSuccesses:  summary.Successes(),
		RequestSuccess:    summary.SuccessRate(),
		AvgResponseTime:   summary.AvgResponseTime(),
		PendingJobs:       pending,
	}, nil
}

// Snapshot persists the current hourly aggregates as system metric rows.
// The maintenance scheduler calls this periodically so trends survive
// process restarts.
func (s *Analytics) Snapshot(ctx context.Context) error {
	overview, err := s.Overview(ctx, time.Hour)
	if err != nil {
		return err
	}

	samples := map[string]float64{
		"calendars_per_hour":     float64(overview.Calendars),
		"posts_per_hour":         float64(overview.Posts),
		"avg_generation_time_ms": float64(overview.AvgGenerationTime.Milliseconds()),
		"avg_success_rate":       overview.AvgSuccessRate,
		"requests_per_hour":      float64(overview.Requests),
		"request_success_rate":   overview.RequestSuccess,
		"pending_jobs":           float64(overview.PendingJobs),
	}

	for name, value := range samples {
		if err := s.recorder.Record(ctx, name, value); err != nil {
			return err
		}
	}

	s.logger.Debug("metric snapshot recorded", slog.Int("samples", len(samples)))
	return nil
}
