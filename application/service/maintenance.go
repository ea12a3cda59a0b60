package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/salonsuite/bella/domain/job"
	"github.com/salonsuite/bella/domain/usage"
)

// Retention and recovery policy.
const (
	// usageRetention is how long api_usage rows are kept.
	usageRetention = 90 * 24 * time.Hour

	// metricRetention is how long system_metrics rows are kept.
	metricRetention = 30 * 24 * time.Hour

	// staleJobAge is how long a processing job may run before it is
	// presumed abandoned by a dead worker.
	staleJobAge = 30 * time.Minute
)

// Maintenance runs the recurring housekeeping schedule: stale job
// recovery, usage retention pruning and metric snapshots.
type Maintenance struct {
	jobs      job.Store
	usage     usage.Store
	analytics *Analytics
	logger    *slog.Logger
	cron      *cron.Cron
}

// NewMaintenance creates the maintenance scheduler.
func NewMaintenance(jobs job.Store, usageStore usage.Store, analytics *Analytics, logger *slog.Logger) *Maintenance {
	return &Maintenance{
		jobs:      jobs,
		usage:     usageStore,
		analytics: analytics,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start registers the schedule and begins running it.
func (s *Maintenance) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("@hourly", func() { s.recoverStaleJobs(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@daily", func() { s.pruneUsage(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@every 15m", func() { s.snapshot(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("maintenance scheduler started")
	return nil
}

// Stop halts the schedule, waiting for a running task to finish.
func (s *Maintenance) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("maintenance scheduler stopped")
}

// RecoverStaleJobs fails processing jobs older than the stale cutoff.
// Exposed for the serve command to run once at startup, so jobs orphaned
// by the previous process are recovered immediately.
func (s *Maintenance) RecoverStaleJobs(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-staleJobAge)
	return s.jobs.FailStale(ctx, cutoff)
}

func (s *Maintenance) recoverStaleJobs(ctx context.Context) {
	count, err := s.RecoverStaleJobs(ctx)
	if err != nil {
		s.logger.Error("stale job recovery failed", slog.String("error", err.Error()))
		return
	}
	if count > 0 {
		s.logger.Info("recovered stale jobs", slog.Int64("count", count))
	}
}

func (s *Maintenance) pruneUsage(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-usageRetention)
	removed, err := s.usage.DeleteBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("usage pruning failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		s.logger.Info("pruned usage records", slog.Int64("removed", removed))
	}

	if s.analytics != nil && s.analytics.recorder != nil {
		metricCutoff := time.Now().UTC().Add(-metricRetention)
		if _, err := s.analytics.recorder.DeleteBefore(ctx, metricCutoff); err != nil {
			s.logger.Error("metric pruning failed", slog.String("error", err.Error()))
		}
	}
}

func (s *Maintenance) snapshot(ctx context.Context) {
	if s.analytics == nil {
		return
	}
	if err := s.analytics.Snapshot(ctx); err != nil {
		s.logger.Error("metric snapshot failed", slog.String("error", err.Error()))
	}
}
