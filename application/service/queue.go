package service

import (
	"context"
	"log/slog"

	"github.com/salonsuite/bella/domain/job"
	"github.com/salonsuite/bella/domain/store"
	"github.com/salonsuite/bella/internal/metrics"
)

// JobListParams configures job listing.
type JobListParams struct {
	UserID    int64
	Status    *job.Status
	Operation *job.Operation
	Limit     int
	Offset    int
}

// JobQueue enqueues background jobs and answers status polls. Jobs stay in
// the store after completion so clients can poll terminal results.
type JobQueue struct {
	store  job.Store
	logger *slog.Logger
}

// NewJobQueue creates a new queue service.
func NewJobQueue(store job.Store, logger *slog.Logger) *JobQueue {
	return &JobQueue{
		store:  store,
		logger: logger,
	}
}

// Enqueue adds a job to the queue.
func (s *JobQueue) Enqueue(ctx context.Context, j job.Job) (job.Job, error) {
	saved, err := s.store.Save(ctx, j)
	if err != nil {
		return job.Job{}, err
	}

	s.refreshDepth(ctx)
	s.logger.Debug("job enqueued",
		slog.String("correlation_id", saved.CorrelationID()),
		slog.String("operation", saved.Operation().String()),
		slog.Int("priority", saved.Priority()),
	)
	return saved, nil
}

// Status returns a job by its public correlation ID.
func (s *JobQueue) Status(ctx context.Context, correlationID string) (job.Job, error) {
	return s.store.GetByCorrelationID(ctx, correlationID)
}

// List returns jobs matching the given params, newest first.
func (s *JobQueue) List(ctx context.Context, params JobListParams) ([]job.Job, error) {
	var options []store.Option

	if params.UserID > 0 {
		options = append(options, job.WithUserID(params.UserID))
	}
	if params.Status != nil {
		options = append(options, job.WithStatus(*params.Status))
	}
	if params.Operation != nil {
		options = append(options, job.WithOperation(*params.Operation))
	}
	options = append(options, store.WithOrderDesc("created_at"))
	if params.Limit > 0 {
		options = append(options, store.WithPagination(params.Limit, params.Offset)...)
	}

	return s.store.Find(ctx, options...)
}

// PendingCount returns the number of jobs waiting for a worker.
func (s *JobQueue) PendingCount(ctx context.Context) (int64, error) {
	return s.store.PendingCount(ctx)
}

func (s *JobQueue) refreshDepth(ctx context.Context) {
	count, err := s.store.PendingCount(ctx)
	if err != nil {
		return
	}
	metrics.QueueDepth.Set(float64(count))
}
