package job

import (
	"context"
	"time"

	"github.com/salonsuite/bella/domain/store"
)

// Store defines operations for job queue persistence.
type Store interface {
	// Save persists a job, assigning an ID.
	Save(ctx context.Context, j Job) (Job, error)

	// Update rewrites a job's mutable fields (status, result, timestamps).
	Update(ctx context.Context, j Job) error

	// Get returns a job by ID.
	Get(ctx context.Context, id int64) (Job, error)

	// GetByCorrelationID returns a job by its public correlation ID.
	GetByCorrelationID(ctx context.Context, correlationID string) (Job, error)

	// Find returns jobs matching the options.
	Find(ctx context.Context, options ...store.Option) ([]Job, error)

	// Dequeue atomically claims the highest-priority pending job, moving
	// it to processing. Returns false when the queue is empty.
	Dequeue(ctx context.Context) (Job, bool, error)

	// PendingCount returns the number of jobs waiting to be claimed.
	PendingCount(ctx context.Context) (int64, error)

	// FailStale marks processing jobs started before the cutoff as failed
	// and returns how many were affected. Recovers jobs orphaned by a
	// crashed worker.
	FailStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// WithUserID filters jobs by requesting user.
func WithUserID(id int64) store.Option {
	return store.WithUserID(id)
}

// WithStatus filters by the "status" column.
func WithStatus(s Status) store.Option {
	return store.WithCondition("status", string(s))
}

// WithOperation filters by the "operation" column.
func WithOperation(op Operation) store.Option {
	return store.WithCondition("operation", string(op))
}

// WithQueueOrder orders pending jobs the way the worker claims them:
// highest priority first, oldest first within a priority.
func WithQueueOrder() store.Option {
	return func(q store.Query) store.Query {
		q = store.WithOrderDesc("priority")(q)
		return store.WithOrderAsc("created_at")(q)
	}
}
