package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonsuite/bella/domain/job"
	"github.com/salonsuite/bella/domain/store"
	"github.com/salonsuite/bella/internal/database"
	"gorm.io/gorm"
)

// JobStore implements job.Store using GORM. Jobs keep their row across
// status transitions; Dequeue claims by updating status inside a
// transaction rather than deleting.
type JobStore struct {
	db     database.Database
	repo   database.Repository[job.Job, JobModel]
	mapper JobMapper
}

// NewJobStore creates a new JobStore.
func NewJobStore(db database.Database) JobStore {
	return JobStore{
		db:     db,
		repo:   database.NewRepository[job.Job, JobModel](db, JobMapper{}, "job"),
		mapper: JobMapper{},
	}
}

// Save persists a job, assigning an ID.
func (s JobStore) Save(ctx context.Context, j job.Job) (job.Job, error) {
	model := s.mapper.ToModel(j)
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		return job.Job{}, fmt.Errorf("save job: %w", result.Error)
	}
	return s.mapper.ToDomain(model), nil
}

// Update rewrites a job's mutable fields.
func (s JobStore) Update(ctx context.Context, j job.Job) error {
	model := s.mapper.ToModel(j)
	result := s.db.Session(ctx).Model(&JobModel{}).Where("id = ?", model.ID).Updates(map[string]any{
		"status":        model.Status,
		"result":        model.Result,
		"error_message": model.ErrorMessage,
		"started_at":    model.StartedAt,
		"completed_at":  model.CompletedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("update job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: job id %d", database.ErrNotFound, model.ID)
	}
	return nil
}

// Get returns a job by ID.
func (s JobStore) Get(ctx context.Context, id int64) (job.Job, error) {
	return s.repo.FindOne(ctx, store.WithID(id))
}

// GetByCorrelationID returns a job by its public correlation ID.
func (s JobStore) GetByCorrelationID(ctx context.Context, correlationID string) (job.Job, error) {
	return s.repo.FindOne(ctx, store.WithCondition("correlation_id", correlationID))
}

// Find returns jobs matching the options.
func (s JobStore) Find(ctx context.Context, options ...store.Option) ([]job.Job, error) {
	return s.repo.Find(ctx, options...)
}

// Dequeue atomically claims the highest-priority pending job, moving it
// to processing. Returns false when the queue is empty.
func (s JobStore) Dequeue(ctx context.Context) (job.Job, bool, error) {
	model, err := database.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (JobModel, error) {
		var m JobModel
		result := tx.Where("status = ?", string(job.StatusPending)).
			Order("priority DESC, created_at ASC").
			First(&m)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return JobModel{}, nil
			}
			return JobModel{}, result.Error
		}

		now := time.Now().UTC()
		claim := tx.Model(&JobModel{}).
			Where("id = ? AND status = ?", m.ID, string(job.StatusPending)).
			Updates(map[string]any{
				"status":     string(job.StatusProcessing),
				"started_at": now,
			})
		if claim.Error != nil {
			return JobModel{}, claim.Error
		}
		if claim.RowsAffected == 0 {
			// Lost the race to another worker; report an empty queue
			// and let the next poll pick up remaining work.
			return JobModel{}, nil
		}

		m.Status = string(job.StatusProcessing)
		m.StartedAt = &now
		return m, nil
	})
	if err != nil {
		return job.Job{}, false, fmt.Errorf("dequeue job: %w", err)
	}

	if model.ID == 0 {
		return job.Job{}, false, nil
	}
	return s.mapper.ToDomain(model), true, nil
}

// PendingCount returns the number of jobs waiting to be claimed.
func (s JobStore) PendingCount(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, store.WithCondition("status", string(job.StatusPending)))
}

// FailStale marks processing jobs started before the cutoff as failed
// and returns how many were affected.
func (s JobStore) FailStale(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now().UTC()
	result := s.db.Session(ctx).Model(&JobModel{}).
		Where("status = ? AND started_at < ?", string(job.StatusProcessing), cutoff).
		Updates(map[string]any{
			"status":        string(job.StatusFailed),
			"error_message": "job abandoned: worker did not finish before the stale cutoff",
			"completed_at":  now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("fail stale jobs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

var _ job.Store = (*JobStore)(nil)
