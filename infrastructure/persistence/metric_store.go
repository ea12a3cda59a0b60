package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/salonsuite/bella/internal/database"
)

// MetricStore records system metric snapshots taken by the maintenance
// scheduler. Snapshots are append-only; retention is handled by
// DeleteBefore alongside usage pruning.
type MetricStore struct {
	db database.Database
}

// NewMetricStore creates a new MetricStore.
func NewMetricStore(db database.Database) MetricStore {
	return MetricStore{db: db}
}

// Record appends one named metric value.
func (s MetricStore) Record(ctx context.Context, name string, value float64) error {
	model := MetricModel{
		Name:       name,
		Value:      value,
		RecordedAt: time.Now().UTC(),
	}
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		return fmt.Errorf("record metric %s: %w", name, result.Error)
	}
	return nil
}

// Latest returns the most recent value of a named metric, or false when
// no snapshot exists yet.
func (s MetricStore) Latest(ctx context.Context, name string) (float64, bool, error) {
	var model MetricModel
	result := database.NewQuery().
		Equal("metric_name", name).
		OrderDesc("recorded_at").
		OrderDesc("id").
		Limit(1).
		Apply(s.db.Session(ctx).Model(&MetricModel{})).
		Find(&model)
	if result.Error != nil {
		return 0, false, fmt.Errorf("latest metric %s: %w", name, result.Error)
	}
	if model.ID == 0 {
		return 0, false, nil
	}
	return model.Value, true, nil
}

// DeleteBefore removes snapshots older than the cutoff.
func (s MetricStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := database.NewQuery().
		LessThan("recorded_at", cutoff).
		Apply(s.db.Session(ctx)).
		Delete(&MetricModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("prune metric snapshots: %w", result.Error)
	}
	return result.RowsAffected, nil
}
