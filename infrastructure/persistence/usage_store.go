package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/salonsuite/bella/domain/usage"
	"github.com/salonsuite/bella/internal/database"
)

// UsageStore implements usage.Store using GORM.
type UsageStore struct {
	db     database.Database
	mapper UsageMapper
}

// NewUsageStore creates a new UsageStore.
func NewUsageStore(db database.Database) UsageStore {
	return UsageStore{
		db:     db,
		mapper: UsageMapper{},
	}
}

// Save persists a usage record.
func (s UsageStore) Save(ctx context.Context, r usage.Record) (usage.Record, error) {
	model := s.mapper.ToModel(r)
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		return usage.Record{}, fmt.Errorf("save usage record: %w", result.Error)
	}
	return s.mapper.ToDomain(model), nil
}

// CountSince returns how many requests a user made at or after the given time.
func (s UsageStore) CountSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	var count int64
	q := database.NewQuery().
		Equal("user_id", userID).
		GreaterThanOrEqual("timestamp", since)
	if result := q.Apply(s.db.Session(ctx).Model(&UsageModel{})).Count(&count); result.Error != nil {
		return 0, fmt.Errorf("count usage since: %w", result.Error)
	}
	return count, nil
}

// usageSummaryRow receives the aggregate query result.
type usageSummaryRow struct {
	Requests  int64
	Successes int64
	AvgTimeMS float64
	Credits   int64
}

// SummarizeSince aggregates all records at or after the given time.
func (s UsageStore) SummarizeSince(ctx context.Context, since time.Time) (usage.Summary, error) {
	var row usageSummaryRow
	result := database.NewQuery().
		GreaterThanOrEqual("timestamp", since).
		Apply(s.db.Session(ctx).Model(&UsageModel{}).
			Select(`COUNT(*) AS requests,
				COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0) AS successes,
				COALESCE(AVG(response_time_ms), 0) AS avg_time_ms,
				COALESCE(SUM(credits_used), 0) AS credits`)).
		Scan(&row)
	if result.Error != nil {
		return usage.Summary{}, fmt.Errorf("summarize usage: %w", result.Error)
	}

	return usage.NewSummary(
		row.Requests,
		row.Successes,
		time.Duration(row.AvgTimeMS)*time.Millisecond,
		row.Credits,
	), nil
}

// DeleteBefore removes records older than the cutoff and returns how many
// were removed.
func (s UsageStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := database.NewQuery().
		LessThan("timestamp", cutoff).
		Apply(s.db.Session(ctx)).
		Delete(&UsageModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("prune usage records: %w", result.Error)
	}
	return result.RowsAffected, nil
}

var _ usage.Store = (*UsageStore)(nil)
