package usage

import (
	"context"
	"time"
)

// Store defines operations for usage record persistence.
type Store interface {
	// Save persists a usage record.
	Save(ctx context.Context, r Record) (Record, error)

	// CountSince returns how many requests a user made at or after the
	// given time. Drives the hourly rate limit.
	CountSince(ctx context.Context, userID int64, since time.Time) (int64, error)

	// SummarizeSince aggregates all records at or after the given time.
	SummarizeSince(ctx context.Context, since time.Time) (Summary, error)

	// DeleteBefore removes records older than the cutoff and returns how
	// many were removed. Drives retention pruning.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
