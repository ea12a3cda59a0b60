package calendar

import (
	"context"
	"time"

	"github.com/salonsuite/bella/domain/store"
)

// Stats aggregates stored generation outcomes over a time window.
type Stats struct {
	calendars         int64
	posts             int64
	avgGenerationTime time.Duration
	avgSuccessRate    float64
}

// NewStats creates a Stats aggregate.
func NewStats(calendars, posts int64, avgGenerationTime time.Duration, avgSuccessRate float64) Stats {
	return Stats{
		calendars:         calendars,
		posts:             posts,
		avgGenerationTime: avgGenerationTime,
		avgSuccessRate:    avgSuccessRate,
	}
}

// Calendars returns the number of calendars generated in the window.
func (s Stats) Calendars() int64 { return s.calendars }

// Posts returns the total daily entries generated in the window.
func (s Stats) Posts() int64 { return s.posts }

// AvgGenerationTime returns the mean run duration.
func (s Stats) AvgGenerationTime() time.Duration { return s.avgGenerationTime }

// AvgSuccessRate returns the mean per-run success rate.
func (s Stats) AvgSuccessRate() float64 { return s.avgSuccessRate }

// Store defines operations for calendar persistence.
type Store interface {
	// Save persists a calendar and its entries, assigning an ID.
	Save(ctx context.Context, cal Calendar) (Calendar, error)

	// Get returns a calendar with its entries.
	Get(ctx context.Context, id int64) (Calendar, error)

	// Find returns calendars (without entries) matching the options.
	Find(ctx context.Context, options ...store.Option) ([]Calendar, error)

	// Count returns the number of calendars matching the options.
	Count(ctx context.Context, options ...store.Option) (int64, error)

	// Delete removes a calendar and its entries.
	Delete(ctx context.Context, id int64) error

	// StatsSince aggregates calendars created at or after the given time.
	StatsSince(ctx context.Context, since time.Time) (Stats, error)
}
