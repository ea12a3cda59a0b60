package calendar

import (
	"time"

	"github.com/salonsuite/bella/domain/store"
)

// WithUserID filters calendars by owning user.
func WithUserID(id int64) store.Option {
	return store.WithUserID(id)
}

// WithNiche filters by the "niche" column.
func WithNiche(niche string) store.Option {
	return store.WithCondition("niche", niche)
}

// WithCity filters by the "city" column.
func WithCity(city string) store.Option {
	return store.WithCondition("city", city)
}

// WithMethod filters by the "generation_method" column.
func WithMethod(m Method) store.Option {
	return store.WithCondition("generation_method", string(m))
}

// WithCreatedSince filters calendars created at or after the given time.
func WithCreatedSince(t time.Time) store.Option {
	return store.WithWhere("created_at >= ?", t)
}

// WithNewestFirst orders by creation time, newest first.
func WithNewestFirst() store.Option {
	return store.WithOrderDesc("created_at")
}
