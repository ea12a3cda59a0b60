package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/store"
	"github.com/salonsuite/bella/internal/database"
	"gorm.io/gorm"
)

// CalendarStore implements calendar.Store using GORM. A calendar and its
// entries are written in one transaction so a failed save never leaves
// orphaned rows.
type CalendarStore struct {
	db          database.Database
	repo        database.Repository[calendar.Calendar, CalendarModel]
	mapper      CalendarMapper
	entryMapper EntryMapper
}

// NewCalendarStore creates a new CalendarStore.
func NewCalendarStore(db database.Database) CalendarStore {
	return CalendarStore{
		db:          db,
		repo:        database.NewRepository[calendar.Calendar, CalendarModel](db, CalendarMapper{}, "calendar"),
		mapper:      CalendarMapper{},
		entryMapper: EntryMapper{},
	}
}

// Save persists a calendar and its entries, assigning an ID.
func (s CalendarStore) Save(ctx context.Context, cal calendar.Calendar) (calendar.Calendar, error) {
	model := s.mapper.ToModel(cal)
	entries := cal.Entries()

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		entryModels := make([]EntryModel, len(entries))
		for i, entry := range entries {
			entryModels[i] = s.entryMapper.ToModel(model.ID, entry)
		}
		return tx.Create(&entryModels).Error
	})
	if err != nil {
		return calendar.Calendar{}, fmt.Errorf("save calendar: %w", err)
	}

	saved := s.mapper.ToDomain(model)
	return calendar.ReconstructCalendar(
		saved.ID(), saved.UserID(), saved.Niche(), saved.City(),
		saved.DaysGenerated(), saved.Method(), entries,
		saved.GenerationTime(), saved.SuccessRate(), saved.CreatedAt(),
	), nil
}

// Get returns a calendar with its entries.
func (s CalendarStore) Get(ctx context.Context, id int64) (calendar.Calendar, error) {
	cal, err := s.repo.FindOne(ctx, store.WithID(id))
	if err != nil {
		return calendar.Calendar{}, err
	}

	var entryModels []EntryModel
	result := s.db.Session(ctx).Where("calendar_id = ?", id).Order("day ASC").Find(&entryModels)
	if result.Error != nil {
		return calendar.Calendar{}, fmt.Errorf("get calendar entries: %w", result.Error)
	}

	entries := make([]calendar.Entry, len(entryModels))
	for i, em := range entryModels {
		entries[i] = s.entryMapper.ToDomain(em)
	}

	return calendar.ReconstructCalendar(
		cal.ID(), cal.UserID(), cal.Niche(), cal.City(),
		cal.DaysGenerated(), cal.Method(), entries,
		cal.GenerationTime(), cal.SuccessRate(), cal.CreatedAt(),
	), nil
}

// Find returns calendars (without entries) matching the options.
func (s CalendarStore) Find(ctx context.Context, options ...store.Option) ([]calendar.Calendar, error) {
	return s.repo.Find(ctx, options...)
}

// Count returns the number of calendars matching the options.
func (s CalendarStore) Count(ctx context.Context, options ...store.Option) (int64, error) {
	return s.repo.Count(ctx, options...)
}

// Delete removes a calendar and its entries.
func (s CalendarStore) Delete(ctx context.Context, id int64) error {
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("calendar_id = ?", id).Delete(&EntryModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&CalendarModel{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: calendar id %d", database.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete calendar: %w", err)
	}
	return nil
}

// statsRow receives the aggregate query result.
type statsRow struct {
	Calendars int64
	Posts     int64
	AvgTimeMS float64
	AvgRate   float64
}

// StatsSince aggregates calendars created at or after the given time.
func (s CalendarStore) StatsSince(ctx context.Context, since time.Time) (calendar.Stats, error) {
	var row statsRow
	result := s.db.Session(ctx).Model(&CalendarModel{}).
		Select(`COUNT(*) AS calendars,
			COALESCE(SUM(days_generated), 0) AS posts,
			COALESCE(AVG(generation_time_ms), 0) AS avg_time_ms,
			COALESCE(AVG(success_rate), 0) AS avg_rate`).
		Where("created_at >= ?", since).
		Scan(&row)
	if result.Error != nil {
		return calendar.Stats{}, fmt.Errorf("calendar stats: %w", result.Error)
	}

	return calendar.NewStats(
		row.Calendars,
		row.Posts,
		time.Duration(row.AvgTimeMS)*time.Millisecond,
		row.AvgRate,
	), nil
}

var _ calendar.Store = (*CalendarStore)(nil)
