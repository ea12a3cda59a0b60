package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/salonsuite/bella/domain/account"
	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/store"
	"github.com/salonsuite/bella/domain/usage"
	"github.com/salonsuite/bella/internal/config"
	"github.com/salonsuite/bella/internal/domain"
	"github.com/salonsuite/bella/internal/metrics"
)

// GenerateParams describes one calendar generation request.
type GenerateParams struct {
	// UserID identifies the requesting account. Zero means the seeded
	// default account.
	UserID int64
	Niche  string
	City   string
	Days   int

	// SkipPersist generates without writing the calendar. Used by the
	// demo surface.
	SkipPersist bool
}

// CalendarListParams configures calendar listing.
type CalendarListParams struct {
	UserID int64
	Niche  string
	City   string
	Limit  int
	Offset int
}

// Calendars generates, stores and serves content calendars. A weighted
// semaphore caps concurrent generation runs; requests over the cap are
// rejected immediately rather than queued.
type Calendars struct {
	store     calendar.Store
	users     account.Store
	usage     usage.Store
	generator *Generator
	gate      *semaphore.Weighted
	cfg       config.GenerationConfig
	logger    *slog.Logger
}

// NewCalendars creates the calendar service.
func NewCalendars(
	calendarStore calendar.Store,
	users account.Store,
	usageStore usage.Store,
	generator *Generator,
	cfg config.GenerationConfig,
	logger *slog.Logger,
) *Calendars {
	return &Calendars{
		store:     calendarStore,
		users:     users,
		usage:     usageStore,
		generator: generator,
		gate:      semaphore.NewWeighted(int64(cfg.MaxConcurrent())),
		cfg:       cfg,
		logger:    logger,
	}
}

// Generate runs the full pipeline: admission control, generation,
// persistence and usage accounting. Day-level caching happens inside the
// generator.
func (s *Calendars) Generate(ctx context.Context, params GenerateParams) (calendar.Calendar, error) {
	start := time.Now()

	niche, city, days, err := s.normalize(params)
	if err != nil {
		return calendar.Calendar{}, err
	}

	if !s.gate.TryAcquire(1) {
		return calendar.Calendar{}, fmt.Errorf("%w: %d generations already in flight", domain.ErrBusy, s.cfg.MaxConcurrent())
	}
	metrics.ActiveGenerations.Inc()
	defer func() {
		s.gate.Release(1)
		metrics.ActiveGenerations.Dec()
	}()

	user, err := s.resolveUser(ctx, params.UserID)
	if err != nil {
		return calendar.Calendar{}, err
	}

	if err := s.admit(ctx, user, days); err != nil {
		s.recordUsage(ctx, user.ID(), time.Since(start), err)
		return calendar.Calendar{}, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
	defer cancel()

	result := s.generator.Generate(genCtx, niche, city, days)

	cal := calendar.NewCalendar(user.ID(), niche, city, result.entries, result.method).
		WithGenerationStats(time.Since(start), result.successRate)

	if !params.SkipPersist {
		cal, err = s.store.Save(ctx, cal)
		if err != nil {
			s.recordUsage(ctx, user.ID(), time.Since(start), err)
			return calendar.Calendar{}, fmt.Errorf("failed to save calendar: %w", err)
		}
		if err := s.users.AddQuotaUsed(ctx, user.ID(), len(result.entries)); err != nil {
			s.logger.Error("failed to charge quota",
				slog.Int64("user_id", user.ID()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.recordUsage(ctx, user.ID(), time.Since(start), nil)
	metrics.CalendarsGenerated.WithLabelValues(string(result.method)).Inc()
	metrics.PostsGenerated.Add(float64(len(result.entries)))
	metrics.GenerationDuration.WithLabelValues(string(result.method)).Observe(time.Since(start).Seconds())

	s.logger.Info("calendar generated",
		slog.String("niche", niche),
		slog.String("city", city),
		slog.Int("days", days),
		slog.String("method", string(result.method)),
		slog.Duration("duration", time.Since(start)),
	)

	return cal, nil
}

// normalize validates and canonicalizes request parameters.
func (s *Calendars) normalize(params GenerateParams) (niche, city string, days int, err error) {
	niche = strings.ToLower(strings.TrimSpace(params.Niche))
	city = strings.TrimSpace(params.City)
	days = params.Days

	if niche == "" {
		return "", "", 0, fmt.Errorf("%w: niche is required", domain.ErrValidation)
	}
	if city == "" {
		return "", "", 0, fmt.Errorf("%w: city is required", domain.ErrValidation)
	}
	if days < 1 {
		days = 1
	}
	if days > s.cfg.MaxDays() {
		return "", "", 0, fmt.Errorf("%w: days must be between 1 and %d", domain.ErrValidation, s.cfg.MaxDays())
	}
	return niche, city, days, nil
}

// admit enforces the hourly rate limit and the monthly quota.
func (s *Calendars) admit(ctx context.Context, user account.User, days int) error {
	since := time.Now().UTC().Add(-time.Hour)
	count, err := s.usage.CountSince(ctx, user.ID(), since)
	if err != nil {
		return fmt.Errorf("failed to check rate limit: %w", err)
	}
	if count >= int64(s.cfg.RateLimitPerHour()) {
		return fmt.Errorf("%w: %d requests in the last hour (limit %d)",
			domain.ErrRateLimited, count, s.cfg.RateLimitPerHour())
	}

	if user.QuotaRemaining() < days {
		return fmt.Errorf("%w: %d posts remaining this month, %d requested",
			domain.ErrQuotaExceeded, user.QuotaRemaining(), days)
	}
	return nil
}

func (s *Calendars) resolveUser(ctx context.Context, userID int64) (account.User, error) {
	if userID > 0 {
		user, err := s.users.Get(ctx, userID)
		if err != nil {
			return account.User{}, fmt.Errorf("failed to load user %d: %w", userID, err)
		}
		return user, nil
	}
	user, err := s.users.GetByEmail(ctx, account.DefaultUserEmail)
	if err != nil {
		return account.User{}, fmt.Errorf("failed to load default user: %w", err)
	}
	return user, nil
}

func (s *Calendars) recordUsage(ctx context.Context, userID int64, elapsed time.Duration, cause error) {
	record := usage.NewRecord(userID, "/api/v1/calendars", elapsed)
	if cause != nil {
		record = usage.NewFailedRecord(userID, "/api/v1/calendars", elapsed, cause.Error())
	}
	if _, err := s.usage.Save(ctx, record); err != nil {
		s.logger.Debug("failed to record usage", slog.String("error", err.Error()))
	}
}

// Get returns a calendar with its entries.
func (s *Calendars) Get(ctx context.Context, id int64) (calendar.Calendar, error) {
	return s.store.Get(ctx, id)
}

// List returns calendars matching the params, newest first, without entries.
func (s *Calendars) List(ctx context.Context, params CalendarListParams) ([]calendar.Calendar, int64, error) {
	options := s.listOptions(params)

	total, err := s.store.Count(ctx, options...)
	if err != nil {
		return nil, 0, err
	}

	options = append(options, calendar.WithNewestFirst())
	if params.Limit > 0 {
		options = append(options, store.WithPagination(params.Limit, params.Offset)...)
	}

	calendars, err := s.store.Find(ctx, options...)
	if err != nil {
		return nil, 0, err
	}
	return calendars, total, nil
}

func (s *Calendars) listOptions(params CalendarListParams) []store.Option {
	var options []store.Option
	if params.UserID > 0 {
		options = append(options, calendar.WithUserID(params.UserID))
	}
	if params.Niche != "" {
		options = append(options, calendar.WithNiche(strings.ToLower(params.Niche)))
	}
	if params.City != "" {
		options = append(options, calendar.WithCity(params.City))
	}
	return options
}

// Delete removes a calendar and its entries.
func (s *Calendars) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// StatsSince aggregates stored generation outcomes.
func (s *Calendars) StatsSince(ctx context.Context, since time.Time) (calendar.Stats, error) {
	return s.store.StatsSince(ctx, since)
}
