package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/usage"
	"github.com/salonsuite/bella/internal/config"
	"github.com/salonsuite/bella/internal/domain"
)

func newTestCalendars(t *testing.T, cfg config.GenerationConfig) (*Calendars, *fakeCalendarStore, *fakeUserStore, *fakeUsageStore) {
	t.Helper()
	calendars := newFakeCalendarStore()
	users := newFakeUserStore()
	usageStore := &fakeUsageStore{}
	generator := NewGenerator(nil, nil, cfg, config.NewOpenAIConfig(), testLogger()).
		WithCache(NewContentCache(cfg.CacheTTL()))
	svc := NewCalendars(calendars, users, usageStore, generator, cfg, testLogger())
	return svc, calendars, users, usageStore
}

func TestCalendars_GeneratePersists(t *testing.T) {
	svc, store, users, _ := newTestCalendars(t, config.NewGenerationConfig())

	cal, err := svc.Generate(context.Background(), GenerateParams{Niche: "Hair Salon", City: "Austin", Days: 7})
	require.NoError(t, err)
	require.NotZero(t, cal.ID())
	require.Equal(t, "hair salon", cal.Niche())
	require.Len(t, cal.Entries(), 7)
	require.Equal(t, calendar.MethodTemplate, cal.Method())

	stored, err := store.Get(context.Background(), cal.ID())
	require.NoError(t, err)
	require.Equal(t, 7, stored.DaysGenerated())
	require.Equal(t, 7, users.quotaUsed, "posts charge against the monthly quota")
}

func TestCalendars_GenerateValidation(t *testing.T) {
	svc, _, _, _ := newTestCalendars(t, config.NewGenerationConfig())

	_, err := svc.Generate(context.Background(), GenerateParams{City: "Austin", Days: 5})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Generate(context.Background(), GenerateParams{Niche: "hair", Days: 5})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Generate(context.Background(), GenerateParams{Niche: "hair", City: "Austin", Days: 31})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCalendars_GenerateClampsZeroDaysToOne(t *testing.T) {
	svc, _, _, _ := newTestCalendars(t, config.NewGenerationConfig())

	cal, err := svc.Generate(context.Background(), GenerateParams{Niche: "hair", City: "Austin"})
	require.NoError(t, err)
	require.Len(t, cal.Entries(), 1)
}

func TestCalendars_RateLimitEnforced(t *testing.T) {
	cfg := config.NewGenerationConfig().WithRateLimitPerHour(2)
	svc, _, _, usageStore := newTestCalendars(t, cfg)

	for range 2 {
		_, err := svc.Generate(context.Background(), GenerateParams{Niche: "hair", City: "Austin", Days: 1})
		require.NoError(t, err)
	}
	require.Len(t, usageStore.records, 2)

	_, err := svc.Generate(context.Background(), GenerateParams{Niche: "hair", City: "Austin", Days: 1})
	require.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestCalendars_QuotaEnforced(t *testing.T) {
	svc, _, users, _ := newTestCalendars(t, config.NewGenerationConfig())
	users.quotaUsed = users.user.QuotaLimit() - 2

	_, err := svc.Generate(context.Background(), GenerateParams{Niche: "hair", City: "Austin", Days: 5})
	require.ErrorIs(t, err, domain.ErrQuotaExceeded)

	// A request that fits the remaining quota still passes.
	_, err = svc.Generate(context.Background(), GenerateParams{Niche: "hair", City: "Austin", Days: 2})
	require.NoError(t, err)
}

func TestCalendars_CacheServesRepeatRequests(t *testing.T) {
	svc, store, _, _ := newTestCalendars(t, config.NewGenerationConfig())

	first, err := svc.Generate(context.Background(), GenerateParams{Niche: "hair", City: "Austin", Days: 3})
	require.NoError(t, err)

	second, err := svc.Generate(context.Background(), GenerateParams{Niche: "hair", City: "Austin", Days: 3})
	require.NoError(t, err)

	require.Equal(t, first.Entries()[0].Activity(), second.Entries()[0].Activity())
	// Both runs persist their own calendar rows.
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestCalendars_SkipPersist(t *testing.T) {
	svc, store, users, _ := newTestCalendars(t, config.NewGenerationConfig())

	cal, err := svc.Generate(context.Background(), GenerateParams{Niche: "hair", City: "Austin", Days: 2, SkipPersist: true})
	require.NoError(t, err)
	require.Zero(t, cal.ID())

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
	require.Zero(t, users.quotaUsed)
}

func TestCalendars_UsageRecordedOnRejection(t *testing.T) {
	svc, _, users, usageStore := newTestCalendars(t, config.NewGenerationConfig())
	users.quotaUsed = users.user.QuotaLimit()

	_, err := svc.Generate(context.Background(), GenerateParams{Niche: "hair", City: "Austin", Days: 1})
	require.ErrorIs(t, err, domain.ErrQuotaExceeded)

	require.Len(t, usageStore.records, 1)
	require.False(t, usageStore.records[0].Success())
}

func TestCalendars_RecordUsage(t *testing.T) {
	_, _, _, usageStore := newTestCalendars(t, config.NewGenerationConfig())

	r, err := usageStore.Save(context.Background(), usage.NewRecord(1, "/api/v1/calendars", 10*time.Millisecond))
	require.NoError(t, err)
	require.True(t, r.Success())
}
