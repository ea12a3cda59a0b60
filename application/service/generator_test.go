package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/trend"
	"github.com/salonsuite/bella/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testGenConfig() config.GenerationConfig {
	return config.NewGenerationConfig()
}

func TestGenerator_TemplateOnlyWithoutProvider(t *testing.T) {
	g := NewGenerator(nil, nil, testGenConfig(), config.NewOpenAIConfig(), testLogger())

	result := g.Generate(context.Background(), "hair salon", "Austin", 5)

	require.Len(t, result.entries, 5)
	require.Equal(t, calendar.MethodTemplate, result.method)
	require.Equal(t, 1.0, result.successRate)
	for i, entry := range result.entries {
		require.Equal(t, i+1, entry.Day())
		require.NotEmpty(t, entry.Activity())
		require.NotEmpty(t, entry.Script())
	}
}

func TestGenerator_EntriesNeverRepeatSignature(t *testing.T) {
	g := NewGenerator(nil, nil, testGenConfig(), config.NewOpenAIConfig(), testLogger())

	result := g.Generate(context.Background(), "nails", "Dallas", 30)

	seen := make(map[string]bool, 30)
	for _, entry := range result.entries {
		sig := entry.Signature()
		require.False(t, seen[sig], "duplicate signature on day %d: %s", entry.Day(), sig)
		seen[sig] = true
	}
}

func TestGenerator_AIEnhancementUsed(t *testing.T) {
	text := &fakeTextGenerator{responses: []string{
		"Day 1 | Balayage reveal | Fresh dimension for spring | Time-lapse video | New season, new color | #Balayage #HairGoals | Morning (9-11am) | Book your color session! | Stylist painting balayage in a bright salon",
	}}
	g := NewGenerator(text, staticTrendSource{set: trend.NewSet("upbeat salon audio", "#Hair")}, testGenConfig(), config.NewOpenAIConfig(), testLogger())

	result := g.Generate(context.Background(), "hair", "Austin", 1)

	require.Len(t, result.entries, 1)
	require.Equal(t, calendar.MethodAI, result.method)
	require.Equal(t, 1.0, result.successRate)
	require.Equal(t, "Balayage reveal", result.entries[0].Activity())
}

func TestGenerator_AIFailureFallsBackToTemplate(t *testing.T) {
	text := &fakeTextGenerator{err: errors.New("provider down")}
	g := NewGenerator(text, nil, testGenConfig(), config.NewOpenAIConfig(), testLogger())

	result := g.Generate(context.Background(), "hair", "Austin", 3)

	require.Len(t, result.entries, 3)
	require.Equal(t, calendar.MethodTemplate, result.method)
	require.Equal(t, 0.0, result.successRate)
	require.Equal(t, 3, text.calls)
}

func TestGenerator_MalformedAIResponseRejected(t *testing.T) {
	text := &fakeTextGenerator{responses: []string{
		"Here is your content plan:\nDay 1 | only | three fields",
	}}
	g := NewGenerator(text, nil, testGenConfig(), config.NewOpenAIConfig(), testLogger())

	result := g.Generate(context.Background(), "lashes", "Miami", 1)

	require.Len(t, result.entries, 1)
	require.Equal(t, calendar.MethodTemplate, result.method)
}

func TestGenerator_MixedMethodWhenAIPartiallySucceeds(t *testing.T) {
	text := &fakeTextGenerator{responses: []string{
		"Day 1 | Lash lift demo | Watch the lift take shape | Close-up video | Lashes for days | #Lashes | Morning (9-11am) | Book today! | Macro shot of lash lift",
		"not a usable line at all",
	}}
	g := NewGenerator(text, nil, testGenConfig(), config.NewOpenAIConfig(), testLogger())

	result := g.Generate(context.Background(), "lashes", "Miami", 2)

	require.Len(t, result.entries, 2)
	require.Equal(t, calendar.MethodMixed, result.method)
	require.Equal(t, 0.5, result.successRate)
}

func TestGenerator_LongRunsSkipAI(t *testing.T) {
	text := &fakeTextGenerator{responses: []string{"Day 1 | a | b | c | d | e | f | g | h"}}
	g := NewGenerator(text, nil, testGenConfig(), config.NewOpenAIConfig(), testLogger())

	days := testGenConfig().AIDaysLimit() + 1
	result := g.Generate(context.Background(), "hair", "Austin", days)

	require.Len(t, result.entries, days)
	require.Equal(t, calendar.MethodTemplate, result.method)
	require.Zero(t, text.calls, "AI must not be called above the day limit")
}

func TestGenerator_CacheReusesOverlappingDays(t *testing.T) {
	text := &fakeTextGenerator{err: errors.New("provider down")}
	cache := NewContentCache(time.Minute)
	cfg := testGenConfig().WithAIDaysLimit(10)
	g := NewGenerator(text, nil, cfg, config.NewOpenAIConfig(), testLogger()).WithCache(cache)

	first := g.Generate(context.Background(), "hair", "Austin", 7)
	require.Len(t, first.entries, 7)
	require.Equal(t, 7, text.calls)
	require.Equal(t, 7, cache.Len(), "one cached slot per day")

	// A shorter run for the same niche and city is served day by day from
	// the cache, without touching the provider again.
	second := g.Generate(context.Background(), "hair", "Austin", 5)
	require.Len(t, second.entries, 5)
	require.Equal(t, 7, text.calls)
	require.Equal(t, first.entries[:5], second.entries)

	// Keys are case-insensitive, and extending past the cached horizon
	// only generates the new days.
	third := g.Generate(context.Background(), "Hair", "AUSTIN", 9)
	require.Len(t, third.entries, 9)
	require.Equal(t, 9, text.calls)
	require.Equal(t, 9, cache.Len())
}

func TestParseEnhanced_PicksFirstUsableLine(t *testing.T) {
	content := "Sure! Here it is:\n\nDay 2 | Nail art demo | Chrome finish walkthrough | Macro video | So shiny | #Nails | Evening (6-8pm) | Book now! | Chrome nails macro\nHope that helps!"

	entry, err := parseEnhanced(content, 2, "nails", "Dallas")
	require.NoError(t, err)
	require.Equal(t, 2, entry.Day())
	require.Equal(t, "Nail art demo", entry.Activity())
}

func TestParseEnhanced_NoUsableLine(t *testing.T) {
	_, err := parseEnhanced("I cannot help with that.", 1, "hair", "Austin")
	require.ErrorIs(t, err, calendar.ErrMalformedLine)
}
