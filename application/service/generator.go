package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/template"
	"github.com/salonsuite/bella/domain/trend"
	"github.com/salonsuite/bella/infrastructure/provider"
	"github.com/salonsuite/bella/internal/config"
	"github.com/salonsuite/bella/internal/metrics"
)

// aiCallTimeout bounds a single enhancement attempt so one slow provider
// call cannot eat the whole generation deadline.
const aiCallTimeout = 30 * time.Second

// Generator produces the daily entries of a content calendar. The template
// path always succeeds; AI enhancement is attempted on top of it when the
// run is short enough and a text provider is available.
type Generator struct {
	text   provider.TextGenerator
	trends trend.Source
	cache  *ContentCache
	cfg    config.GenerationConfig
	openai config.OpenAIConfig
	logger *slog.Logger
}

// NewGenerator creates a Generator. A nil text generator produces
// template-only calendars.
func NewGenerator(
	text provider.TextGenerator,
	trends trend.Source,
	cfg config.GenerationConfig,
	openai config.OpenAIConfig,
	logger *slog.Logger,
) *Generator {
	if trends == nil {
		trends = trend.NewStaticSource()
	}
	return &Generator{
		text:   text,
		trends: trends,
		cfg:    cfg,
		openai: openai,
		logger: logger,
	}
}

// WithCache memoizes each generated day under its (niche, city, day) key,
// so later runs reuse cached days they overlap with. A nil cache disables
// memoization.
func (g *Generator) WithCache(cache *ContentCache) *Generator {
	g.cache = cache
	return g
}

// run is the outcome of one generation pass.
type run struct {
	entries     []calendar.Entry
	method      calendar.Method
	successRate float64
}

// Generate builds entries for the given niche, city and day count. It never
// returns an empty result: every AI failure falls back to the template for
// that day, and signature dedup keeps consecutive days from repeating.
func (g *Generator) Generate(ctx context.Context, niche, city string, days int) run {
	useAI := g.aiEnabled(days)

	trendSet, err := g.trends.Lookup(ctx, niche)
	if err != nil {
		trendSet = trend.StaticLookup(niche)
	}

	entries := make([]calendar.Entry, 0, days)
	used := make(map[string]bool, days)
	aiHits := 0

	for day := 1; day <= days; day++ {
		key := calendar.CacheKey(niche, city, day)
		if g.cache != nil {
			if cached, method, ok := g.cache.Get(key); ok {
				metrics.CacheLookups.WithLabelValues("hit").Inc()
				if method == calendar.MethodAI {
					aiHits++
				}
				used[cached.Signature()] = true
				entries = append(entries, cached)
				continue
			}
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		}

		entry := template.Universal(niche, city, day)
		method := calendar.MethodTemplate
		if used[entry.Signature()] {
			entry = template.Diversify(niche, city, day, used)
		}

		if useAI {
			if enhanced, ok := g.enhance(ctx, niche, city, day, trendSet, entries, used); ok {
				entry = enhanced
				method = calendar.MethodAI
				aiHits++
			}
		}

		used[entry.Signature()] = true
		entries = append(entries, entry)
		if g.cache != nil {
			g.cache.Set(key, entry, method)
		}
	}

	// The loop above cannot produce an empty slice, but a non-empty
	// calendar is the one promise this service must keep.
	if len(entries) == 0 {
		entries = append(entries, template.Universal(niche, city, 1))
	}

	method := calendar.MethodTemplate
	successRate := 1.0
	switch {
	case aiHits == 0:
	case aiHits == days:
		method = calendar.MethodAI
	default:
		method = calendar.MethodMixed
	}
	if useAI {
		successRate = float64(aiHits) / float64(days)
	}

	return run{entries: entries, method: method, successRate: successRate}
}

func (g *Generator) aiEnabled(days int) bool {
	if g.text == nil || !g.text.SupportsTextGeneration() {
		return false
	}
	return days <= g.cfg.AIDaysLimit()
}

// enhance makes one bounded AI attempt for a day. Any failure, malformed
// line or repeated signature reports !ok so the template entry stands.
func (g *Generator) enhance(
	ctx context.Context,
	niche, city string,
	day int,
	trendSet trend.Set,
	previous []calendar.Entry,
	used map[string]bool,
) (calendar.Entry, bool) {
	callCtx, cancel := context.WithTimeout(ctx, aiCallTimeout)
	defer cancel()

	req := provider.NewChatCompletionRequest(
		g.buildMessages(niche, city, day, trendSet, previous),
		g.openai.MaxTokens(),
		g.openai.Temperature(),
	)

	resp, err := g.text.ChatCompletion(callCtx, req)
	if err != nil {
		metrics.ProviderCalls.WithLabelValues("chat_completion", "failure").Inc()
		g.logger.Debug("ai enhancement failed, keeping template entry",
			slog.Int("day", day),
			slog.String("niche", niche),
			slog.String("error", err.Error()),
		)
		return calendar.Entry{}, false
	}
	metrics.ProviderCalls.WithLabelValues("chat_completion", "success").Inc()

	entry, err := parseEnhanced(resp.Content(), day, niche, city)
	if err != nil {
		g.logger.Debug("ai response rejected, keeping template entry",
			slog.Int("day", day),
			slog.String("error", err.Error()),
		)
		return calendar.Entry{}, false
	}

	if used[entry.Signature()] {
		return calendar.Entry{}, false
	}
	return entry, true
}

// parseEnhanced picks the first parseable pipe-format line out of a model
// response.
func parseEnhanced(content string, day int, niche, city string) (calendar.Entry, error) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "|") {
			continue
		}
		entry, err := calendar.ParseLine(line, day, niche, city)
		if err != nil {
			continue
		}
		return entry, nil
	}
	return calendar.Entry{}, fmt.Errorf("no usable line in response: %w", calendar.ErrMalformedLine)
}

func (g *Generator) buildMessages(
	niche, city string,
	day int,
	trendSet trend.Set,
	previous []calendar.Entry,
) []provider.Message {
	theme := template.ThemeForDay(day)

	var b strings.Builder
	fmt.Fprintf(&b, "Create day %d of a social media content calendar for a %s business in %s.\n", day, niche, city)
	fmt.Fprintf(&b, "Today's theme: %s.\n", theme)
	fmt.Fprintf(&b, "Trending audio direction: %s.\n", trendSet.Audio())
	fmt.Fprintf(&b, "Trending hashtags to draw from: %s.\n", trendSet.Hashtags())

	if len(previous) > 0 {
		b.WriteString("Already planned (do not repeat these activities or scripts):\n")
		for _, e := range previous {
			fmt.Fprintf(&b, "- Day %d: %s: %s\n", e.Day(), e.Activity(), e.Script())
		}
	}

	b.WriteString("\nRespond with exactly one line in this format:\n")
	fmt.Fprintf(&b, "Day %d | Activity | Script | Visual | Caption | Hashtags | Time | CTA | Image prompt\n", day)

	return []provider.Message{
		provider.NewMessage("system",
			"You are a social media strategist for beauty and service businesses. "+
				"You write specific, actionable daily content plans in a strict pipe-separated format."),
		provider.NewMessage("user", b.String()),
	}
}
