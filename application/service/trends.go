package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/salonsuite/bella/domain/trend"
	"github.com/salonsuite/bella/internal/domain"
)

// Trends serves trend lookups for the API and MCP surfaces.
type Trends struct {
	source trend.Source
	logger *slog.Logger
}

// NewTrends creates the trend service. A nil source falls back to the
// static map.
func NewTrends(source trend.Source, logger *slog.Logger) *Trends {
	if source == nil {
		source = trend.NewStaticSource()
	}
	return &Trends{
		source: source,
		logger: logger,
	}
}

// Lookup returns the current trend set for a niche.
func (s *Trends) Lookup(ctx context.Context, niche string) (trend.Set, error) {
	niche = strings.ToLower(strings.TrimSpace(niche))
	if niche == "" {
		return trend.Set{}, fmt.Errorf("%w: niche is required", domain.ErrValidation)
	}

	set, err := s.source.Lookup(ctx, niche)
	if err != nil {
		s.logger.Debug("trend lookup failed, using static set",
			slog.String("niche", niche),
			slog.String("error", err.Error()),
		)
		return trend.StaticLookup(niche), nil
	}
	return set, nil
}
