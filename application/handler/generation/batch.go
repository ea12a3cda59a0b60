// Package generation implements job handlers for calendar generation work.
package generation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salonsuite/bella/application/service"
	"github.com/salonsuite/bella/domain/job"
)

// BatchCalendars handles the BATCH_CALENDARS job operation.
// It restores the business list from the job payload and runs the
// batch generation pipeline, returning a per-business result summary.
type BatchCalendars struct {
	batches *service.Batches
	logger  *slog.Logger
}

// NewBatchCalendars creates a new BatchCalendars handler.
func NewBatchCalendars(batches *service.Batches, logger *slog.Logger) *BatchCalendars {
	return &BatchCalendars{batches: batches, logger: logger}
}

// Execute processes the BATCH_CALENDARS job.
func (h *BatchCalendars) Execute(ctx context.Context, j job.Job) (map[string]any, error) {
	businesses, days, err := service.BusinessesFromPayload(j.Payload())
	if err != nil {
		return nil, fmt.Errorf("decode batch payload: %w", err)
	}

	h.logger.Info("processing batch calendar job",
		slog.String("correlation_id", j.CorrelationID()),
		slog.Int("businesses", len(businesses)),
		slog.Int("days", days),
	)

	outcome, err := h.batches.Process(ctx, j.UserID(), businesses, days)
	if err != nil {
		return nil, fmt.Errorf("process batch: %w", err)
	}

	results := make([]any, len(outcome.Results))
	for i, r := range outcome.Results {
		entry := map[string]any{
			"niche":  r.Niche,
			"city":   r.City,
			"status": r.Status,
		}
		if r.CalendarID > 0 {
			entry["calendar_id"] = r.CalendarID
			entry["posts"] = r.Posts
		}
		if r.Error != "" {
			entry["error"] = r.Error
		}
		results[i] = entry
	}

	return map[string]any{
		"total":      len(outcome.Results),
		"succeeded":  outcome.Succeeded,
		"failed":     outcome.Failed,
		"elapsed_ms": outcome.Elapsed.Milliseconds(),
		"results":    results,
	}, nil
}

var _ service.Handler = (*BatchCalendars)(nil)
