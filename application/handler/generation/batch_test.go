package generation_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonsuite/bella/application/handler/generation"
	"github.com/salonsuite/bella/application/service"
	"github.com/salonsuite/bella/domain/job"
	"github.com/salonsuite/bella/infrastructure/persistence"
	"github.com/salonsuite/bella/internal/config"
	"github.com/salonsuite/bella/internal/testdb"
)

func newBatchHandler(t *testing.T) (*generation.BatchCalendars, persistence.CalendarStore, int64) {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	db := testdb.New(t)
	calendars := persistence.NewCalendarStore(db)
	users := persistence.NewUserStore(db)
	jobs := persistence.NewJobStore(db)

	user, err := persistence.SeedDefaultUser(ctx, db)
	require.NoError(t, err)

	generator := service.NewGenerator(nil, nil, config.NewGenerationConfig(), config.NewOpenAIConfig(), logger)
	queue := service.NewJobQueue(jobs, logger)
	batches := service.NewBatches(generator, calendars, users, queue, logger)

	return generation.NewBatchCalendars(batches, logger), calendars, user.ID()
}

func TestBatchCalendarsExecute(t *testing.T) {
	ctx := context.Background()
	handler, calendars, userID := newBatchHandler(t)

	payload := map[string]any{
		"days": float64(3),
		"businesses": []any{
			map[string]any{"niche": "hair salon", "city": "Austin"},
			map[string]any{"niche": "nail salon", "city": "Denver"},
		},
	}
	j := job.NewJob("batch-1", userID, job.OperationBatchCalendars, job.PriorityNormal, payload)

	result, err := handler.Execute(ctx, j)
	require.NoError(t, err)

	assert.Equal(t, 2, result["total"])
	assert.Equal(t, 2, result["succeeded"])
	assert.Equal(t, 0, result["failed"])

	results, ok := result["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 2)

	count, err := calendars.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBatchCalendarsExecuteMalformedPayload(t *testing.T) {
	ctx := context.Background()
	handler, _, userID := newBatchHandler(t)

	j := job.NewJob("batch-2", userID, job.OperationBatchCalendars, job.PriorityNormal, map[string]any{"days": 3})

	_, err := handler.Execute(ctx, j)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode batch payload")
}
