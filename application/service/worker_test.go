package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salonsuite/bella/domain/job"
)

func waitForStatus(t *testing.T, jobs *fakeJobStore, correlationID string, want job.Status) job.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := jobs.GetByCorrelationID(context.Background(), correlationID)
		require.NoError(t, err)
		if j.Status() == want {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", correlationID, want)
	return job.Job{}
}

func TestWorker_CompletesJob(t *testing.T) {
	jobs := newFakeJobStore()
	queue := NewJobQueue(jobs, testLogger())

	registry := NewRegistry()
	registry.Register(job.OperationBatchCalendars, HandlerFunc(func(_ context.Context, j job.Job) (map[string]any, error) {
		return map[string]any{"echo": j.Payload()["value"]}, nil
	}))

	_, err := queue.Enqueue(context.Background(), job.NewJob("corr-ok", 1, job.OperationBatchCalendars, job.PriorityNormal, map[string]any{"value": "done"}))
	require.NoError(t, err)

	worker := NewWorker(jobs, registry, testLogger()).WithPollPeriod(5 * time.Millisecond)
	worker.Start(context.Background())
	defer worker.Stop()

	finished := waitForStatus(t, jobs, "corr-ok", job.StatusCompleted)
	require.Equal(t, "done", finished.Result()["echo"])
	require.False(t, finished.CompletedAt().IsZero())
}

func TestWorker_FailsJobOnHandlerError(t *testing.T) {
	jobs := newFakeJobStore()
	queue := NewJobQueue(jobs, testLogger())

	registry := NewRegistry()
	registry.Register(job.OperationBatchCalendars, HandlerFunc(func(_ context.Context, _ job.Job) (map[string]any, error) {
		return nil, errors.New("generation blew up")
	}))

	_, err := queue.Enqueue(context.Background(), job.NewJob("corr-fail", 1, job.OperationBatchCalendars, job.PriorityNormal, nil))
	require.NoError(t, err)

	worker := NewWorker(jobs, registry, testLogger()).WithPollPeriod(5 * time.Millisecond)
	worker.Start(context.Background())
	defer worker.Stop()

	finished := waitForStatus(t, jobs, "corr-fail", job.StatusFailed)
	require.Contains(t, finished.ErrorMessage(), "generation blew up")
}

func TestWorker_RecoversFromPanic(t *testing.T) {
	jobs := newFakeJobStore()
	queue := NewJobQueue(jobs, testLogger())

	registry := NewRegistry()
	registry.Register(job.OperationBatchCalendars, HandlerFunc(func(_ context.Context, _ job.Job) (map[string]any, error) {
		panic("boom")
	}))

	_, err := queue.Enqueue(context.Background(), job.NewJob("corr-panic", 1, job.OperationBatchCalendars, job.PriorityNormal, nil))
	require.NoError(t, err)

	worker := NewWorker(jobs, registry, testLogger()).WithPollPeriod(5 * time.Millisecond)
	worker.Start(context.Background())
	defer worker.Stop()

	finished := waitForStatus(t, jobs, "corr-panic", job.StatusFailed)
	require.Contains(t, finished.ErrorMessage(), "handler panicked")
}

func TestWorker_FailsUnknownOperation(t *testing.T) {
	jobs := newFakeJobStore()
	queue := NewJobQueue(jobs, testLogger())

	_, err := queue.Enqueue(context.Background(), job.NewJob("corr-unknown", 1, job.Operation("bella.unknown"), job.PriorityNormal, nil))
	require.NoError(t, err)

	worker := NewWorker(jobs, NewRegistry(), testLogger()).WithPollPeriod(5 * time.Millisecond)
	worker.Start(context.Background())
	defer worker.Stop()

	finished := waitForStatus(t, jobs, "corr-unknown", job.StatusFailed)
	require.Contains(t, finished.ErrorMessage(), "no handler registered")
}

func TestJobQueue_StatusPollable(t *testing.T) {
	jobs := newFakeJobStore()
	queue := NewJobQueue(jobs, testLogger())

	saved, err := queue.Enqueue(context.Background(), job.NewJob("corr-poll", 1, job.OperationBatchCalendars, job.PriorityHigh, nil))
	require.NoError(t, err)

	polled, err := queue.Status(context.Background(), "corr-poll")
	require.NoError(t, err)
	require.Equal(t, saved.ID(), polled.ID())
	require.Equal(t, job.StatusPending, polled.Status())

	pending, err := queue.PendingCount(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, pending)
}

func TestRegistry_Operations(t *testing.T) {
	registry := NewRegistry()
	require.False(t, registry.HasHandler(job.OperationBatchCalendars))

	registry.Register(job.OperationBatchCalendars, HandlerFunc(func(_ context.Context, _ job.Job) (map[string]any, error) {
		return nil, nil
	}))

	require.True(t, registry.HasHandler(job.OperationBatchCalendars))
	require.Len(t, registry.Operations(), 1)
}
