package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/salonsuite/bella/domain/job"
	"github.com/salonsuite/bella/internal/metrics"
)

// Handler executes a specific job operation and returns its result payload.
type Handler interface {
	Execute(ctx context.Context, j job.Job) (map[string]any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, j job.Job) (map[string]any, error)

// Execute implements Handler.
func (f HandlerFunc) Execute(ctx context.Context, j job.Job) (map[string]any, error) {
	return f(ctx, j)
}

// Registry manages job handlers for different operations.
type Registry struct {
	handlers map[job.Operation]Handler
	mu       sync.RWMutex
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[job.Operation]Handler),
	}
}

// Register registers a handler for an operation.
func (r *Registry) Register(operation job.Operation, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[operation] = handler
}

// Handler returns the handler for an operation.
func (r *Registry) Handler(operation job.Operation) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[operation]
	return handler, ok
}

// HasHandler reports whether a handler is registered for the operation.
func (r *Registry) HasHandler(operation job.Operation) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[operation]
	return ok
}

// Operations returns all registered operations.
func (r *Registry) Operations() []job.Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]job.Operation, 0, len(r.handlers))
	for op := range r.handlers {
		ops = append(ops, op)
	}
	return ops
}

// Worker processes jobs from the queue. Jobs transition to completed or
// failed in place; rows are never deleted, so status polls keep working
// after the run.
type Worker struct {
	store      job.Store
	registry   *Registry
	logger     *slog.Logger
	pollPeriod time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewWorker creates a new queue worker.
func NewWorker(store job.Store, registry *Registry, logger *slog.Logger) *Worker {
	return &Worker{
		store:      store,
		registry:   registry,
		logger:     logger,
		pollPeriod: time.Second,
	}
}

// WithPollPeriod sets the poll period for checking new jobs.
func (w *Worker) WithPollPeriod(d time.Duration) *Worker {
	w.pollPeriod = d
	return w
}

// Start begins processing jobs from the queue.
// The worker runs in a goroutine and can be stopped with Stop().
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	w.logger.Info("queue worker started")
}

// Stop gracefully shuts down the worker.
// It waits for the current job to complete before returning.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
	w.logger.Info("queue worker stopped")
}

func (w *Worker) run(ctx context.Context) {
	w.logger.Debug("worker loop started")

	ticker := time.NewTicker(w.pollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker loop stopping")
			return
		case <-ticker.C:
			if err := w.processNext(ctx); err != nil {
				if ctx.Err() != nil {
					return // Context cancelled, exit cleanly
				}
				w.logger.Error("error processing job",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

func (w *Worker) processNext(ctx context.Context) error {
	j, found, err := w.store.Dequeue(ctx)
	if err != nil {
		return err
	}
	if !found {
		return nil // No jobs to process
	}

	return w.processJob(ctx, j)
}

func (w *Worker) processJob(ctx context.Context, j job.Job) error {
	start := time.Now()

	w.logger.Info("processing job",
		slog.String("correlation_id", j.CorrelationID()),
		slog.String("operation", j.Operation().String()),
	)

	h, ok := w.registry.Handler(j.Operation())
	if !ok {
		w.logger.Error("no handler for operation",
			slog.String("correlation_id", j.CorrelationID()),
			slog.String("operation", j.Operation().String()),
		)
		// Fail the job so it does not block the queue
		metrics.JobsProcessed.WithLabelValues("failed").Inc()
		return w.store.Update(ctx, j.Fail(fmt.Sprintf("no handler registered for %s", j.Operation())))
	}

	result, err := w.executeWithRecovery(ctx, h, j)
	if err != nil {
		w.logger.Error("job execution failed",
			slog.String("correlation_id", j.CorrelationID()),
			slog.String("operation", j.Operation().String()),
			slog.String("error", err.Error()),
		)
		metrics.JobsProcessed.WithLabelValues("failed").Inc()
		return w.store.Update(ctx, j.Fail(err.Error()))
	}

	if err := w.store.Update(ctx, j.Complete(result)); err != nil {
		return err
	}
	metrics.JobsProcessed.WithLabelValues("completed").Inc()

	w.logger.Info("job completed",
		slog.String("correlation_id", j.CorrelationID()),
		slog.String("operation", j.Operation().String()),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

func (w *Worker) executeWithRecovery(ctx context.Context, h Handler, j job.Job) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Execute(ctx, j)
}
