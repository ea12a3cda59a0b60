package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/salonsuite/bella/domain/account"
	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/job"
	"github.com/salonsuite/bella/internal/domain"
	"github.com/salonsuite/bella/internal/metrics"
)

// Batch sizing and scheduling constants.
const (
	// MaxBatchBusinesses caps one batch request.
	MaxBatchBusinesses = 1000

	// MaxBatchDays is the per-business day limit for batch runs.
	MaxBatchDays = 10

	// batchQueueThreshold is the business count above which a batch is
	// always queued instead of processed inline.
	batchQueueThreshold = 10

	// batchInlineBudget is the estimated duration above which a batch is
	// queued.
	batchInlineBudget = 300 * time.Second

	// Per-post cost model used for the duration estimate.
	secondsPerPost     = 1.5
	workerEfficiency   = 0.7
	estimateOverhead   = 1.1
	maxEstimateWorkers = 32
)

// Business identifies one niche/city pair in a batch request.
type Business struct {
	Niche string
	City  string
}

// BusinessResult is the per-business outcome of a batch run.
type BusinessResult struct {
	Niche      string
	City       string
	Status     string
	CalendarID int64
	Posts      int
	Error      string
}

// BatchOutcome is the result of a synchronous batch run.
type BatchOutcome struct {
	Results   []BusinessResult
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// BatchAccepted is returned when a batch is handed to the queue.
type BatchAccepted struct {
	JobID    string
	Estimate time.Duration
	Queued   bool
}

// Batches processes multi-business calendar generation, inline for small
// requests and through the job queue for large ones.
type Batches struct {
	generator *Generator
	store     calendar.Store
	users     account.Store
	queue     *JobQueue
	logger    *slog.Logger
}

// NewBatches creates the batch service.
func NewBatches(
	generator *Generator,
	store calendar.Store,
	users account.Store,
	queue *JobQueue,
	logger *slog.Logger,
) *Batches {
	return &Batches{
		generator: generator,
		store:     store,
		users:     users,
		queue:     queue,
		logger:    logger,
	}
}

// BatchWorkers returns the worker pool size used for batch processing.
func BatchWorkers() int {
	workers := runtime.NumCPU() + 4
	if workers > maxEstimateWorkers {
		workers = maxEstimateWorkers
	}
	return workers
}

// EstimateDuration predicts how long a batch will take with the standard
// worker pool.
func EstimateDuration(businesses, days int) time.Duration {
	workers := BatchWorkers()
	posts := float64(businesses * days)
	seconds := posts * secondsPerPost / (float64(workers) * workerEfficiency) * estimateOverhead
	return time.Duration(seconds * float64(time.Second))
}

// Submit validates a batch request and either processes it inline or
// enqueues it. Exactly one of the two return values is non-nil.
func (s *Batches) Submit(ctx context.Context, userID int64, businesses []Business, days int) (*BatchOutcome, *BatchAccepted, error) {
	businesses, days, err := s.normalize(businesses, days)
	if err != nil {
		return nil, nil, err
	}

	estimate := EstimateDuration(len(businesses), days)

	if len(businesses) > batchQueueThreshold || estimate > batchInlineBudget {
		accepted, err := s.enqueue(ctx, userID, businesses, days, estimate)
		if err != nil {
			return nil, nil, err
		}
		return nil, accepted, nil
	}

	outcome, err := s.Process(ctx, userID, businesses, days)
	if err != nil {
		return nil, nil, err
	}
	return outcome, nil, nil
}

// Process runs a batch inline with a bounded worker pool. One business
// failing or panicking does not sink the rest.
func (s *Batches) Process(ctx context.Context, userID int64, businesses []Business, days int) (*BatchOutcome, error) {
	start := time.Now()

	businesses, days, err := s.normalize(businesses, days)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]BusinessResult, len(businesses))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(BatchWorkers())

	for i, business := range businesses {
		group.Go(func() error {
			result := s.processOne(groupCtx, user.ID(), business, days)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; failures are captured per business.
	_ = group.Wait()

	outcome := &BatchOutcome{Results: results, Elapsed: time.Since(start)}
	totalPosts := 0
	for _, r := range results {
		if r.Status == "completed" {
			outcome.Succeeded++
			totalPosts += r.Posts
		} else {
			outcome.Failed++
		}
	}

	if totalPosts > 0 {
		if err := s.users.AddQuotaUsed(ctx, user.ID(), totalPosts); err != nil {
			s.logger.Error("failed to charge batch quota",
				slog.Int64("user_id", user.ID()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.Info("batch processed",
		slog.Int("businesses", len(businesses)),
		slog.Int("succeeded", outcome.Succeeded),
		slog.Int("failed", outcome.Failed),
		slog.Duration("duration", outcome.Elapsed),
	)

	return outcome, nil
}

// processOne generates and stores one business calendar, converting panics
// into a failed result.
func (s *Batches) processOne(ctx context.Context, userID int64, business Business, days int) (result BusinessResult) {
	result = BusinessResult{Niche: business.Niche, City: business.City}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("batch worker panicked",
				slog.String("niche", business.Niche),
				slog.String("city", business.City),
				slog.Any("panic", r),
			)
			result.Status = "failed"
			result.Error = fmt.Sprintf("generation panicked: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Status = "failed"
		result.Error = err.Error()
		return result
	}

	generated := s.generator.Generate(ctx, business.Niche, business.City, days)
	cal := calendar.NewCalendar(userID, business.Niche, business.City, generated.entries, generated.method)

	saved, err := s.store.Save(ctx, cal)
	if err != nil {
		result.Status = "failed"
		result.Error = err.Error()
		return result
	}

	metrics.CalendarsGenerated.WithLabelValues(string(generated.method)).Inc()
	metrics.PostsGenerated.Add(float64(len(generated.entries)))

	result.Status = "completed"
	result.CalendarID = saved.ID()
	result.Posts = len(generated.entries)
	return result
}

func (s *Batches) enqueue(ctx context.Context, userID int64, businesses []Business, days int, estimate time.Duration) (*BatchAccepted, error) {
	payload := map[string]any{
		"days":       days,
		"businesses": businessesPayload(businesses),
	}

	correlationID := uuid.NewString()
	j := job.NewJob(correlationID, userID, job.OperationBatchCalendars, job.PriorityNormal, payload)

	if _, err := s.queue.Enqueue(ctx, j); err != nil {
		return nil, fmt.Errorf("failed to enqueue batch: %w", err)
	}

	s.logger.Info("batch queued",
		slog.String("job_id", correlationID),
		slog.Int("businesses", len(businesses)),
		slog.Duration("estimate", estimate),
	)

	return &BatchAccepted{JobID: correlationID, Estimate: estimate, Queued: true}, nil
}

func (s *Batches) normalize(businesses []Business, days int) ([]Business, int, error) {
	if len(businesses) == 0 {
		return nil, 0, fmt.Errorf("%w: at least one business is required", domain.ErrValidation)
	}
	if len(businesses) > MaxBatchBusinesses {
		return nil, 0, fmt.Errorf("%w: at most %d businesses per batch", domain.ErrValidation, MaxBatchBusinesses)
	}

	cleaned := make([]Business, 0, len(businesses))
	for _, b := range businesses {
		niche := strings.ToLower(strings.TrimSpace(b.Niche))
		city := strings.TrimSpace(b.City)
		if niche == "" || city == "" {
			return nil, 0, fmt.Errorf("%w: every business needs a niche and a city", domain.ErrValidation)
		}
		cleaned = append(cleaned, Business{Niche: niche, City: city})
	}

	if days < 1 {
		days = 1
	}
	if days > MaxBatchDays {
		days = MaxBatchDays
	}
	return cleaned, days, nil
}

func (s *Batches) resolveUser(ctx context.Context, userID int64) (account.User, error) {
	if userID > 0 {
		return s.users.Get(ctx, userID)
	}
	return s.users.GetByEmail(ctx, account.DefaultUserEmail)
}

// businessesPayload converts businesses to the JSON-friendly payload form.
func businessesPayload(businesses []Business) []any {
	out := make([]any, len(businesses))
	for i, b := range businesses {
		out[i] = map[string]any{"niche": b.Niche, "city": b.City}
	}
	return out
}

// BusinessesFromPayload restores businesses from a job payload.
func BusinessesFromPayload(payload map[string]any) ([]Business, int, error) {
	raw, ok := payload["businesses"].([]any)
	if !ok {
		return nil, 0, fmt.Errorf("payload has no businesses list")
	}

	businesses := make([]Business, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, 0, fmt.Errorf("malformed business entry in payload")
		}
		niche, _ := entry["niche"].(string)
		city, _ := entry["city"].(string)
		businesses = append(businesses, Business{Niche: niche, City: city})
	}

	days := 1
	switch v := payload["days"].(type) {
	case float64:
		days = int(v)
	case int:
		days = v
	}
	return businesses, days, nil
}
