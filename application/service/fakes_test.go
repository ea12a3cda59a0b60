package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/salonsuite/bella/domain/account"
	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/job"
	"github.com/salonsuite/bella/domain/store"
	"github.com/salonsuite/bella/domain/trend"
	"github.com/salonsuite/bella/domain/usage"
	"github.com/salonsuite/bella/infrastructure/provider"
	"github.com/salonsuite/bella/internal/domain"
)

// fakeTextGenerator implements provider.TextGenerator for testing.
type fakeTextGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
}

func (f *fakeTextGenerator) ChatCompletion(_ context.Context, _ provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		f.calls++
		return provider.ChatCompletionResponse{}, f.err
	}
	content := ""
	if f.calls < len(f.responses) {
		content = f.responses[f.calls]
	} else if len(f.responses) > 0 {
		content = f.responses[len(f.responses)-1]
	}
	f.calls++
	return provider.NewChatCompletionResponse(content, "stop", provider.NewUsage(10, 20, 30)), nil
}

func (f *fakeTextGenerator) SupportsTextGeneration() bool { return true }

// fakeCalendarStore implements calendar.Store in memory.
type fakeCalendarStore struct {
	mu        sync.Mutex
	calendars map[int64]calendar.Calendar
	nextID    int64
	saveErr   error
}

func newFakeCalendarStore() *fakeCalendarStore {
	return &fakeCalendarStore{calendars: make(map[int64]calendar.Calendar), nextID: 1}
}

func (f *fakeCalendarStore) Save(_ context.Context, cal calendar.Calendar) (calendar.Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return calendar.Calendar{}, f.saveErr
	}
	cal = cal.WithID(f.nextID)
	f.calendars[f.nextID] = cal
	f.nextID++
	return cal, nil
}

func (f *fakeCalendarStore) Get(_ context.Context, id int64) (calendar.Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cal, ok := f.calendars[id]
	if !ok {
		return calendar.Calendar{}, fmt.Errorf("%w: calendar %d", domain.ErrNotFound, id)
	}
	return cal, nil
}

func (f *fakeCalendarStore) Find(_ context.Context, _ ...store.Option) ([]calendar.Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]calendar.Calendar, 0, len(f.calendars))
	for _, cal := range f.calendars {
		out = append(out, cal)
	}
	return out, nil
}

func (f *fakeCalendarStore) Count(_ context.Context, _ ...store.Option) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.calendars)), nil
}

func (f *fakeCalendarStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.calendars[id]; !ok {
		return fmt.Errorf("%w: calendar %d", domain.ErrNotFound, id)
	}
	delete(f.calendars, id)
	return nil
}

func (f *fakeCalendarStore) StatsSince(_ context.Context, _ time.Time) (calendar.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var posts int64
	for _, cal := range f.calendars {
		posts += int64(cal.DaysGenerated())
	}
	return calendar.NewStats(int64(len(f.calendars)), posts, 0, 1.0), nil
}

// fakeUserStore implements account.Store with a single user.
type fakeUserStore struct {
	mu        sync.Mutex
	user      account.User
	quotaUsed int
}

func newFakeUserStore() *fakeUserStore {
	u := account.NewUser(account.DefaultUserEmail, "Test Studio").WithID(1)
	return &fakeUserStore{user: u}
}

func (f *fakeUserStore) current() account.User {
	return account.ReconstructUser(
		f.user.ID(), f.user.Email(), f.user.BusinessName(), f.user.Tier(),
		f.quotaUsed, f.user.QuotaLimit(), f.user.Active(), f.user.CreatedAt(),
	)
}

func (f *fakeUserStore) Get(_ context.Context, id int64) (account.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != f.user.ID() {
		return account.User{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return f.current(), nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (account.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if email != f.user.Email() {
		return account.User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
	}
	return f.current(), nil
}

func (f *fakeUserStore) Save(_ context.Context, u account.User) (account.User, error) {
	return u.WithID(1), nil
}

func (f *fakeUserStore) Update(_ context.Context, _ account.User) error { return nil }

func (f *fakeUserStore) AddQuotaUsed(_ context.Context, _ int64, posts int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotaUsed += posts
	return nil
}

// fakeUsageStore implements usage.Store in memory.
type fakeUsageStore struct {
	mu      sync.Mutex
	records []usage.Record
}

func (f *fakeUsageStore) Save(_ context.Context, r usage.Record) (usage.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, r)
	return r, nil
}

func (f *fakeUsageStore) CountSince(_ context.Context, userID int64, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, r := range f.records {
		if r.UserID() == userID && !r.Timestamp().Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeUsageStore) SummarizeSince(_ context.Context, since time.Time) (usage.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var requests, successes int64
	for _, r := range f.records {
		if r.Timestamp().Before(since) {
			continue
		}
		requests++
		if r.Success() {
			successes++
		}
	}
	return usage.NewSummary(requests, successes, 0, 0), nil
}

func (f *fakeUsageStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.records[:0]
	var removed int64
	for _, r := range f.records {
		if r.Timestamp().Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return removed, nil
}

// fakeJobStore implements job.Store in memory.
type fakeJobStore struct {
	mu     sync.Mutex
	jobs   map[int64]job.Job
	nextID int64
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[int64]job.Job), nextID: 1}
}

func (f *fakeJobStore) Save(_ context.Context, j job.Job) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j = j.WithID(f.nextID)
	f.jobs[f.nextID] = j
	f.nextID++
	return j, nil
}

func (f *fakeJobStore) Update(_ context.Context, j job.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[j.ID()]; !ok {
		return fmt.Errorf("%w: job %d", domain.ErrNotFound, j.ID())
	}
	f.jobs[j.ID()] = j
	return nil
}

func (f *fakeJobStore) Get(_ context.Context, id int64) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return job.Job{}, fmt.Errorf("%w: job %d", domain.ErrNotFound, id)
	}
	return j, nil
}

func (f *fakeJobStore) GetByCorrelationID(_ context.Context, correlationID string) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.jobs {
		if j.CorrelationID() == correlationID {
			return j, nil
		}
	}
	return job.Job{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, correlationID)
}

func (f *fakeJobStore) Find(_ context.Context, _ ...store.Option) ([]job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]job.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeJobStore) Dequeue(_ context.Context) (job.Job, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best job.Job
	found := false
	for _, j := range f.jobs {
		if j.Status() != job.StatusPending {
			continue
		}
		if !found || j.Priority() > best.Priority() {
			best = j
			found = true
		}
	}
	if !found {
		return job.Job{}, false, nil
	}
	claimed := best.Start()
	f.jobs[claimed.ID()] = claimed
	return claimed, true, nil
}

func (f *fakeJobStore) PendingCount(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, j := range f.jobs {
		if j.Status() == job.StatusPending {
			count++
		}
	}
	return count, nil
}

func (f *fakeJobStore) FailStale(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, j := range f.jobs {
		if j.Status() == job.StatusProcessing && j.StartedAt().Before(cutoff) {
			f.jobs[id] = j.Fail("job abandoned")
			count++
		}
	}
	return count, nil
}

// staticTrendSource returns a fixed set for every niche.
type staticTrendSource struct {
	set trend.Set
}

func (s staticTrendSource) Lookup(_ context.Context, _ string) (trend.Set, error) {
	return s.set, nil
}
