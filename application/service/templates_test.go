package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/salonsuite/bella/domain/store"
	"github.com/salonsuite/bella/domain/template"
	"github.com/salonsuite/bella/internal/domain"
)

// fakeTemplateStore implements template.Store in memory with enough
// filtering for the seed dedup check.
type fakeTemplateStore struct {
	mu        sync.Mutex
	templates map[int64]template.Template
	uses      map[int64]int
	nextID    int64
}

func newFakeTemplateStore() *fakeTemplateStore {
	return &fakeTemplateStore{
		templates: make(map[int64]template.Template),
		uses:      make(map[int64]int),
		nextID:    1,
	}
}

func (f *fakeTemplateStore) Save(_ context.Context, t template.Template) (template.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := template.ReconstructTemplate(
		f.nextID, t.UserID(), t.Name(), t.Niche(), t.Theme(),
		t.Activity(), t.Script(), t.Visual(), t.Caption(),
		t.Hashtags(), t.PostTime(), t.CTA(), t.ImagePrompt(),
		t.UsageCount(), t.IsPublic(), t.CreatedAt(),
	)
	f.templates[f.nextID] = saved
	f.nextID++
	return saved, nil
}

func (f *fakeTemplateStore) Get(_ context.Context, id int64) (template.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[id]
	if !ok {
		return template.Template{}, fmt.Errorf("%w: template %d", domain.ErrNotFound, id)
	}
	return t, nil
}

func (f *fakeTemplateStore) Find(_ context.Context, options ...store.Option) ([]template.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	query := store.Build(options...)

	var out []template.Template
	for _, t := range f.templates {
		if !matchesConditions(t, query.Conditions()) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func matchesConditions(t template.Template, conditions []store.Condition) bool {
	for _, c := range conditions {
		switch c.Field() {
		case "template_name":
			if fmt.Sprint(c.Value()) != t.Name() {
				return false
			}
		case "niche":
			if fmt.Sprint(c.Value()) != t.Niche() {
				return false
			}
		case "theme":
			if fmt.Sprint(c.Value()) != string(t.Theme()) {
				return false
			}
		case "user_id":
			if fmt.Sprint(c.Value()) != fmt.Sprint(t.UserID()) {
				return false
			}
		}
	}
	return true
}

func (f *fakeTemplateStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.templates[id]; !ok {
		return fmt.Errorf("%w: template %d", domain.ErrNotFound, id)
	}
	delete(f.templates, id)
	return nil
}

func (f *fakeTemplateStore) RecordUse(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uses[id]++
	return nil
}

func TestTemplates_Create(t *testing.T) {
	svc := NewTemplates(newFakeTemplateStore(), testLogger())

	created, err := svc.Create(context.Background(), CreateTemplateParams{
		UserID:   1,
		Name:     "weekly special",
		Niche:    "Hair",
		Theme:    "trends",
		Activity: "Weekly special reveal",
		Script:   "This week only",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID())
	require.Equal(t, "hair", created.Niche())
	require.Equal(t, template.ThemeTrends, created.Theme())
}

func TestTemplates_CreateValidation(t *testing.T) {
	svc := NewTemplates(newFakeTemplateStore(), testLogger())

	_, err := svc.Create(context.Background(), CreateTemplateParams{Theme: "trends", Activity: "a", Script: "b"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(context.Background(), CreateTemplateParams{Name: "x", Theme: "trends"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(context.Background(), CreateTemplateParams{Name: "x", Theme: "not-a-theme", Activity: "a", Script: "b"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestTemplates_SeedIsIdempotent(t *testing.T) {
	store := newFakeTemplateStore()
	svc := NewTemplates(store, testLogger())

	first, err := svc.Seed(context.Background(), 1)
	require.NoError(t, err)
	require.Positive(t, first)

	second, err := svc.Seed(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, second, "re-seeding must not duplicate templates")

	require.Len(t, store.templates, first)
}

func TestTemplates_SeedPackParses(t *testing.T) {
	var pack seedFile
	require.NoError(t, yaml.Unmarshal(seedPack, &pack))
	require.NotEmpty(t, pack.Templates)

	for _, seed := range pack.Templates {
		require.NotEmpty(t, seed.Name)
		require.NotEmpty(t, seed.Activity)
		_, err := template.ParseTheme(seed.Theme)
		require.NoError(t, err, "seed %q has invalid theme %q", seed.Name, seed.Theme)
		require.False(t, strings.Contains(seed.Activity, "|"), "pipe characters break the wire format")
	}
}
