package template

import (
	"context"

	"github.com/salonsuite/bella/domain/store"
)

// Store defines operations for template persistence.
type Store interface {
	// Save persists a template, assigning an ID.
	Save(ctx context.Context, t Template) (Template, error)

	// Get returns a template by ID.
	Get(ctx context.Context, id int64) (Template, error)

	// Find returns templates matching the options.
	Find(ctx context.Context, options ...store.Option) ([]Template, error)

	// Delete removes a template.
	Delete(ctx context.Context, id int64) error

	// RecordUse increments a template's usage count.
	RecordUse(ctx context.Context, id int64) error
}

// WithUserID filters templates by owning user.
func WithUserID(id int64) store.Option {
	return store.WithUserID(id)
}

// WithNiche filters by the "niche" column.
func WithNiche(niche string) store.Option {
	return store.WithCondition("niche", niche)
}

// WithTheme filters by the "theme" column.
func WithTheme(t Theme) store.Option {
	return store.WithCondition("theme", string(t))
}

// WithName filters by the "template_name" column.
func WithName(name string) store.Option {
	return store.WithCondition("template_name", name)
}

// WithPublic filters for shared templates.
func WithPublic() store.Option {
	return store.WithCondition("is_public", true)
}

// WithMostUsedFirst orders by usage count, heaviest first.
func WithMostUsedFirst() store.Option {
	return store.WithOrderDesc("usage_count")
}
