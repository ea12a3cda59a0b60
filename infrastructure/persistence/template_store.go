package persistence

import (
	"context"
	"fmt"

	"github.com/salonsuite/bella/domain/store"
	"github.com/salonsuite/bella/domain/template"
	"github.com/salonsuite/bella/internal/database"
	"gorm.io/gorm"
)

// TemplateStore implements template.Store using GORM.
type TemplateStore struct {
	db     database.Database
	repo   database.Repository[template.Template, TemplateModel]
	mapper TemplateMapper
}

// NewTemplateStore creates a new TemplateStore.
func NewTemplateStore(db database.Database) TemplateStore {
	return TemplateStore{
		db:     db,
		repo:   database.NewRepository[template.Template, TemplateModel](db, TemplateMapper{}, "template"),
		mapper: TemplateMapper{},
	}
}

// Save persists a template, assigning an ID.
func (s TemplateStore) Save(ctx context.Context, t template.Template) (template.Template, error) {
	model := s.mapper.ToModel(t)
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		return template.Template{}, fmt.Errorf("save template: %w", result.Error)
	}
	return s.mapper.ToDomain(model), nil
}

// Get returns a template by ID.
func (s TemplateStore) Get(ctx context.Context, id int64) (template.Template, error) {
	return s.repo.FindOne(ctx, store.WithID(id))
}

// Find returns templates matching the options.
func (s TemplateStore) Find(ctx context.Context, options ...store.Option) ([]template.Template, error) {
	return s.repo.Find(ctx, options...)
}

// Delete removes a template.
func (s TemplateStore) Delete(ctx context.Context, id int64) error {
	result := s.db.Session(ctx).Delete(&TemplateModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: template id %d", database.ErrNotFound, id)
	}
	return nil
}

// RecordUse increments a template's usage count.
func (s TemplateStore) RecordUse(ctx context.Context, id int64) error {
	result := s.db.Session(ctx).Model(&TemplateModel{}).
		Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("record template use: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: template id %d", database.ErrNotFound, id)
	}
	return nil
}

var _ template.Store = (*TemplateStore)(nil)
