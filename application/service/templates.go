package service

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salonsuite/bella/domain/store"
	"github.com/salonsuite/bella/domain/template"
	"github.com/salonsuite/bella/internal/domain"
)

//go:embed seed_templates.yaml
var seedPack []byte

// TemplateListParams configures template listing.
type TemplateListParams struct {
	UserID     int64
	Niche      string
	Theme      string
	PublicOnly bool
	MostUsed   bool
	Limit      int
	Offset     int
}

// CreateTemplateParams describes one template to create.
type CreateTemplateParams struct {
	UserID      int64
	Name        string
	Niche       string
	Theme       string
	Activity    string
	Script      string
	Visual      string
	Caption     string
	Hashtags    string
	PostTime    string
	CTA         string
	ImagePrompt string
}

// Templates manages reusable content templates, including the embedded
// seed pack loaded at startup.
type Templates struct {
	store  template.Store
	logger *slog.Logger
}

// NewTemplates creates the template service.
func NewTemplates(store template.Store, logger *slog.Logger) *Templates {
	return &Templates{
		store:  store,
		logger: logger,
	}
}

// Get returns a template by ID.
func (s *Templates) Get(ctx context.Context, id int64) (template.Template, error) {
	return s.store.Get(ctx, id)
}

// List returns templates matching the params.
func (s *Templates) List(ctx context.Context, params TemplateListParams) ([]template.Template, error) {
	var options []store.Option

	if params.UserID > 0 {
		options = append(options, template.WithUserID(params.UserID))
	}
	if params.Niche != "" {
		options = append(options, template.WithNiche(strings.ToLower(params.Niche)))
	}
	if params.Theme != "" {
		theme, err := template.ParseTheme(params.Theme)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		options = append(options, template.WithTheme(theme))
	}
	if params.PublicOnly {
		options = append(options, template.WithPublic())
	}
	if params.MostUsed {
		options = append(options, template.WithMostUsedFirst())
	}
	if params.Limit > 0 {
		options = append(options, store.WithPagination(params.Limit, params.Offset)...)
	}

	return s.store.Find(ctx, options...)
}

// Create validates and persists a new template.
func (s *Templates) Create(ctx context.Context, params CreateTemplateParams) (template.Template, error) {
	if strings.TrimSpace(params.Name) == "" {
		return template.Template{}, fmt.Errorf("%w: template name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(params.Activity) == "" || strings.TrimSpace(params.Script) == "" {
		return template.Template{}, fmt.Errorf("%w: activity and script are required", domain.ErrValidation)
	}

	theme, err := template.ParseTheme(params.Theme)
	if err != nil {
		return template.Template{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	t := template.NewTemplate(
		params.UserID,
		strings.TrimSpace(params.Name),
		strings.ToLower(strings.TrimSpace(params.Niche)),
		theme,
		params.Activity, params.Script, params.Visual, params.Caption,
		params.Hashtags, params.PostTime, params.CTA, params.ImagePrompt,
	)

	return s.store.Save(ctx, t)
}

// Delete removes a template.
func (s *Templates) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// RecordUse increments a template's usage counter.
func (s *Templates) RecordUse(ctx context.Context, id int64) error {
	return s.store.RecordUse(ctx, id)
}

// seedTemplate is the YAML shape of one packaged template.
type seedTemplate struct {
	Name        string `yaml:"name"`
	Niche       string `yaml:"niche"`
	Theme       string `yaml:"theme"`
	Activity    string `yaml:"activity"`
	Script      string `yaml:"script"`
	Visual      string `yaml:"visual"`
	Caption     string `yaml:"caption"`
	Hashtags    string `yaml:"hashtags"`
	PostTime    string `yaml:"post_time"`
	CTA         string `yaml:"cta"`
	ImagePrompt string `yaml:"image_prompt"`
}

type seedFile struct {
	Templates []seedTemplate `yaml:"templates"`
}

// Seed loads the embedded template pack for the given user. Templates that
// already exist (same user, name and niche) are skipped, so seeding is safe
// to run on every startup.
func (s *Templates) Seed(ctx context.Context, userID int64) (int, error) {
	var pack seedFile
	if err := yaml.Unmarshal(seedPack, &pack); err != nil {
		return 0, fmt.Errorf("failed to parse template pack: %w", err)
	}

	created := 0
	for _, seed := range pack.Templates {
		existing, err := s.store.Find(ctx,
			template.WithUserID(userID),
			template.WithName(seed.Name),
			template.WithNiche(seed.Niche),
		)
		if err != nil {
			return created, fmt.Errorf("failed to check for existing template %q: %w", seed.Name, err)
		}
		if len(existing) > 0 {
			continue
		}

		theme, err := template.ParseTheme(seed.Theme)
		if err != nil {
			return created, fmt.Errorf("template pack entry %q has a bad theme: %w", seed.Name, err)
		}

		t := template.NewTemplate(
			userID, seed.Name, seed.Niche, theme,
			seed.Activity, seed.Script, seed.Visual, seed.Caption,
			seed.Hashtags, seed.PostTime, seed.CTA, seed.ImagePrompt,
		)
		if _, err := s.store.Save(ctx, t); err != nil {
			return created, fmt.Errorf("failed to seed template %q: %w", seed.Name, err)
		}
		created++
	}

	if created > 0 {
		s.logger.Info("template pack seeded", slog.Int("created", created))
	}
	return created, nil
}
