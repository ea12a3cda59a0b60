// Package bella provides a library for salon social-media calendar
// generation, batch processing, and content analytics.
//
// Bella generates 30-day content calendars for beauty businesses from a
// curated template pack, optionally enhanced per-day by an LLM, with
// trending hashtags mixed in. Large batch requests run through a
// persistent job queue processed by a background worker.
//
// Basic usage:
//
//	client, err := bella.New(
//	    bella.WithSQLite(".bella/bella.db"),
//	    bella.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Generate a calendar
//	cal, err := client.Calendars.Generate(ctx, service.GenerateParams{
//	    Niche: "nail salon",
//	    City:  "Miami",
//	    Days:  30,
//	})
//
//	// Inspect the result
//	for _, entry := range cal.Entries() {
//	    fmt.Println(entry.Day(), entry.Activity(), entry.Caption())
//	}
package bella

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/salonsuite/bella/application/service"
	"github.com/salonsuite/bella/domain/trend"
	"github.com/salonsuite/bella/infrastructure/persistence"
	"github.com/salonsuite/bella/infrastructure/provider"
	trendinfra "github.com/salonsuite/bella/infrastructure/trend"
	"github.com/salonsuite/bella/internal/config"
	"github.com/salonsuite/bella/internal/database"
	"github.com/salonsuite/bella/internal/log"
)

// ErrClientClosed is returned by operations on a closed client.
var ErrClientClosed = service.ErrClientClosed

// Client is the main entry point for the bella library.
// The background worker and maintenance schedule start automatically
// on creation.
//
// Access resources via struct fields:
//
//	client.Calendars.Generate(ctx, params)
//	client.Templates.List(ctx, service.TemplateListParams{})
//	client.Queue.Status(ctx, correlationID)
type Client struct {
	// Public resource fields (direct service access)
	Calendars *service.Calendars
	Batches   *service.Batches
	Templates *service.Templates
	Trends    *service.Trends
	Images    *service.Images
	Analytics *service.Analytics
	Queue     *service.JobQueue

	db database.Database

	// Application services (internal only)
	registry    *service.Registry
	worker      *service.Worker
	maintenance *service.Maintenance

	closers []io.Closer

	cfg     config.AppConfig
	logger  *slog.Logger
	dataDir string
	closed  atomic.Bool
	mu      sync.Mutex
}

// New creates a new Client with the given options.
// The background worker is started automatically.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	// Set up logger
	logger := cfg.logger
	if logger == nil {
		logger = log.NewLogger(cfg.app).Slog()
	}

	// Set up data directory
	dataDir, err := config.PrepareDataDir(cfg.app.DataDir())
	if err != nil {
		return nil, err
	}

	// Open database
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.app.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Run auto migration
	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	// Validate schema matches GORM models
	if err := persistence.ValidateSchema(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("validate schema: %w", err), errClose)
	}

	// Create stores
	userStore := persistence.NewUserStore(db)
	calendarStore := persistence.NewCalendarStore(db)
	templateStore := persistence.NewTemplateStore(db)
	jobStore := persistence.NewJobStore(db)
	usageStore := persistence.NewUsageStore(db)
	metricStore := persistence.NewMetricStore(db)

	// Every calendar belongs to a user; anonymous requests fall back to
	// the seeded default account.
	defaultUser, err := persistence.SeedDefaultUser(ctx, db)
	if err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("seed default user: %w", err), errClose)
	}

	// Resolve content providers
	textProvider, imageProvider, openAICfg := buildProviders(cfg, logger)

	trendSource := buildTrendSource(cfg, logger)

	genCfg := cfg.app.Generation()
	if cfg.app.Hardened() {
		genCfg = genCfg.WithMaxConcurrent(hardenedMaxConcurrent).
			WithMaxDays(hardenedMaxDays)
		logger.Info("hardened mode: template-only generation, images disabled")
	}

	// Create application services
	generator := service.NewGenerator(textProvider, trendSource, genCfg, openAICfg, logger).
		WithCache(service.NewContentCache(genCfg.CacheTTL()))
	queue := service.NewJobQueue(jobStore, logger)
	registry := service.NewRegistry()
	worker := service.NewWorker(jobStore, registry, logger)
	if cfg.workerPollPeriod > 0 {
		worker.WithPollPeriod(cfg.workerPollPeriod)
	}

	calendars := service.NewCalendars(calendarStore, userStore, usageStore, generator, genCfg, logger)
	batches := service.NewBatches(generator, calendarStore, userStore, queue, logger)
	templates := service.NewTemplates(templateStore, logger)
	trendsSvc := service.NewTrends(trendSource, logger)
	images := service.NewImages(imageProvider, logger)
	analytics := service.NewAnalytics(calendarStore, usageStore, jobStore, metricStore, logger)
	maintenance := service.NewMaintenance(jobStore, usageStore, analytics, logger)

	client := &Client{
		Calendars:   calendars,
		Batches:     batches,
		Templates:   templates,
		Trends:      trendsSvc,
		Images:      images,
		Analytics:   analytics,
		Queue:       queue,
		db:          db,
		registry:    registry,
		worker:      worker,
		maintenance: maintenance,
		closers:     cfg.closers,
		cfg:         cfg.app,
		logger:      logger,
		dataDir:     dataDir,
	}

	// Register job handlers
	client.registerHandlers()

	// Seed the starter template pack. Failure is not fatal: the pack
	// only fills an empty library.
	if !cfg.skipTemplateSeed {
		created, err := templates.Seed(ctx, defaultUser.ID())
		if err != nil {
			logger.Warn("template seed failed", slog.Any("error", err))
		} else if created > 0 {
			logger.Info("seeded starter templates", slog.Int("count", created))
		}
	}

	// Recover jobs orphaned by a previous crash before accepting new work.
	if recovered, err := maintenance.RecoverStaleJobs(ctx); err != nil {
		logger.Warn("stale job recovery failed", slog.Any("error", err))
	} else if recovered > 0 {
		logger.Info("recovered stale jobs", slog.Int64("count", recovered))
	}

	// Start the background worker and maintenance schedule
	worker.Start(ctx)
	if err := maintenance.Start(ctx); err != nil {
		worker.Stop()
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("start maintenance: %w", err), errClose)
	}

	return client, nil
}

// Hardened-mode generation limits.
const (
	hardenedMaxConcurrent = 2
	hardenedMaxDays       = 10
)

// buildProviders resolves the text and image providers from configuration.
// Returns nil providers when no OpenAI endpoint is configured; generation
// then runs template-only and the image surface stays disabled.
func buildProviders(cfg *clientConfig, logger *slog.Logger) (provider.TextGenerator, provider.ImageGenerator, config.OpenAIConfig) {
	openAICfg := config.NewOpenAIConfig()
	if cfg.app.OpenAI() != nil {
		openAICfg = *cfg.app.OpenAI()
	}

	text := cfg.textProvider
	image := cfg.imageProvider

	if text == nil && image == nil && openAICfg.IsConfigured() {
		p := provider.NewOpenAIProviderFromConfig(provider.OpenAIConfig{
			APIKey:        openAICfg.APIKey(),
			BaseURL:       openAICfg.BaseURL(),
			ChatModel:     openAICfg.Model(),
			ImageModel:    openAICfg.ImageModel(),
			Timeout:       openAICfg.Timeout(),
			MaxRetries:    openAICfg.MaxRetries(),
			InitialDelay:  openAICfg.InitialDelay(),
			BackoffFactor: openAICfg.BackoffFactor(),
			CacheDir:      cfg.app.HTTPCacheDir(),
			DisableImages: cfg.app.Hardened(),
		})
		cfg.closers = append(cfg.closers, p)
		text = p
		image = p
		logger.Info("openai provider enabled",
			slog.String("model", openAICfg.Model()),
			slog.Bool("images", p.SupportsImageGeneration()),
		)
	}

	if cfg.app.Hardened() {
		// Template-only generation regardless of provider config.
		text = nil
		image = nil
	}

	return text, image, openAICfg
}

// buildTrendSource resolves the trend source from configuration. Without a
// RiteKit client ID lookups answer from the built-in static map.
func buildTrendSource(cfg *clientConfig, logger *slog.Logger) trend.Source {
	if cfg.trendSource != nil {
		return cfg.trendSource
	}
	trendCfg := cfg.app.Trends()
	if trendCfg.IsConfigured() {
		opts := []trendinfra.RiteKitOption{}
		if trendCfg.BaseURL() != "" {
			opts = append(opts, trendinfra.WithBaseURL(trendCfg.BaseURL()))
		}
		return trendinfra.NewRiteKitSource(trendCfg.ClientID(), logger, opts...)
	}
	return trend.NewStaticSource()
}

// Close releases all resources and stops the background worker.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Stop the maintenance schedule and worker
	c.maintenance.Stop()
	c.worker.Stop()

	// Close registered resources (e.g. provider HTTP clients)
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.logger.Error("failed to close resource", slog.Any("error", err))
		}
	}

	// Close the database
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("bella client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Config returns the resolved application configuration.
func (c *Client) Config() config.AppConfig {
	return c.cfg
}

// DataDir returns the prepared data directory.
func (c *Client) DataDir() string {
	return c.dataDir
}
