package bella

import (
	"io"
	"log/slog"
	"time"

	"github.com/salonsuite/bella/domain/trend"
	"github.com/salonsuite/bella/infrastructure/provider"
	"github.com/salonsuite/bella/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	app              config.AppConfig
	logger           *slog.Logger
	textProvider     provider.TextGenerator
	imageProvider    provider.ImageGenerator
	trendSource      trend.Source
	workerPollPeriod time.Duration
	skipTemplateSeed bool
	closers          []io.Closer
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		app: config.NewAppConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithConfig replaces the entire application configuration.
// Options applied after this one still take effect.
func WithConfig(app config.AppConfig) Option {
	return func(c *clientConfig) {
		c.app = app
	}
}

// WithSQLite configures SQLite as the database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDBURL("sqlite:///" + path))
	}
}

// WithPostgres configures PostgreSQL as the database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDBURL(dsn))
	}
}

// WithDataDir sets the data directory for the database and export scratch space.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDataDir(dir))
	}
}

// WithOpenAI sets OpenAI as the content provider (text + images).
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithOpenAIConfig(
			config.NewOpenAIConfigWithOptions(config.WithAPIKey(apiKey)),
		))
	}
}

// WithOpenAIConfig sets OpenAI with custom configuration.
func WithOpenAIConfig(cfg config.OpenAIConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithOpenAIConfig(cfg))
	}
}

// WithTextProvider sets a custom text generation provider.
func WithTextProvider(p provider.TextGenerator) Option {
	return func(c *clientConfig) {
		c.textProvider = p
	}
}

// WithImageProvider sets a custom image generation provider.
func WithImageProvider(p provider.ImageGenerator) Option {
	return func(c *clientConfig) {
		c.imageProvider = p
	}
}

// WithRiteKit enables live trending-hashtag lookups through RiteKit.
// Without it, lookups answer from the built-in static map.
func WithRiteKit(clientID string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithTrendConfig(
			config.NewTrendConfig().WithClientID(clientID),
		))
	}
}

// WithTrendSource sets a custom trend source.
func WithTrendSource(s trend.Source) Option {
	return func(c *clientConfig) {
		c.trendSource = s
	}
}

// WithGenerationConfig sets the generation limits.
func WithGenerationConfig(cfg config.GenerationConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithGenerationConfig(cfg))
	}
}

// WithStreamConfig sets the streaming endpoint parameters.
func WithStreamConfig(cfg config.StreamConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithStreamConfig(cfg))
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithAPIKeys sets the API keys for HTTP API authentication.
func WithAPIKeys(keys ...string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithAPIKeys(keys))
	}
}

// WithHardened enables hardened mode: template-only generation, tighter
// concurrency and day limits, image generation disabled.
func WithHardened() Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithHardened(true))
	}
}

// WithHTTPCacheDir enables on-disk caching of provider HTTP responses.
// Intended for local development and deterministic tests.
func WithHTTPCacheDir(dir string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithHTTPCacheDir(dir))
	}
}

// WithWorkerPollPeriod sets how often the background worker checks for new
// jobs. Defaults to 1 second. Lower values speed up job processing at the
// cost of more frequent polling, which is useful in tests.
func WithWorkerPollPeriod(d time.Duration) Option {
	return func(c *clientConfig) {
		c.workerPollPeriod = d
	}
}

// WithoutTemplateSeed skips seeding the starter template pack on startup.
// Intended for tests that assert on an empty template library.
func WithoutTemplateSeed() Option {
	return func(c *clientConfig) {
		c.skipTemplateSeed = true
	}
}

// WithCloser registers a resource to be closed when the Client shuts down.
func WithCloser(closer io.Closer) Option {
	return func(c *clientConfig) {
		c.closers = append(c.closers, closer)
	}
}
