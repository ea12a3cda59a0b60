// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost               = "0.0.0.0"
	DefaultPort               = 8080
	DefaultLogLevel           = "INFO"
	DefaultOpenAIModel        = "gpt-4o"
	DefaultOpenAIImageModel   = "dall-e-3"
	DefaultOpenAIMaxTokens    = 500
	DefaultOpenAITemperature  = 0.7
	DefaultOpenAITimeout      = 60 * time.Second
	DefaultOpenAIMaxRetries   = 3
	DefaultOpenAIInitialDelay = 2 * time.Second
	DefaultOpenAIBackoff      = 2.0
	DefaultTrendBaseURL       = "https://api.ritekit.com"
	DefaultTrendTimeout       = 10 * time.Second
	DefaultMaxDays            = 30
	DefaultAIDaysLimit        = 7
	DefaultMaxImages          = 3
	DefaultMaxConcurrent      = 8
	DefaultGenerationTimeout  = 300 * time.Second
	DefaultCacheTTL           = time.Hour
	DefaultRateLimitPerHour   = 100
	DefaultChunkSize          = 1024
	DefaultNDJSONRows         = 10000
	DefaultExportRows         = 50000
	DefaultSSEInterval        = 100 * time.Millisecond
	DefaultSSEEventCount      = 100
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// OpenAIConfig configures the OpenAI text and image endpoints.
type OpenAIConfig struct {
	baseURL       string
	apiKey        string
	model         string
	imageModel    string
	maxTokens     int
	temperature   float32
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// NewOpenAIConfig creates a new OpenAIConfig with defaults.
func NewOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		model:         DefaultOpenAIModel,
		imageModel:    DefaultOpenAIImageModel,
		maxTokens:     DefaultOpenAIMaxTokens,
		temperature:   DefaultOpenAITemperature,
		timeout:       DefaultOpenAITimeout,
		maxRetries:    DefaultOpenAIMaxRetries,
		initialDelay:  DefaultOpenAIInitialDelay,
		backoffFactor: DefaultOpenAIBackoff,
	}
}

// BaseURL returns the base URL for the endpoint.
func (o OpenAIConfig) BaseURL() string { return o.baseURL }

// APIKey returns the API key.
func (o OpenAIConfig) APIKey() string { return o.apiKey }

// Model returns the text model identifier.
func (o OpenAIConfig) Model() string { return o.model }

// ImageModel returns the image model identifier.
func (o OpenAIConfig) ImageModel() string { return o.imageModel }

// MaxTokens returns the completion token limit.
func (o OpenAIConfig) MaxTokens() int { return o.maxTokens }

// Temperature returns the sampling temperature.
func (o OpenAIConfig) Temperature() float32 { return o.temperature }

// Timeout returns the request timeout.
func (o OpenAIConfig) Timeout() time.Duration { return o.timeout }

// MaxRetries returns the maximum retry count.
func (o OpenAIConfig) MaxRetries() int { return o.maxRetries }

// InitialDelay returns the initial retry delay.
func (o OpenAIConfig) InitialDelay() time.Duration { return o.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (o OpenAIConfig) BackoffFactor() float64 { return o.backoffFactor }

// IsConfigured returns true if the endpoint has an API key.
func (o OpenAIConfig) IsConfigured() bool {
	return o.apiKey != ""
}

// OpenAIOption is a functional option for OpenAIConfig.
type OpenAIOption func(*OpenAIConfig)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) OpenAIOption {
	return func(o *OpenAIConfig) { o.baseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) OpenAIOption {
	return func(o *OpenAIConfig) { o.apiKey = key }
}

// WithModel sets the text model.
func WithModel(model string) OpenAIOption {
	return func(o *OpenAIConfig) { o.model = model }
}

// WithImageModel sets the image model.
func WithImageModel(model string) OpenAIOption {
	return func(o *OpenAIConfig) { o.imageModel = model }
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(n int) OpenAIOption {
	return func(o *OpenAIConfig) { o.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) OpenAIOption {
	return func(o *OpenAIConfig) { o.temperature = t }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(o *OpenAIConfig) { o.timeout = d }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) OpenAIOption {
	return func(o *OpenAIConfig) { o.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) OpenAIOption {
	return func(o *OpenAIConfig) { o.initialDelay = d }
}

// WithBackoffFactor sets the retry backoff multiplier.
func WithBackoffFactor(f float64) OpenAIOption {
	return func(o *OpenAIConfig) { o.backoffFactor = f }
}

// NewOpenAIConfigWithOptions creates an OpenAIConfig with functional options.
func NewOpenAIConfigWithOptions(opts ...OpenAIOption) OpenAIConfig {
	o := NewOpenAIConfig()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TrendConfig configures the RiteKit hashtag trend service.
type TrendConfig struct {
	clientID string
	baseURL  string
	timeout  time.Duration
}

// NewTrendConfig creates a new TrendConfig with defaults.
func NewTrendConfig() TrendConfig {
	return TrendConfig{
		baseURL: DefaultTrendBaseURL,
		timeout: DefaultTrendTimeout,
	}
}

// ClientID returns the RiteKit client ID.
func (t TrendConfig) ClientID() string { return t.clientID }

// BaseURL returns the trend API base URL.
func (t TrendConfig) BaseURL() string { return t.baseURL }

// Timeout returns the request timeout.
func (t TrendConfig) Timeout() time.Duration { return t.timeout }

// IsConfigured returns true if a client ID is set.
func (t TrendConfig) IsConfigured() bool {
	return t.clientID != ""
}

// WithClientID returns a new config with the specified client ID.
func (t TrendConfig) WithClientID(id string) TrendConfig {
	t.clientID = id
	return t
}

// WithBaseURL returns a new config with the specified base URL.
func (t TrendConfig) WithBaseURL(url string) TrendConfig {
	t.baseURL = url
	return t
}

// WithTimeout returns a new config with the specified timeout.
func (t TrendConfig) WithTimeout(d time.Duration) TrendConfig {
	t.timeout = d
	return t
}

// GenerationConfig configures calendar generation limits.
type GenerationConfig struct {
	maxDays          int
	aiDaysLimit      int
	maxImages        int
	maxConcurrent    int
	timeout          time.Duration
	cacheTTL         time.Duration
	rateLimitPerHour int
}

// NewGenerationConfig creates a new GenerationConfig with defaults.
func NewGenerationConfig() GenerationConfig {
	return GenerationConfig{
		maxDays:          DefaultMaxDays,
		aiDaysLimit:      DefaultAIDaysLimit,
		maxImages:        DefaultMaxImages,
		maxConcurrent:    DefaultMaxConcurrent,
		timeout:          DefaultGenerationTimeout,
		cacheTTL:         DefaultCacheTTL,
		rateLimitPerHour: DefaultRateLimitPerHour,
	}
}

// MaxDays returns the maximum calendar length in days.
func (g GenerationConfig) MaxDays() int { return g.maxDays }

// AIDaysLimit returns the day count above which AI enhancement is skipped.
func (g GenerationConfig) AIDaysLimit() int { return g.aiDaysLimit }

// MaxImages returns the maximum images per request.
func (g GenerationConfig) MaxImages() int { return g.maxImages }

// MaxConcurrent returns the concurrent generation limit.
func (g GenerationConfig) MaxConcurrent() int { return g.maxConcurrent }

// Timeout returns the per-request generation deadline.
func (g GenerationConfig) Timeout() time.Duration { return g.timeout }

// CacheTTL returns the content cache time-to-live.
func (g GenerationConfig) CacheTTL() time.Duration { return g.cacheTTL }

// RateLimitPerHour returns the per-user hourly request limit.
func (g GenerationConfig) RateLimitPerHour() int { return g.rateLimitPerHour }

// WithMaxDays returns a new config with the specified day limit.
func (g GenerationConfig) WithMaxDays(n int) GenerationConfig {
	g.maxDays = n
	return g
}

// WithAIDaysLimit returns a new config with the specified AI enhancement limit.
func (g GenerationConfig) WithAIDaysLimit(n int) GenerationConfig {
	g.aiDaysLimit = n
	return g
}

// WithMaxImages returns a new config with the specified image limit.
func (g GenerationConfig) WithMaxImages(n int) GenerationConfig {
	g.maxImages = n
	return g
}

// WithMaxConcurrent returns a new config with the specified concurrency limit.
func (g GenerationConfig) WithMaxConcurrent(n int) GenerationConfig {
	g.maxConcurrent = n
	return g
}

// WithGenerationTimeout returns a new config with the specified deadline.
func (g GenerationConfig) WithGenerationTimeout(d time.Duration) GenerationConfig {
	g.timeout = d
	return g
}

// WithCacheTTL returns a new config with the specified cache TTL.
func (g GenerationConfig) WithCacheTTL(d time.Duration) GenerationConfig {
	g.cacheTTL = d
	return g
}

// WithRateLimitPerHour returns a new config with the specified hourly limit.
func (g GenerationConfig) WithRateLimitPerHour(n int) GenerationConfig {
	g.rateLimitPerHour = n
	return g
}

// StreamConfig configures the streaming and export endpoints.
type StreamConfig struct {
	chunkSize     int
	ndjsonRows    int
	exportRows    int
	sseInterval   time.Duration
	sseEventCount int
}

// NewStreamConfig creates a new StreamConfig with defaults.
func NewStreamConfig() StreamConfig {
	return StreamConfig{
		chunkSize:     DefaultChunkSize,
		ndjsonRows:    DefaultNDJSONRows,
		exportRows:    DefaultExportRows,
		sseInterval:   DefaultSSEInterval,
		sseEventCount: DefaultSSEEventCount,
	}
}

// ChunkSize returns the chunked response payload size in bytes.
func (s StreamConfig) ChunkSize() int { return s.chunkSize }

// NDJSONRows returns the row count for NDJSON responses.
func (s StreamConfig) NDJSONRows() int { return s.ndjsonRows }

// ExportRows returns the row count for export files.
func (s StreamConfig) ExportRows() int { return s.exportRows }

// SSEInterval returns the delay between server-sent events.
func (s StreamConfig) SSEInterval() time.Duration { return s.sseInterval }

// SSEEventCount returns the number of data events per SSE stream.
func (s StreamConfig) SSEEventCount() int { return s.sseEventCount }

// WithChunkSize returns a new config with the specified chunk size.
func (s StreamConfig) WithChunkSize(n int) StreamConfig {
	s.chunkSize = n
	return s
}

// WithNDJSONRows returns a new config with the specified row count.
func (s StreamConfig) WithNDJSONRows(n int) StreamConfig {
	s.ndjsonRows = n
	return s
}

// WithExportRows returns a new config with the specified row count.
func (s StreamConfig) WithExportRows(n int) StreamConfig {
	s.exportRows = n
	return s
}

// WithSSEInterval returns a new config with the specified event interval.
func (s StreamConfig) WithSSEInterval(d time.Duration) StreamConfig {
	s.sseInterval = d
	return s
}

// WithSSEEventCount returns a new config with the specified event count.
func (s StreamConfig) WithSSEEventCount(n int) StreamConfig {
	s.sseEventCount = n
	return s
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host         string
	port         int
	dataDir      string
	dbURL        string
	logLevel     string
	logFormat    LogFormat
	apiKeys      []string
	openAI       *OpenAIConfig
	trends       TrendConfig
	generation   GenerationConfig
	stream       StreamConfig
	httpCacheDir string
	hardened     bool
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bella"
	}
	return filepath.Join(home, ".bella")
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:       DefaultHost,
		port:       DefaultPort,
		dataDir:    dataDir,
		dbURL:      "sqlite:///" + filepath.Join(dataDir, "bella.db"),
		logLevel:   DefaultLogLevel,
		logFormat:  LogFormatPretty,
		apiKeys:    []string{},
		trends:     NewTrendConfig(),
		generation: NewGenerationConfig(),
		stream:     NewStreamConfig(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the configured API keys.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// OpenAI returns the OpenAI endpoint config, or nil when not configured.
func (c AppConfig) OpenAI() *OpenAIConfig { return c.openAI }

// Trends returns the trend service config.
func (c AppConfig) Trends() TrendConfig { return c.trends }

// Generation returns the generation limits config.
func (c AppConfig) Generation() GenerationConfig { return c.generation }

// Stream returns the streaming config.
func (c AppConfig) Stream() StreamConfig { return c.stream }

// HTTPCacheDir returns the directory for caching HTTP responses, if set.
func (c AppConfig) HTTPCacheDir() string { return c.httpCacheDir }

// Hardened returns whether the server runs in hardened mode.
// Hardened mode serves template content only and disables image generation.
func (c AppConfig) Hardened() bool { return c.hardened }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		// Update default DB URL when data dir changes
		if c.dbURL == "" || strings.Contains(c.dbURL, "bella.db") {
			c.dbURL = "sqlite:///" + filepath.Join(dir, "bella.db")
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithOpenAIConfig sets the OpenAI endpoint config.
func WithOpenAIConfig(o OpenAIConfig) AppConfigOption {
	return func(c *AppConfig) { c.openAI = &o }
}

// WithTrendConfig sets the trend service config.
func WithTrendConfig(t TrendConfig) AppConfigOption {
	return func(c *AppConfig) { c.trends = t }
}

// WithGenerationConfig sets the generation limits config.
func WithGenerationConfig(g GenerationConfig) AppConfigOption {
	return func(c *AppConfig) { c.generation = g }
}

// WithStreamConfig sets the streaming config.
func WithStreamConfig(s StreamConfig) AppConfigOption {
	return func(c *AppConfig) { c.stream = s }
}

// WithHTTPCacheDir sets the HTTP response cache directory.
func WithHTTPCacheDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.httpCacheDir = dir }
}

// WithHardened sets hardened mode.
func WithHardened(hardened bool) AppConfigOption {
	return func(c *AppConfig) { c.hardened = hardened }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
// This copies all fields from the receiver and then applies the options,
// making it safe to use when adding new fields to AppConfig.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Sensitive values like API keys are masked or shown as counts.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.Bool("openai_configured", c.openAI != nil && c.openAI.IsConfigured()),
		slog.String("openai_model", c.openAIModel()),
		slog.Bool("trends_configured", c.trends.IsConfigured()),
		slog.Int("api_keys_count", len(c.apiKeys)),
		slog.Bool("hardened", c.hardened),
		slog.Int("max_days", c.generation.MaxDays()),
		slog.Int("max_concurrent", c.generation.MaxConcurrent()),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if len(c.dbURL) >= 7 && c.dbURL[:7] == "sqlite:" {
		return c.dbURL
	}
	return "postgres://***@***"
}

func (c AppConfig) openAIModel() string {
	if c.openAI == nil {
		return "(not configured)"
	}
	return c.openAI.Model()
}

// ParseAPIKeys parses a comma-separated string of API keys.
func ParseAPIKeys(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
