// Package config provides application configuration.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Field names map directly to environment variables. Nested structs use
// underscore delimiter (e.g., OPENAI_API_KEY).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.bella
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/bella.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// HTTPCacheDir is the directory for caching HTTP responses to disk.
	// When set, outbound request/response pairs are cached to avoid repeated
	// API calls.
	// Env: HTTP_CACHE_DIR
	HTTPCacheDir string `envconfig:"HTTP_CACHE_DIR"`

	// OpenAI configures the OpenAI text and image endpoints.
	OpenAI OpenAIEnv `envconfig:"OPENAI"`

	// Trends configures the RiteKit hashtag trend service.
	Trends TrendEnv `envconfig:"RITEKIT"`

	// MaxDays is the maximum calendar length in days.
	// Env: MAX_DAYS (default: 30)
	MaxDays int `envconfig:"MAX_DAYS" default:"30"`

	// AIDaysLimit is the day count above which AI enhancement is skipped.
	// Env: AI_DAYS_LIMIT (default: 7)
	AIDaysLimit int `envconfig:"AI_DAYS_LIMIT" default:"7"`

	// MaxImages is the maximum images per generation request.
	// Env: MAX_IMAGES (default: 3)
	MaxImages int `envconfig:"MAX_IMAGES" default:"3"`

	// MaxConcurrent is the concurrent generation limit.
	// Env: MAX_CONCURRENT (default: 8)
	MaxConcurrent int `envconfig:"MAX_CONCURRENT" default:"8"`

	// GenerationTimeout is the per-request generation deadline in seconds.
	// Env: GENERATION_TIMEOUT (default: 300)
	GenerationTimeout float64 `envconfig:"GENERATION_TIMEOUT" default:"300"`

	// CacheTTL is the content cache time-to-live in seconds.
	// Env: CACHE_TTL (default: 3600)
	CacheTTL float64 `envconfig:"CACHE_TTL" default:"3600"`

	// RateLimitPerHour is the per-user hourly request limit.
	// Env: RATE_LIMIT_PER_HOUR (default: 100)
	RateLimitPerHour int `envconfig:"RATE_LIMIT_PER_HOUR" default:"100"`

	// ChunkSize is the chunked response payload size in bytes.
	// Env: CHUNK_SIZE (default: 1024)
	ChunkSize int `envconfig:"CHUNK_SIZE" default:"1024"`

	// NDJSONRows is the row count for NDJSON responses.
	// Env: NDJSON_ROWS (default: 10000)
	NDJSONRows int `envconfig:"NDJSON_ROWS" default:"10000"`

	// ExportRows is the row count for export files.
	// Env: EXPORT_ROWS (default: 50000)
	ExportRows int `envconfig:"EXPORT_ROWS" default:"50000"`

	// SSEIntervalMS is the delay between server-sent events in milliseconds.
	// Env: SSE_INTERVAL_MS (default: 100)
	SSEIntervalMS int `envconfig:"SSE_INTERVAL_MS" default:"100"`

	// SSEEventCount is the number of data events per SSE stream.
	// Env: SSE_EVENT_COUNT (default: 100)
	SSEEventCount int `envconfig:"SSE_EVENT_COUNT" default:"100"`
}

// OpenAIEnv holds environment configuration for the OpenAI endpoints.
type OpenAIEnv struct {
	// APIKey is the API key for authentication.
	// Env: OPENAI_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// BaseURL overrides the OpenAI base URL (e.g., for proxies).
	// Env: OPENAI_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the text model identifier.
	// Env: OPENAI_MODEL (default: gpt-4o)
	Model string `envconfig:"MODEL" default:"gpt-4o"`

	// ImageModel is the image model identifier.
	// Env: OPENAI_IMAGE_MODEL (default: dall-e-3)
	ImageModel string `envconfig:"IMAGE_MODEL" default:"dall-e-3"`

	// MaxTokens is the completion token limit.
	// Env: OPENAI_MAX_TOKENS (default: 500)
	MaxTokens int `envconfig:"MAX_TOKENS" default:"500"`

	// Temperature is the sampling temperature.
	// Env: OPENAI_TEMPERATURE (default: 0.7)
	Temperature float64 `envconfig:"TEMPERATURE" default:"0.7"`

	// Timeout is the request timeout in seconds.
	// Env: OPENAI_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: OPENAI_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: OPENAI_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: OPENAI_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// TrendEnv holds environment configuration for the trend service.
type TrendEnv struct {
	// ClientID is the RiteKit client ID.
	// Env: RITEKIT_CLIENT_ID
	ClientID string `envconfig:"CLIENT_ID"`

	// BaseURL is the trend API base URL.
	// Env: RITEKIT_BASE_URL (default: https://api.ritekit.com)
	BaseURL string `envconfig:"BASE_URL" default:"https://api.ritekit.com"`

	// Timeout is the request timeout in seconds.
	// Env: RITEKIT_TIMEOUT (default: 10)
	Timeout float64 `envconfig:"TIMEOUT" default:"10"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "BELLA" would require BELLA_DATA_DIR instead of DATA_DIR.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	// Apply overrides from environment
	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.APIKeys != "" {
		cfg = applyOption(cfg, WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	}
	if e.HTTPCacheDir != "" {
		cfg = applyOption(cfg, WithHTTPCacheDir(e.HTTPCacheDir))
	}

	// OpenAI endpoint
	if e.OpenAI.IsConfigured() {
		cfg = applyOption(cfg, WithOpenAIConfig(e.OpenAI.ToOpenAIConfig()))
	}

	// Trend service
	cfg = applyOption(cfg, WithTrendConfig(e.Trends.ToTrendConfig()))

	// Generation limits
	cfg = applyOption(cfg, WithGenerationConfig(e.ToGenerationConfig()))

	// Streaming knobs
	cfg = applyOption(cfg, WithStreamConfig(e.ToStreamConfig()))

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// IsConfigured returns true if the endpoint has an API key configured.
func (o OpenAIEnv) IsConfigured() bool {
	return o.APIKey != ""
}

// ToOpenAIConfig converts OpenAIEnv to OpenAIConfig.
func (o OpenAIEnv) ToOpenAIConfig() OpenAIConfig {
	opts := []OpenAIOption{
		WithAPIKey(o.APIKey),
		WithMaxTokens(o.MaxTokens),
		WithTemperature(float32(o.Temperature)),
		WithTimeout(time.Duration(o.Timeout * float64(time.Second))),
		WithMaxRetries(o.MaxRetries),
		WithInitialDelay(time.Duration(o.InitialDelay * float64(time.Second))),
		WithBackoffFactor(o.BackoffFactor),
	}

	if o.BaseURL != "" {
		opts = append(opts, WithBaseURL(o.BaseURL))
	}
	if o.Model != "" {
		opts = append(opts, WithModel(o.Model))
	}
	if o.ImageModel != "" {
		opts = append(opts, WithImageModel(o.ImageModel))
	}

	return NewOpenAIConfigWithOptions(opts...)
}

// ToTrendConfig converts TrendEnv to TrendConfig.
func (t TrendEnv) ToTrendConfig() TrendConfig {
	cfg := NewTrendConfig().
		WithClientID(t.ClientID).
		WithTimeout(time.Duration(t.Timeout * float64(time.Second)))
	if t.BaseURL != "" {
		cfg = cfg.WithBaseURL(t.BaseURL)
	}
	return cfg
}

// ToGenerationConfig converts the generation fields to GenerationConfig.
func (e EnvConfig) ToGenerationConfig() GenerationConfig {
	cfg := NewGenerationConfig()
	if e.MaxDays > 0 {
		cfg = cfg.WithMaxDays(e.MaxDays)
	}
	if e.AIDaysLimit > 0 {
		cfg = cfg.WithAIDaysLimit(e.AIDaysLimit)
	}
	if e.MaxImages > 0 {
		cfg = cfg.WithMaxImages(e.MaxImages)
	}
	if e.MaxConcurrent > 0 {
		cfg = cfg.WithMaxConcurrent(e.MaxConcurrent)
	}
	if e.GenerationTimeout > 0 {
		cfg = cfg.WithGenerationTimeout(time.Duration(e.GenerationTimeout * float64(time.Second)))
	}
	if e.CacheTTL > 0 {
		cfg = cfg.WithCacheTTL(time.Duration(e.CacheTTL * float64(time.Second)))
	}
	if e.RateLimitPerHour > 0 {
		cfg = cfg.WithRateLimitPerHour(e.RateLimitPerHour)
	}
	return cfg
}

// ToStreamConfig converts the streaming fields to StreamConfig.
func (e EnvConfig) ToStreamConfig() StreamConfig {
	cfg := NewStreamConfig()
	if e.ChunkSize > 0 {
		cfg = cfg.WithChunkSize(e.ChunkSize)
	}
	if e.NDJSONRows > 0 {
		cfg = cfg.WithNDJSONRows(e.NDJSONRows)
	}
	if e.ExportRows > 0 {
		cfg = cfg.WithExportRows(e.ExportRows)
	}
	if e.SSEIntervalMS > 0 {
		cfg = cfg.WithSSEInterval(time.Duration(e.SSEIntervalMS) * time.Millisecond)
	}
	if e.SSEEventCount > 0 {
		cfg = cfg.WithSSEEventCount(e.SSEEventCount)
	}
	return cfg
}

// normalizeDBURL strips legacy driver suffixes from database URLs.
// Older deployments used URLs like postgresql+psycopg2:// which are invalid here.
func normalizeDBURL(raw string) string {
	plus := strings.Index(raw, "+")
	if plus < 0 {
		return raw
	}
	colon := strings.Index(raw, "://")
	if colon < 0 || plus > colon {
		return raw
	}
	scheme := raw[:plus]
	rest := raw[colon:]
	slog.Warn("normalized legacy DB_URL driver suffix",
		"original", raw,
		"normalized", scheme+rest,
	)
	return scheme + rest
}

// Normalize returns a copy of the EnvConfig with legacy values converted.
// It logs a warning for each transformation so users know to update their
// .env files.
func (e EnvConfig) Normalize() EnvConfig {
	if e.DBURL != "" {
		e.DBURL = normalizeDBURL(e.DBURL)
	}
	return e
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
