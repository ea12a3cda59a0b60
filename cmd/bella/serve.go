package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/salonsuite/bella"
	"github.com/salonsuite/bella/infrastructure/api"
	"github.com/salonsuite/bella/internal/config"
	"github.com/salonsuite/bella/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile  string
		host     string
		port     int
		hardened bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                  Server host to bind to (default: 0.0.0.0)
  PORT                  Server port to listen on (default: 8080)
  DATA_DIR              Data directory (default: ~/.bella)
  DB_URL                Database URL (default: sqlite:///{data_dir}/bella.db)
  LOG_LEVEL             Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT            Log format: pretty, json (default: pretty)
  API_KEYS              Comma-separated list of valid API keys
  HTTP_CACHE_DIR        Directory for caching provider HTTP responses

  OPENAI_*              OpenAI endpoint configuration
    API_KEY             API key for authentication
    BASE_URL            Base URL override (e.g., for proxies)
    MODEL               Text model (default: gpt-4o)
    IMAGE_MODEL         Image model (default: dall-e-3)
    TIMEOUT             Request timeout in seconds (default: 60)
    MAX_RETRIES         Retry attempts (default: 3)

  RITEKIT_CLIENT_ID     RiteKit client ID for live trend lookups
  RITEKIT_BASE_URL      Trend API base URL

  MAX_DAYS              Maximum calendar length in days (default: 30)
  AI_DAYS_LIMIT         Day count above which AI enhancement is skipped (default: 7)
  MAX_CONCURRENT        Concurrent generation limit (default: 8)
  GENERATION_TIMEOUT    Per-request generation deadline in seconds (default: 300)
  CACHE_TTL             Content cache time-to-live in seconds (default: 3600)
  RATE_LIMIT_PER_HOUR   Per-user hourly request limit (default: 100)

  CHUNK_SIZE            Chunked response payload size in bytes (default: 1024)
  NDJSON_ROWS           Row count for NDJSON responses (default: 10000)
  EXPORT_ROWS           Row count for export files (default: 50000)
  SSE_INTERVAL_MS       Delay between server-sent events (default: 100)
  SSE_EVENT_COUNT       Data events per SSE stream (default: 100)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port, hardened)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")
	cmd.Flags().BoolVar(&hardened, "hardened", false, "Template-only generation with tighter limits, no image generation")

	return cmd
}

func runServe(envFile, host string, port int, hardened bool) error {
	// Load configuration
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Apply command line overrides (flags take precedence over env vars)
	cfg = applyServeOverrides(cfg, host, port, hardened)

	addr := cfg.Addr()

	// Ensure directories exist
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Setup logger
	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	// Create bella client and log settings
	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting bella", attrs...)

	client, err := bella.New(
		bella.WithConfig(cfg),
		bella.WithLogger(slogger),
	)
	if err != nil {
		return fmt.Errorf("create bella client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close bella client", slog.Any("error", err))
		}
	}()

	// Create API server with the client's services
	apiServer := api.NewAPIServer(client, cfg.APIKeys(), version)
	apiServer.Router()
	apiServer.MountRoutes()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	slogger.Info("starting server", slog.String("addr", addr))
	if err := apiServer.ListenAndServe(addr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int, hardened bool) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}
	if hardened {
		opts = append(opts, config.WithHardened(true))
	}

	return cfg.Apply(opts...)
}
