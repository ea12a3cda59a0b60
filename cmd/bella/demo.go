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
	"github.com/salonsuite/bella/internal/log"
)

func demoCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Start the streaming demo server",
		Long: `Start a server that mounts only the large-output surface:
/stream, /ndjson, /paginate, /export, /events, /health, and the /demo page.

The full v1 API is not mounted; use "bella serve" for that. Streaming knobs
are read from CHUNK_SIZE, NDJSON_ROWS, EXPORT_ROWS, SSE_INTERVAL_MS, and
SSE_EVENT_COUNT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runDemo(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port, false)

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	slogger := log.NewLogger(cfg).Slog()
	slogger.Info("starting bella demo server",
		slog.String("version", version),
		slog.String("addr", cfg.Addr()),
	)

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

	srv := api.NewServer(cfg.Addr(), slogger)
	api.NewStreamRouter(client, cfg.Stream(), version).Register(srv.Router())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slogger.Info("shutting down demo server")
		cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
