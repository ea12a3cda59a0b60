package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/salonsuite/bella"
	"github.com/salonsuite/bella/internal/log"
	"github.com/salonsuite/bella/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This allows AI assistants to generate calendars, look up trending hashtags,
and browse the template library through bella.
Configuration is loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	// Load configuration
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Ensure directories exist
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Stdout carries the MCP protocol; the logger must not write there.
	logger := log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())
	slogger := logger.Slog()

	slogger.Info("starting MCP server",
		slog.String("version", version),
		slog.String("data_dir", cfg.DataDir()),
	)

	// Create bella client
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

	// Create MCP server
	mcpServer := mcp.NewServer(client.Calendars, client.Trends, client.Templates, version, slogger)

	// Run on stdio
	return mcpServer.ServeStdio()
}
