package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/abdulachik/giggles/internal/app"
	"github.com/abdulachik/giggles/internal/config"
	"github.com/abdulachik/giggles/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the joke tools over MCP (stdio)",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing the
tell_joke, build_prompt and rate_joke tools.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	defer a.Close()

	srv := mcp.NewServer(mcp.Config{
		Acquirer: a.Orchestrator,
		Prompts:  a.Prompts,
		Counter:  a.Ledger,
		Ratings:  a.Store,
		Version:  app.Version,
	})

	slog.Info("starting MCP server", "source", a.Source.Name())
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
