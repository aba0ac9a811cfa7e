package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/abdulachik/giggles/internal/api"
	"github.com/abdulachik/giggles/internal/app"
	"github.com/abdulachik/giggles/internal/config"
	"github.com/abdulachik/giggles/internal/scheduler"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the joke API server",
	Long: `Run the HTTP server that generates jokes with Gemini, records ratings,
and probes the public joke APIs on a schedule.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	slog.Info("connecting to database", "path", cfg.DatabasePath)
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	defer a.Close()

	gen, err := a.Generator(ctx)
	if err != nil {
		return err
	}
	if gen == nil {
		slog.Warn("GEMINI_API_KEY is not set, /api/joke will return configuration errors")
	}

	router := api.NewRouter(api.Options{
		Generator:          gen,
		Prompts:            a.Prompts,
		Rotator:            a.Rotator,
		Archive:            a.Store,
		Health:             a.Health,
		Version:            app.Version,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sched, err := scheduler.New(scheduler.Config{
		Prober:   a.Prober(),
		Interval: cfg.ProbeInterval,
	})
	if err != nil {
		return err
	}

	slog.Info("starting Giggles server",
		"port", cfg.Port,
		"gemini_backend", cfg.GeminiBackend,
		"gemini_model", cfg.GeminiModel,
		"probe_interval", cfg.ProbeInterval,
	)

	errCh := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("scheduler error: %w", err)
		}
	}()

	slog.Info("server listening", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case runErr = <-errCh:
	}

	slog.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}

	return runErr
}
