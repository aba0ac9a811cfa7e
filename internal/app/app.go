package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdulachik/giggles/internal/acquire"
	"github.com/abdulachik/giggles/internal/catalog"
	"github.com/abdulachik/giggles/internal/config"
	"github.com/abdulachik/giggles/internal/db"
	"github.com/abdulachik/giggles/internal/gemini"
	"github.com/abdulachik/giggles/internal/ledger"
	"github.com/abdulachik/giggles/internal/prompt"
	"github.com/abdulachik/giggles/internal/scheduler"
	"github.com/abdulachik/giggles/internal/source"
	"github.com/abdulachik/giggles/internal/topic"
)

// Version is reported by the health endpoint and the MCP server.
const Version = "1.0.0"

// App is the main application container holding all dependencies.
type App struct {
	Config       *config.Config
	Store        *db.Store
	Catalog      *catalog.Catalog
	Prompts      *prompt.Builder
	Rotator      *topic.Rotator
	Ledger       *ledger.Ledger
	Source       source.Source
	Orchestrator *acquire.Orchestrator
	Health       *scheduler.Health
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a, err := NewPipeline(cfg)
	if err != nil {
		return nil, err
	}

	// Create database connection
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if _, err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	a.Store = store
	return a, nil
}

// NewPipeline wires the in-memory acquisition pipeline without a database.
func NewPipeline(cfg *config.Config) (*App, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	src, err := source.New(cfg.JokeSource, sourceOptions(cfg))
	if err != nil {
		return nil, err
	}

	rotator := topic.NewRotator(cat.TopicNames())
	led := ledger.New(rotator)

	orch := acquire.New(acquire.Config{
		Source:      src,
		Ledger:      led,
		Rotator:     rotator,
		Pool:        cat.Pool(),
		SettleDelay: cfg.SettleDelay,
	})

	return &App{
		Config:       cfg,
		Catalog:      cat,
		Prompts:      prompt.New(cat),
		Rotator:      rotator,
		Ledger:       led,
		Source:       src,
		Orchestrator: orch,
		Health:       scheduler.NewHealth(),
	}, nil
}

// Generator returns the configured Gemini backend, or nil when no API key is
// set so the API can answer with a configuration error per request.
func (a *App) Generator(ctx context.Context) (gemini.Generator, error) {
	gen, err := gemini.New(ctx, gemini.Config{
		Backend: a.Config.GeminiBackend,
		APIKey:  a.Config.GeminiAPIKey,
		Model:   a.Config.GeminiModel,
		BaseURL: a.Config.GeminiBaseURL,
		Timeout: a.Config.RequestTimeout,
	})
	if errors.Is(err, gemini.ErrMissingAPIKey) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return gen, nil
}

// Prober checks the public sources. It never touches the acquisition ledger.
func (a *App) Prober() *scheduler.Prober {
	opts := sourceOptions(a.Config)
	public := source.Public(opts)
	probed := make([]source.Source, len(public))
	for i, src := range public {
		probed[i] = source.Filtered(src, opts.Filter)
	}
	return scheduler.NewProber(probed, a.Health, a.Config.RequestTimeout)
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func sourceOptions(cfg *config.Config) source.Options {
	return source.Options{
		Endpoint: cfg.JokeEndpoint,
		Timeout:  cfg.RequestTimeout,
	}
}
