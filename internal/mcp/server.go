// Package mcp exposes the joke pipeline as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/abdulachik/giggles/internal/acquire"
	"github.com/abdulachik/giggles/internal/db"
	"github.com/abdulachik/giggles/internal/joke"
	"github.com/abdulachik/giggles/internal/presenter"
	"github.com/abdulachik/giggles/internal/prompt"
)

// ErrBusy is returned by tell_joke while another acquisition is in flight.
var ErrBusy = errors.New("giggles is still thinking about the last joke")

// Acquirer produces jokes.
type Acquirer interface {
	Acquire(ctx context.Context) (acquire.Result, bool)
}

// PromptBuilder renders generation prompts.
type PromptBuilder interface {
	Build(topic string, recent []string) string
}

// Counter reports how many distinct jokes have been served.
type Counter interface {
	Len() int
}

// RatingRecorder stores ratings. Optional.
type RatingRecorder interface {
	RecordRating(ctx context.Context, j joke.Joke, rating int, mood string) (*db.Rating, error)
}

// Config holds server dependencies.
type Config struct {
	Acquirer Acquirer
	Prompts  PromptBuilder
	Counter  Counter
	Ratings  RatingRecorder
	Version  string
}

// Server wraps the MCP SDK server.
type Server struct {
	MCPServer *sdkmcp.Server

	acq     Acquirer
	prompts PromptBuilder
	counter Counter
	ratings RatingRecorder
}

// NewServer creates an MCP server with the joke tools registered.
func NewServer(cfg Config) *Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	prompts := cfg.Prompts
	if prompts == nil {
		prompts = prompt.Default()
	}
	s := &Server{
		acq:     cfg.Acquirer,
		prompts: prompts,
		counter: cfg.Counter,
		ratings: cfg.Ratings,
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "giggles", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "tell_joke",
		Description: "Tell a kid-friendly joke that has not been told in this session. Falls back to a built-in joke when sources fail.",
	}, s.handleTellJoke)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "build_prompt",
		Description: "Render the prompt Giggles sends to the model for a topic, avoiding recently used topics.",
	}, s.handleBuildPrompt)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "rate_joke",
		Description: "Rate a joke from 0 to 100 and get Giggles' reaction (happy above 60, groan below 40).",
	}, s.handleRateJoke)
}

// --- Tool input/output types ---

type tellJokeInput struct{}

type tellJokeOutput struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline,omitempty"`
	Topic     string `json:"topic,omitempty"`
	Outcome   string `json:"outcome"`
	Source    string `json:"source,omitempty"`
	Text      string `json:"text"`
	Told      int    `json:"told"`
}

type buildPromptInput struct {
	Topic  string   `json:"topic,omitempty" jsonschema:"joke topic, empty for a generic one"`
	Recent []string `json:"recent,omitempty" jsonschema:"recently used topics to avoid"`
}

type buildPromptOutput struct {
	Prompt string `json:"prompt"`
}

type rateJokeInput struct {
	Setup     string `json:"setup" jsonschema:"joke setup"`
	Punchline string `json:"punchline,omitempty" jsonschema:"joke punchline"`
	Rating    int    `json:"rating" jsonschema:"rating from 0 to 100"`
}

type rateJokeOutput struct {
	Mood        string `json:"mood"`
	Fingerprint string `json:"fingerprint"`
}

// --- Tool handlers ---

func (s *Server) handleTellJoke(ctx context.Context, _ *sdkmcp.CallToolRequest, _ tellJokeInput) (*sdkmcp.CallToolResult, tellJokeOutput, error) {
	res, ok := s.acq.Acquire(ctx)
	if !ok {
		return nil, tellJokeOutput{}, ErrBusy
	}

	out := tellJokeOutput{
		Setup:     res.Joke.Setup,
		Punchline: res.Joke.Punchline,
		Topic:     res.Joke.Topic,
		Outcome:   res.Outcome.String(),
		Source:    res.Source,
		Text:      presenter.Format(res.Joke, 0),
	}
	if s.counter != nil {
		out.Told = s.counter.Len()
	}

	slog.Debug("mcp tell_joke", "outcome", out.Outcome, "source", out.Source)
	return nil, out, nil
}

func (s *Server) handleBuildPrompt(_ context.Context, _ *sdkmcp.CallToolRequest, input buildPromptInput) (*sdkmcp.CallToolResult, buildPromptOutput, error) {
	return nil, buildPromptOutput{Prompt: s.prompts.Build(strings.TrimSpace(input.Topic), input.Recent)}, nil
}

func (s *Server) handleRateJoke(ctx context.Context, _ *sdkmcp.CallToolRequest, input rateJokeInput) (*sdkmcp.CallToolResult, rateJokeOutput, error) {
	if strings.TrimSpace(input.Setup) == "" {
		return nil, rateJokeOutput{}, fmt.Errorf("setup is required")
	}
	if input.Rating < 0 || input.Rating > 100 {
		return nil, rateJokeOutput{}, fmt.Errorf("rating must be between 0 and 100, got %d", input.Rating)
	}

	j := joke.Joke{Setup: input.Setup, Punchline: input.Punchline}
	mood := presenter.MoodFor(input.Rating)

	if s.ratings != nil {
		if _, err := s.ratings.RecordRating(ctx, j, input.Rating, string(mood)); err != nil {
			slog.Warn("archive rating failed", "error", err)
		}
	}

	return nil, rateJokeOutput{Mood: string(mood), Fingerprint: joke.Fingerprint(j)}, nil
}
