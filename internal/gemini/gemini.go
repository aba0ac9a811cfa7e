// Package gemini generates text with Google's Gemini models, either over the
// REST API or through the genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	BackendREST = "rest"
	BackendSDK  = "sdk"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

	// ErrEmptyGeneration is returned when the model produced no text.
	ErrEmptyGeneration = errors.New("no joke generated")
)

// UpstreamError is a non-success response from the API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, e.Body)
}

// Generator turns a prompt into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Backend    string
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates the configured backend.
func New(ctx context.Context, cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	switch cfg.Backend {
	case BackendREST, "":
		return NewRESTClient(RESTConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: cfg.HTTPClient,
			Timeout:    cfg.Timeout,
		}), nil
	case BackendSDK:
		return NewSDKClient(ctx, SDKConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: cfg.HTTPClient,
		})
	default:
		return nil, fmt.Errorf("unknown gemini backend %q (must be %q or %q)", cfg.Backend, BackendREST, BackendSDK)
	}
}
