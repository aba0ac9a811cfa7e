package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// SDKClient generates text through the genai SDK.
type SDKClient struct {
	client *genai.Client
	model  string
}

// SDKConfig holds configuration for the SDK client.
type SDKConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a genai-backed generator.
func NewSDKClient(ctx context.Context, cfg SDKConfig) (*SDKClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &SDKClient{client: client, model: model}, nil
}

// Generate sends the prompt as a single user turn.
func (c *SDKClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyGeneration
	}
	return text, nil
}
