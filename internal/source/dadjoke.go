package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abdulachik/giggles/internal/joke"
)

const dadJokeBaseURL = "https://icanhazdadjoke.com"

// DadJoke fetches from icanhazdadjoke.com.
type DadJoke struct {
	httpClient *http.Client
	baseURL    string
}

// DadJokeConfig holds configuration for the DadJoke source.
type DadJokeConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewDadJoke creates a DadJoke source.
func NewDadJoke(cfg DadJokeConfig) *DadJoke {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = dadJokeBaseURL
	}
	return &DadJoke{
		httpClient: newHTTPClient(cfg.HTTPClient, cfg.Timeout),
		baseURL:    baseURL,
	}
}

// Name returns the source name.
func (s *DadJoke) Name() string {
	return "dadjoke"
}

// Fetch retrieves one joke.
func (s *DadJoke) Fetch(ctx context.Context, _ Request) (joke.Joke, bool) {
	body, err := get(ctx, s.httpClient, s.baseURL+"/", map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return noResult(s.Name(), err)
	}

	var data struct {
		ID   string `json:"id"`
		Joke string `json:"joke"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return noResult(s.Name(), fmt.Errorf("decode response: %w", err))
	}

	return normalized(s.Name(), joke.Single{Text: data.Joke})
}
