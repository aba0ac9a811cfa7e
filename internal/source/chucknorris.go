package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abdulachik/giggles/internal/joke"
)

const chuckNorrisBaseURL = "https://api.chucknorris.io"

// ChuckNorris fetches from api.chucknorris.io.
type ChuckNorris struct {
	httpClient *http.Client
	baseURL    string
}

// ChuckNorrisConfig holds configuration for the ChuckNorris source.
type ChuckNorrisConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewChuckNorris creates a ChuckNorris source.
func NewChuckNorris(cfg ChuckNorrisConfig) *ChuckNorris {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = chuckNorrisBaseURL
	}
	return &ChuckNorris{
		httpClient: newHTTPClient(cfg.HTTPClient, cfg.Timeout),
		baseURL:    baseURL,
	}
}

// Name returns the source name.
func (s *ChuckNorris) Name() string {
	return "chucknorris"
}

// Fetch retrieves one joke.
func (s *ChuckNorris) Fetch(ctx context.Context, _ Request) (joke.Joke, bool) {
	body, err := get(ctx, s.httpClient, s.baseURL+"/jokes/random", nil)
	if err != nil {
		return noResult(s.Name(), err)
	}

	var data struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return noResult(s.Name(), fmt.Errorf("decode response: %w", err))
	}

	return normalized(s.Name(), joke.Single{Text: data.Value})
}
