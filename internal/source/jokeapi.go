package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abdulachik/giggles/internal/joke"
)

const (
	jokeAPIBaseURL   = "https://v2.jokeapi.dev"
	jokeAPIBlacklist = "nsfw,religious,political,racist,sexist,explicit"
)

// JokeAPI categories.
const (
	CategoryAny         = "Any"
	CategoryProgramming = "Programming"
	CategoryMisc        = "Misc"
)

// JokeAPI fetches from v2.jokeapi.dev.
type JokeAPI struct {
	httpClient *http.Client
	baseURL    string
	category   string
}

// JokeAPIConfig holds configuration for the JokeAPI source.
type JokeAPIConfig struct {
	BaseURL    string
	Category   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewJokeAPI creates a JokeAPI source.
func NewJokeAPI(cfg JokeAPIConfig) *JokeAPI {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = jokeAPIBaseURL
	}
	category := cfg.Category
	if category == "" {
		category = CategoryAny
	}

	return &JokeAPI{
		httpClient: newHTTPClient(cfg.HTTPClient, cfg.Timeout),
		baseURL:    baseURL,
		category:   category,
	}
}

// Name returns the source name.
func (s *JokeAPI) Name() string {
	switch s.category {
	case CategoryAny:
		return "jokeapi"
	case CategoryProgramming:
		return "jokeapi-programming"
	case CategoryMisc:
		return "jokeapi-misc"
	default:
		return "jokeapi-" + s.category
	}
}

// jokeAPIResponse covers both the single and twopart shapes.
type jokeAPIResponse struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Joke      string `json:"joke"`
	Setup     string `json:"setup"`
	Delivery  string `json:"delivery"`
	Punchline string `json:"punchline"`
}

// Fetch retrieves one joke.
func (s *JokeAPI) Fetch(ctx context.Context, _ Request) (joke.Joke, bool) {
	url := fmt.Sprintf("%s/joke/%s?blacklistFlags=%s", s.baseURL, s.category, jokeAPIBlacklist)
	body, err := get(ctx, s.httpClient, url, nil)
	if err != nil {
		return noResult(s.Name(), err)
	}

	var data jokeAPIResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return noResult(s.Name(), fmt.Errorf("decode response: %w", err))
	}
	if data.Error {
		return noResult(s.Name(), fmt.Errorf("API error: %s", data.Message))
	}

	switch data.Type {
	case "single":
		return normalized(s.Name(), joke.Single{Text: data.Joke})
	case "twopart":
		punchline := data.Punchline
		if punchline == "" {
			punchline = data.Delivery
		}
		return normalized(s.Name(), joke.TwoPart{Setup: data.Setup, Punchline: punchline})
	default:
		return noResult(s.Name(), fmt.Errorf("unknown joke type %q", data.Type))
	}
}
