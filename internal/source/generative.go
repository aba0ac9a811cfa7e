package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abdulachik/giggles/internal/joke"
)

const defaultEndpoint = "http://localhost:3000/api/joke"

// Generative fetches a model-written joke from the local /api/joke endpoint.
type Generative struct {
	httpClient *http.Client
	endpoint   string
}

// GenerativeConfig holds configuration for the generative source.
type GenerativeConfig struct {
	Endpoint   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewGenerative creates a generative source.
func NewGenerative(cfg GenerativeConfig) *Generative {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Generative{
		httpClient: newHTTPClient(cfg.HTTPClient, cfg.Timeout),
		endpoint:   endpoint,
	}
}

// Name returns the source name.
func (s *Generative) Name() string {
	return "generative"
}

// Fetch asks the endpoint for a joke about req.Topic.
func (s *Generative) Fetch(ctx context.Context, req Request) (joke.Joke, bool) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return noResult(s.Name(), fmt.Errorf("parse endpoint: %w", err))
	}
	q := u.Query()
	q.Set("topic", req.Topic)
	q.Set("recentTopics", strings.Join(req.RecentTopics, ","))
	u.RawQuery = q.Encode()

	body, err := get(ctx, s.httpClient, u.String(), nil)
	if err != nil {
		return noResult(s.Name(), err)
	}

	j, ok := normalized(s.Name(), joke.RawText{Text: string(body)})
	if ok && j.Topic == "" {
		j.Topic = req.Topic
	}
	return j, ok
}
