// Package source fetches jokes from public joke APIs and the local generative
// endpoint.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/abdulachik/giggles/internal/joke"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 1 << 20
)

// Request carries the per-acquisition inputs. Only the generative source reads
// Topic and RecentTopics.
type Request struct {
	Topic        string
	RecentTopics []string

	// Seen, when set, lets a chain skip jokes that were already shown.
	Seen func(joke.Joke) bool
}

// Source is one joke provider. Fetch never returns an error: every failure is
// logged and reported as false.
type Source interface {
	// Name returns the name of this source.
	Name() string

	// Fetch performs one request and returns a normalized joke.
	Fetch(ctx context.Context, req Request) (joke.Joke, bool)
}

func newHTTPClient(c *http.Client, timeout time.Duration) *http.Client {
	if c != nil {
		return c
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// get performs a GET and returns the body of a 2xx response.
func get(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return body, nil
}

func noResult(name string, err error) (joke.Joke, bool) {
	slog.Warn("source fetch failed", "source", name, "error", err)
	return joke.Joke{}, false
}

func normalized(name string, p joke.Payload) (joke.Joke, bool) {
	j, ok := joke.Normalize(p)
	if !ok {
		return noResult(name, fmt.Errorf("payload has no joke"))
	}
	slog.Debug("fetched joke", "source", name, "setup", j.Setup)
	return j, true
}
