package source

import (
	"fmt"
	"net/http"
	"sort"
	"time"
)

// Options configures the sources built by Registry.
type Options struct {
	// Endpoint is the local generative endpoint.
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Filter     *Filter

	// Base URL overrides, mostly for tests.
	JokeAPIURL     string
	DadJokeURL     string
	ChuckNorrisURL string
}

// Public lists the public API sources in the order the chain tries them.
func Public(opts Options) []Source {
	client := newHTTPClient(opts.HTTPClient, opts.Timeout)
	return []Source{
		NewJokeAPI(JokeAPIConfig{BaseURL: opts.JokeAPIURL, Category: CategoryAny, HTTPClient: client}),
		NewDadJoke(DadJokeConfig{BaseURL: opts.DadJokeURL, HTTPClient: client}),
		NewChuckNorris(ChuckNorrisConfig{BaseURL: opts.ChuckNorrisURL, HTTPClient: client}),
		NewJokeAPI(JokeAPIConfig{BaseURL: opts.JokeAPIURL, Category: CategoryProgramming, HTTPClient: client}),
		NewJokeAPI(JokeAPIConfig{BaseURL: opts.JokeAPIURL, Category: CategoryMisc, HTTPClient: client}),
	}
}

// Registry returns every named source, each wrapped in the family filter.
func Registry(opts Options) map[string]Source {
	client := newHTTPClient(opts.HTTPClient, opts.Timeout)
	opts.HTTPClient = client

	reg := make(map[string]Source)
	public := Public(opts)
	wrapped := make([]Source, len(public))
	for i, src := range public {
		wrapped[i] = Filtered(src, opts.Filter)
		reg[src.Name()] = wrapped[i]
	}
	reg["generative"] = Filtered(NewGenerative(GenerativeConfig{Endpoint: opts.Endpoint, HTTPClient: client}), opts.Filter)
	reg["chain"] = Chain(wrapped...)
	return reg
}

// Names returns the registered source names, sorted.
func Names() []string {
	names := make([]string, 0, 7)
	for name := range Registry(Options{}) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the source registered under name.
func New(name string, opts Options) (Source, error) {
	src, ok := Registry(opts)[name]
	if !ok {
		return nil, fmt.Errorf("unknown source %q (available: %v)", name, Names())
	}
	return src, nil
}
