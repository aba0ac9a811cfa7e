package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abdulachik/giggles/internal/joke"
	"github.com/abdulachik/giggles/internal/source"
)

const defaultProbeTimeout = 10 * time.Second

// ErrNoJoke is recorded when a probed source returned nothing.
var ErrNoJoke = errors.New("source returned no joke")

// ProbeResult is the outcome of probing one source.
type ProbeResult struct {
	Source  string
	OK      bool
	Latency time.Duration
	Joke    joke.Joke
}

// Prober fetches one joke from every source concurrently and records the
// outcome in Health. It never touches a ledger.
type Prober struct {
	sources []source.Source
	health  *Health
	timeout time.Duration
}

// NewProber creates a prober. timeout bounds each source's fetch.
func NewProber(sources []source.Source, health *Health, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Prober{sources: sources, health: health, timeout: timeout}
}

// ProbeAll probes every source and returns results in source order.
func (p *Prober) ProbeAll(ctx context.Context) []ProbeResult {
	results := make([]ProbeResult, len(p.sources))

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	healthy := 0

	for i, src := range p.sources {
		g.Go(func() error {
			res := p.probe(gctx, src)
			results[i] = res
			if res.OK {
				mu.Lock()
				healthy++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("probe round complete", "sources", len(p.sources), "healthy", healthy)
	return results
}

func (p *Prober) probe(ctx context.Context, src source.Source) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	j, ok := src.Fetch(ctx, source.Request{})
	res := ProbeResult{Source: src.Name(), OK: ok, Latency: time.Since(start), Joke: j}

	if p.health != nil {
		if ok {
			p.health.SetHealthy(src.Name(), "ok in "+res.Latency.Round(time.Millisecond).String())
		} else {
			p.health.SetUnhealthy(src.Name(), ErrNoJoke)
		}
	}
	return res
}
