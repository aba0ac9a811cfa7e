package source

import (
	"context"
	"log/slog"

	"github.com/abdulachik/giggles/internal/joke"
)

type chain struct {
	sources []Source
}

// Chain tries sources strictly in order and returns the first joke that is
// not reported by req.Seen.
func Chain(sources ...Source) Source {
	return &chain{sources: sources}
}

func (c *chain) Name() string {
	return "chain"
}

func (c *chain) Fetch(ctx context.Context, req Request) (joke.Joke, bool) {
	for _, src := range c.sources {
		if ctx.Err() != nil {
			return joke.Joke{}, false
		}

		slog.Debug("trying source", "source", src.Name())
		j, ok := src.Fetch(ctx, req)
		if !ok {
			continue
		}
		if req.Seen != nil && req.Seen(j) {
			slog.Debug("source returned a seen joke", "source", src.Name())
			continue
		}
		return j, true
	}
	return joke.Joke{}, false
}
