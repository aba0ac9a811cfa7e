// Package acquire runs one joke acquisition at a time: primary source, dedup
// check, fallback pool.
package acquire

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/abdulachik/giggles/internal/joke"
	"github.com/abdulachik/giggles/internal/source"
)

// Apology texts shown when no joke could be produced.
const (
	StuckSetup      = "Oops! Giggles's joke book is stuck."
	BrokenSetup     = "Oh no! The joke machine is broken."
	BrokenPunchline = "Check your internet connection."
)

// FallbackSource names results that came from the fallback pool.
const FallbackSource = "fallback"

// State is the orchestrator's lifecycle state.
type State int

const (
	Idle State = iota
	Fetching
	Settling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Settling:
		return "settling"
	default:
		return "unknown"
	}
}

// Outcome says how a result was produced.
type Outcome int

const (
	// OutcomeFresh is an unseen joke from the primary source.
	OutcomeFresh Outcome = iota
	// OutcomeFallback is a joke from the bundled pool.
	OutcomeFallback
	// OutcomeRepeat is a primary joke accepted even though it was seen.
	OutcomeRepeat
	// OutcomeExhausted means nothing was available at all.
	OutcomeExhausted
	// OutcomeFailed means the acquisition was cancelled mid-fetch.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFresh:
		return "fresh"
	case OutcomeFallback:
		return "fallback"
	case OutcomeRepeat:
		return "repeat"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one acquisition.
type Result struct {
	Joke    joke.Joke
	Outcome Outcome
	Source  string
}

// IsApology reports whether the result is one of the static apology jokes.
func (r Result) IsApology() bool {
	return r.Outcome == OutcomeExhausted || r.Outcome == OutcomeFailed
}

// Ledger is the dedup state the orchestrator consults.
type Ledger interface {
	IsUsed(j joke.Joke) bool
	MarkUsed(j joke.Joke)
	PickUnusedFallback(pool []joke.Joke) (joke.Joke, bool)
}

// Rotator supplies topics for the generative source.
type Rotator interface {
	Next() string
	Recent() []string
}

// Config holds orchestrator dependencies.
type Config struct {
	Source      source.Source
	Ledger      Ledger
	Rotator     Rotator // optional
	Pool        []joke.Joke
	SettleDelay time.Duration
	Clock       clockwork.Clock
}

// Orchestrator guards acquisitions with a three-state machine. A call made
// while another is in flight is dropped, not queued.
type Orchestrator struct {
	src         source.Source
	ledger      Ledger
	rotator     Rotator
	pool        []joke.Joke
	settleDelay time.Duration
	clock       clockwork.Clock

	mu     sync.Mutex
	state  State
	served int
}

// New creates an orchestrator in the Idle state.
func New(cfg Config) *Orchestrator {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Orchestrator{
		src:         cfg.Source,
		ledger:      cfg.Ledger,
		rotator:     cfg.Rotator,
		pool:        append([]joke.Joke(nil), cfg.Pool...),
		settleDelay: cfg.SettleDelay,
		clock:       clock,
	}
}

// Acquire produces the next joke. It returns false, touching nothing, when an
// acquisition is already in progress.
func (o *Orchestrator) Acquire(ctx context.Context) (Result, bool) {
	o.mu.Lock()
	if state := o.state; state != Idle {
		o.mu.Unlock()
		slog.Debug("acquisition dropped", "state", state)
		return Result{}, false
	}
	o.state = Fetching
	o.mu.Unlock()

	defer o.setState(Idle)

	res := o.fetch(ctx)
	if res.IsApology() {
		slog.Warn("no joke available", "outcome", res.Outcome)
		return res, true
	}

	o.ledger.MarkUsed(res.Joke)

	o.mu.Lock()
	o.served++
	o.state = Settling
	o.mu.Unlock()

	slog.Debug("joke accepted", "source", res.Source, "outcome", res.Outcome)
	o.settle(ctx)
	return res, true
}

func (o *Orchestrator) fetch(ctx context.Context) Result {
	req := source.Request{Seen: o.ledger.IsUsed}
	if o.rotator != nil {
		req.Topic = o.rotator.Next()
		req.RecentTopics = o.rotator.Recent()
	}

	if j, ok := o.src.Fetch(ctx, req); ok && !o.ledger.IsUsed(j) {
		return Result{Joke: j, Outcome: OutcomeFresh, Source: o.src.Name()}
	}
	if ctx.Err() != nil {
		return failed()
	}

	if j, ok := o.ledger.PickUnusedFallback(o.pool); ok {
		return Result{Joke: j, Outcome: OutcomeFallback, Source: FallbackSource}
	}

	// Only reachable with an empty pool: settle for any joke, even a repeat.
	if j, ok := o.src.Fetch(ctx, req); ok {
		return Result{Joke: j, Outcome: OutcomeRepeat, Source: o.src.Name()}
	}
	if ctx.Err() != nil {
		return failed()
	}
	if j, ok := o.ledger.PickUnusedFallback(o.pool); ok {
		return Result{Joke: j, Outcome: OutcomeFallback, Source: FallbackSource}
	}

	return Result{Joke: joke.Joke{Setup: StuckSetup}, Outcome: OutcomeExhausted}
}

func failed() Result {
	return Result{
		Joke:    joke.Joke{Setup: BrokenSetup, Punchline: BrokenPunchline},
		Outcome: OutcomeFailed,
	}
}

func (o *Orchestrator) settle(ctx context.Context) {
	if o.settleDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-o.clock.After(o.settleDelay):
	}
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Served returns how many jokes were accepted.
func (o *Orchestrator) Served() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.served
}

// SourceName returns the primary source's name.
func (o *Orchestrator) SourceName() string {
	return o.src.Name()
}
