// Package presenter paces a joke for display: setup first, punchline after a
// delay, and a mood reaction to ratings.
package presenter

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/abdulachik/giggles/internal/acquire"
)

const (
	DefaultRevealDelay = 1200 * time.Millisecond
	moodDelay          = 50 * time.Millisecond
	moodDuration       = time.Second
)

// Renderer displays driver output.
type Renderer interface {
	Loading()
	Setup(text string)
	Punchline(text string)
	Mood(m Mood)
	Error(setup, punchline string)
}

// Acquirer produces jokes. *acquire.Orchestrator satisfies it.
type Acquirer interface {
	Acquire(ctx context.Context) (acquire.Result, bool)
}

// DriverConfig holds driver dependencies.
type DriverConfig struct {
	Acquirer    Acquirer
	Renderer    Renderer
	RevealDelay time.Duration
	Clock       clockwork.Clock
}

// Driver schedules rendering. Every timer it starts can be superseded.
type Driver struct {
	acq    Acquirer
	r      Renderer
	reveal time.Duration
	clock  clockwork.Clock

	mu         sync.Mutex
	gen        int
	punchTimer clockwork.Timer
	revealDone chan struct{}
	moodGen    int
	moodTimer  clockwork.Timer
	resetTimer clockwork.Timer
}

// NewDriver creates a driver.
func NewDriver(cfg DriverConfig) *Driver {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	reveal := cfg.RevealDelay
	if reveal <= 0 {
		reveal = DefaultRevealDelay
	}
	return &Driver{
		acq:    cfg.Acquirer,
		r:      cfg.Renderer,
		reveal: reveal,
		clock:  clock,
	}
}

// Tell acquires and renders the next joke. It returns false when the
// acquisition was dropped because another one is in flight.
func (d *Driver) Tell(ctx context.Context) (acquire.Result, bool) {
	d.mu.Lock()
	d.gen++
	d.moodGen++
	d.stopReveal()
	d.stopMood()
	d.mu.Unlock()

	d.r.Loading()

	res, ok := d.acq.Acquire(ctx)
	if !ok {
		return res, false
	}

	if res.IsApology() {
		d.r.Error(res.Joke.Setup, res.Joke.Punchline)
		return res, true
	}

	d.r.Setup(res.Joke.Setup)
	if res.Joke.Punchline == "" {
		return res, true
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopReveal()
	gen := d.gen
	done := make(chan struct{})
	d.revealDone = done
	punchline := res.Joke.Punchline
	d.punchTimer = d.clock.AfterFunc(d.reveal, func() {
		d.mu.Lock()
		if d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.punchTimer = nil
		d.mu.Unlock()

		d.r.Punchline(punchline)

		d.mu.Lock()
		if d.revealDone == done {
			d.revealDone = nil
			close(done)
		}
		d.mu.Unlock()
	})
	return res, true
}

// WaitReveal blocks until the pending punchline is shown or superseded.
func (d *Driver) WaitReveal(ctx context.Context) error {
	d.mu.Lock()
	done := d.revealDone
	d.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Rate shows Giggles' reaction to a 0-100 rating after a short delay, then
// returns to neutral.
func (d *Driver) Rate(rating int) Mood {
	rating = min(max(rating, 0), 100)
	m := MoodFor(rating)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopMood()
	d.moodGen++
	gen := d.moodGen

	d.moodTimer = d.clock.AfterFunc(moodDelay, func() {
		if !d.currentMood(gen) {
			return
		}
		d.r.Mood(m)
		if m == MoodNeutral {
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.moodGen != gen {
			return
		}
		d.resetTimer = d.clock.AfterFunc(moodDuration, func() {
			if d.currentMood(gen) {
				d.r.Mood(MoodNeutral)
			}
		})
	})
	return m
}

// Stop cancels every pending timer.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.moodGen++
	d.stopReveal()
	d.stopMood()
}

func (d *Driver) currentMood(gen int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.moodGen == gen
}

// stopReveal must be called with mu held.
func (d *Driver) stopReveal() {
	if d.punchTimer != nil {
		d.punchTimer.Stop()
		d.punchTimer = nil
	}
	if d.revealDone != nil {
		close(d.revealDone)
		d.revealDone = nil
	}
}

// stopMood must be called with mu held.
func (d *Driver) stopMood() {
	if d.moodTimer != nil {
		d.moodTimer.Stop()
		d.moodTimer = nil
	}
	if d.resetTimer != nil {
		d.resetTimer.Stop()
		d.resetTimer = nil
	}
}
