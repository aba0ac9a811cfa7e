// Package ledger remembers which jokes were already shown in this process.
package ledger

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/abdulachik/giggles/internal/joke"
)

// TopicRecorder receives the topic of every joke marked as used.
type TopicRecorder interface {
	Record(topic string)
}

// Ledger is a set of joke fingerprints. It is never persisted.
type Ledger struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	recorder TopicRecorder
	rng      *rand.Rand
	resets   int
}

// New creates an empty ledger. recorder may be nil.
func New(recorder TopicRecorder) *Ledger {
	return &Ledger{
		seen:     make(map[string]struct{}),
		recorder: recorder,
	}
}

// WithRand sets the random source used by PickUnusedFallback.
func (l *Ledger) WithRand(rng *rand.Rand) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rng = rng
	return l
}

// IsUsed reports whether a joke with the same fingerprint was marked used.
func (l *Ledger) IsUsed(j joke.Joke) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[joke.Fingerprint(j)]
	return ok
}

// MarkUsed records the joke and, when it has one, its topic.
func (l *Ledger) MarkUsed(j joke.Joke) {
	l.mu.Lock()
	l.seen[joke.Fingerprint(j)] = struct{}{}
	l.mu.Unlock()

	if j.Topic != "" && l.recorder != nil {
		l.recorder.Record(j.Topic)
	}
}

// PickUnusedFallback picks a random pool entry that has not been used. When
// every entry is used the ledger is cleared and the pick is made from the
// whole pool. It returns false only for an empty pool.
func (l *Ledger) PickUnusedFallback(pool []joke.Joke) (joke.Joke, bool) {
	if len(pool) == 0 {
		return joke.Joke{}, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	unused := make([]joke.Joke, 0, len(pool))
	for _, j := range pool {
		if _, ok := l.seen[joke.Fingerprint(j)]; !ok {
			unused = append(unused, j)
		}
	}

	if len(unused) == 0 {
		clear(l.seen)
		l.resets++
		slog.Info("fallback pool exhausted, ledger cleared", "pool", len(pool), "resets", l.resets)
		unused = pool
	}

	return unused[l.intN(len(unused))], true
}

// Len returns the number of distinct jokes marked used since the last reset.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

// Reset forgets every joke.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.seen)
}

// Resets returns how many times exhaustion cleared the ledger.
func (l *Ledger) Resets() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resets
}

// intN must be called with mu held.
func (l *Ledger) intN(n int) int {
	if l.rng != nil {
		return l.rng.IntN(n)
	}
	return rand.IntN(n)
}
