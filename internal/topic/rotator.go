// Package topic rotates through the fixed topic list and remembers which
// topics were used recently.
package topic

import "sync"

const (
	// HistorySize is how many accepted topics the rotator keeps.
	HistorySize = 20
	// RecentSize is how many of them are handed to the prompt.
	RecentSize = 15
)

// Rotator walks a fixed topic list round-robin.
type Rotator struct {
	mu      sync.Mutex
	topics  []string
	cursor  int
	history []string
}

// NewRotator creates a rotator over a copy of topics.
func NewRotator(topics []string) *Rotator {
	return &Rotator{
		topics:  append([]string(nil), topics...),
		history: make([]string, 0, HistorySize),
	}
}

// Next returns the topic at the cursor and advances it, wrapping at the end.
// It returns "" when the list is empty.
func (r *Rotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.topics) == 0 {
		return ""
	}
	t := r.topics[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.topics)
	return t
}

// Record appends an accepted topic, evicting the oldest past HistorySize.
func (r *Rotator) Record(t string) {
	if t == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.history) == HistorySize {
		copy(r.history, r.history[1:])
		r.history = r.history[:HistorySize-1]
	}
	r.history = append(r.history, t)
}

// Recent returns up to RecentSize of the latest recorded topics, oldest first.
func (r *Rotator) Recent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := 0
	if len(r.history) > RecentSize {
		start = len(r.history) - RecentSize
	}
	out := make([]string, len(r.history)-start)
	copy(out, r.history[start:])
	return out
}

// History returns every recorded topic, oldest first.
func (r *Rotator) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// Topics returns the rotation list.
func (r *Rotator) Topics() []string {
	return append([]string(nil), r.topics...)
}
