// Package joke holds the canonical joke record and the normalizer that turns
// provider payloads into it.
package joke

import (
	"strings"
)

// Joke is the canonical joke record shared by every source.
type Joke struct {
	Setup     string `json:"setup" yaml:"setup"`
	Punchline string `json:"punchline" yaml:"punchline"`
	Topic     string `json:"topic,omitempty" yaml:"topic,omitempty"`
}

// IsZero reports whether the joke has no setup.
func (j Joke) IsZero() bool {
	return j.Setup == ""
}

// HasPunchline reports whether the joke is a two-part joke.
func (j Joke) HasPunchline() bool {
	return j.Punchline != ""
}

// Fingerprint identifies a joke by its visible text. Case, punctuation and
// whitespace are ignored so the same joke from two sources collides.
func Fingerprint(j Joke) string {
	text := strings.ToLower(j.Setup + j.Punchline)

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
