package source

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/abdulachik/giggles/internal/joke"
)

// BlockedTerms keep the widget family-friendly. Terms match whole words, so
// "hell" blocks "go to hell" but not "shellfish".
var BlockedTerms = []string{
	// Explicit content
	"nsfw", "porn", "sex", "nude", "naked", "boob",

	// Crude language
	"damn", "hell", "crap", "ass", "bastard", "bitch", "shit", "fuck",

	// Violence and tragedy
	"kill", "killed", "murder", "suicide", "dead baby", "shooting", "terrorist",

	// Substances
	"drunk", "beer", "vodka", "weed", "cocaine",

	// Divisive subjects
	"trump", "biden", "religion", "jesus", "allah", "nazi", "racist",
}

// Filter rejects jokes that mention blocked terms.
type Filter struct {
	blockedTerms []string
}

// FilterConfig holds filter configuration.
type FilterConfig struct {
	AdditionalTerms []string
}

// NewFilter creates a new filter.
func NewFilter(cfg FilterConfig) *Filter {
	terms := make([]string, len(BlockedTerms))
	copy(terms, BlockedTerms)
	terms = append(terms, cfg.AdditionalTerms...)

	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		if w := words(term); strings.TrimSpace(w) != "" {
			normalized = append(normalized, w)
		}
	}

	return &Filter{blockedTerms: normalized}
}

// FilterResult contains the filter decision.
type FilterResult struct {
	Pass   bool
	Reason string
}

// Check examines a joke and returns whether it may be shown.
func (f *Filter) Check(j joke.Joke) FilterResult {
	text := words(j.Setup + " " + j.Punchline)

	for _, term := range f.blockedTerms {
		if strings.Contains(text, term) {
			return FilterResult{
				Pass:   false,
				Reason: "contains blocked term: " + strings.TrimSpace(term),
			}
		}
	}

	return FilterResult{Pass: true}
}

// words lowercases s, turns every non-alphanumeric run into one space and
// pads both ends, so Contains matches whole words only.
func words(s string) string {
	var b strings.Builder
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
		} else if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

type filtered struct {
	src    Source
	filter *Filter
}

// Filtered wraps src so that jokes failing the filter become no result.
func Filtered(src Source, f *Filter) Source {
	if f == nil {
		f = NewFilter(FilterConfig{})
	}
	return &filtered{src: src, filter: f}
}

func (s *filtered) Name() string {
	return s.src.Name()
}

func (s *filtered) Fetch(ctx context.Context, req Request) (joke.Joke, bool) {
	j, ok := s.src.Fetch(ctx, req)
	if !ok {
		return joke.Joke{}, false
	}
	if check := s.filter.Check(j); !check.Pass {
		slog.Info("joke filtered", "source", s.src.Name(), "reason", check.Reason)
		return joke.Joke{}, false
	}
	return j, true
}
