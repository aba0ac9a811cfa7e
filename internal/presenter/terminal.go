package presenter

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// TerminalRenderer writes driver output as plain text lines.
type TerminalRenderer struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// NewTerminalRenderer creates a renderer that wraps text at width runes.
func NewTerminalRenderer(w io.Writer, width int) *TerminalRenderer {
	return &TerminalRenderer{w: w, width: width}
}

func (t *TerminalRenderer) Loading() {
	t.printf("\nGiggles is thinking...\n")
}

func (t *TerminalRenderer) Setup(text string) {
	t.printf("\n%s\n", indent(Wrap(text, t.width)))
}

func (t *TerminalRenderer) Punchline(text string) {
	t.printf("\n%s\n", indent(Wrap(text, t.width)))
}

func (t *TerminalRenderer) Mood(m Mood) {
	switch m {
	case MoodHappy:
		t.printf("Giggles is laughing! (^o^)\n")
	case MoodGroan:
		t.printf("Giggles groans... (-_-)\n")
	}
}

func (t *TerminalRenderer) Error(setup, punchline string) {
	t.printf("\n%s\n", indent(setup))
	if punchline != "" {
		t.printf("%s\n", indent(punchline))
	}
}

func (t *TerminalRenderer) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, format, args...)
}

func indent(text string) string {
	return "  " + strings.ReplaceAll(text, "\n", "\n  ")
}
