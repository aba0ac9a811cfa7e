package presenter

import (
	"strings"
	"unicode/utf8"

	"github.com/abdulachik/giggles/internal/joke"
)

// ShareMaxLength is the longest one-line share text.
const ShareMaxLength = 280

// Format renders a joke as text, setup and punchline separated by a blank
// line, wrapped at width runes. width <= 0 disables wrapping.
func Format(j joke.Joke, width int) string {
	parts := []string{Wrap(j.Setup, width)}
	if j.Punchline != "" {
		parts = append(parts, Wrap(j.Punchline, width))
	}
	return strings.Join(parts, "\n\n")
}

// FormatShare renders a joke on one line, truncated to fit limit.
func FormatShare(j joke.Joke, limit int) string {
	text := j.Setup
	if j.Punchline != "" {
		text += " " + j.Punchline
	}
	if FitsInLimit(text, limit) {
		return text
	}
	return Truncate(text, limit)
}

// Wrap breaks text into lines of at most width runes at word boundaries.
// Words longer than width get a line of their own.
func Wrap(text string, width int) string {
	if width <= 0 || utf8.RuneCountInString(text) <= width {
		return text
	}

	var b strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		if lineLen > 0 && lineLen+1+n > width {
			b.WriteByte('\n')
			lineLen = 0
		}
		if lineLen > 0 {
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(word)
		lineLen += n
	}
	return b.String()
}

// Truncate shortens text to at most maxLen runes, ending with "...".
func Truncate(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	available := maxLen - 3
	if available <= 0 {
		return string([]rune("...")[:max(maxLen, 0)])
	}

	truncated := string([]rune(text)[:available])

	// Find last space to avoid cutting mid-word
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimRight(truncated, " .,;:!?") + "..."
}

// FitsInLimit checks if the text fits within the limit.
func FitsInLimit(text string, limit int) bool {
	return utf8.RuneCountInString(text) <= limit
}
